package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MouliTechHub/educare-management-x-sub000/app/models"
)

func newFeeFixture(t *testing.T) (*memStore, *FeeService) {
	t.Helper()
	m := newMemStore()
	seedStudent(m, "s1")
	seedYear(m, "y1", "2026-2027", "2026-06-01", "2027-05-31")
	svc := NewFeeService(m)
	svc.now = func() time.Time { return testNow }
	return m, svc
}

func TestAssignFee(t *testing.T) {
	m, svc := newFeeFixture(t)

	rec, err := svc.AssignFee(context.Background(), FeeAssignment{
		StudentID:      "s1",
		AcademicYearID: "y1",
		FeeType:        "Tuition",
		ActualFee:      dec("5000"),
		DueDate:        date("2026-10-01"),
	}, "Registrar")
	require.NoError(t, err)

	assert.Equal(t, 100, rec.PriorityOrder)
	assert.Equal(t, models.FeePending, rec.Status)
	assert.True(t, rec.Balance().Equal(dec("5000")))

	stored, err := m.GetFeeRecord(context.Background(), rec.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "Tuition", stored.FeeType)

	require.Len(t, m.audit, 1)
	assert.Equal(t, models.AuditFeeAssigned, m.audit[0].ActionType)
	assert.True(t, m.audit[0].AmountAffected.Equal(dec("5000")))
}

func TestAssignFeeValidation(t *testing.T) {
	_, svc := newFeeFixture(t)

	base := FeeAssignment{
		StudentID:      "s1",
		AcademicYearID: "y1",
		FeeType:        "Tuition",
		ActualFee:      dec("5000"),
		DueDate:        date("2026-10-01"),
	}

	_, err := svc.AssignFee(context.Background(), base, "")
	assert.ErrorIs(t, err, ErrValidation)

	zero := base
	zero.ActualFee = dec("0")
	_, err = svc.AssignFee(context.Background(), zero, "Registrar")
	assert.ErrorIs(t, err, ErrValidation)

	noType := base
	noType.FeeType = ""
	_, err = svc.AssignFee(context.Background(), noType, "Registrar")
	assert.ErrorIs(t, err, ErrValidation)

	badYear := base
	badYear.AcademicYearID = "missing"
	_, err = svc.AssignFee(context.Background(), badYear, "Registrar")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOutstandingCanonicalOrder(t *testing.T) {
	m, svc := newFeeFixture(t)
	seedFee(m, "library", "s1", "y1", "Library", "1000", "2026-11-01", 100)
	seedFee(m, "tuition", "s1", "y1", "Tuition", "5000", "2026-10-01", 100)
	seedFee(m, "dues", "s1", "y1", models.PreviousYearDues, "2000", "2026-06-01", 0)
	paid := seedFee(m, "paid", "s1", "y1", "Uniform", "300", "2026-07-01", 100)
	paid.PaidAmount = dec("300")

	records, err := svc.Outstanding(context.Background(), "s1", "y1")
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, "dues", records[0].ID)
	assert.Equal(t, "tuition", records[1].ID)
	assert.Equal(t, "library", records[2].ID)
}
