package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MouliTechHub/educare-management-x-sub000/app/models"
)

func newCarryForwardFixture(t *testing.T) (*memStore, *CarryForwardService) {
	t.Helper()
	m := newMemStore()
	seedStudent(m, "s1")
	seedYear(m, "y1", "2025-2026", "2025-06-01", "2026-05-31")
	seedYear(m, "y2", "2026-2027", "2026-06-01", "2027-05-31")
	svc := NewCarryForwardService(m)
	svc.now = func() time.Time { return testNow }
	return m, svc
}

func duesRecordFor(m *memStore, cfID string) *models.FeeRecord {
	for _, rec := range m.fees {
		if rec.CarryForwardSourceID != nil && *rec.CarryForwardSourceID == cfID {
			return rec
		}
	}
	return nil
}

func TestCarryForwardCreatesDuesRecord(t *testing.T) {
	m, svc := newCarryForwardFixture(t)
	rec := seedFee(m, "f1", "s1", "y1", "Tuition", "5000", "2026-03-01", 100)
	rec.PaidAmount = dec("3500")
	seedFee(m, "next-tuition", "s1", "y2", "Tuition", "6000", "2026-10-01", 100)

	cf, err := svc.CarryForward(context.Background(), "s1", "y1", "y2", models.CarryForwardManual, "Registrar", nil)
	require.NoError(t, err)

	assert.Equal(t, models.CarryForwardApplied, cf.Status)
	assert.True(t, cf.OriginalAmount.Equal(dec("1500")))
	assert.True(t, cf.CarriedAmount.Equal(dec("1500")))

	dues := duesRecordFor(m, cf.ID)
	require.NotNil(t, dues)
	assert.Equal(t, models.PreviousYearDues, dues.FeeType)
	assert.Equal(t, "y2", dues.AcademicYearID)
	assert.True(t, dues.ActualFee.Equal(dec("1500")))
	assert.Equal(t, 0, dues.PriorityOrder)
	assert.True(t, dues.IsCarryForward)
	assert.Equal(t, "2026-06-01", dues.DueDate.Time.Format("2006-01-02"))

	// The destination year's other fees get blocked; dues stays payable.
	assert.True(t, m.fees["next-tuition"].PaymentBlocked)
	assert.False(t, dues.PaymentBlocked)
	assert.Contains(t, m.auditActions(), models.AuditCarryForward)
	assert.Contains(t, m.auditActions(), models.AuditPaymentBlocked)
}

func TestCarryForwardNothingOutstanding(t *testing.T) {
	m, svc := newCarryForwardFixture(t)
	rec := seedFee(m, "f1", "s1", "y1", "Tuition", "5000", "2026-03-01", 100)
	rec.PaidAmount = dec("5000")

	_, err := svc.CarryForward(context.Background(), "s1", "y1", "y2", models.CarryForwardManual, "Registrar", nil)
	assert.ErrorIs(t, err, ErrNoOutstandingBalance)
	assert.Empty(t, m.cfs)
}

func TestCarryForwardValidation(t *testing.T) {
	m, svc := newCarryForwardFixture(t)
	seedFee(m, "f1", "s1", "y1", "Tuition", "5000", "2026-03-01", 100)

	_, err := svc.CarryForward(context.Background(), "s1", "y1", "y1", models.CarryForwardManual, "Registrar", nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CarryForward(context.Background(), "s1", "y1", "y2", models.CarryForwardManual, "", nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CarryForward(context.Background(), "missing", "y1", "y2", models.CarryForwardManual, "Registrar", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWaiveCarryForward(t *testing.T) {
	m, svc := newCarryForwardFixture(t)
	seedFee(m, "f1", "s1", "y1", "Tuition", "2000", "2026-03-01", 100)
	seedFee(m, "next-tuition", "s1", "y2", "Tuition", "6000", "2026-10-01", 100)

	cf, err := svc.CarryForward(context.Background(), "s1", "y1", "y2", models.CarryForwardManual, "Registrar", nil)
	require.NoError(t, err)
	require.True(t, m.fees["next-tuition"].PaymentBlocked)

	waived, err := svc.Waive(context.Background(), cf.ID, "student withdrew", "Head Teacher")
	require.NoError(t, err)
	assert.Equal(t, models.CarryForwardWaived, waived.Status)

	dues := duesRecordFor(m, cf.ID)
	require.NotNil(t, dues)
	assert.True(t, dues.Waived)
	assert.True(t, dues.DiscountAmount.Equal(dues.ActualFee))
	assert.True(t, dues.Balance().IsZero())
	assert.Equal(t, models.FeeWaived, dues.Status)

	// Waiving the dues lifts the block on the rest of the year.
	assert.False(t, m.fees["next-tuition"].PaymentBlocked)
	assert.Contains(t, m.auditActions(), models.AuditCarryForwardWaived)
	assert.Contains(t, m.auditActions(), models.AuditPaymentUnblocked)

	// A second waive is a state conflict.
	_, err = svc.Waive(context.Background(), cf.ID, "again", "Head Teacher")
	assert.ErrorIs(t, err, ErrStateConflict)
}

func TestWaiveValidation(t *testing.T) {
	_, svc := newCarryForwardFixture(t)

	_, err := svc.Waive(context.Background(), "cf1", "", "Head Teacher")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Waive(context.Background(), "cf1", "reason", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Waive(context.Background(), "missing", "reason", "Head Teacher")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBulkCarryForwardIsolatesFailures(t *testing.T) {
	m, svc := newCarryForwardFixture(t)
	seedStudent(m, "s2")
	rec := seedFee(m, "f1", "s1", "y1", "Tuition", "3000", "2026-03-01", 100)
	rec.PaidAmount = dec("1000")
	settled := seedFee(m, "f2", "s2", "y1", "Tuition", "3000", "2026-03-01", 100)
	settled.PaidAmount = dec("3000")

	results := svc.BulkCarryForward(context.Background(), []string{"s1", "s2"}, "y1", "y2", "Registrar", nil)

	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	require.NotNil(t, results[0].CarryForwardID)
	assert.False(t, results[1].Success)
	assert.NotEmpty(t, results[1].Error)

	cf := m.cfs[*results[0].CarryForwardID]
	require.NotNil(t, cf)
	assert.Equal(t, models.CarryForwardBulk, cf.Type)
	assert.True(t, cf.CarriedAmount.Equal(dec("2000")))
}
