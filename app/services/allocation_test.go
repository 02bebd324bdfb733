package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MouliTechHub/educare-management-x-sub000/app/models"
)

func newPaymentFixture(t *testing.T) (*memStore, *PaymentService) {
	t.Helper()
	m := newMemStore()
	svc := NewPaymentService(m)
	svc.now = func() time.Time { return testNow }
	return m, svc
}

func TestBuildAllocationPlanWalksInOrder(t *testing.T) {
	tuition := &models.FeeRecord{ID: "f1", FeeType: "Tuition", ActualFee: dec("5000")}
	library := &models.FeeRecord{ID: "f2", FeeType: "Library", ActualFee: dec("1000")}

	plan := BuildAllocationPlan([]*models.FeeRecord{tuition, library}, dec("5500"))

	require.Len(t, plan.Allocations, 2)
	assert.Equal(t, "f1", plan.Allocations[0].FeeRecordID)
	assert.True(t, plan.Allocations[0].AllocatedAmount.Equal(dec("5000")))
	assert.Equal(t, "f2", plan.Allocations[1].FeeRecordID)
	assert.True(t, plan.Allocations[1].AllocatedAmount.Equal(dec("500")))
	assert.True(t, plan.TotalAllocated.Equal(dec("5500")))
	assert.True(t, plan.RemainingAmount.IsZero())
	assert.True(t, plan.Allocations[1].BalanceAfter.Equal(dec("500")))
}

func TestBuildAllocationPlanSkipsSettledRecords(t *testing.T) {
	settled := &models.FeeRecord{ID: "f1", ActualFee: dec("1000"), PaidAmount: dec("1000")}
	open := &models.FeeRecord{ID: "f2", ActualFee: dec("400")}

	plan := BuildAllocationPlan([]*models.FeeRecord{settled, open}, dec("300"))

	require.Len(t, plan.Allocations, 1)
	assert.Equal(t, "f2", plan.Allocations[0].FeeRecordID)
	assert.True(t, plan.TotalAllocated.Equal(dec("300")))
}

func TestSimulateIsRepeatable(t *testing.T) {
	m, svc := newPaymentFixture(t)
	seedStudent(m, "s1")
	seedYear(m, "y1", "2026-2027", "2026-06-01", "2027-05-31")
	seedFee(m, "f1", "s1", "y1", "Tuition", "5000", "2026-10-01", 100)
	seedFee(m, "f2", "s1", "y1", "Library", "1000", "2026-11-01", 100)

	first, err := svc.Simulate(context.Background(), "s1", dec("4000"), "")
	require.NoError(t, err)
	second, err := svc.Simulate(context.Background(), "s1", dec("4000"), "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first.Allocations, 1)
	assert.Equal(t, "f1", first.Allocations[0].FeeRecordID)
	assert.True(t, first.Allocations[0].AllocatedAmount.Equal(dec("4000")))

	// Advisory only: nothing was written.
	assert.True(t, m.fees["f1"].PaidAmount.IsZero())
	assert.Empty(t, m.payments)
}

func TestSimulateRejectsNonPositiveAmount(t *testing.T) {
	m, svc := newPaymentFixture(t)
	seedStudent(m, "s1")

	_, err := svc.Simulate(context.Background(), "s1", decimal.Zero, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCommitPartialPayment(t *testing.T) {
	m, svc := newPaymentFixture(t)
	seedStudent(m, "s1")
	seedYear(m, "y1", "2026-2027", "2026-06-01", "2027-05-31")
	seedFee(m, "f1", "s1", "y1", "Tuition", "5000", "2026-10-01", 100)
	seedFee(m, "f2", "s1", "y1", "Library", "1000", "2026-11-01", 100)

	payment, err := svc.Commit(context.Background(), "s1", dec("4000"), PaymentMeta{
		Method:   "cash",
		Receiver: "A. Clerk",
	})
	require.NoError(t, err)

	assert.Equal(t, "RCP-000001", payment.ReceiptNumber)
	assert.True(t, payment.AmountPaid.Equal(dec("4000")))

	tuition := m.fees["f1"]
	assert.True(t, tuition.PaidAmount.Equal(dec("4000")))
	assert.True(t, tuition.Balance().Equal(dec("1000")))
	assert.Equal(t, models.FeePartial, tuition.Status)

	library := m.fees["f2"]
	assert.True(t, library.PaidAmount.IsZero())
	assert.Equal(t, models.FeePending, library.Status)

	require.Len(t, m.allocs, 1)
	assert.Equal(t, "f1", m.allocs[0].FeeRecordID)
	assert.Equal(t, 1, m.allocs[0].AllocationOrder)
	assert.Contains(t, m.auditActions(), models.AuditPaymentRecorded)
}

func TestCommitSettlesEverything(t *testing.T) {
	m, svc := newPaymentFixture(t)
	seedStudent(m, "s1")
	seedYear(m, "y1", "2026-2027", "2026-06-01", "2027-05-31")
	seedFee(m, "f1", "s1", "y1", "Tuition", "5000", "2026-10-01", 100)
	seedFee(m, "f2", "s1", "y1", "Library", "1000", "2026-11-01", 100)

	payment, err := svc.Commit(context.Background(), "s1", dec("6000"), PaymentMeta{
		Method:   "bank",
		Receiver: "A. Clerk",
	})
	require.NoError(t, err)

	assert.Equal(t, models.FeePaid, m.fees["f1"].Status)
	assert.Equal(t, models.FeePaid, m.fees["f2"].Status)
	assert.True(t, m.fees["f1"].Balance().IsZero())
	assert.True(t, m.fees["f2"].Balance().IsZero())

	// Sum of allocations equals the amount paid, in FIFO order.
	require.Len(t, m.allocs, 2)
	total := decimal.Zero
	for i, alloc := range m.allocs {
		assert.Equal(t, i+1, alloc.AllocationOrder)
		assert.Equal(t, payment.ID, alloc.PaymentRecordID)
		total = total.Add(alloc.AllocatedAmount)
	}
	assert.True(t, total.Equal(payment.AmountPaid))
}

func TestCommitRejectsOverflowAtomically(t *testing.T) {
	m, svc := newPaymentFixture(t)
	seedStudent(m, "s1")
	seedYear(m, "y1", "2026-2027", "2026-06-01", "2027-05-31")
	seedFee(m, "f1", "s1", "y1", "Tuition", "5000", "2026-10-01", 100)
	seedFee(m, "f2", "s1", "y1", "Library", "1000", "2026-11-01", 100)

	_, err := svc.Commit(context.Background(), "s1", dec("7000"), PaymentMeta{
		Method:   "cash",
		Receiver: "A. Clerk",
	})

	var overflow *AllocationOverflowError
	require.ErrorAs(t, err, &overflow)
	assert.True(t, overflow.Attempted.Equal(dec("7000")))
	assert.True(t, overflow.Outstanding.Equal(dec("6000")))

	// Nothing written.
	assert.Empty(t, m.payments)
	assert.Empty(t, m.allocs)
	assert.Empty(t, m.audit)
	assert.True(t, m.fees["f1"].PaidAmount.IsZero())
	assert.True(t, m.fees["f2"].PaidAmount.IsZero())
}

func TestCommitPaysDuesFirstAndSkipsBlocked(t *testing.T) {
	m, svc := newPaymentFixture(t)
	seedStudent(m, "s1")
	seedYear(m, "y2", "2027-2028", "2027-06-01", "2028-05-31")
	seedFee(m, "dues", "s1", "y2", models.PreviousYearDues, "2000", "2027-06-01", 0)
	tuition := seedFee(m, "tuition", "s1", "y2", "Tuition", "3000", "2027-10-01", 100)
	reason := "Previous Year Dues outstanding"
	tuition.PaymentBlocked = true
	tuition.BlockedReason = &reason

	// A partial payment can only touch the dues record.
	plan, err := svc.Simulate(context.Background(), "s1", dec("500"), "y2")
	require.NoError(t, err)
	require.Len(t, plan.Allocations, 1)
	assert.Equal(t, "dues", plan.Allocations[0].FeeRecordID)

	// Clearing the dues lifts the block in the same commit.
	_, err = svc.Commit(context.Background(), "s1", dec("2000"), PaymentMeta{
		AcademicYearID: "y2",
		Method:         "cash",
		Receiver:       "A. Clerk",
	})
	require.NoError(t, err)

	assert.Equal(t, models.FeePaid, m.fees["dues"].Status)
	assert.False(t, m.fees["tuition"].PaymentBlocked)
	assert.Nil(t, m.fees["tuition"].BlockedReason)
	assert.Contains(t, m.auditActions(), models.AuditPaymentUnblocked)
}

func TestCommitReceiptSequencePerStudent(t *testing.T) {
	m, svc := newPaymentFixture(t)
	seedStudent(m, "s1")
	seedYear(m, "y1", "2026-2027", "2026-06-01", "2027-05-31")
	seedFee(m, "f1", "s1", "y1", "Tuition", "5000", "2026-10-01", 100)

	first, err := svc.Commit(context.Background(), "s1", dec("1000"), PaymentMeta{Method: "cash", Receiver: "A. Clerk"})
	require.NoError(t, err)
	second, err := svc.Commit(context.Background(), "s1", dec("1000"), PaymentMeta{Method: "cash", Receiver: "A. Clerk"})
	require.NoError(t, err)

	assert.Equal(t, "RCP-000001", first.ReceiptNumber)
	assert.Equal(t, "RCP-000002", second.ReceiptNumber)
}

func TestCommitValidation(t *testing.T) {
	m, svc := newPaymentFixture(t)
	seedStudent(m, "s1")

	_, err := svc.Commit(context.Background(), "s1", dec("-10"), PaymentMeta{Receiver: "A. Clerk"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Commit(context.Background(), "s1", dec("10"), PaymentMeta{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Commit(context.Background(), "s1", dec("10"), PaymentMeta{Receiver: "A. Clerk", LateFee: dec("-1")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Commit(context.Background(), "missing", dec("10"), PaymentMeta{Receiver: "A. Clerk"})
	assert.True(t, errors.Is(err, ErrNotFound))
}
