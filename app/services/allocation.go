package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MouliTechHub/educare-management-x-sub000/app/metrics"
	"github.com/MouliTechHub/educare-management-x-sub000/app/models"
)

// AllocationLine describes one step of a FIFO allocation walk.
type AllocationLine struct {
	FeeRecordID     string          `json:"fee_record_id"`
	FeeType         string          `json:"fee_type"`
	BalanceBefore   decimal.Decimal `json:"balance_before"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
}

// AllocationPlan is the result of walking the outstanding list with a
// payment amount.
type AllocationPlan struct {
	Allocations     []AllocationLine `json:"allocations"`
	TotalAllocated  decimal.Decimal  `json:"total_allocated"`
	RemainingAmount decimal.Decimal  `json:"remaining_amount"`
}

// BuildAllocationPlan walks records in the order given, assigning
// min(remaining, balance) to each until the amount or the list is exhausted.
// Callers pass the canonical FIFO-ordered outstanding list; blocked records
// must already be excluded. Pure function, no side effects.
func BuildAllocationPlan(records []*models.FeeRecord, amount decimal.Decimal) AllocationPlan {
	plan := AllocationPlan{
		Allocations:     make([]AllocationLine, 0, len(records)),
		TotalAllocated:  decimal.Zero,
		RemainingAmount: amount,
	}

	for _, rec := range records {
		if !plan.RemainingAmount.IsPositive() {
			break
		}
		balance := rec.Balance()
		if !balance.IsPositive() {
			continue
		}

		allocated := decimal.Min(plan.RemainingAmount, balance)
		plan.Allocations = append(plan.Allocations, AllocationLine{
			FeeRecordID:     rec.ID,
			FeeType:         rec.FeeType,
			BalanceBefore:   balance,
			AllocatedAmount: allocated,
			BalanceAfter:    balance.Sub(allocated),
		})
		plan.TotalAllocated = plan.TotalAllocated.Add(allocated)
		plan.RemainingAmount = plan.RemainingAmount.Sub(allocated)
	}

	return plan
}

// PaymentMeta carries the caller-supplied fields of a payment record.
type PaymentMeta struct {
	AcademicYearID string
	PaymentDate    models.CustomTime
	PaymentTime    string
	Method         string
	LateFee        decimal.Decimal
	Receiver       string
	Notes          *string
}

// PaymentService allocates incoming payments across outstanding fee records
// in FIFO order and persists the result atomically.
type PaymentService struct {
	store Store
	now   func() time.Time
}

func NewPaymentService(store Store) *PaymentService {
	return &PaymentService{store: store, now: time.Now}
}

// Simulate computes the allocation plan for a hypothetical payment without
// writing anything. Repeated calls with no intervening mutation return
// identical plans.
func (s *PaymentService) Simulate(ctx context.Context, studentID string, amount decimal.Decimal, academicYearID string) (*AllocationPlan, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrValidation)
	}
	if _, err := s.store.GetStudent(ctx, studentID); err != nil {
		return nil, err
	}

	records, err := s.store.OutstandingFees(ctx, studentID, academicYearID, false)
	if err != nil {
		return nil, err
	}
	plan := BuildAllocationPlan(records, amount)
	return &plan, nil
}

// Commit records a payment. The plan is always recomputed from balances read
// under row locks acquired in the canonical FIFO order; any simulation the
// caller ran beforehand is advisory only. A payment larger than the total
// outstanding balance is rejected atomically with AllocationOverflowError.
func (s *PaymentService) Commit(ctx context.Context, studentID string, amount decimal.Decimal, meta PaymentMeta) (*models.PaymentRecord, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrValidation)
	}
	if meta.Receiver == "" {
		return nil, fmt.Errorf("%w: receiver is required", ErrValidation)
	}
	if meta.LateFee.IsNegative() {
		return nil, fmt.Errorf("%w: late fee cannot be negative", ErrValidation)
	}
	if _, err := s.store.GetStudent(ctx, studentID); err != nil {
		return nil, err
	}

	now := s.now()
	var payment *models.PaymentRecord

	err := s.store.WithTx(ctx, func(tx Store) error {
		records, err := tx.OutstandingFees(ctx, studentID, meta.AcademicYearID, true)
		if err != nil {
			return err
		}

		plan := BuildAllocationPlan(records, amount)
		if plan.RemainingAmount.IsPositive() {
			metrics.OverflowRejected.Inc()
			return &AllocationOverflowError{
				StudentID:   studentID,
				Attempted:   amount,
				Outstanding: plan.TotalAllocated,
			}
		}

		seq, err := tx.NextReceiptSeq(ctx, studentID)
		if err != nil {
			return err
		}

		paymentDate := meta.PaymentDate
		if paymentDate.Time.IsZero() {
			paymentDate = models.CustomTime{Time: now}
		}
		paymentTime := meta.PaymentTime
		if paymentTime == "" {
			paymentTime = now.Format("15:04:05")
		}

		payment = &models.PaymentRecord{
			ID:            uuid.New().String(),
			StudentID:     studentID,
			AmountPaid:    amount,
			PaymentDate:   paymentDate,
			PaymentTime:   paymentTime,
			PaymentMethod: meta.Method,
			LateFee:       meta.LateFee,
			ReceiptNumber: fmt.Sprintf("RCP-%06d", seq),
			Receiver:      meta.Receiver,
			Notes:         meta.Notes,
			CreatedAt:     now,
		}
		if err := tx.InsertPayment(ctx, payment); err != nil {
			return err
		}

		byID := make(map[string]*models.FeeRecord, len(records))
		for _, rec := range records {
			byID[rec.ID] = rec
		}
		touchedYears := make(map[string]struct{})

		for i, line := range plan.Allocations {
			rec := byID[line.FeeRecordID]
			rec.PaidAmount = rec.PaidAmount.Add(line.AllocatedAmount)
			// The invariant the lock exists to protect.
			if rec.PaidAmount.GreaterThan(rec.PayableHeadroom()) {
				return fmt.Errorf("allocation would overpay fee record %s", rec.ID)
			}
			rec.Restate(now)
			if err := tx.UpdateFeeAmounts(ctx, rec); err != nil {
				return err
			}

			alloc := &models.PaymentAllocation{
				ID:              uuid.New().String(),
				PaymentRecordID: payment.ID,
				FeeRecordID:     rec.ID,
				AllocatedAmount: line.AllocatedAmount,
				AllocationOrder: i + 1,
				CreatedAt:       now,
			}
			if err := tx.InsertAllocation(ctx, alloc); err != nil {
				return err
			}
			touchedYears[rec.AcademicYearID] = struct{}{}
		}

		entry := &models.AuditLogEntry{
			ID:         uuid.New().String(),
			StudentID:  studentID,
			ActionType: models.AuditPaymentRecorded,
			OldValues:  models.Snapshot{"outstanding": plan.outstandingBefore().StringFixed(2)},
			NewValues: models.Snapshot{
				"outstanding": plan.outstandingAfter().StringFixed(2),
				"allocations": len(plan.Allocations),
			},
			AmountAffected:  amount,
			PerformedBy:     meta.Receiver,
			PerformedAt:     now,
			ReferenceNumber: &payment.ReceiptNumber,
		}
		if err := tx.InsertAuditLog(ctx, entry); err != nil {
			return err
		}

		// Settling previous-year dues lifts blocks in the same transaction.
		for yearID := range touchedYears {
			if err := refreshBlocks(ctx, tx, studentID, yearID, meta.Receiver, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.PaymentsRecorded.Inc()
	return payment, nil
}

func (p AllocationPlan) outstandingBefore() decimal.Decimal {
	total := decimal.Zero
	for _, line := range p.Allocations {
		total = total.Add(line.BalanceBefore)
	}
	return total
}

func (p AllocationPlan) outstandingAfter() decimal.Decimal {
	total := decimal.Zero
	for _, line := range p.Allocations {
		total = total.Add(line.BalanceAfter)
	}
	return total
}
