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

// Carry-forward dues are collected before anything else, so the new record
// sorts ahead of ordinary fees in the FIFO walk.
const duesPriorityOrder = 0

// CarryForwardService converts unresolved balances into "Previous Year
// Dues" obligations in a destination academic year.
type CarryForwardService struct {
	store Store
	now   func() time.Time
}

func NewCarryForwardService(store Store) *CarryForwardService {
	return &CarryForwardService{store: store, now: time.Now}
}

// CarryForward moves a student's outstanding balance from one year into a
// new dues record in another. Fails with ErrNoOutstandingBalance when the
// source year is fully settled.
func (s *CarryForwardService) CarryForward(ctx context.Context, studentID, fromYearID, toYearID string, cfType models.CarryForwardType, actor string, notes *string) (*models.CarryForward, error) {
	if actor == "" {
		return nil, fmt.Errorf("%w: actor is required", ErrValidation)
	}
	if fromYearID == toYearID {
		return nil, fmt.Errorf("%w: source and destination year must differ", ErrValidation)
	}
	if _, err := s.store.GetStudent(ctx, studentID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetAcademicYear(ctx, fromYearID); err != nil {
		return nil, err
	}
	toYear, err := s.store.GetAcademicYear(ctx, toYearID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var cf *models.CarryForward

	err = s.store.WithTx(ctx, func(tx Store) error {
		sourceRecords, err := tx.ListFeeRecords(ctx, studentID, fromYearID, true)
		if err != nil {
			return err
		}

		outstanding := decimal.Zero
		for _, rec := range sourceRecords {
			outstanding = outstanding.Add(rec.Balance())
		}
		if !outstanding.IsPositive() {
			return ErrNoOutstandingBalance
		}

		cf = &models.CarryForward{
			ID:                 uuid.New().String(),
			StudentID:          studentID,
			FromAcademicYearID: fromYearID,
			ToAcademicYearID:   toYearID,
			OriginalAmount:     outstanding,
			CarriedAmount:      outstanding,
			Type:               cfType,
			Status:             models.CarryForwardPending,
			CreatedBy:          actor,
			Notes:              notes,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := tx.InsertCarryForward(ctx, cf); err != nil {
			return err
		}

		cfID := cf.ID
		dues := &models.FeeRecord{
			ID:                   uuid.New().String(),
			StudentID:            studentID,
			AcademicYearID:       toYearID,
			FeeType:              models.PreviousYearDues,
			ActualFee:            outstanding,
			DiscountAmount:       decimal.Zero,
			PaidAmount:           decimal.Zero,
			DueDate:              toYear.StartDate,
			PriorityOrder:        duesPriorityOrder,
			Status:               models.FeePending,
			IsCarryForward:       true,
			CarryForwardSourceID: &cfID,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if err := tx.InsertFeeRecord(ctx, dues); err != nil {
			return err
		}

		if err := tx.SetCarryForwardStatus(ctx, cf.ID, models.CarryForwardApplied); err != nil {
			return err
		}
		cf.Status = models.CarryForwardApplied

		duesID := dues.ID
		entry := &models.AuditLogEntry{
			ID:          uuid.New().String(),
			StudentID:   studentID,
			FeeRecordID: &duesID,
			ActionType:  models.AuditCarryForward,
			OldValues: models.Snapshot{
				"from_academic_year_id": fromYearID,
				"outstanding":           outstanding.StringFixed(2),
			},
			NewValues: models.Snapshot{
				"to_academic_year_id": toYearID,
				"fee_type":            models.PreviousYearDues,
				"actual_fee":          outstanding.StringFixed(2),
			},
			AmountAffected: outstanding,
			PerformedBy:    actor,
			PerformedAt:    now,
			Notes:          notes,
		}
		if err := tx.InsertAuditLog(ctx, entry); err != nil {
			return err
		}

		// The new dues record blocks the destination year's other fees.
		return refreshBlocks(ctx, tx, studentID, toYearID, actor, now)
	})
	if err != nil {
		return nil, err
	}

	metrics.CarryForwardsApplied.Inc()
	return cf, nil
}

// Waive forgives a carried-forward balance: the linked dues record is
// discounted down to zero and the carry-forward becomes terminal. A second
// waive fails with ErrStateConflict.
func (s *CarryForwardService) Waive(ctx context.Context, carryForwardID, reason, actor string) (*models.CarryForward, error) {
	if actor == "" {
		return nil, fmt.Errorf("%w: actor is required", ErrValidation)
	}
	if reason == "" {
		return nil, fmt.Errorf("%w: waiver reason is required", ErrValidation)
	}

	now := s.now()
	var cf *models.CarryForward

	err := s.store.WithTx(ctx, func(tx Store) error {
		var err error
		cf, err = tx.GetCarryForward(ctx, carryForwardID, true)
		if err != nil {
			return err
		}
		if cf.Status == models.CarryForwardWaived {
			return fmt.Errorf("%w: carry-forward %s is already waived", ErrStateConflict, cf.ID)
		}

		records, err := tx.ListFeeRecords(ctx, cf.StudentID, cf.ToAcademicYearID, true)
		if err != nil {
			return err
		}
		var dues *models.FeeRecord
		for _, rec := range records {
			if rec.CarryForwardSourceID != nil && *rec.CarryForwardSourceID == cf.ID {
				dues = rec
				break
			}
		}
		if dues == nil {
			return fmt.Errorf("%w: fee record for carry-forward %s", ErrNotFound, cf.ID)
		}

		oldDiscount := dues.DiscountAmount
		dues.DiscountAmount = dues.ActualFee
		dues.Waived = true
		dues.Restate(now)
		if err := tx.UpdateFeeAmounts(ctx, dues); err != nil {
			return err
		}

		if err := tx.SetCarryForwardStatus(ctx, cf.ID, models.CarryForwardWaived); err != nil {
			return err
		}
		cf.Status = models.CarryForwardWaived

		duesID := dues.ID
		entry := &models.AuditLogEntry{
			ID:          uuid.New().String(),
			StudentID:   cf.StudentID,
			FeeRecordID: &duesID,
			ActionType:  models.AuditCarryForwardWaived,
			OldValues: models.Snapshot{
				"discount_amount": oldDiscount.StringFixed(2),
				"status":          models.CarryForwardApplied,
			},
			NewValues: models.Snapshot{
				"discount_amount": dues.DiscountAmount.StringFixed(2),
				"status":          models.CarryForwardWaived,
				"reason":          reason,
			},
			AmountAffected: dues.ActualFee,
			PerformedBy:    actor,
			PerformedAt:    now,
		}
		if err := tx.InsertAuditLog(ctx, entry); err != nil {
			return err
		}

		// Waiving the dues may lift blocks on the rest of the year.
		return refreshBlocks(ctx, tx, cf.StudentID, cf.ToAcademicYearID, actor, now)
	})
	if err != nil {
		return nil, err
	}
	return cf, nil
}

// BulkCarryForwardResult reports one student's outcome in a bulk run.
type BulkCarryForwardResult struct {
	StudentID      string  `json:"student_id"`
	Success        bool    `json:"success"`
	CarryForwardID *string `json:"carry_forward_id,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// BulkCarryForward runs the single-student operation per id. Failures are
// isolated, not fatal to the batch.
func (s *CarryForwardService) BulkCarryForward(ctx context.Context, studentIDs []string, fromYearID, toYearID, actor string, notes *string) []BulkCarryForwardResult {
	results := make([]BulkCarryForwardResult, 0, len(studentIDs))
	for _, studentID := range studentIDs {
		res := BulkCarryForwardResult{StudentID: studentID, Success: true}
		cf, err := s.CarryForward(ctx, studentID, fromYearID, toYearID, models.CarryForwardBulk, actor, notes)
		if err != nil {
			res.Success = false
			res.Error = err.Error()
		} else {
			res.CarryForwardID = &cf.ID
		}
		results = append(results, res)
	}
	return results
}
