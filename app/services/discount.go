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

// DiscountRequest describes one discount application. Percentage discounts
// are resolved to an absolute amount against the record's actual fee before
// the shared validation runs.
type DiscountRequest struct {
	FeeRecordID string              `json:"fee_record_id" validate:"required,uuid"`
	Type        models.DiscountType `json:"type" validate:"required,oneof=flat percentage"`
	Amount      decimal.Decimal     `json:"amount" validate:"required"`
	Reason      string              `json:"reason" validate:"required"`
	Notes       *string             `json:"notes,omitempty"`
}

// DiscountService validates and applies discount adjustments to fee records.
type DiscountService struct {
	store Store
	now   func() time.Time
}

func NewDiscountService(store Store) *DiscountService {
	return &DiscountService{store: store, now: time.Now}
}

// ResolveDiscountAmount converts a discount request into the absolute amount
// applied to the record.
func ResolveDiscountAmount(req DiscountRequest, actualFee decimal.Decimal) decimal.Decimal {
	if req.Type == models.DiscountPercentage {
		return actualFee.Mul(req.Amount).Div(decimal.NewFromInt(100)).Round(2)
	}
	return req.Amount
}

// Apply applies a single discount atomically with its audit entry.
func (s *DiscountService) Apply(ctx context.Context, req DiscountRequest, actor string) (*models.FeeRecord, error) {
	if actor == "" {
		return nil, fmt.Errorf("%w: actor is required", ErrValidation)
	}
	if req.Reason == "" {
		return nil, fmt.Errorf("%w: discount reason is required", ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: discount amount must be positive", ErrValidation)
	}

	now := s.now()
	var updated *models.FeeRecord

	err := s.store.WithTx(ctx, func(tx Store) error {
		rec, err := tx.GetFeeRecord(ctx, req.FeeRecordID, true)
		if err != nil {
			return err
		}
		if rec.DeriveStatus(now) == models.FeeWaived {
			return fmt.Errorf("%w: fee record %s is waived", ErrStateConflict, rec.ID)
		}

		resolved := ResolveDiscountAmount(req, rec.ActualFee)
		headroom := rec.ActualFee.Sub(rec.DiscountAmount)
		if !resolved.IsPositive() || resolved.GreaterThan(headroom) {
			return &InvalidDiscountError{FeeRecordID: rec.ID, Attempted: resolved, Headroom: headroom}
		}

		oldDiscount := rec.DiscountAmount
		rec.DiscountAmount = rec.DiscountAmount.Add(resolved)
		rec.Restate(now)
		if err := tx.UpdateFeeAmounts(ctx, rec); err != nil {
			return err
		}

		recID := rec.ID
		entry := &models.AuditLogEntry{
			ID:          uuid.New().String(),
			StudentID:   rec.StudentID,
			FeeRecordID: &recID,
			ActionType:  models.AuditDiscountApplied,
			OldValues: models.Snapshot{
				"discount_amount": oldDiscount.StringFixed(2),
				"balance":         rec.ActualFee.Sub(oldDiscount).Sub(rec.PaidAmount).StringFixed(2),
			},
			NewValues: models.Snapshot{
				"discount_amount": rec.DiscountAmount.StringFixed(2),
				"balance":         rec.Balance().StringFixed(2),
				"reason":          req.Reason,
			},
			AmountAffected: resolved,
			PerformedBy:    actor,
			PerformedAt:    now,
			Notes:          req.Notes,
		}
		if err := tx.InsertAuditLog(ctx, entry); err != nil {
			return err
		}

		updated = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.DiscountsApplied.Inc()
	return updated, nil
}

// BulkDiscountResult reports the outcome of one record in a bulk batch.
type BulkDiscountResult struct {
	FeeRecordID string `json:"fee_record_id"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
}

// BulkApply applies the same validation per record. Each application is
// atomic with its own audit entry; failures are isolated, never fatal to
// the batch.
func (s *DiscountService) BulkApply(ctx context.Context, reqs []DiscountRequest, actor string) []BulkDiscountResult {
	results := make([]BulkDiscountResult, 0, len(reqs))
	for _, req := range reqs {
		res := BulkDiscountResult{FeeRecordID: req.FeeRecordID, Success: true}
		if _, err := s.Apply(ctx, req, actor); err != nil {
			res.Success = false
			res.Error = err.Error()
		}
		results = append(results, res)
	}
	return results
}
