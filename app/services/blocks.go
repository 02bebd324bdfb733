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

const blockedReason = "Previous Year Dues outstanding"

// BlockService applies the payment-block policy: while a student's
// "Previous Year Dues" balance in a year is outstanding, every other fee
// record in that year is blocked from allocation. Dues records themselves
// are never blocked, so the student can always clear them.
type BlockService struct {
	store Store
	now   func() time.Time
}

func NewBlockService(store Store) *BlockService {
	return &BlockService{store: store, now: time.Now}
}

// BlockResult reports the records toggled by a refresh.
type BlockResult struct {
	Blocked   []string `json:"blocked"`
	Unblocked []string `json:"unblocked"`
}

// RefreshBlocks recomputes block flags for one student/year in its own
// transaction.
func (s *BlockService) RefreshBlocks(ctx context.Context, studentID, academicYearID, actor string) (*BlockResult, error) {
	if actor == "" {
		return nil, fmt.Errorf("%w: actor is required", ErrValidation)
	}
	if _, err := s.store.GetStudent(ctx, studentID); err != nil {
		return nil, err
	}

	result := &BlockResult{Blocked: []string{}, Unblocked: []string{}}
	err := s.store.WithTx(ctx, func(tx Store) error {
		var err error
		result, err = refreshBlocksCollect(ctx, tx, studentID, academicYearID, actor, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// refreshBlocks is the shared policy step other engines run inside their own
// transactions after touching dues records.
func refreshBlocks(ctx context.Context, tx Store, studentID, academicYearID, actor string, now time.Time) error {
	_, err := refreshBlocksCollect(ctx, tx, studentID, academicYearID, actor, now)
	return err
}

func refreshBlocksCollect(ctx context.Context, tx Store, studentID, academicYearID, actor string, now time.Time) (*BlockResult, error) {
	records, err := tx.ListFeeRecords(ctx, studentID, academicYearID, true)
	if err != nil {
		return nil, err
	}

	duesOutstanding := decimal.Zero
	for _, rec := range records {
		if rec.FeeType == models.PreviousYearDues {
			duesOutstanding = duesOutstanding.Add(rec.Balance())
		}
	}
	shouldBlock := duesOutstanding.IsPositive()

	result := &BlockResult{Blocked: []string{}, Unblocked: []string{}}
	for _, rec := range records {
		if rec.FeeType == models.PreviousYearDues {
			continue
		}

		switch {
		case shouldBlock && !rec.PaymentBlocked && rec.Balance().IsPositive():
			reason := blockedReason
			if err := tx.SetPaymentBlock(ctx, rec.ID, true, &reason); err != nil {
				return nil, err
			}
			if err := auditBlockToggle(ctx, tx, rec, true, duesOutstanding, actor, now); err != nil {
				return nil, err
			}
			result.Blocked = append(result.Blocked, rec.ID)
			metrics.BlocksToggled.Inc()

		case !shouldBlock && rec.PaymentBlocked:
			if err := tx.SetPaymentBlock(ctx, rec.ID, false, nil); err != nil {
				return nil, err
			}
			if err := auditBlockToggle(ctx, tx, rec, false, duesOutstanding, actor, now); err != nil {
				return nil, err
			}
			result.Unblocked = append(result.Unblocked, rec.ID)
			metrics.BlocksToggled.Inc()
		}
	}
	return result, nil
}

func auditBlockToggle(ctx context.Context, tx Store, rec *models.FeeRecord, blocked bool, dues decimal.Decimal, actor string, now time.Time) error {
	action := models.AuditPaymentUnblocked
	if blocked {
		action = models.AuditPaymentBlocked
	}
	recID := rec.ID
	return tx.InsertAuditLog(ctx, &models.AuditLogEntry{
		ID:          uuid.New().String(),
		StudentID:   rec.StudentID,
		FeeRecordID: &recID,
		ActionType:  action,
		OldValues:   models.Snapshot{"payment_blocked": rec.PaymentBlocked},
		NewValues:   models.Snapshot{"payment_blocked": blocked, "dues_outstanding": dues.StringFixed(2)},
		PerformedBy: actor,
		PerformedAt: now,
	})
}
