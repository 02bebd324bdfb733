package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MouliTechHub/educare-management-x-sub000/app/models"
)

// FeeAssignment describes a new obligation for a student in a year.
type FeeAssignment struct {
	StudentID      string            `json:"student_id" validate:"required,uuid"`
	AcademicYearID string            `json:"academic_year_id" validate:"required,uuid"`
	FeeType        string            `json:"fee_type" validate:"required"`
	ActualFee      decimal.Decimal   `json:"actual_fee" validate:"required"`
	DueDate        models.CustomTime `json:"due_date" validate:"required"`
	PriorityOrder  int               `json:"priority_order"`
}

// FeeService creates fee records and serves the ledger's read contract.
type FeeService struct {
	store Store
	now   func() time.Time
}

func NewFeeService(store Store) *FeeService {
	return &FeeService{store: store, now: time.Now}
}

// AssignFee creates a fee record for a student, with its audit entry in the
// same transaction.
func (s *FeeService) AssignFee(ctx context.Context, req FeeAssignment, actor string) (*models.FeeRecord, error) {
	if actor == "" {
		return nil, fmt.Errorf("%w: actor is required", ErrValidation)
	}
	if !req.ActualFee.IsPositive() {
		return nil, fmt.Errorf("%w: actual fee must be positive", ErrValidation)
	}
	if req.FeeType == "" {
		return nil, fmt.Errorf("%w: fee type is required", ErrValidation)
	}
	if req.DueDate.Time.IsZero() {
		return nil, fmt.Errorf("%w: due date is required", ErrValidation)
	}
	if _, err := s.store.GetStudent(ctx, req.StudentID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetAcademicYear(ctx, req.AcademicYearID); err != nil {
		return nil, err
	}

	now := s.now()
	priority := req.PriorityOrder
	if priority == 0 {
		priority = 100
	}

	rec := &models.FeeRecord{
		ID:             uuid.New().String(),
		StudentID:      req.StudentID,
		AcademicYearID: req.AcademicYearID,
		FeeType:        req.FeeType,
		ActualFee:      req.ActualFee,
		DiscountAmount: decimal.Zero,
		PaidAmount:     decimal.Zero,
		DueDate:        req.DueDate,
		PriorityOrder:  priority,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	rec.Restate(now)

	err := s.store.WithTx(ctx, func(tx Store) error {
		if err := tx.InsertFeeRecord(ctx, rec); err != nil {
			return err
		}
		recID := rec.ID
		return tx.InsertAuditLog(ctx, &models.AuditLogEntry{
			ID:          uuid.New().String(),
			StudentID:   rec.StudentID,
			FeeRecordID: &recID,
			ActionType:  models.AuditFeeAssigned,
			NewValues: models.Snapshot{
				"fee_type":   rec.FeeType,
				"actual_fee": rec.ActualFee.StringFixed(2),
				"due_date":   rec.DueDate.Time.Format("2006-01-02"),
			},
			AmountAffected: rec.ActualFee,
			PerformedBy:    actor,
			PerformedAt:    now,
		})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Outstanding returns the student's unblocked records with balance due, in
// the canonical FIFO order.
func (s *FeeService) Outstanding(ctx context.Context, studentID, academicYearID string) ([]*models.FeeRecord, error) {
	if _, err := s.store.GetStudent(ctx, studentID); err != nil {
		return nil, err
	}
	return s.store.OutstandingFees(ctx, studentID, academicYearID, false)
}
