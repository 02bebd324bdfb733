package services

import (
	"context"

	"github.com/MouliTechHub/educare-management-x-sub000/app/models"
)

// Store is the persistence contract the ledger engines run against. The
// production implementation lives in app/database; tests substitute an
// in-memory double.
//
// Fee record listings are returned in the canonical FIFO order
// (priority_order, due_date, created_at, id). Implementations must lock rows
// in that same order when forUpdate is set, so that concurrent payments for
// one student never deadlock.
type Store interface {
	// WithTx runs fn against a transaction-scoped store. A non-nil error
	// rolls the whole transaction back.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	GetStudent(ctx context.Context, id string) (*models.Student, error)
	GetAcademicYear(ctx context.Context, id string) (*models.AcademicYear, error)

	// OutstandingFees returns unblocked, unwaived records with balance > 0.
	// academicYearID narrows to one year when non-empty.
	OutstandingFees(ctx context.Context, studentID, academicYearID string, forUpdate bool) ([]*models.FeeRecord, error)
	// ListFeeRecords returns every record for the student/year regardless of
	// balance or block state.
	ListFeeRecords(ctx context.Context, studentID, academicYearID string, forUpdate bool) ([]*models.FeeRecord, error)
	GetFeeRecord(ctx context.Context, id string, forUpdate bool) (*models.FeeRecord, error)
	InsertFeeRecord(ctx context.Context, rec *models.FeeRecord) error
	// UpdateFeeAmounts persists discount_amount, paid_amount, the restated
	// status and the waived flag.
	UpdateFeeAmounts(ctx context.Context, rec *models.FeeRecord) error
	SetPaymentBlock(ctx context.Context, feeRecordID string, blocked bool, reason *string) error

	InsertPayment(ctx context.Context, p *models.PaymentRecord) error
	InsertAllocation(ctx context.Context, a *models.PaymentAllocation) error
	// NextReceiptSeq returns the next per-student receipt sequence number.
	NextReceiptSeq(ctx context.Context, studentID string) (int, error)

	InsertCarryForward(ctx context.Context, cf *models.CarryForward) error
	GetCarryForward(ctx context.Context, id string, forUpdate bool) (*models.CarryForward, error)
	SetCarryForwardStatus(ctx context.Context, id string, status models.CarryForwardStatus) error

	InsertAuditLog(ctx context.Context, entry *models.AuditLogEntry) error
}
