package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MouliTechHub/educare-management-x-sub000/app/models"
)

// canonicalFeeOrder is the single FIFO key every consumer shares. Row locks
// are acquired in this order too, so concurrent payments for one student
// cannot deadlock.
const canonicalFeeOrder = "ORDER BY priority_order ASC, due_date ASC, created_at ASC, id ASC"

const feeColumns = `id, student_id, academic_year_id, fee_type, actual_fee, discount_amount,
	paid_amount, due_date, priority_order, status, waived, payment_blocked, blocked_reason,
	is_carry_forward, carry_forward_source_id, created_at, updated_at`

func scanFeeRecord(row interface{ Scan(...interface{}) error }) (*models.FeeRecord, error) {
	var rec models.FeeRecord
	err := row.Scan(
		&rec.ID, &rec.StudentID, &rec.AcademicYearID, &rec.FeeType, &rec.ActualFee,
		&rec.DiscountAmount, &rec.PaidAmount, &rec.DueDate, &rec.PriorityOrder,
		&rec.Status, &rec.Waived, &rec.PaymentBlocked, &rec.BlockedReason,
		&rec.IsCarryForward, &rec.CarryForwardSourceID, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) queryFeeRecords(ctx context.Context, query string, args ...interface{}) ([]*models.FeeRecord, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.FeeRecord
	for rows.Next() {
		rec, err := scanFeeRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// OutstandingFees returns unblocked, unwaived fee records with balance > 0
// in canonical FIFO order. Pass forUpdate to lock the rows for the duration
// of the enclosing transaction.
func (s *Store) OutstandingFees(ctx context.Context, studentID, academicYearID string, forUpdate bool) ([]*models.FeeRecord, error) {
	query := `SELECT ` + feeColumns + ` FROM fee_records
			  WHERE student_id = $1
			  AND payment_blocked = false
			  AND waived = false
			  AND (actual_fee - discount_amount - paid_amount) > 0`
	args := []interface{}{studentID}

	if academicYearID != "" {
		query += fmt.Sprintf(" AND academic_year_id = $%d", len(args)+1)
		args = append(args, academicYearID)
	}

	query += " " + canonicalFeeOrder
	if forUpdate {
		query += " FOR UPDATE"
	}

	return s.queryFeeRecords(ctx, query, args...)
}

// ListFeeRecords returns every record for the student regardless of balance
// or block state, in canonical FIFO order.
func (s *Store) ListFeeRecords(ctx context.Context, studentID, academicYearID string, forUpdate bool) ([]*models.FeeRecord, error) {
	query := `SELECT ` + feeColumns + ` FROM fee_records WHERE student_id = $1`
	args := []interface{}{studentID}

	if academicYearID != "" {
		query += fmt.Sprintf(" AND academic_year_id = $%d", len(args)+1)
		args = append(args, academicYearID)
	}

	query += " " + canonicalFeeOrder
	if forUpdate {
		query += " FOR UPDATE"
	}

	return s.queryFeeRecords(ctx, query, args...)
}

// GetFeeRecord fetches one fee record by id.
func (s *Store) GetFeeRecord(ctx context.Context, id string, forUpdate bool) (*models.FeeRecord, error) {
	query := `SELECT ` + feeColumns + ` FROM fee_records WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	rec, err := scanFeeRecord(s.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "fee record", id)
	}
	return rec, nil
}

// InsertFeeRecord creates a new fee record.
func (s *Store) InsertFeeRecord(ctx context.Context, rec *models.FeeRecord) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO fee_records (id, student_id, academic_year_id, fee_type, actual_fee,
			discount_amount, paid_amount, due_date, priority_order, status, waived,
			payment_blocked, blocked_reason, is_carry_forward, carry_forward_source_id,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16)`,
		rec.ID, rec.StudentID, rec.AcademicYearID, rec.FeeType, rec.ActualFee,
		rec.DiscountAmount, rec.PaidAmount, rec.DueDate, rec.PriorityOrder, rec.Status,
		rec.Waived, rec.PaymentBlocked, rec.BlockedReason, rec.IsCarryForward,
		rec.CarryForwardSourceID, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert fee record: %w", err)
	}
	return nil
}

// UpdateFeeAmounts persists the mutable amounts and the restated status.
func (s *Store) UpdateFeeAmounts(ctx context.Context, rec *models.FeeRecord) error {
	result, err := s.q.ExecContext(ctx, `
		UPDATE fee_records
		SET discount_amount = $1, paid_amount = $2, status = $3, waived = $4, updated_at = NOW()
		WHERE id = $5`,
		rec.DiscountAmount, rec.PaidAmount, rec.Status, rec.Waived, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update fee record %s: %w", rec.ID, err)
	}
	return requireRow(result, "fee record", rec.ID)
}

// SetPaymentBlock toggles the block flag on a fee record.
func (s *Store) SetPaymentBlock(ctx context.Context, feeRecordID string, blocked bool, reason *string) error {
	result, err := s.q.ExecContext(ctx, `
		UPDATE fee_records
		SET payment_blocked = $1, blocked_reason = $2, updated_at = NOW()
		WHERE id = $3`,
		blocked, reason, feeRecordID,
	)
	if err != nil {
		return fmt.Errorf("failed to set payment block on %s: %w", feeRecordID, err)
	}
	return requireRow(result, "fee record", feeRecordID)
}

func requireRow(result sql.Result, what, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(sql.ErrNoRows, what, id)
	}
	return nil
}
