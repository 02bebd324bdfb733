package database

import (
	"context"
	"fmt"

	"github.com/MouliTechHub/educare-management-x-sub000/app/models"
)

// InsertPayment records a payment. Payment records are immutable after
// creation; corrections are new records.
func (s *Store) InsertPayment(ctx context.Context, p *models.PaymentRecord) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO payment_records (id, student_id, amount_paid, payment_date, payment_time,
			payment_method, late_fee, receipt_number, receiver, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.StudentID, p.AmountPaid, p.PaymentDate, p.PaymentTime,
		p.PaymentMethod, p.LateFee, p.ReceiptNumber, p.Receiver, p.Notes, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

// InsertAllocation creates one allocation row. Never mutated afterwards.
func (s *Store) InsertAllocation(ctx context.Context, a *models.PaymentAllocation) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO payment_allocations (id, payment_record_id, fee_record_id,
			allocated_amount, allocation_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.PaymentRecordID, a.FeeRecordID, a.AllocatedAmount, a.AllocationOrder, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert allocation: %w", err)
	}
	return nil
}

// NextReceiptSeq returns the next receipt sequence for a student. Callers
// hold the student's fee row locks, which serializes concurrent payments.
func (s *Store) NextReceiptSeq(ctx context.Context, studentID string) (int, error) {
	var seq int
	err := s.q.QueryRowContext(ctx,
		"SELECT COUNT(*) + 1 FROM payment_records WHERE student_id = $1",
		studentID,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("failed to compute receipt sequence: %w", err)
	}
	return seq, nil
}

const paymentColumns = `id, student_id, amount_paid, payment_date, payment_time,
	payment_method, late_fee, receipt_number, receiver, notes, created_at`

func scanPayment(row interface{ Scan(...interface{}) error }) (*models.PaymentRecord, error) {
	var p models.PaymentRecord
	err := row.Scan(
		&p.ID, &p.StudentID, &p.AmountPaid, &p.PaymentDate, &p.PaymentTime,
		&p.PaymentMethod, &p.LateFee, &p.ReceiptNumber, &p.Receiver, &p.Notes, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPayment fetches a payment with its allocations.
func (s *Store) GetPayment(ctx context.Context, id string) (*models.PaymentRecord, error) {
	p, err := scanPayment(s.q.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payment_records WHERE id = $1", id))
	if err != nil {
		return nil, notFound(err, "payment", id)
	}

	rows, err := s.q.QueryContext(ctx, `
		SELECT id, payment_record_id, fee_record_id, allocated_amount, allocation_order, created_at
		FROM payment_allocations
		WHERE payment_record_id = $1
		ORDER BY allocation_order ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var a models.PaymentAllocation
		if err := rows.Scan(&a.ID, &a.PaymentRecordID, &a.FeeRecordID,
			&a.AllocatedAmount, &a.AllocationOrder, &a.CreatedAt); err != nil {
			return nil, err
		}
		p.Allocations = append(p.Allocations, &a)
	}
	return p, rows.Err()
}

// PaymentHistory returns a student's payments, newest first.
func (s *Store) PaymentHistory(ctx context.Context, studentID string) ([]*models.PaymentRecord, error) {
	rows, err := s.q.QueryContext(ctx,
		"SELECT "+paymentColumns+" FROM payment_records WHERE student_id = $1 ORDER BY created_at DESC",
		studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.PaymentRecord
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
