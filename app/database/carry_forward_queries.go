package database

import (
	"context"
	"fmt"

	"github.com/MouliTechHub/educare-management-x-sub000/app/models"
)

const carryForwardColumns = `id, student_id, from_academic_year_id, to_academic_year_id,
	original_amount, carried_amount, type, status, created_by, notes, created_at, updated_at`

func scanCarryForward(row interface{ Scan(...interface{}) error }) (*models.CarryForward, error) {
	var cf models.CarryForward
	err := row.Scan(
		&cf.ID, &cf.StudentID, &cf.FromAcademicYearID, &cf.ToAcademicYearID,
		&cf.OriginalAmount, &cf.CarriedAmount, &cf.Type, &cf.Status,
		&cf.CreatedBy, &cf.Notes, &cf.CreatedAt, &cf.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cf, nil
}

// InsertCarryForward creates a carry-forward row.
func (s *Store) InsertCarryForward(ctx context.Context, cf *models.CarryForward) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO carry_forwards (id, student_id, from_academic_year_id, to_academic_year_id,
			original_amount, carried_amount, type, status, created_by, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`,
		cf.ID, cf.StudentID, cf.FromAcademicYearID, cf.ToAcademicYearID,
		cf.OriginalAmount, cf.CarriedAmount, cf.Type, cf.Status,
		cf.CreatedBy, cf.Notes, cf.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert carry-forward: %w", err)
	}
	return nil
}

// GetCarryForward fetches a carry-forward by id.
func (s *Store) GetCarryForward(ctx context.Context, id string, forUpdate bool) (*models.CarryForward, error) {
	query := "SELECT " + carryForwardColumns + " FROM carry_forwards WHERE id = $1"
	if forUpdate {
		query += " FOR UPDATE"
	}

	cf, err := scanCarryForward(s.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "carry-forward", id)
	}
	return cf, nil
}

// SetCarryForwardStatus advances a carry-forward through its lifecycle.
func (s *Store) SetCarryForwardStatus(ctx context.Context, id string, status models.CarryForwardStatus) error {
	result, err := s.q.ExecContext(ctx,
		"UPDATE carry_forwards SET status = $1, updated_at = NOW() WHERE id = $2",
		status, id)
	if err != nil {
		return fmt.Errorf("failed to update carry-forward %s: %w", id, err)
	}
	return requireRow(result, "carry-forward", id)
}

// ListCarryForwards returns a student's carry-forwards, newest first.
func (s *Store) ListCarryForwards(ctx context.Context, studentID string) ([]*models.CarryForward, error) {
	rows, err := s.q.QueryContext(ctx,
		"SELECT "+carryForwardColumns+" FROM carry_forwards WHERE student_id = $1 ORDER BY created_at DESC",
		studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cfs []*models.CarryForward
	for rows.Next() {
		cf, err := scanCarryForward(rows)
		if err != nil {
			return nil, err
		}
		cfs = append(cfs, cf)
	}
	return cfs, rows.Err()
}
