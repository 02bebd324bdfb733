package database

import (
	"context"
	"fmt"
	"time"

	"github.com/MouliTechHub/educare-management-x-sub000/app/models"
)

// InsertAuditLog appends one audit entry. The table is append-only; there is
// no update or delete path anywhere in this package.
func (s *Store) InsertAuditLog(ctx context.Context, entry *models.AuditLogEntry) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO audit_log (id, student_id, fee_record_id, action_type, old_values,
			new_values, amount_affected, performed_by, performed_at, notes, reference_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		entry.ID, entry.StudentID, entry.FeeRecordID, entry.ActionType, entry.OldValues,
		entry.NewValues, entry.AmountAffected, entry.PerformedBy, entry.PerformedAt,
		entry.Notes, entry.ReferenceNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// AuditFilter narrows an audit query. Zero values mean "no filter".
type AuditFilter struct {
	StudentID      string
	AcademicYearID string
	ActionType     string
	From           time.Time
	To             time.Time
}

// FetchAuditLog returns audit entries matching the filter, newest first.
func (s *Store) FetchAuditLog(ctx context.Context, f AuditFilter) ([]*models.AuditLogEntry, error) {
	query := `SELECT a.id, a.student_id, a.fee_record_id, a.action_type, a.old_values,
			  a.new_values, a.amount_affected, a.performed_by, a.performed_at, a.notes,
			  a.reference_number
			  FROM audit_log a`
	var args []interface{}

	if f.AcademicYearID != "" {
		query += " LEFT JOIN fee_records fr ON a.fee_record_id = fr.id"
	}
	query += " WHERE 1=1"

	if f.StudentID != "" {
		args = append(args, f.StudentID)
		query += fmt.Sprintf(" AND a.student_id = $%d", len(args))
	}
	if f.AcademicYearID != "" {
		args = append(args, f.AcademicYearID)
		query += fmt.Sprintf(" AND fr.academic_year_id = $%d", len(args))
	}
	if f.ActionType != "" {
		args = append(args, f.ActionType)
		query += fmt.Sprintf(" AND a.action_type = $%d", len(args))
	}
	if !f.From.IsZero() {
		args = append(args, f.From)
		query += fmt.Sprintf(" AND a.performed_at >= $%d", len(args))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		query += fmt.Sprintf(" AND a.performed_at <= $%d", len(args))
	}

	query += " ORDER BY a.performed_at DESC"

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.AuditLogEntry
	for rows.Next() {
		var e models.AuditLogEntry
		if err := rows.Scan(&e.ID, &e.StudentID, &e.FeeRecordID, &e.ActionType,
			&e.OldValues, &e.NewValues, &e.AmountAffected, &e.PerformedBy,
			&e.PerformedAt, &e.Notes, &e.ReferenceNumber); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
