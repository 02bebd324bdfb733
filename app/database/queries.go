package database

import (
	"context"

	"github.com/MouliTechHub/educare-management-x-sub000/app/models"
)

// GetStudent performs a read-only lookup against the student directory.
func (s *Store) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	var st models.Student
	err := s.q.QueryRowContext(ctx, `
		SELECT id, admission_number, first_name, last_name, class_id, is_active, created_at
		FROM students
		WHERE id = $1 AND deleted_at IS NULL`, id,
	).Scan(&st.ID, &st.AdmissionNumber, &st.FirstName, &st.LastName, &st.ClassID, &st.IsActive, &st.CreatedAt)
	if err != nil {
		return nil, notFound(err, "student", id)
	}
	return &st, nil
}

// GetAcademicYear fetches one academic year by id.
func (s *Store) GetAcademicYear(ctx context.Context, id string) (*models.AcademicYear, error) {
	var ay models.AcademicYear
	err := s.q.QueryRowContext(ctx, `
		SELECT id, name, start_date, end_date, is_current, created_at
		FROM academic_years
		WHERE id = $1`, id,
	).Scan(&ay.ID, &ay.Name, &ay.StartDate, &ay.EndDate, &ay.IsCurrent, &ay.CreatedAt)
	if err != nil {
		return nil, notFound(err, "academic year", id)
	}
	return &ay, nil
}

// CurrentAcademicYear returns the year flagged is_current.
func (s *Store) CurrentAcademicYear(ctx context.Context) (*models.AcademicYear, error) {
	var ay models.AcademicYear
	err := s.q.QueryRowContext(ctx, `
		SELECT id, name, start_date, end_date, is_current, created_at
		FROM academic_years
		WHERE is_current = true`,
	).Scan(&ay.ID, &ay.Name, &ay.StartDate, &ay.EndDate, &ay.IsCurrent, &ay.CreatedAt)
	if err != nil {
		return nil, notFound(err, "academic year", "current")
	}
	return &ay, nil
}

// GetUserByEmail fetches an active user for login.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.q.QueryRowContext(ctx, `
		SELECT id, email, password, first_name, last_name, is_active, created_at
		FROM users
		WHERE email = $1 AND is_active = true AND deleted_at IS NULL`, email,
	).Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err, "user", email)
	}
	return &u, nil
}
