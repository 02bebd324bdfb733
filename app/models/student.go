package models

import "time"

// Student is the ledger's view of a student. The roster itself is owned by
// the school-administration system; the ledger only needs the identity and
// the admission number printed on receipts.
type Student struct {
	ID              string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	AdmissionNumber string     `json:"admission_number" gorm:"uniqueIndex;not null" validate:"required"`
	FirstName       string     `json:"first_name" gorm:"not null" validate:"required"`
	LastName        string     `json:"last_name" gorm:"not null" validate:"required"`
	ClassID         *string    `json:"class_id,omitempty" gorm:"index;type:uuid"`
	IsActive        bool       `json:"is_active" gorm:"default:true"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}

// FullName returns the student's display name.
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
