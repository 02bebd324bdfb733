package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CarryForward links an unresolved balance in one academic year to the
// "Previous Year Dues" fee record it produced in a later year. Terminal once
// applied or waived.
type CarryForward struct {
	ID                 string             `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StudentID          string             `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	FromAcademicYearID string             `json:"from_academic_year_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	ToAcademicYearID   string             `json:"to_academic_year_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	OriginalAmount     decimal.Decimal    `json:"original_amount" gorm:"not null;type:numeric(12,2)"`
	CarriedAmount      decimal.Decimal    `json:"carried_amount" gorm:"not null;type:numeric(12,2)"`
	Type               CarryForwardType   `json:"type" gorm:"not null;type:varchar(20)"`
	Status             CarryForwardStatus `json:"status" gorm:"not null;default:'pending';index;type:varchar(20)"`
	CreatedBy          string             `json:"created_by" gorm:"not null" validate:"required"`
	Notes              *string            `json:"notes,omitempty"`
	CreatedAt          time.Time          `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time          `json:"updated_at" gorm:"autoUpdateTime"`
}
