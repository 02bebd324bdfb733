package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRecord represents a payment made by a student, allocated across one
// or more fee records. Immutable after creation; corrections are new records.
type PaymentRecord struct {
	ID            string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StudentID     string          `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	AmountPaid    decimal.Decimal `json:"amount_paid" gorm:"not null;type:numeric(12,2)" validate:"required"`
	PaymentDate   CustomTime      `json:"payment_date" gorm:"not null;type:date" validate:"required"`
	PaymentTime   string          `json:"payment_time" gorm:"type:varchar(8)"`
	PaymentMethod string          `json:"payment_method" gorm:"type:varchar(50)" validate:"required"`
	LateFee       decimal.Decimal `json:"late_fee" gorm:"not null;type:numeric(12,2);default:0"`
	ReceiptNumber string          `json:"receipt_number" gorm:"not null;index"`
	Receiver      string          `json:"receiver" gorm:"not null" validate:"required"`
	Notes         *string         `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at" gorm:"autoCreateTime"`

	Allocations []*PaymentAllocation `json:"allocations,omitempty" gorm:"foreignKey:PaymentRecordID;references:ID"`
}
