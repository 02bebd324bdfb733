package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentAllocation represents the portion of a payment applied to one fee
// record. Created atomically with its payment and never mutated; the
// allocation_order preserves the FIFO position within the payment.
type PaymentAllocation struct {
	ID              string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	PaymentRecordID string          `json:"payment_record_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	FeeRecordID     string          `json:"fee_record_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount" gorm:"not null;type:numeric(12,2)" validate:"required"`
	AllocationOrder int             `json:"allocation_order" gorm:"not null"`
	CreatedAt       time.Time       `json:"created_at" gorm:"autoCreateTime"`
}
