package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeRecord represents a per-student, per-year obligation. The balance and
// status are derived from actual_fee, discount_amount and paid_amount and
// are never authoritative on their own.
type FeeRecord struct {
	ID                   string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StudentID            string          `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	AcademicYearID       string          `json:"academic_year_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	FeeType              string          `json:"fee_type" gorm:"not null" validate:"required"`
	ActualFee            decimal.Decimal `json:"actual_fee" gorm:"not null;type:numeric(12,2)" validate:"required"`
	DiscountAmount       decimal.Decimal `json:"discount_amount" gorm:"not null;type:numeric(12,2);default:0"`
	PaidAmount           decimal.Decimal `json:"paid_amount" gorm:"not null;type:numeric(12,2);default:0"`
	DueDate              CustomTime      `json:"due_date" gorm:"not null;type:date" validate:"required"`
	PriorityOrder        int             `json:"priority_order" gorm:"not null;default:100;index"`
	Status               FeeStatus       `json:"status" gorm:"not null;default:'Pending';index"`
	Waived               bool            `json:"waived" gorm:"default:false"`
	PaymentBlocked       bool            `json:"payment_blocked" gorm:"default:false;index"`
	BlockedReason        *string         `json:"blocked_reason,omitempty"`
	IsCarryForward       bool            `json:"is_carry_forward" gorm:"default:false"`
	CarryForwardSourceID *string         `json:"carry_forward_source_id,omitempty" gorm:"index;type:uuid"`
	CreatedAt            time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt            time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// Balance returns max(0, actual_fee - discount_amount - paid_amount).
func (f *FeeRecord) Balance() decimal.Decimal {
	b := f.ActualFee.Sub(f.DiscountAmount).Sub(f.PaidAmount)
	if b.IsNegative() {
		return decimal.Zero
	}
	return b
}

// PayableHeadroom returns actual_fee - discount_amount, the most that
// paid_amount may ever reach.
func (f *FeeRecord) PayableHeadroom() decimal.Decimal {
	return f.ActualFee.Sub(f.DiscountAmount)
}

// DeriveStatus computes the status from the record's amounts and due date.
// The stored status column is only ever a copy of this result.
func (f *FeeRecord) DeriveStatus(now time.Time) FeeStatus {
	if f.Waived {
		return FeeWaived
	}
	balance := f.Balance()
	if balance.IsZero() {
		return FeePaid
	}
	if f.DueDate.Time.Before(now) {
		return FeeOverdue
	}
	if f.PaidAmount.IsPositive() {
		return FeePartial
	}
	return FeePending
}

// Restate refreshes the stored status copy from the derived value.
func (f *FeeRecord) Restate(now time.Time) {
	f.Status = f.DeriveStatus(now)
}
