package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound             = errors.New("record not found")
	ErrValidation           = errors.New("validation failed")
	ErrStateConflict        = errors.New("record state does not allow this operation")
	ErrNoOutstandingBalance = errors.New("no outstanding balance to carry forward")
)

// InvalidDiscountError reports a discount that is non-positive or would push
// the total discount past the actual fee.
type InvalidDiscountError struct {
	FeeRecordID string
	Attempted   decimal.Decimal
	Headroom    decimal.Decimal
}

func (e *InvalidDiscountError) Error() string {
	return fmt.Sprintf("invalid discount of %s on fee record %s: remaining headroom is %s",
		e.Attempted.StringFixed(2), e.FeeRecordID, e.Headroom.StringFixed(2))
}

func (e *InvalidDiscountError) Unwrap() error { return ErrValidation }

// AllocationOverflowError reports a payment that exceeds the student's total
// outstanding balance. The commit is rejected atomically; nothing is written.
type AllocationOverflowError struct {
	StudentID   string
	Attempted   decimal.Decimal
	Outstanding decimal.Decimal
}

func (e *AllocationOverflowError) Error() string {
	return fmt.Sprintf("payment of %s exceeds outstanding balance %s for student %s",
		e.Attempted.StringFixed(2), e.Outstanding.StringFixed(2), e.StudentID)
}
