package models

// FeeStatus defines the derived status of a fee record.
type FeeStatus string

const (
	FeePending FeeStatus = "Pending"
	FeePartial FeeStatus = "Partial"
	FeePaid    FeeStatus = "Paid"
	FeeOverdue FeeStatus = "Overdue"
	FeeWaived  FeeStatus = "Waived"
)

// DiscountType defines how a discount amount is expressed.
type DiscountType string

const (
	DiscountFlat       DiscountType = "flat"
	DiscountPercentage DiscountType = "percentage"
)

// CarryForwardType defines how a carry-forward was initiated.
type CarryForwardType string

const (
	CarryForwardManual    CarryForwardType = "manual"
	CarryForwardBulk      CarryForwardType = "bulk"
	CarryForwardAutomatic CarryForwardType = "automatic"
)

// CarryForwardStatus defines the lifecycle of a carry-forward record.
type CarryForwardStatus string

const (
	CarryForwardPending CarryForwardStatus = "pending"
	CarryForwardApplied CarryForwardStatus = "applied"
	CarryForwardWaived  CarryForwardStatus = "waived"
)

// AuditAction defines the action types recorded in the audit log.
type AuditAction string

const (
	AuditFeeAssigned        AuditAction = "fee_assigned"
	AuditDiscountApplied    AuditAction = "discount_applied"
	AuditPaymentRecorded    AuditAction = "payment_recorded"
	AuditPaymentBlocked     AuditAction = "payment_blocked"
	AuditPaymentUnblocked   AuditAction = "payment_unblocked"
	AuditCarryForward       AuditAction = "carry_forward"
	AuditCarryForwardWaived AuditAction = "carry_forward_waived"
)

// PreviousYearDues is the fee type created by a carry-forward. Records of
// this type stay payable even while the payment-block policy is in force.
const PreviousYearDues = "Previous Year Dues"
