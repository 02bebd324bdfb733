package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot holds the before/after field values captured with an audit entry.
// Stored as jsonb.
type Snapshot map[string]interface{}

// Value implements the Valuer interface for database writing
func (s Snapshot) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements the Scanner interface for database reading
func (s *Snapshot) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	}
	return fmt.Errorf("cannot scan %T into Snapshot", value)
}

// AuditLogEntry is an immutable record of a balance-affecting action.
// Append-only: no updates or deletes, ever.
type AuditLogEntry struct {
	ID              string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StudentID       string          `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	FeeRecordID     *string         `json:"fee_record_id,omitempty" gorm:"index;type:uuid"`
	ActionType      AuditAction     `json:"action_type" gorm:"not null;index;type:varchar(40)" validate:"required"`
	OldValues       Snapshot        `json:"old_values,omitempty" gorm:"type:jsonb"`
	NewValues       Snapshot        `json:"new_values,omitempty" gorm:"type:jsonb"`
	AmountAffected  decimal.Decimal `json:"amount_affected" gorm:"not null;type:numeric(12,2);default:0"`
	PerformedBy     string          `json:"performed_by" gorm:"not null" validate:"required"`
	PerformedAt     time.Time       `json:"performed_at" gorm:"not null;index"`
	Notes           *string         `json:"notes,omitempty"`
	ReferenceNumber *string         `json:"reference_number,omitempty"`
}
