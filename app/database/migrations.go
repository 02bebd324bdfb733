package database

import (
	"database/sql"
	"log"
)

// RunMigrations creates the ledger schema if it does not exist yet.
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS academic_years (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT UNIQUE NOT NULL,
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			is_current BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_current_academic_year
			ON academic_years (is_current) WHERE is_current = true`,

		`CREATE TABLE IF NOT EXISTS students (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			admission_number TEXT UNIQUE NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			class_id UUID,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS carry_forwards (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL REFERENCES students(id),
			from_academic_year_id UUID NOT NULL REFERENCES academic_years(id),
			to_academic_year_id UUID NOT NULL REFERENCES academic_years(id),
			original_amount NUMERIC(12,2) NOT NULL,
			carried_amount NUMERIC(12,2) NOT NULL,
			type VARCHAR(20) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			created_by TEXT NOT NULL,
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_carry_forwards_student ON carry_forwards (student_id)`,

		`CREATE TABLE IF NOT EXISTS fee_records (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL REFERENCES students(id),
			academic_year_id UUID NOT NULL REFERENCES academic_years(id),
			fee_type TEXT NOT NULL,
			actual_fee NUMERIC(12,2) NOT NULL CHECK (actual_fee >= 0),
			discount_amount NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (discount_amount >= 0),
			paid_amount NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (paid_amount >= 0),
			due_date DATE NOT NULL,
			priority_order INTEGER NOT NULL DEFAULT 100,
			status VARCHAR(20) NOT NULL DEFAULT 'Pending',
			waived BOOLEAN NOT NULL DEFAULT false,
			payment_blocked BOOLEAN NOT NULL DEFAULT false,
			blocked_reason TEXT,
			is_carry_forward BOOLEAN NOT NULL DEFAULT false,
			carry_forward_source_id UUID,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (discount_amount <= actual_fee)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fee_records_student_year
			ON fee_records (student_id, academic_year_id)`,
		`CREATE INDEX IF NOT EXISTS idx_fee_records_fifo
			ON fee_records (student_id, priority_order, due_date, created_at, id)`,

		`CREATE TABLE IF NOT EXISTS payment_records (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL REFERENCES students(id),
			amount_paid NUMERIC(12,2) NOT NULL CHECK (amount_paid > 0),
			payment_date DATE NOT NULL,
			payment_time VARCHAR(8),
			payment_method VARCHAR(50) NOT NULL,
			late_fee NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (late_fee >= 0),
			receipt_number TEXT NOT NULL,
			receiver TEXT NOT NULL,
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (student_id, receipt_number)
		)`,

		`CREATE TABLE IF NOT EXISTS payment_allocations (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			payment_record_id UUID NOT NULL REFERENCES payment_records(id),
			fee_record_id UUID NOT NULL REFERENCES fee_records(id),
			allocated_amount NUMERIC(12,2) NOT NULL CHECK (allocated_amount > 0),
			allocation_order INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (payment_record_id, allocation_order)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payment_allocations_fee
			ON payment_allocations (fee_record_id)`,

		`CREATE TABLE IF NOT EXISTS audit_log (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL,
			fee_record_id UUID,
			action_type VARCHAR(40) NOT NULL,
			old_values JSONB,
			new_values JSONB,
			amount_affected NUMERIC(12,2) NOT NULL DEFAULT 0,
			performed_by TEXT NOT NULL,
			performed_at TIMESTAMPTZ NOT NULL,
			notes TEXT,
			reference_number TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_log_student_time
			ON audit_log (student_id, performed_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Printf("Migration failed: %v", err)
			return err
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
