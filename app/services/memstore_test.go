package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/MouliTechHub/educare-management-x-sub000/app/models"
)

// memStore is an in-memory Store used by the engine tests. Single-threaded,
// no real transactions: engines validate before writing, which is what the
// scenario tests rely on.
type memStore struct {
	students map[string]*models.Student
	years    map[string]*models.AcademicYear
	fees     map[string]*models.FeeRecord
	payments map[string]*models.PaymentRecord
	allocs   []*models.PaymentAllocation
	cfs      map[string]*models.CarryForward
	audit    []*models.AuditLogEntry
}

func newMemStore() *memStore {
	return &memStore{
		students: make(map[string]*models.Student),
		years:    make(map[string]*models.AcademicYear),
		fees:     make(map[string]*models.FeeRecord),
		payments: make(map[string]*models.PaymentRecord),
		cfs:      make(map[string]*models.CarryForward),
	}
}

func (m *memStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return fn(m)
}

func (m *memStore) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	st, ok := m.students[id]
	if !ok {
		return nil, fmt.Errorf("%w: student %s", ErrNotFound, id)
	}
	cp := *st
	return &cp, nil
}

func (m *memStore) GetAcademicYear(ctx context.Context, id string) (*models.AcademicYear, error) {
	ay, ok := m.years[id]
	if !ok {
		return nil, fmt.Errorf("%w: academic year %s", ErrNotFound, id)
	}
	cp := *ay
	return &cp, nil
}

func cloneFee(rec *models.FeeRecord) *models.FeeRecord {
	cp := *rec
	return &cp
}

// canonical FIFO order: priority_order, due_date, created_at, id
func sortCanonical(records []*models.FeeRecord) {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.PriorityOrder != b.PriorityOrder {
			return a.PriorityOrder < b.PriorityOrder
		}
		if !a.DueDate.Time.Equal(b.DueDate.Time) {
			return a.DueDate.Time.Before(b.DueDate.Time)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func (m *memStore) OutstandingFees(ctx context.Context, studentID, academicYearID string, forUpdate bool) ([]*models.FeeRecord, error) {
	var records []*models.FeeRecord
	for _, rec := range m.fees {
		if rec.StudentID != studentID {
			continue
		}
		if academicYearID != "" && rec.AcademicYearID != academicYearID {
			continue
		}
		if rec.PaymentBlocked || rec.Waived || !rec.Balance().IsPositive() {
			continue
		}
		records = append(records, cloneFee(rec))
	}
	sortCanonical(records)
	return records, nil
}

func (m *memStore) ListFeeRecords(ctx context.Context, studentID, academicYearID string, forUpdate bool) ([]*models.FeeRecord, error) {
	var records []*models.FeeRecord
	for _, rec := range m.fees {
		if rec.StudentID != studentID {
			continue
		}
		if academicYearID != "" && rec.AcademicYearID != academicYearID {
			continue
		}
		records = append(records, cloneFee(rec))
	}
	sortCanonical(records)
	return records, nil
}

func (m *memStore) GetFeeRecord(ctx context.Context, id string, forUpdate bool) (*models.FeeRecord, error) {
	rec, ok := m.fees[id]
	if !ok {
		return nil, fmt.Errorf("%w: fee record %s", ErrNotFound, id)
	}
	return cloneFee(rec), nil
}

func (m *memStore) InsertFeeRecord(ctx context.Context, rec *models.FeeRecord) error {
	m.fees[rec.ID] = cloneFee(rec)
	return nil
}

func (m *memStore) UpdateFeeAmounts(ctx context.Context, rec *models.FeeRecord) error {
	stored, ok := m.fees[rec.ID]
	if !ok {
		return fmt.Errorf("%w: fee record %s", ErrNotFound, rec.ID)
	}
	stored.DiscountAmount = rec.DiscountAmount
	stored.PaidAmount = rec.PaidAmount
	stored.Status = rec.Status
	stored.Waived = rec.Waived
	return nil
}

func (m *memStore) SetPaymentBlock(ctx context.Context, feeRecordID string, blocked bool, reason *string) error {
	stored, ok := m.fees[feeRecordID]
	if !ok {
		return fmt.Errorf("%w: fee record %s", ErrNotFound, feeRecordID)
	}
	stored.PaymentBlocked = blocked
	stored.BlockedReason = reason
	return nil
}

func (m *memStore) InsertPayment(ctx context.Context, p *models.PaymentRecord) error {
	cp := *p
	m.payments[p.ID] = &cp
	return nil
}

func (m *memStore) InsertAllocation(ctx context.Context, a *models.PaymentAllocation) error {
	cp := *a
	m.allocs = append(m.allocs, &cp)
	return nil
}

func (m *memStore) NextReceiptSeq(ctx context.Context, studentID string) (int, error) {
	seq := 1
	for _, p := range m.payments {
		if p.StudentID == studentID {
			seq++
		}
	}
	return seq, nil
}

func (m *memStore) InsertCarryForward(ctx context.Context, cf *models.CarryForward) error {
	cp := *cf
	m.cfs[cf.ID] = &cp
	return nil
}

func (m *memStore) GetCarryForward(ctx context.Context, id string, forUpdate bool) (*models.CarryForward, error) {
	cf, ok := m.cfs[id]
	if !ok {
		return nil, fmt.Errorf("%w: carry-forward %s", ErrNotFound, id)
	}
	cp := *cf
	return &cp, nil
}

func (m *memStore) SetCarryForwardStatus(ctx context.Context, id string, status models.CarryForwardStatus) error {
	cf, ok := m.cfs[id]
	if !ok {
		return fmt.Errorf("%w: carry-forward %s", ErrNotFound, id)
	}
	cf.Status = status
	return nil
}

func (m *memStore) InsertAuditLog(ctx context.Context, entry *models.AuditLogEntry) error {
	cp := *entry
	m.audit = append(m.audit, &cp)
	return nil
}

// auditActions returns the recorded action types in insertion order.
func (m *memStore) auditActions() []models.AuditAction {
	actions := make([]models.AuditAction, 0, len(m.audit))
	for _, e := range m.audit {
		actions = append(actions, e.ActionType)
	}
	return actions
}
