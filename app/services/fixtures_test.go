package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MouliTechHub/educare-management-x-sub000/app/models"
)

// Clock all engines are pinned to in tests.
var testNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func date(v string) models.CustomTime {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		panic(err)
	}
	return models.CustomTime{Time: t}
}

func seedStudent(m *memStore, id string) *models.Student {
	st := &models.Student{
		ID:              id,
		AdmissionNumber: "ADM-" + id,
		FirstName:       "Test",
		LastName:        id,
		IsActive:        true,
		CreatedAt:       testNow,
	}
	m.students[id] = st
	return st
}

func seedYear(m *memStore, id, name, start, end string) *models.AcademicYear {
	ay := &models.AcademicYear{
		ID:        id,
		Name:      name,
		StartDate: date(start),
		EndDate:   date(end),
		CreatedAt: testNow,
	}
	m.years[id] = ay
	return ay
}

func seedFee(m *memStore, id, studentID, yearID, feeType, actual, due string, priority int) *models.FeeRecord {
	rec := &models.FeeRecord{
		ID:             id,
		StudentID:      studentID,
		AcademicYearID: yearID,
		FeeType:        feeType,
		ActualFee:      dec(actual),
		DiscountAmount: decimal.Zero,
		PaidAmount:     decimal.Zero,
		DueDate:        date(due),
		PriorityOrder:  priority,
		CreatedAt:      testNow,
		UpdatedAt:      testNow,
	}
	rec.Restate(testNow)
	m.fees[id] = rec
	return rec
}
