package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v string) decimal.Decimal {
	x, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return x
}

func TestFeeRecordBalance(t *testing.T) {
	rec := &FeeRecord{ActualFee: d("5000"), DiscountAmount: d("500"), PaidAmount: d("3000")}
	assert.True(t, rec.Balance().Equal(d("1500")))

	// Never negative, even if amounts drift past the fee.
	over := &FeeRecord{ActualFee: d("1000"), DiscountAmount: d("600"), PaidAmount: d("600")}
	assert.True(t, over.Balance().IsZero())
}

func TestFeeRecordPayableHeadroom(t *testing.T) {
	rec := &FeeRecord{ActualFee: d("5000"), DiscountAmount: d("750")}
	assert.True(t, rec.PayableHeadroom().Equal(d("4250")))
}

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	future := CustomTime{Time: now.AddDate(0, 1, 0)}
	past := CustomTime{Time: now.AddDate(0, -1, 0)}

	cases := []struct {
		name string
		rec  FeeRecord
		want FeeStatus
	}{
		{"pending", FeeRecord{ActualFee: d("1000"), DueDate: future}, FeePending},
		{"partial", FeeRecord{ActualFee: d("1000"), PaidAmount: d("400"), DueDate: future}, FeePartial},
		{"paid", FeeRecord{ActualFee: d("1000"), PaidAmount: d("1000"), DueDate: future}, FeePaid},
		{"paid via discount", FeeRecord{ActualFee: d("1000"), DiscountAmount: d("400"), PaidAmount: d("600"), DueDate: future}, FeePaid},
		{"overdue", FeeRecord{ActualFee: d("1000"), DueDate: past}, FeeOverdue},
		{"overdue beats partial", FeeRecord{ActualFee: d("1000"), PaidAmount: d("400"), DueDate: past}, FeeOverdue},
		{"waived", FeeRecord{ActualFee: d("1000"), DiscountAmount: d("1000"), Waived: true, DueDate: past}, FeeWaived},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.rec.DeriveStatus(now))
		})
	}
}

func TestCustomTimeJSON(t *testing.T) {
	var ct CustomTime
	assert.NoError(t, ct.UnmarshalJSON([]byte(`"2026-06-01"`)))
	assert.Equal(t, "2026-06-01", ct.Time.Format("2006-01-02"))

	out, err := ct.MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, `"2026-06-01"`, string(out))

	assert.NoError(t, ct.UnmarshalJSON([]byte("null")))
	assert.True(t, ct.Time.IsZero())
}
