package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateDiscount_Percent(t *testing.T) {
	coupon := &Coupon{
		DiscountType:  DiscountTypePercent,
		DiscountValue: decimal.NewFromInt(20),
	}

	discount := coupon.CalculateDiscount(decimal.NewFromInt(500))
	assert.True(t, decimal.NewFromInt(100).Equal(discount), "got %s", discount)
}

func TestCalculateDiscount_PercentRoundsToWholeUnits(t *testing.T) {
	coupon := &Coupon{
		DiscountType:  DiscountTypePercent,
		DiscountValue: decimal.NewFromInt(15),
	}

	// 15% of 333 is 49.95, rounded to 50.
	discount := coupon.CalculateDiscount(decimal.NewFromInt(333))
	assert.True(t, decimal.NewFromInt(50).Equal(discount), "got %s", discount)
}

func TestCalculateDiscount_FlatClampedToSubtotal(t *testing.T) {
	coupon := &Coupon{
		DiscountType:  DiscountTypeFlat,
		DiscountValue: decimal.NewFromInt(100),
	}

	discount := coupon.CalculateDiscount(decimal.NewFromInt(50))
	assert.True(t, decimal.NewFromInt(50).Equal(discount), "flat discount must not exceed the subtotal")

	discount = coupon.CalculateDiscount(decimal.Zero)
	assert.True(t, discount.IsZero())
}

func TestCalculateDiscount_NegativeValueGivesZero(t *testing.T) {
	coupon := &Coupon{
		DiscountType:  DiscountTypeFlat,
		DiscountValue: decimal.NewFromInt(-10),
	}

	assert.True(t, coupon.CalculateDiscount(decimal.NewFromInt(500)).IsZero())
}

func TestCalculateDiscount_UnknownTypeGivesZero(t *testing.T) {
	coupon := &Coupon{
		DiscountType:  "bogus",
		DiscountValue: decimal.NewFromInt(10),
	}

	assert.True(t, coupon.CalculateDiscount(decimal.NewFromInt(500)).IsZero())
}

func TestInWindow(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name        string
		startsAt    *time.Time
		expiresAt   *time.Time
		wantStarted bool
		wantExpired bool
	}{
		{"open ended", nil, nil, true, false},
		{"inside window", &past, &future, true, false},
		{"not started", &future, nil, false, false},
		{"expired", nil, &past, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coupon := &Coupon{StartsAt: tt.startsAt, ExpiresAt: tt.expiresAt}
			started, expired := coupon.InWindow(now)
			assert.Equal(t, tt.wantStarted, started)
			assert.Equal(t, tt.wantExpired, expired)
		})
	}
}

func TestIsExhausted(t *testing.T) {
	limit := 5

	assert.False(t, (&Coupon{MaxUses: nil, UsedCount: 1000}).IsExhausted())
	assert.False(t, (&Coupon{MaxUses: &limit, UsedCount: 4}).IsExhausted())
	assert.True(t, (&Coupon{MaxUses: &limit, UsedCount: 5}).IsExhausted())
}
