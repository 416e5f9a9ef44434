package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DiscountTypePercent = "percent"
	DiscountTypeFlat    = "flat"
)

// Coupon represents a discount code in the database.
type Coupon struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	Code          string          `json:"code" db:"code"`
	DiscountType  string          `json:"discount_type" db:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value" db:"discount_value"`
	MinOrderValue decimal.Decimal `json:"min_order_value" db:"min_order_value"`

	// Usage limits. A nil MaxUses means unlimited.
	MaxUses   *int `json:"max_uses,omitempty" db:"max_uses"`
	UsedCount int  `json:"used_count" db:"used_count"`

	// Validity window. Nil bounds are open-ended.
	StartsAt  *time.Time `json:"starts_at,omitempty" db:"starts_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" db:"expires_at"`

	IsActive  bool `json:"is_active" db:"is_active"`
	IsVisible bool `json:"is_visible" db:"is_visible"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CouponUsage records one redemption. The (coupon_id, user_id) pair is
// unique in the database; that constraint is the real one-use-per-user
// guard, not the advisory pre-check in the validator.
type CouponUsage struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	CouponID       uuid.UUID       `json:"coupon_id" db:"coupon_id"`
	UserID         uuid.UUID       `json:"user_id" db:"user_id"`
	DiscountAmount decimal.Decimal `json:"discount_amount" db:"discount_amount"`
	UsedAt         time.Time       `json:"used_at" db:"used_at"`
}

// InWindow reports whether now falls inside the coupon's validity window.
func (c *Coupon) InWindow(now time.Time) (started, expired bool) {
	started = c.StartsAt == nil || !now.Before(*c.StartsAt)
	expired = c.ExpiresAt != nil && now.After(*c.ExpiresAt)
	return started, expired
}

// IsExhausted reports whether the global usage cap has been reached.
func (c *Coupon) IsExhausted() bool {
	return c.MaxUses != nil && c.UsedCount >= *c.MaxUses
}

// CalculateDiscount computes the discount for a subtotal. Percent
// discounts are rounded to whole currency units, matching how totals
// are presented to customers; the result never exceeds the subtotal.
func (c *Coupon) CalculateDiscount(subtotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch c.DiscountType {
	case DiscountTypePercent:
		discount = subtotal.Mul(c.DiscountValue).Div(decimal.NewFromInt(100)).Round(0)
	case DiscountTypeFlat:
		discount = c.DiscountValue
	default:
		return decimal.Zero
	}

	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	return discount
}
