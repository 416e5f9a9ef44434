package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ApplyCouponRequest struct {
	Code string `json:"code"`
}

func (r ApplyCouponRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required, validation.Length(1, 64)),
	)
}

type CreateCouponRequest struct {
	Code          string          `json:"code"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	MinOrderValue decimal.Decimal `json:"min_order_value"`
	MaxUses       *int            `json:"max_uses,omitempty"`
	StartsAt      *time.Time      `json:"starts_at,omitempty"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty"`
	IsActive      bool            `json:"is_active"`
	IsVisible     bool            `json:"is_visible"`
}

func (r CreateCouponRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required, validation.Length(1, 64)),
		validation.Field(&r.DiscountType, validation.Required, validation.In(DiscountTypePercent, DiscountTypeFlat)),
		validation.Field(&r.DiscountValue,
			validation.Required,
			validation.By(positiveDecimal),
			validation.By(r.percentWithinBounds),
		),
		validation.Field(&r.MinOrderValue, validation.By(nonNegativeDecimal)),
		validation.Field(&r.MaxUses, validation.Min(1)),
		validation.Field(&r.ExpiresAt, validation.By(r.expiryAfterStart)),
	)
}

// percentWithinBounds rejects percent discounts above 100. Flat amounts
// have no upper bound here; they are clamped to the subtotal at apply time.
func (r CreateCouponRequest) percentWithinBounds(value interface{}) error {
	if r.DiscountType != DiscountTypePercent {
		return nil
	}
	v, ok := value.(decimal.Decimal)
	if !ok {
		return validation.NewError("validation_invalid_decimal", "must be a decimal value")
	}
	if v.GreaterThan(decimal.NewFromInt(100)) {
		return validation.NewError("validation_percent_too_high", "percent discount cannot exceed 100")
	}
	return nil
}

func (r CreateCouponRequest) expiryAfterStart(value interface{}) error {
	if r.StartsAt == nil || r.ExpiresAt == nil {
		return nil
	}
	if !r.ExpiresAt.After(*r.StartsAt) {
		return validation.NewError("validation_invalid_window", "expires_at must be after starts_at")
	}
	return nil
}

type UpdateCouponRequest struct {
	DiscountType  *string          `json:"discount_type,omitempty"`
	DiscountValue *decimal.Decimal `json:"discount_value,omitempty"`
	MinOrderValue *decimal.Decimal `json:"min_order_value,omitempty"`
	MaxUses       *int             `json:"max_uses,omitempty"`
	StartsAt      *time.Time       `json:"starts_at,omitempty"`
	ExpiresAt     *time.Time       `json:"expires_at,omitempty"`
	IsActive      *bool            `json:"is_active,omitempty"`
	IsVisible     *bool            `json:"is_visible,omitempty"`
}

func (r UpdateCouponRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DiscountType, validation.In(DiscountTypePercent, DiscountTypeFlat)),
		validation.Field(&r.DiscountValue, validation.By(optionalPositiveDecimal)),
		validation.Field(&r.MinOrderValue, validation.By(optionalNonNegativeDecimal)),
		validation.Field(&r.MaxUses, validation.Min(1)),
	)
}

func positiveDecimal(value interface{}) error {
	v, ok := value.(decimal.Decimal)
	if !ok || !v.IsPositive() {
		return validation.NewError("validation_not_positive", "must be greater than zero")
	}
	return nil
}

func nonNegativeDecimal(value interface{}) error {
	v, ok := value.(decimal.Decimal)
	if !ok || v.IsNegative() {
		return validation.NewError("validation_negative", "must not be negative")
	}
	return nil
}

func optionalPositiveDecimal(value interface{}) error {
	v, ok := value.(*decimal.Decimal)
	if !ok || v == nil {
		return nil
	}
	return positiveDecimal(*v)
}

func optionalNonNegativeDecimal(value interface{}) error {
	v, ok := value.(*decimal.Decimal)
	if !ok || v == nil {
		return nil
	}
	return nonNegativeDecimal(*v)
}

// ValidationResult is the outcome of a successful coupon validation.
type ValidationResult struct {
	CouponID       uuid.UUID       `json:"coupon_id"`
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalTotal     decimal.Decimal `json:"final_total"`
}
