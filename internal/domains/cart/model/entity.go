package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domains/session"
)

// Cart is the persisted row backing a customer's cart. There is at most
// one row per user; the item list is stored as a JSONB document.
type Cart struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	UserID    uuid.UUID      `json:"user_id" db:"user_id"`
	Items     []session.Item `json:"items" db:"items"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// CartItemView is one cart line hydrated with product data.
type CartItemView struct {
	ProductID   uuid.UUID       `json:"product_id"`
	Name        string          `json:"name"`
	Image       string          `json:"image,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
	Unavailable bool            `json:"unavailable,omitempty"`
}

// CartView is the full cart as returned to clients. Subtotal is the sum
// of line totals for available items only.
type CartView struct {
	Items      []CartItemView `json:"items"`
	TotalItems int            `json:"total_items"`
	Subtotal   decimal.Decimal `json:"subtotal"`

	AppliedCoupon *AppliedCouponView `json:"applied_coupon,omitempty"`
}

// AppliedCouponView mirrors the coupon state held in the session.
type AppliedCouponView struct {
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalTotal     decimal.Decimal `json:"final_total"`
}

// SyncWarning reports that a cart mutation was applied to the session
// but could not be persisted. The mutation itself still succeeded.
type SyncWarning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewSyncWarning() *SyncWarning {
	return &SyncWarning{
		Code:    "CART_SYNC_FAILED",
		Message: "cart updated locally but could not be saved, changes may not survive a new session",
	}
}
