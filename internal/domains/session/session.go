package session

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session is the explicitly scoped per-identity state shared by the cart
// store, the coupon validator and the checkout orchestrator. It replaces
// ambient global cart state: every service takes it by reference and its
// lifecycle is tied to the identity's active session.
type Session struct {
	UserID   uuid.UUID `json:"user_id"`
	UserName string    `json:"user_name"`

	// In-memory cart for this session. Hydrated from the remote record by
	// the cart store; source of truth for the current session after any
	// optimistic mutation.
	Items  []Item `json:"items"`
	Loaded bool   `json:"-"`

	// AppliedCoupon is transient checkout state, derived by the validator.
	// Never trusted at checkout without re-validation against the live total.
	AppliedCoupon *AppliedCoupon `json:"applied_coupon,omitempty"`

	// RecordedUsage marks that the applied coupon was already consumed by a
	// checkout attempt whose order insert failed. A retry skips usage
	// recording instead of reporting the coupon as already used.
	RecordedUsage *RecordedUsage `json:"recorded_usage,omitempty"`
}

// Item is one (product, quantity) pair. Product IDs are unique within a cart.
type Item struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// AppliedCoupon is the validator's last successful decision for this session.
type AppliedCoupon struct {
	CouponID       uuid.UUID       `json:"coupon_id"`
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalTotal     decimal.Decimal `json:"final_total"`
}

// RecordedUsage pins the discount that was consumed when the usage row was
// written, so a checkout retry charges exactly that amount.
type RecordedUsage struct {
	CouponID       uuid.UUID       `json:"coupon_id"`
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// New returns a fresh session for the identity. uuid.Nil means anonymous.
func New(userID uuid.UUID, userName string) *Session {
	return &Session{
		UserID:   userID,
		UserName: userName,
		Items:    []Item{},
	}
}

// IsAuthenticated reports whether the session carries an identity.
func (s *Session) IsAuthenticated() bool {
	return s.UserID != uuid.Nil
}

// TotalItems is the derived sum of quantities. Recomputed, never stored.
func (s *Session) TotalItems() int {
	total := 0
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

// ItemQuantity returns the quantity for a product, 0 when absent.
func (s *Session) ItemQuantity(productID uuid.UUID) int {
	for _, item := range s.Items {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}

// ClearCoupon drops the applied coupon from the session.
func (s *Session) ClearCoupon() {
	s.AppliedCoupon = nil
}

// ClearCheckoutState drops all transient checkout state after a completed
// or abandoned checkout.
func (s *Session) ClearCheckoutState() {
	s.AppliedCoupon = nil
	s.RecordedUsage = nil
}
