package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// ORDER STATUS CONSTANTS
// =====================================================
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusDispatched = "dispatched"
	OrderStatusDelivered  = "delivered"
)

// statusRank orders the lifecycle. Transitions only move forward.
var statusRank = map[string]int{
	OrderStatusPending:    0,
	OrderStatusConfirmed:  1,
	OrderStatusDispatched: 2,
	OrderStatusDelivered:  3,
}

// IsValidStatus reports whether s is a known order status.
func IsValidStatus(s string) bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransition reports whether an order may move from one status to
// another. Backward moves are never allowed.
func CanTransition(from, to string) bool {
	fromRank, ok1 := statusRank[from]
	toRank, ok2 := statusRank[to]
	return ok1 && ok2 && toRank > fromRank
}

// =====================================================
// ENTITY: Order
// =====================================================
type Order struct {
	ID          uuid.UUID `json:"id"`
	OrderNumber string    `json:"order_number"`
	UserID      uuid.UUID `json:"user_id"`
	UserName    string    `json:"user_name"`
	Status      string    `json:"status"`

	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`

	CouponID   *uuid.UUID `json:"coupon_id,omitempty"`
	CouponCode *string    `json:"coupon_code,omitempty"`

	// HandoffMessageID is set once the handoff message has been sent.
	HandoffMessageID *string `json:"handoff_message_id,omitempty"`

	// AdminMessage is a free-form note the store sets for the customer.
	AdminMessage *string `json:"admin_message,omitempty"`

	Items []OrderItem `json:"items,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem snapshots one cart line at checkout time. Name and price are
// copied so later catalog edits do not rewrite order history.
type OrderItem struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   uuid.UUID       `json:"order_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}
