package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// ===================================
// CHECKOUT PHASES & RESPONSES
// ===================================

// Checkout phase names, in execution order.
const (
	PhaseCartValidation   = "CART_VALIDATION"
	PhaseCouponValidation = "COUPON_VALIDATION"
	PhaseUsageRecording   = "USAGE_RECORDING"
	PhaseOrderCreation    = "ORDER_CREATION"
	PhaseCartClearing     = "CART_CLEARING"
	PhaseHandoff          = "HANDOFF"
)

// CheckoutPhaseResult records the outcome of one phase.
type CheckoutPhaseResult struct {
	Phase     string    `json:"phase"`
	Status    string    `json:"status"` // "success", "failed", "warning"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type CheckoutError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// CheckoutWarning reports a non-fatal problem. A completed checkout can
// still carry warnings, for example when clearing the cart failed.
type CheckoutWarning struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

type CheckoutResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"` // "completed", "failed"

	OrderID     uuid.UUID `json:"order_id,omitempty"`
	OrderNumber string    `json:"order_number,omitempty"`
	Order       *Order    `json:"order,omitempty"`

	// HandoffURL opens the pre-filled conversation with the store.
	HandoffURL string `json:"handoff_url,omitempty"`

	// Phase results (for troubleshooting)
	Phases []CheckoutPhaseResult `json:"phases,omitempty"`

	Errors   []CheckoutError   `json:"errors,omitempty"`
	Warnings []CheckoutWarning `json:"warnings,omitempty"`

	InitiatedAt time.Time  `json:"initiated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// UpdateStatusRequest is the admin status change payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (r UpdateStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.In(
			OrderStatusPending, OrderStatusConfirmed,
			OrderStatusDispatched, OrderStatusDelivered,
		)),
	)
}

// UpdateMessageRequest sets or replaces the admin's note on an order.
type UpdateMessageRequest struct {
	Message string `json:"message"`
}

func (r UpdateMessageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Message, validation.Required, validation.Length(1, 1000)),
	)
}

// ListOrdersRequest carries admin list filters.
type ListOrdersRequest struct {
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

func (r *ListOrdersRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 20
	}
}

func (r ListOrdersRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.In(
			OrderStatusPending, OrderStatusConfirmed,
			OrderStatusDispatched, OrderStatusDelivered,
		)),
	)
}
