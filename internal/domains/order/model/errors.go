package model

import "errors"

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)

// Checkout failure and warning codes.
const (
	ErrCodeUnauthenticated     = "UNAUTHENTICATED"
	ErrCodeCheckoutInProgress  = "CHECKOUT_IN_PROGRESS"
	ErrCodeEmptyCart           = "EMPTY_CART"
	ErrCodeOrderCreationFailed = "ORDER_CREATION_FAILED"

	// ErrCodeCouponApplicationFailed covers usage recording failures that
	// are not the duplicate-use case, such as a lost database connection.
	ErrCodeCouponApplicationFailed = "COUPON_APPLICATION_FAILED"

	// WarnCouponConsumed flags the partial failure where the usage row
	// was written but the order insert failed. The coupon stays consumed;
	// a retry reuses the recorded discount instead of re-charging it.
	WarnCouponConsumed  = "COUPON_CONSUMED_WITHOUT_ORDER"
	WarnCartClearFailed = "CART_CLEAR_FAILED"
	WarnHandoffNotQueued = "HANDOFF_NOT_QUEUED"
)
