package model

import "errors"

var (
	ErrCouponNotFound    = errors.New("coupon not found")
	ErrDuplicateCode     = errors.New("coupon code already exists")
	ErrCouponAlreadyUsed = errors.New("coupon already used by this user")
)

type ErrorCode string

const (
	// Validation rejections (the validator's tagged reasons)
	ErrCodeCouponNotFound    ErrorCode = "COUPON_NOT_FOUND"     // 404
	ErrCodeCouponInactive    ErrorCode = "COUPON_INACTIVE"      // 400
	ErrCodeCouponNotStarted  ErrorCode = "COUPON_NOT_STARTED"   // 400
	ErrCodeCouponExpired     ErrorCode = "COUPON_EXPIRED"       // 400
	ErrCodeCouponMinOrder    ErrorCode = "COUPON_MIN_ORDER_NOT_MET" // 400
	ErrCodeCouponExhausted   ErrorCode = "COUPON_EXHAUSTED"     // 400
	ErrCodeCouponAlreadyUsed ErrorCode = "COUPON_ALREADY_USED"  // 409

	// Admin operation errors
	ErrCodeDuplicateCode ErrorCode = "VAL_DUPLICATE_CODE" // 409

	ErrCodeValidationFailed ErrorCode = "VAL_INVALID_INPUT" // 400
	ErrCodeInternalError    ErrorCode = "SYS_INTERNAL_ERROR" // 500
)

type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	HTTPStatus int                    `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Predefined validation rejections
var (
	ErrRejectNotFound = &AppError{
		Code:       ErrCodeCouponNotFound,
		Message:    "This coupon code does not exist",
		HTTPStatus: 404,
	}

	ErrRejectInactive = &AppError{
		Code:       ErrCodeCouponInactive,
		Message:    "This coupon is no longer active",
		HTTPStatus: 400,
	}

	ErrRejectNotStarted = &AppError{
		Code:       ErrCodeCouponNotStarted,
		Message:    "This coupon is not valid yet",
		HTTPStatus: 400,
	}

	ErrRejectExpired = &AppError{
		Code:       ErrCodeCouponExpired,
		Message:    "This coupon has expired",
		HTTPStatus: 400,
	}

	ErrRejectExhausted = &AppError{
		Code:       ErrCodeCouponExhausted,
		Message:    "This coupon has reached its usage limit",
		HTTPStatus: 400,
	}

	ErrRejectAlreadyUsed = &AppError{
		Code:       ErrCodeCouponAlreadyUsed,
		Message:    "You have already used this coupon",
		HTTPStatus: 409,
	}
)

// RejectMinOrder carries the threshold so clients can show it.
func RejectMinOrder(minOrder string) *AppError {
	return &AppError{
		Code:       ErrCodeCouponMinOrder,
		Message:    "Order total is below the minimum for this coupon",
		Details:    map[string]interface{}{"min_order_value": minOrder},
		HTTPStatus: 400,
	}
}
