package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domains/coupon/model"
	"storefront-backend/internal/domains/session"
)

// Service validates and manages coupons. Validation is a pure check
// against the live subtotal; it never consumes the coupon. Consumption
// happens exactly once, at checkout, via ConsumeUsage.
type Service interface {
	// Validate runs the full rule chain for a code against a subtotal.
	// Rejections come back as *model.AppError with a tagged reason.
	Validate(ctx context.Context, userID uuid.UUID, code string, subtotal decimal.Decimal) (*model.ValidationResult, error)

	// Apply validates and stores the outcome on the session.
	Apply(ctx context.Context, sess *session.Session, code string, subtotal decimal.Decimal) (*model.ValidationResult, error)

	// Remove drops the applied coupon from the session.
	Remove(sess *session.Session)

	// ConsumeUsage records the redemption. Returns
	// model.ErrCouponAlreadyUsed when this user already consumed the coupon.
	ConsumeUsage(ctx context.Context, couponID, userID uuid.UUID, discount decimal.Decimal) error

	ListVisible(ctx context.Context) ([]model.Coupon, error)

	// Admin operations
	ListAll(ctx context.Context) ([]model.Coupon, error)
	Create(ctx context.Context, req model.CreateCouponRequest) (*model.Coupon, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateCouponRequest) (*model.Coupon, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// DeactivateExpired is run by the scheduler to retire coupons whose
	// window has closed.
	DeactivateExpired(ctx context.Context) (int64, error)
}
