package repository

import (
	"context"

	"github.com/google/uuid"

	"storefront-backend/internal/domains/coupon/model"
)

// Repository persists coupons and their usage records.
type Repository interface {
	FindByCode(ctx context.Context, code string) (*model.Coupon, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error)

	// HasUsage is the advisory per-user pre-check. It can race with a
	// concurrent checkout; RecordUsage is the authoritative guard.
	HasUsage(ctx context.Context, couponID, userID uuid.UUID) (bool, error)

	// RecordUsage inserts the usage row and increments used_count in one
	// transaction. A duplicate (coupon_id, user_id) pair returns
	// model.ErrCouponAlreadyUsed.
	RecordUsage(ctx context.Context, usage *model.CouponUsage) error

	ListVisible(ctx context.Context) ([]model.Coupon, error)

	// Admin operations
	List(ctx context.Context) ([]model.Coupon, error)
	Create(ctx context.Context, coupon *model.Coupon) error
	Update(ctx context.Context, coupon *model.Coupon) error
	Delete(ctx context.Context, id uuid.UUID) error

	// DeactivateExpired flips is_active off for coupons past their window.
	// Returns the number of rows touched.
	DeactivateExpired(ctx context.Context) (int64, error)
}
