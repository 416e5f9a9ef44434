package repository

import (
	"context"

	"github.com/google/uuid"

	"storefront-backend/internal/domains/cart/model"
	"storefront-backend/internal/domains/session"
)

// Repository persists carts. A missing cart is reported as (nil, nil),
// not an error, because an absent row simply means an empty cart.
type Repository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error)
	Upsert(ctx context.Context, userID uuid.UUID, items []session.Item) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}
