package service

import (
	"context"

	"github.com/google/uuid"

	"storefront-backend/internal/domains/cart/model"
	"storefront-backend/internal/domains/session"
)

// Service owns all cart reads and mutations. Mutations are applied to
// the session immediately and then persisted; a persistence failure is
// reported as a SyncWarning alongside the updated view, never as an
// error.
type Service interface {
	Load(ctx context.Context, sess *session.Session) (*model.CartView, error)
	AddItem(ctx context.Context, sess *session.Session, req model.AddItemRequest) (*model.CartView, *model.SyncWarning, error)
	UpdateQuantity(ctx context.Context, sess *session.Session, productID uuid.UUID, quantity int) (*model.CartView, *model.SyncWarning, error)
	RemoveItem(ctx context.Context, sess *session.Session, productID uuid.UUID) (*model.CartView, *model.SyncWarning, error)
	Clear(ctx context.Context, sess *session.Session) (*model.CartView, *model.SyncWarning, error)

	// View hydrates the session's items without mutating anything.
	// Checkout uses it to price the cart it is about to convert.
	View(ctx context.Context, sess *session.Session) (*model.CartView, error)
}
