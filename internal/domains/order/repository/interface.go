package repository

import (
	"context"

	"github.com/google/uuid"

	"storefront-backend/internal/domains/order/model"
)

// Repository persists orders and their item snapshots.
type Repository interface {
	// CreateWithItems inserts the order and all item rows in one
	// transaction. Either everything lands or nothing does.
	CreateWithItems(ctx context.Context, order *model.Order) error

	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByIDForUser scopes the lookup to the owner.
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*model.Order, error)

	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
	List(ctx context.Context, status string, page, limit int) ([]model.Order, int, error)

	// UpdateStatus moves the order forward. The expected current status
	// guards against concurrent admin updates; a mismatch returns
	// model.ErrInvalidStatusTransition.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) error

	// SetAdminMessage replaces the store's note on the order.
	SetAdminMessage(ctx context.Context, id uuid.UUID, message string) error

	SetHandoffMessageID(ctx context.Context, id uuid.UUID, messageID string) error
}
