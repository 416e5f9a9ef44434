package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"storefront-backend/internal/domains/order/model"
	"storefront-backend/internal/domains/session"
)

// SessionStore is the slice of session.Store the checkout needs.
type SessionStore interface {
	Save(ctx context.Context, sess *session.Session) error
	AcquireCheckoutLock(ctx context.Context, userID uuid.UUID) (bool, error)
	ReleaseCheckoutLock(ctx context.Context, userID uuid.UUID) error
}

// TaskEnqueuer matches asynq.Client's enqueue surface.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Service runs checkout and exposes order reads and the admin status
// surface. Checkout is the only write path that creates orders.
type Service interface {
	// Checkout converts the session's cart into an order. The returned
	// response always describes what happened, phase by phase; the error
	// is reserved for infrastructure failures that produced no outcome.
	Checkout(ctx context.Context, sess *session.Session) (*model.CheckoutResponse, error)

	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// Admin operations
	GetOrderAdmin(ctx context.Context, orderID uuid.UUID) (*model.Order, error)
	ListAllOrders(ctx context.Context, req model.ListOrdersRequest) ([]model.Order, int, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*model.Order, error)
	UpdateAdminMessage(ctx context.Context, orderID uuid.UUID, message string) (*model.Order, error)
}
