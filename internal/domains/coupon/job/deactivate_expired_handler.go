package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"storefront-backend/internal/domains/coupon/repository"
	"storefront-backend/pkg/logger"
)

// DeactivateExpiredHandler retires coupons whose validity window has
// closed. Scheduled periodically; the update is idempotent.
type DeactivateExpiredHandler struct {
	couponRepo repository.Repository
}

func NewDeactivateExpiredHandler(couponRepo repository.Repository) *DeactivateExpiredHandler {
	return &DeactivateExpiredHandler{couponRepo: couponRepo}
}

func (h *DeactivateExpiredHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	count, err := h.couponRepo.DeactivateExpired(ctx)
	if err != nil {
		return fmt.Errorf("deactivate expired coupons: %w", err)
	}

	logger.Info("expired coupon sweep completed", map[string]interface{}{
		"deactivated": count,
	})
	return nil
}
