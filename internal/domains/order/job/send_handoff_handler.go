package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"storefront-backend/internal/domains/order/model"
	"storefront-backend/internal/domains/order/repository"
	"storefront-backend/internal/infrastructure/messaging"
	"storefront-backend/pkg/logger"
)

// SendHandoffHandler delivers the order summary to the store's WhatsApp
// number and records the message id on the order.
type SendHandoffHandler struct {
	orderRepo repository.Repository
	channel   messaging.Channel
	to        string
}

func NewSendHandoffHandler(orderRepo repository.Repository, channel messaging.Channel, to string) *SendHandoffHandler {
	return &SendHandoffHandler{
		orderRepo: orderRepo,
		channel:   channel,
		to:        to,
	}
}

func (h *SendHandoffHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload model.SendHandoffPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal handoff payload: %w", err)
	}

	logger.Info("processing order handoff task", map[string]interface{}{
		"order_id":     payload.OrderID,
		"order_number": payload.OrderNumber,
	})

	messageID, err := h.channel.Send(ctx, h.to, payload.Message)
	if err != nil {
		return fmt.Errorf("send handoff message: %w", err)
	}

	if err := h.orderRepo.SetHandoffMessageID(ctx, payload.OrderID, messageID); err != nil {
		// The message went out; failing the task would resend it.
		logger.Error("failed to record handoff message id", err)
		return nil
	}

	logger.Info("order handoff sent", map[string]interface{}{
		"order_id":   payload.OrderID,
		"message_id": messageID,
	})
	return nil
}
