package main

import (
	"github.com/hibiken/asynq"

	couponJob "storefront-backend/internal/domains/coupon/job"
	orderJob "storefront-backend/internal/domains/order/job"
	"storefront-backend/internal/shared"
	"storefront-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	sendHandoff       *orderJob.SendHandoffHandler
	deactivateExpired *couponJob.DeactivateExpiredHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		sendHandoff: orderJob.NewSendHandoffHandler(
			c.OrderRepo,
			c.Channel,
			c.Config.WhatsApp.BusinessNumber,
		),
		deactivateExpired: couponJob.NewDeactivateExpiredHandler(c.CouponRepo),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeSendOrderHandoff, h.sendHandoff.ProcessTask)
	mux.HandleFunc(shared.TypeDeactivateExpiredCoupons, h.deactivateExpired.ProcessTask)
}
