package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront-backend/internal/domains/order/model"
	"storefront-backend/internal/domains/order/service"
	"storefront-backend/internal/domains/session"
	"storefront-backend/internal/shared/middleware"
	"storefront-backend/internal/shared/response"
	"storefront-backend/pkg/logger"
)

type OrderHandler struct {
	service  service.Service
	sessions *session.Store
}

func NewOrderHandler(svc service.Service, sessions *session.Store) *OrderHandler {
	return &OrderHandler{service: svc, sessions: sessions}
}

// Checkout godoc
// POST /api/v1/checkout
// The response always carries the phase log. A failed checkout is an
// HTTP 200 with success=false; callers inspect the tagged errors.
func (h *OrderHandler) Checkout(c *gin.Context) {
	sess, err := h.sessions.Get(
		c.Request.Context(),
		middleware.UserIDFromContext(c),
		middleware.UserNameFromContext(c),
	)
	if err != nil {
		logger.Error("failed to load session", err)
		response.InternalServerError(c, "failed to load session")
		return
	}

	result, err := h.service.Checkout(c.Request.Context(), sess)
	if err != nil {
		logger.Error("checkout failed", err)
		response.InternalServerError(c, "checkout failed")
		return
	}
	response.Success(c, http.StatusOK, result)
}

// ListMyOrders godoc
// GET /api/v1/orders
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	orders, err := h.service.ListOrders(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		logger.Error("failed to list orders", err)
		response.InternalServerError(c, "failed to list orders")
		return
	}
	response.Success(c, http.StatusOK, orders)
}

// GetMyOrder godoc
// GET /api/v1/orders/:id
func (h *OrderHandler) GetMyOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), middleware.UserIDFromContext(c), orderID)
	if err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			response.NotFound(c, "order not found")
			return
		}
		logger.Error("failed to get order", err)
		response.InternalServerError(c, "failed to get order")
		return
	}
	response.Success(c, http.StatusOK, order)
}
