package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront-backend/internal/domains/order/model"
	"storefront-backend/internal/domains/order/service"
	"storefront-backend/internal/shared/response"
	"storefront-backend/pkg/logger"
)

type AdminHandler struct {
	service service.Service
}

func NewAdminHandler(svc service.Service) *AdminHandler {
	return &AdminHandler{service: svc}
}

// ListOrders godoc
// GET /api/v1/admin/orders
func (h *AdminHandler) ListOrders(c *gin.Context) {
	var req model.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VAL_INVALID_INPUT", "invalid request", err)
		return
	}
	req.Normalize()

	orders, total, err := h.service.ListAllOrders(c.Request.Context(), req)
	if err != nil {
		logger.Error("failed to list orders", err)
		response.InternalServerError(c, "failed to list orders")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, orders, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

// GetOrder godoc
// GET /api/v1/admin/orders/:id
func (h *AdminHandler) GetOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	order, err := h.service.GetOrderAdmin(c.Request.Context(), orderID)
	if err != nil {
		h.mapError(c, err)
		return
	}
	response.Success(c, http.StatusOK, order)
}

// UpdateStatus godoc
// PATCH /api/v1/admin/orders/:id/status
// Status moves forward only; regressions are rejected.
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VAL_INVALID_INPUT", "invalid request", err)
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		h.mapError(c, err)
		return
	}
	response.Success(c, http.StatusOK, order)
}

// UpdateMessage godoc
// PATCH /api/v1/admin/orders/:id/message
func (h *AdminHandler) UpdateMessage(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	var req model.UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VAL_INVALID_INPUT", "invalid request", err)
		return
	}

	order, err := h.service.UpdateAdminMessage(c.Request.Context(), orderID, req.Message)
	if err != nil {
		h.mapError(c, err)
		return
	}
	response.Success(c, http.StatusOK, order)
}

func (h *AdminHandler) mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrOrderNotFound):
		response.NotFound(c, "order not found")
	case errors.Is(err, model.ErrInvalidStatusTransition):
		response.ErrorResponse(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", "order status can only move forward")
	default:
		logger.Error("order admin operation failed", err)
		response.InternalServerError(c, "order operation failed")
	}
}
