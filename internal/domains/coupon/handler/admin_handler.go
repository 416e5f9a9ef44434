package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront-backend/internal/domains/coupon/model"
	"storefront-backend/internal/domains/coupon/service"
	"storefront-backend/internal/shared/response"
	"storefront-backend/pkg/logger"
)

type AdminHandler struct {
	service service.Service
}

func NewAdminHandler(svc service.Service) *AdminHandler {
	return &AdminHandler{service: svc}
}

// ListCoupons godoc
// GET /api/v1/admin/coupons
func (h *AdminHandler) ListCoupons(c *gin.Context) {
	coupons, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		logger.Error("failed to list coupons", err)
		response.InternalServerError(c, "failed to list coupons")
		return
	}
	response.Success(c, http.StatusOK, coupons)
}

// CreateCoupon godoc
// POST /api/v1/admin/coupons
func (h *AdminHandler) CreateCoupon(c *gin.Context) {
	var req model.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed), "invalid request", err)
		return
	}

	coupon, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.mapError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, coupon)
}

// UpdateCoupon godoc
// PATCH /api/v1/admin/coupons/:id
func (h *AdminHandler) UpdateCoupon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid coupon id")
		return
	}

	var req model.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed), "invalid request", err)
		return
	}

	coupon, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.mapError(c, err)
		return
	}
	response.Success(c, http.StatusOK, coupon)
}

// DeleteCoupon godoc
// DELETE /api/v1/admin/coupons/:id
func (h *AdminHandler) DeleteCoupon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid coupon id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.mapError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *AdminHandler) mapError(c *gin.Context, err error) {
	var appErr *model.AppError
	switch {
	case errors.As(err, &appErr):
		response.ErrorWithDetails(c, appErr.HTTPStatus, string(appErr.Code), appErr.Message, appErr.Details)
	case errors.Is(err, model.ErrCouponNotFound):
		response.NotFound(c, "coupon not found")
	case errors.Is(err, model.ErrDuplicateCode):
		response.ErrorResponse(c, http.StatusConflict, string(model.ErrCodeDuplicateCode), "coupon code already exists")
	default:
		logger.Error("coupon admin operation failed", err)
		response.InternalServerError(c, "coupon operation failed")
	}
}
