package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	cartservice "storefront-backend/internal/domains/cart/service"
	"storefront-backend/internal/domains/coupon/model"
	"storefront-backend/internal/domains/coupon/service"
	"storefront-backend/internal/domains/session"
	"storefront-backend/internal/shared/middleware"
	"storefront-backend/internal/shared/response"
	"storefront-backend/pkg/logger"
)

type CouponHandler struct {
	service  service.Service
	cart     cartservice.Service
	sessions *session.Store
}

func NewCouponHandler(svc service.Service, cart cartservice.Service, sessions *session.Store) *CouponHandler {
	return &CouponHandler{service: svc, cart: cart, sessions: sessions}
}

// ApplyCoupon godoc
// POST /api/v1/cart/coupon
// Validates the code against the live cart subtotal and stores the
// outcome on the session. Nothing is consumed here.
func (h *CouponHandler) ApplyCoupon(c *gin.Context) {
	var req model.ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed), "invalid request", err)
		return
	}

	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	view, err := h.cart.Load(c.Request.Context(), sess)
	if err != nil {
		logger.Error("failed to load cart for coupon apply", err)
		response.InternalServerError(c, "failed to load cart")
		return
	}

	result, err := h.service.Apply(c.Request.Context(), sess, req.Code, view.Subtotal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
		logger.Error("failed to save session", err)
	}
	response.Success(c, http.StatusOK, result)
}

// RemoveCoupon godoc
// DELETE /api/v1/cart/coupon
func (h *CouponHandler) RemoveCoupon(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	h.service.Remove(sess)
	if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
		logger.Error("failed to save session", err)
	}
	response.Success(c, http.StatusOK, gin.H{"removed": true})
}

// ListCoupons godoc
// GET /api/v1/coupons
// Public listing; only coupons flagged visible appear here. Hidden
// coupons still apply by code.
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	coupons, err := h.service.ListVisible(c.Request.Context())
	if err != nil {
		logger.Error("failed to list coupons", err)
		response.InternalServerError(c, "failed to list coupons")
		return
	}
	response.Success(c, http.StatusOK, coupons)
}

func (h *CouponHandler) loadSession(c *gin.Context) (*session.Session, bool) {
	sess, err := h.sessions.Get(
		c.Request.Context(),
		middleware.UserIDFromContext(c),
		middleware.UserNameFromContext(c),
	)
	if err != nil {
		logger.Error("failed to load session", err)
		response.InternalServerError(c, "failed to load session")
		return nil, false
	}
	return sess, true
}

func (h *CouponHandler) handleError(c *gin.Context, err error) {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		response.ErrorWithDetails(c, appErr.HTTPStatus, string(appErr.Code), appErr.Message, appErr.Details)
		return
	}

	logger.Error("coupon operation failed", err)
	response.InternalServerError(c, "coupon operation failed")
}
