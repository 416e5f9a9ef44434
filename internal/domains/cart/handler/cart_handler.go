package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront-backend/internal/domains/cart/model"
	"storefront-backend/internal/domains/cart/service"
	"storefront-backend/internal/domains/session"
	"storefront-backend/internal/shared/middleware"
	"storefront-backend/internal/shared/response"
	"storefront-backend/pkg/logger"
)

type CartHandler struct {
	service  service.Service
	sessions *session.Store
}

func NewCartHandler(svc service.Service, sessions *session.Store) *CartHandler {
	return &CartHandler{service: svc, sessions: sessions}
}

// cartPayload wraps a cart view with an optional sync warning.
type cartPayload struct {
	Cart    *model.CartView    `json:"cart"`
	Warning *model.SyncWarning `json:"warning,omitempty"`
}

// GetCart godoc
// GET /api/v1/cart
// An anonymous caller gets an empty cart, not an error.
func (h *CartHandler) GetCart(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	view, err := h.service.Load(c.Request.Context(), sess)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cartPayload{Cart: view})
}

// AddItem godoc
// POST /api/v1/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req model.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request", err)
		return
	}

	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	view, warning, err := h.service.AddItem(c.Request.Context(), sess, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.saveSession(c, sess)
	response.Success(c, http.StatusOK, cartPayload{Cart: view, Warning: warning})
}

// UpdateItem godoc
// PATCH /api/v1/cart/items/:productId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}

	var req model.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request", err)
		return
	}

	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	view, warning, err := h.service.UpdateQuantity(c.Request.Context(), sess, productID, req.Quantity)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.saveSession(c, sess)
	response.Success(c, http.StatusOK, cartPayload{Cart: view, Warning: warning})
}

// RemoveItem godoc
// DELETE /api/v1/cart/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}

	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	view, warning, err := h.service.RemoveItem(c.Request.Context(), sess, productID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.saveSession(c, sess)
	response.Success(c, http.StatusOK, cartPayload{Cart: view, Warning: warning})
}

// ClearCart godoc
// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	view, warning, err := h.service.Clear(c.Request.Context(), sess)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.saveSession(c, sess)
	response.Success(c, http.StatusOK, cartPayload{Cart: view, Warning: warning})
}

func (h *CartHandler) loadSession(c *gin.Context) (*session.Session, bool) {
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

func (h *CartHandler) saveSession(c *gin.Context, sess *session.Session) {
	if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
		logger.Error("failed to save session", err)
	}
}

func (h *CartHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrUnauthenticated):
		response.Unauthorized(c, "authentication required")
	case errors.Is(err, model.ErrProductNotFound):
		response.NotFound(c, "product not found or unavailable")
	case errors.Is(err, model.ErrInvalidQuantity):
		response.BadRequest(c, "quantity out of range")
	default:
		logger.Error("cart operation failed", err)
		response.InternalServerError(c, "cart operation failed")
	}
}
