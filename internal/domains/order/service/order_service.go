package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/config"
	cartModel "storefront-backend/internal/domains/cart/model"
	cartservice "storefront-backend/internal/domains/cart/service"
	couponModel "storefront-backend/internal/domains/coupon/model"
	couponservice "storefront-backend/internal/domains/coupon/service"
	"storefront-backend/internal/domains/order/model"
	"storefront-backend/internal/domains/order/repository"
	"storefront-backend/internal/domains/session"
	"storefront-backend/internal/shared"
	"storefront-backend/pkg/logger"
)

type OrderService struct {
	repository repository.Repository
	cart       cartservice.Service
	coupons    couponservice.Service
	sessions   SessionStore
	tasks      TaskEnqueuer
	whatsapp   config.WhatsAppConfig
}

func NewOrderService(
	repo repository.Repository,
	cart cartservice.Service,
	coupons couponservice.Service,
	sessions SessionStore,
	tasks TaskEnqueuer,
	whatsapp config.WhatsAppConfig,
) Service {
	return &OrderService{
		repository: repo,
		cart:       cart,
		coupons:    coupons,
		sessions:   sessions,
		tasks:      tasks,
		whatsapp:   whatsapp,
	}
}

// Checkout runs the phases in a fixed order:
//
//	cart validation -> coupon re-validation -> usage recording ->
//	order creation -> cart clearing -> handoff
//
// Usage recording happens before order creation, so a failed order
// insert can leave the coupon consumed. That outcome is surfaced as a
// warning and pinned on the session; a retry reuses the recorded
// discount instead of recording again.
func (s *OrderService) Checkout(ctx context.Context, sess *session.Session) (*model.CheckoutResponse, error) {
	response := &model.CheckoutResponse{
		Success:     false,
		Status:      "failed",
		InitiatedAt: time.Now(),
		Phases:      []model.CheckoutPhaseResult{},
		Errors:      []model.CheckoutError{},
		Warnings:    []model.CheckoutWarning{},
	}

	// ==================== PHASE 0: Identity & in-flight guard ====================
	if !sess.IsAuthenticated() {
		return s.failCheckout(response, "", model.ErrCodeUnauthenticated, "You must be signed in to check out"), nil
	}

	acquired, err := s.sessions.AcquireCheckoutLock(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return s.failCheckout(response, "", model.ErrCodeCheckoutInProgress, "A checkout is already in progress"), nil
	}
	defer func() {
		if err := s.sessions.ReleaseCheckoutLock(context.WithoutCancel(ctx), sess.UserID); err != nil {
			logger.Error("failed to release checkout lock", err)
		}
	}()

	// ==================== PHASE 1: Cart validation ====================
	view, err := s.cart.View(ctx, sess)
	if err != nil {
		return nil, err
	}

	items := snapshotItems(view)
	if len(items) == 0 {
		return s.failCheckout(response, model.PhaseCartValidation, model.ErrCodeEmptyCart, "Your cart is empty"), nil
	}
	s.addPhase(response, model.PhaseCartValidation, "success", "Cart validated")

	subtotal := view.Subtotal

	// ==================== PHASE 2: Coupon re-validation ====================
	var couponID *uuid.UUID
	var couponCode *string
	discount := decimal.Zero

	switch {
	case sess.RecordedUsage != nil:
		// A previous attempt already consumed the coupon. The recorded
		// discount is charged as-is; validating again would reject the
		// coupon as already used.
		id := sess.RecordedUsage.CouponID
		code := sess.RecordedUsage.Code
		couponID, couponCode = &id, &code
		discount = sess.RecordedUsage.DiscountAmount
		if discount.GreaterThan(subtotal) {
			discount = subtotal
		}
		s.addPhase(response, model.PhaseCouponValidation, "success", "Reusing coupon consumed by a previous attempt")

	case sess.AppliedCoupon != nil:
		result, err := s.coupons.Validate(ctx, sess.UserID, sess.AppliedCoupon.Code, subtotal)
		if err != nil {
			var appErr *couponModel.AppError
			if errors.As(err, &appErr) {
				// The coupon went bad between apply and checkout. Drop it
				// so the next attempt does not trip over it again.
				sess.ClearCoupon()
				s.saveSession(ctx, sess)
				return s.failCheckout(response, model.PhaseCouponValidation, string(appErr.Code), appErr.Message), nil
			}
			return nil, err
		}

		id := result.CouponID
		code := result.Code
		couponID, couponCode = &id, &code
		discount = result.DiscountAmount
		sess.AppliedCoupon = &session.AppliedCoupon{
			CouponID:       result.CouponID,
			Code:           result.Code,
			DiscountAmount: result.DiscountAmount,
			FinalTotal:     result.FinalTotal,
		}
		s.addPhase(response, model.PhaseCouponValidation, "success", "Coupon validated against current total")

	default:
		s.addPhase(response, model.PhaseCouponValidation, "success", "No coupon applied")
	}

	// ==================== PHASE 3: Usage recording ====================
	if couponID != nil && sess.RecordedUsage == nil {
		err := s.coupons.ConsumeUsage(ctx, *couponID, sess.UserID, discount)
		if err != nil {
			if errors.Is(err, couponModel.ErrCouponAlreadyUsed) {
				// Lost the race to another checkout with the same identity.
				sess.ClearCoupon()
				s.saveSession(ctx, sess)
				return s.failCheckout(response, model.PhaseUsageRecording,
					string(couponModel.ErrCodeCouponAlreadyUsed), "This coupon has already been used"), nil
			}
			logger.Error("coupon usage recording failed", err)
			return s.failCheckout(response, model.PhaseUsageRecording,
				model.ErrCodeCouponApplicationFailed, "Your coupon could not be applied, please try again"), nil
		}

		// Pin the consumed discount before attempting the order insert.
		// If the insert fails, a retry must charge exactly this amount.
		sess.RecordedUsage = &session.RecordedUsage{
			CouponID:       *couponID,
			Code:           *couponCode,
			DiscountAmount: discount,
		}
		s.saveSession(ctx, sess)
		s.addPhase(response, model.PhaseUsageRecording, "success", "Coupon usage recorded")
	}

	// ==================== PHASE 4: Order creation ====================
	order := &model.Order{
		ID:             uuid.New(),
		OrderNumber:    generateOrderNumber(),
		UserID:         sess.UserID,
		UserName:       sess.UserName,
		Status:         model.OrderStatusPending,
		Subtotal:       subtotal,
		DiscountAmount: discount,
		Total:          subtotal.Sub(discount),
		CouponID:       couponID,
		CouponCode:     couponCode,
		Items:          items,
	}

	orderCreated := true
	if err := s.repository.CreateWithItems(ctx, order); err != nil {
		orderCreated = false
		logger.Error("order creation failed", err)
		s.addPhase(response, model.PhaseOrderCreation, "failed", "Order could not be created")
		response.Errors = append(response.Errors, model.CheckoutError{
			Code:    model.ErrCodeOrderCreationFailed,
			Message: "Order could not be created, please try again",
		})
		if sess.RecordedUsage != nil {
			response.Warnings = append(response.Warnings, model.CheckoutWarning{
				Code:    model.WarnCouponConsumed,
				Message: "Your coupon was charged but no order was created; retrying will honor the same discount",
				Details: map[string]interface{}{"coupon_code": sess.RecordedUsage.Code},
			})
			s.saveSession(ctx, sess)
		}
	} else {
		s.addPhase(response, model.PhaseOrderCreation, "success", "Order created")
		response.OrderID = order.ID
		response.OrderNumber = order.OrderNumber
		response.Order = order
	}

	// ==================== PHASE 5: Cart clearing ====================
	// Only after a created order; the order stands regardless of what
	// happens here.
	if orderCreated {
		if _, warning, err := s.cart.Clear(ctx, sess); err != nil || warning != nil {
			if err != nil {
				logger.Error("failed to clear cart after checkout", err)
			}
			s.addPhase(response, model.PhaseCartClearing, "warning", "Cart could not be cleared")
			response.Warnings = append(response.Warnings, model.CheckoutWarning{
				Code:    model.WarnCartClearFailed,
				Message: "Your order was placed but the cart could not be cleared",
			})
		} else {
			s.addPhase(response, model.PhaseCartClearing, "success", "Cart cleared")
		}

		sess.ClearCheckoutState()
		s.saveSession(ctx, sess)
	}

	// ==================== PHASE 6: Handoff ====================
	// Always attempted: when the order insert failed the store still
	// receives the request, and the customer still gets the link.
	message := BuildHandoffMessage(order)
	response.HandoffURL = s.handoffURL(message)

	if err := s.enqueueSendHandoff(order, message); err != nil {
		logger.Error("failed to enqueue handoff task", err)
		s.addPhase(response, model.PhaseHandoff, "warning", "Handoff message not queued")
		response.Warnings = append(response.Warnings, model.CheckoutWarning{
			Code:    model.WarnHandoffNotQueued,
			Message: "Use the handoff link to contact the store",
		})
	} else {
		s.addPhase(response, model.PhaseHandoff, "success", "Handoff message queued")
	}

	if orderCreated {
		now := time.Now()
		response.Success = true
		response.Status = "completed"
		response.CompletedAt = &now
	}
	return response, nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	return s.repository.GetByIDForUser(ctx, orderID, userID)
}

func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	return s.repository.ListByUser(ctx, userID)
}

func (s *OrderService) GetOrderAdmin(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	return s.repository.GetByID(ctx, orderID)
}

func (s *OrderService) ListAllOrders(ctx context.Context, req model.ListOrdersRequest) ([]model.Order, int, error) {
	req.Normalize()
	return s.repository.List(ctx, req.Status, req.Page, req.Limit)
}

// UpdateStatus moves an order forward through its lifecycle. The update
// is conditional on the status we read, so two admins racing each other
// cannot apply conflicting transitions.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*model.Order, error) {
	order, err := s.repository.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !model.CanTransition(order.Status, status) {
		return nil, model.ErrInvalidStatusTransition
	}

	if err := s.repository.UpdateStatus(ctx, orderID, order.Status, status); err != nil {
		return nil, err
	}

	order.Status = status
	logger.Info("order status updated", map[string]interface{}{
		"order_id":     orderID,
		"order_number": order.OrderNumber,
		"status":       status,
	})
	return order, nil
}

func (s *OrderService) UpdateAdminMessage(ctx context.Context, orderID uuid.UUID, message string) (*model.Order, error) {
	order, err := s.repository.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.repository.SetAdminMessage(ctx, orderID, message); err != nil {
		return nil, err
	}

	order.AdminMessage = &message
	return order, nil
}

func (s *OrderService) addPhase(response *model.CheckoutResponse, phase, status, message string) {
	response.Phases = append(response.Phases, model.CheckoutPhaseResult{
		Phase:     phase,
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
	})
}

func (s *OrderService) failCheckout(response *model.CheckoutResponse, phase, code, message string) *model.CheckoutResponse {
	if phase != "" {
		s.addPhase(response, phase, "failed", message)
	}
	response.Status = "failed"
	response.Errors = append(response.Errors, model.CheckoutError{
		Code:    code,
		Message: message,
	})
	return response
}

func (s *OrderService) saveSession(ctx context.Context, sess *session.Session) {
	if err := s.sessions.Save(ctx, sess); err != nil {
		logger.Error("failed to save session during checkout", err)
	}
}

func (s *OrderService) handoffURL(message string) string {
	return s.whatsapp.BaseURL + s.whatsapp.BusinessNumber + "?text=" + url.QueryEscape(message)
}

func (s *OrderService) enqueueSendHandoff(order *model.Order, message string) error {
	payload, err := json.Marshal(model.SendHandoffPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Message:     message,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeSendOrderHandoff, payload)
	_, err = s.tasks.Enqueue(task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
	)
	return err
}

// snapshotItems copies the available cart lines into order item
// snapshots. Unavailable lines are dropped from the order.
func snapshotItems(view *cartModel.CartView) []model.OrderItem {
	items := make([]model.OrderItem, 0, len(view.Items))
	for _, line := range view.Items {
		if line.Unavailable {
			continue
		}
		items = append(items, model.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Image:     line.Image,
			Price:     line.Price,
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal,
		})
	}
	return items
}

func generateOrderNumber() string {
	suffix := strings.ToUpper(uuid.New().String()[:8])
	return "ORD-" + time.Now().Format("20060102") + "-" + suffix
}
