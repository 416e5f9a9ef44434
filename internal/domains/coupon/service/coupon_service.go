package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domains/coupon/model"
	"storefront-backend/internal/domains/coupon/repository"
	"storefront-backend/internal/domains/session"
	"storefront-backend/pkg/logger"
)

type CouponService struct {
	repository repository.Repository
}

func NewCouponService(repo repository.Repository) Service {
	return &CouponService{repository: repo}
}

// Validate runs the rule chain in a fixed order and stops at the first
// failure:
//
//  1. the code resolves to an active coupon
//  2. the current time falls inside the validity window
//  3. the subtotal meets the minimum order value
//  4. the global usage cap is not exhausted
//  5. this user has not already used the coupon (advisory; the unique
//     constraint at consumption time is the real guard)
//
// The outcome holds only for the subtotal it was computed against. If
// the cart changes afterwards the caller must validate again.
func (s *CouponService) Validate(ctx context.Context, userID uuid.UUID, code string, subtotal decimal.Decimal) (*model.ValidationResult, error) {
	coupon, err := s.repository.FindByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, model.ErrCouponNotFound) {
			return nil, model.ErrRejectNotFound
		}
		return nil, err
	}
	if !coupon.IsActive {
		return nil, model.ErrRejectInactive
	}

	started, expired := coupon.InWindow(time.Now())
	if !started {
		return nil, model.ErrRejectNotStarted
	}
	if expired {
		return nil, model.ErrRejectExpired
	}

	if subtotal.LessThan(coupon.MinOrderValue) {
		return nil, model.RejectMinOrder(coupon.MinOrderValue.String())
	}

	if coupon.IsExhausted() {
		return nil, model.ErrRejectExhausted
	}

	used, err := s.repository.HasUsage(ctx, coupon.ID, userID)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, model.ErrRejectAlreadyUsed
	}

	discount := coupon.CalculateDiscount(subtotal)
	return &model.ValidationResult{
		CouponID:       coupon.ID,
		Code:           coupon.Code,
		DiscountAmount: discount,
		FinalTotal:     subtotal.Sub(discount),
	}, nil
}

func (s *CouponService) Apply(ctx context.Context, sess *session.Session, code string, subtotal decimal.Decimal) (*model.ValidationResult, error) {
	result, err := s.Validate(ctx, sess.UserID, code, subtotal)
	if err != nil {
		return nil, err
	}

	sess.AppliedCoupon = &session.AppliedCoupon{
		CouponID:       result.CouponID,
		Code:           result.Code,
		DiscountAmount: result.DiscountAmount,
		FinalTotal:     result.FinalTotal,
	}
	return result, nil
}

func (s *CouponService) Remove(sess *session.Session) {
	sess.ClearCoupon()
}

func (s *CouponService) ConsumeUsage(ctx context.Context, couponID, userID uuid.UUID, discount decimal.Decimal) error {
	usage := &model.CouponUsage{
		CouponID:       couponID,
		UserID:         userID,
		DiscountAmount: discount,
	}
	return s.repository.RecordUsage(ctx, usage)
}

func (s *CouponService) ListVisible(ctx context.Context) ([]model.Coupon, error) {
	return s.repository.ListVisible(ctx)
}

func (s *CouponService) ListAll(ctx context.Context) ([]model.Coupon, error) {
	return s.repository.List(ctx)
}

func (s *CouponService) Create(ctx context.Context, req model.CreateCouponRequest) (*model.Coupon, error) {
	coupon := &model.Coupon{
		Code:          strings.ToUpper(strings.TrimSpace(req.Code)),
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		MinOrderValue: req.MinOrderValue,
		MaxUses:       req.MaxUses,
		StartsAt:      req.StartsAt,
		ExpiresAt:     req.ExpiresAt,
		IsActive:      req.IsActive,
		IsVisible:     req.IsVisible,
	}
	if err := s.repository.Create(ctx, coupon); err != nil {
		return nil, err
	}

	logger.Info("coupon created", map[string]interface{}{
		"coupon_id": coupon.ID,
		"code":      coupon.Code,
	})
	return coupon, nil
}

func (s *CouponService) Update(ctx context.Context, id uuid.UUID, req model.UpdateCouponRequest) (*model.Coupon, error) {
	coupon, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DiscountType != nil {
		coupon.DiscountType = *req.DiscountType
	}
	if req.DiscountValue != nil {
		coupon.DiscountValue = *req.DiscountValue
	}
	if coupon.DiscountType == model.DiscountTypePercent &&
		coupon.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return nil, &model.AppError{
			Code:       model.ErrCodeValidationFailed,
			Message:    "percent discount cannot exceed 100",
			HTTPStatus: 400,
		}
	}
	if req.MinOrderValue != nil {
		coupon.MinOrderValue = *req.MinOrderValue
	}
	if req.MaxUses != nil {
		coupon.MaxUses = req.MaxUses
	}
	if req.StartsAt != nil {
		coupon.StartsAt = req.StartsAt
	}
	if req.ExpiresAt != nil {
		coupon.ExpiresAt = req.ExpiresAt
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}
	if req.IsVisible != nil {
		coupon.IsVisible = *req.IsVisible
	}

	if err := s.repository.Update(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *CouponService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repository.Delete(ctx, id)
}

func (s *CouponService) DeactivateExpired(ctx context.Context) (int64, error) {
	count, err := s.repository.DeactivateExpired(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.Info("deactivated expired coupons", map[string]interface{}{
			"count": count,
		})
	}
	return count, nil
}
