package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-backend/internal/config"
	cartmodel "storefront-backend/internal/domains/cart/model"
	couponmodel "storefront-backend/internal/domains/coupon/model"
	"storefront-backend/internal/domains/order/model"
	"storefront-backend/internal/domains/session"
	"storefront-backend/internal/shared"
)

// ---------- fakes ----------

type fakeOrderRepo struct {
	createErr error
	created   []*model.Order
	orders    map[uuid.UUID]*model.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[uuid.UUID]*model.Order{}}
}

func (f *fakeOrderRepo) CreateWithItems(_ context.Context, order *model.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, order)
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

func (f *fakeOrderRepo) GetByIDForUser(_ context.Context, id, userID uuid.UUID) (*model.Order, error) {
	order, ok := f.orders[id]
	if !ok || order.UserID != userID {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

func (f *fakeOrderRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Order, error) {
	out := []model.Order{}
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) List(_ context.Context, _ string, _, _ int) ([]model.Order, int, error) {
	out := []model.Order{}
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to string) error {
	order, ok := f.orders[id]
	if !ok || order.Status != from {
		return model.ErrInvalidStatusTransition
	}
	order.Status = to
	return nil
}

func (f *fakeOrderRepo) SetAdminMessage(_ context.Context, id uuid.UUID, message string) error {
	order, ok := f.orders[id]
	if !ok {
		return model.ErrOrderNotFound
	}
	order.AdminMessage = &message
	return nil
}

func (f *fakeOrderRepo) SetHandoffMessageID(_ context.Context, id uuid.UUID, messageID string) error {
	if order, ok := f.orders[id]; ok {
		order.HandoffMessageID = &messageID
	}
	return nil
}

type fakeCartService struct {
	view     *cartmodel.CartView
	viewErr  error
	clearErr error
	clearWrn *cartmodel.SyncWarning
	cleared  int
}

func (f *fakeCartService) View(context.Context, *session.Session) (*cartmodel.CartView, error) {
	return f.view, f.viewErr
}

func (f *fakeCartService) Load(ctx context.Context, sess *session.Session) (*cartmodel.CartView, error) {
	return f.View(ctx, sess)
}

func (f *fakeCartService) Clear(context.Context, *session.Session) (*cartmodel.CartView, *cartmodel.SyncWarning, error) {
	f.cleared++
	if f.clearErr != nil {
		return nil, nil, f.clearErr
	}
	return &cartmodel.CartView{Items: []cartmodel.CartItemView{}}, f.clearWrn, nil
}

func (f *fakeCartService) AddItem(context.Context, *session.Session, cartmodel.AddItemRequest) (*cartmodel.CartView, *cartmodel.SyncWarning, error) {
	panic("not used")
}

func (f *fakeCartService) UpdateQuantity(context.Context, *session.Session, uuid.UUID, int) (*cartmodel.CartView, *cartmodel.SyncWarning, error) {
	panic("not used")
}

func (f *fakeCartService) RemoveItem(context.Context, *session.Session, uuid.UUID) (*cartmodel.CartView, *cartmodel.SyncWarning, error) {
	panic("not used")
}

type fakeCouponService struct {
	validateResult *couponmodel.ValidationResult
	validateErr    error
	validations    int

	consumeErr error
	consumed   int
}

func (f *fakeCouponService) Validate(context.Context, uuid.UUID, string, decimal.Decimal) (*couponmodel.ValidationResult, error) {
	f.validations++
	return f.validateResult, f.validateErr
}

func (f *fakeCouponService) ConsumeUsage(context.Context, uuid.UUID, uuid.UUID, decimal.Decimal) error {
	f.consumed++
	return f.consumeErr
}

func (f *fakeCouponService) Apply(context.Context, *session.Session, string, decimal.Decimal) (*couponmodel.ValidationResult, error) {
	panic("not used")
}

func (f *fakeCouponService) Remove(*session.Session) { panic("not used") }

func (f *fakeCouponService) ListVisible(context.Context) ([]couponmodel.Coupon, error) {
	panic("not used")
}

func (f *fakeCouponService) ListAll(context.Context) ([]couponmodel.Coupon, error) {
	panic("not used")
}

func (f *fakeCouponService) Create(context.Context, couponmodel.CreateCouponRequest) (*couponmodel.Coupon, error) {
	panic("not used")
}

func (f *fakeCouponService) Update(context.Context, uuid.UUID, couponmodel.UpdateCouponRequest) (*couponmodel.Coupon, error) {
	panic("not used")
}

func (f *fakeCouponService) Delete(context.Context, uuid.UUID) error { panic("not used") }

func (f *fakeCouponService) DeactivateExpired(context.Context) (int64, error) { panic("not used") }

type fakeSessionStore struct {
	locked   bool // lock already held by someone else
	saves    int
	releases int
}

func (f *fakeSessionStore) Save(context.Context, *session.Session) error {
	f.saves++
	return nil
}

func (f *fakeSessionStore) AcquireCheckoutLock(context.Context, uuid.UUID) (bool, error) {
	return !f.locked, nil
}

func (f *fakeSessionStore) ReleaseCheckoutLock(context.Context, uuid.UUID) error {
	f.releases++
	return nil
}

type fakeEnqueuer struct {
	enqueueErr error
	tasks      []*asynq.Task
}

func (f *fakeEnqueuer) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.enqueueErr != nil {
		return nil, f.enqueueErr
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{}, nil
}

// ---------- fixtures ----------

type checkoutFixture struct {
	svc     Service
	repo    *fakeOrderRepo
	cart    *fakeCartService
	coupons *fakeCouponService
	store   *fakeSessionStore
	tasks   *fakeEnqueuer
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		repo:    newFakeOrderRepo(),
		cart:    &fakeCartService{view: cartWith500()},
		coupons: &fakeCouponService{},
		store:   &fakeSessionStore{},
		tasks:   &fakeEnqueuer{},
	}
	f.svc = NewOrderService(f.repo, f.cart, f.coupons, f.store, f.tasks, config.WhatsAppConfig{
		BaseURL:        "https://wa.me/",
		BusinessNumber: "919876543210",
	})
	return f
}

func cartWith500() *cartmodel.CartView {
	return &cartmodel.CartView{
		Items: []cartmodel.CartItemView{
			{
				ProductID: uuid.New(),
				Name:      "Masala Chai",
				Price:     decimal.NewFromInt(250),
				Quantity:  2,
				LineTotal: decimal.NewFromInt(500),
			},
		},
		TotalItems: 2,
		Subtotal:   decimal.NewFromInt(500),
	}
}

func checkoutSession() *session.Session {
	return session.New(uuid.New(), "Priya")
}

func firstErrorCode(response *model.CheckoutResponse) string {
	if len(response.Errors) == 0 {
		return ""
	}
	return response.Errors[0].Code
}

func warningCodes(response *model.CheckoutResponse) []string {
	codes := []string{}
	for _, w := range response.Warnings {
		codes = append(codes, w.Code)
	}
	return codes
}

// ---------- tests ----------

func TestCheckout_HappyPathWithoutCoupon(t *testing.T) {
	f := newCheckoutFixture()
	sess := checkoutSession()

	response, err := f.svc.Checkout(context.Background(), sess)
	require.NoError(t, err)

	assert.True(t, response.Success)
	assert.Equal(t, "completed", response.Status)
	assert.Empty(t, response.Errors)
	assert.Empty(t, response.Warnings)
	assert.NotNil(t, response.CompletedAt)

	require.Len(t, f.repo.created, 1)
	order := f.repo.created[0]
	assert.Equal(t, sess.UserID, order.UserID)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.True(t, decimal.NewFromInt(500).Equal(order.Subtotal))
	assert.True(t, order.DiscountAmount.IsZero())
	assert.True(t, decimal.NewFromInt(500).Equal(order.Total))
	assert.Nil(t, order.CouponID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Masala Chai", order.Items[0].Name)

	assert.Regexp(t, `^ORD-\d{8}-[0-9A-F]{8}$`, order.OrderNumber)

	assert.Equal(t, 1, f.cart.cleared)
	assert.Equal(t, 0, f.coupons.consumed)
	assert.Equal(t, 1, f.store.releases)

	require.Len(t, f.tasks.tasks, 1)
	assert.Equal(t, shared.TypeSendOrderHandoff, f.tasks.tasks[0].Type())

	assert.Contains(t, response.HandoffURL, "https://wa.me/919876543210?text=")
}

func TestCheckout_HappyPathWithCoupon(t *testing.T) {
	f := newCheckoutFixture()
	couponID := uuid.New()
	f.coupons.validateResult = &couponmodel.ValidationResult{
		CouponID:       couponID,
		Code:           "CHAI20",
		DiscountAmount: decimal.NewFromInt(100),
		FinalTotal:     decimal.NewFromInt(400),
	}

	sess := checkoutSession()
	sess.AppliedCoupon = &session.AppliedCoupon{CouponID: couponID, Code: "CHAI20"}

	response, err := f.svc.Checkout(context.Background(), sess)
	require.NoError(t, err)
	require.True(t, response.Success)

	assert.Equal(t, 1, f.coupons.validations)
	assert.Equal(t, 1, f.coupons.consumed)

	order := f.repo.created[0]
	require.NotNil(t, order.CouponID)
	assert.Equal(t, couponID, *order.CouponID)
	assert.Equal(t, "CHAI20", *order.CouponCode)
	assert.True(t, decimal.NewFromInt(100).Equal(order.DiscountAmount))
	assert.True(t, decimal.NewFromInt(400).Equal(order.Total))

	// Checkout state is gone once the order stands.
	assert.Nil(t, sess.AppliedCoupon)
	assert.Nil(t, sess.RecordedUsage)
}

func TestCheckout_Unauthenticated(t *testing.T) {
	f := newCheckoutFixture()

	response, err := f.svc.Checkout(context.Background(), session.New(uuid.Nil, ""))
	require.NoError(t, err)

	assert.False(t, response.Success)
	assert.Equal(t, model.ErrCodeUnauthenticated, firstErrorCode(response))
	assert.Empty(t, f.repo.created)
	assert.Zero(t, f.store.releases)
}

func TestCheckout_DoubleSubmitRejected(t *testing.T) {
	f := newCheckoutFixture()
	f.store.locked = true

	response, err := f.svc.Checkout(context.Background(), checkoutSession())
	require.NoError(t, err)

	assert.False(t, response.Success)
	assert.Equal(t, model.ErrCodeCheckoutInProgress, firstErrorCode(response))
	assert.Empty(t, f.repo.created)
	assert.Zero(t, f.store.releases, "a lock we never held must not be released")
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newCheckoutFixture()
	f.cart.view = &cartmodel.CartView{Items: []cartmodel.CartItemView{}, Subtotal: decimal.Zero}

	response, err := f.svc.Checkout(context.Background(), checkoutSession())
	require.NoError(t, err)

	assert.False(t, response.Success)
	assert.Equal(t, model.ErrCodeEmptyCart, firstErrorCode(response))
	assert.Equal(t, 1, f.store.releases)
}

// A cart holding only unavailable lines is an empty cart for checkout.
func TestCheckout_OnlyUnavailableLines(t *testing.T) {
	f := newCheckoutFixture()
	f.cart.view = &cartmodel.CartView{
		Items: []cartmodel.CartItemView{
			{ProductID: uuid.New(), Quantity: 1, Unavailable: true},
		},
		Subtotal: decimal.Zero,
	}

	response, err := f.svc.Checkout(context.Background(), checkoutSession())
	require.NoError(t, err)

	assert.False(t, response.Success)
	assert.Equal(t, model.ErrCodeEmptyCart, firstErrorCode(response))
}

func TestCheckout_CouponWentBad(t *testing.T) {
	f := newCheckoutFixture()
	f.coupons.validateErr = couponmodel.ErrRejectExpired

	sess := checkoutSession()
	sess.AppliedCoupon = &session.AppliedCoupon{CouponID: uuid.New(), Code: "CHAI20"}

	response, err := f.svc.Checkout(context.Background(), sess)
	require.NoError(t, err)

	assert.False(t, response.Success)
	assert.Equal(t, string(couponmodel.ErrCodeCouponExpired), firstErrorCode(response))

	// The stale coupon is dropped so the next attempt starts clean.
	assert.Nil(t, sess.AppliedCoupon)
	assert.Empty(t, f.repo.created)
	assert.Zero(t, f.coupons.consumed)
}

func TestCheckout_LostUsageRace(t *testing.T) {
	f := newCheckoutFixture()
	f.coupons.validateResult = &couponmodel.ValidationResult{
		CouponID:       uuid.New(),
		Code:           "CHAI20",
		DiscountAmount: decimal.NewFromInt(100),
		FinalTotal:     decimal.NewFromInt(400),
	}
	f.coupons.consumeErr = couponmodel.ErrCouponAlreadyUsed

	sess := checkoutSession()
	sess.AppliedCoupon = &session.AppliedCoupon{CouponID: uuid.New(), Code: "CHAI20"}

	response, err := f.svc.Checkout(context.Background(), sess)
	require.NoError(t, err)

	assert.False(t, response.Success)
	assert.Equal(t, string(couponmodel.ErrCodeCouponAlreadyUsed), firstErrorCode(response))
	assert.Nil(t, sess.AppliedCoupon)
	assert.Nil(t, sess.RecordedUsage)
	assert.Empty(t, f.repo.created)
}

func TestCheckout_OrderInsertFailsAfterUsageRecorded(t *testing.T) {
	f := newCheckoutFixture()
	couponID := uuid.New()
	f.coupons.validateResult = &couponmodel.ValidationResult{
		CouponID:       couponID,
		Code:           "CHAI20",
		DiscountAmount: decimal.NewFromInt(100),
		FinalTotal:     decimal.NewFromInt(400),
	}
	f.repo.createErr = errors.New("deadlock detected")

	sess := checkoutSession()
	sess.AppliedCoupon = &session.AppliedCoupon{CouponID: couponID, Code: "CHAI20"}

	response, err := f.svc.Checkout(context.Background(), sess)
	require.NoError(t, err)

	assert.False(t, response.Success)
	assert.Equal(t, model.ErrCodeOrderCreationFailed, firstErrorCode(response))
	assert.Contains(t, warningCodes(response), model.WarnCouponConsumed)

	// The consumed discount stays pinned for the retry.
	require.NotNil(t, sess.RecordedUsage)
	assert.Equal(t, couponID, sess.RecordedUsage.CouponID)
	assert.True(t, decimal.NewFromInt(100).Equal(sess.RecordedUsage.DiscountAmount))

	// The cart survives, but the handoff still goes out.
	assert.Equal(t, 0, f.cart.cleared)
	assert.Len(t, f.tasks.tasks, 1)
	assert.NotEmpty(t, response.HandoffURL)
}

func TestCheckout_UsageRecordingInfrastructureFailure(t *testing.T) {
	f := newCheckoutFixture()
	f.coupons.validateResult = &couponmodel.ValidationResult{
		CouponID:       uuid.New(),
		Code:           "CHAI20",
		DiscountAmount: decimal.NewFromInt(100),
		FinalTotal:     decimal.NewFromInt(400),
	}
	f.coupons.consumeErr = errors.New("connection reset")

	sess := checkoutSession()
	sess.AppliedCoupon = &session.AppliedCoupon{CouponID: uuid.New(), Code: "CHAI20"}

	response, err := f.svc.Checkout(context.Background(), sess)
	require.NoError(t, err)

	assert.False(t, response.Success)
	assert.Equal(t, model.ErrCodeCouponApplicationFailed, firstErrorCode(response))

	// Not a duplicate use: the coupon stays applied for the next attempt.
	assert.NotNil(t, sess.AppliedCoupon)
	assert.Empty(t, f.repo.created)
}

func TestCheckout_RetryReusesRecordedUsage(t *testing.T) {
	f := newCheckoutFixture()
	couponID := uuid.New()

	sess := checkoutSession()
	sess.RecordedUsage = &session.RecordedUsage{
		CouponID:       couponID,
		Code:           "CHAI20",
		DiscountAmount: decimal.NewFromInt(100),
	}

	response, err := f.svc.Checkout(context.Background(), sess)
	require.NoError(t, err)
	require.True(t, response.Success)

	// Neither re-validated nor re-consumed.
	assert.Zero(t, f.coupons.validations)
	assert.Zero(t, f.coupons.consumed)

	order := f.repo.created[0]
	require.NotNil(t, order.CouponID)
	assert.Equal(t, couponID, *order.CouponID)
	assert.True(t, decimal.NewFromInt(100).Equal(order.DiscountAmount))
	assert.True(t, decimal.NewFromInt(400).Equal(order.Total))

	assert.Nil(t, sess.RecordedUsage)
}

func TestCheckout_RecordedDiscountClampedToSmallerCart(t *testing.T) {
	f := newCheckoutFixture()
	f.cart.view.Items[0].Quantity = 1
	f.cart.view.Items[0].LineTotal = decimal.NewFromInt(50)
	f.cart.view.Subtotal = decimal.NewFromInt(50)

	sess := checkoutSession()
	sess.RecordedUsage = &session.RecordedUsage{
		CouponID:       uuid.New(),
		Code:           "CHAI20",
		DiscountAmount: decimal.NewFromInt(100),
	}

	response, err := f.svc.Checkout(context.Background(), sess)
	require.NoError(t, err)
	require.True(t, response.Success)

	order := f.repo.created[0]
	assert.True(t, decimal.NewFromInt(50).Equal(order.DiscountAmount))
	assert.True(t, order.Total.IsZero())
}

func TestCheckout_CartClearFailureIsAWarning(t *testing.T) {
	f := newCheckoutFixture()
	f.cart.clearErr = errors.New("connection refused")

	response, err := f.svc.Checkout(context.Background(), checkoutSession())
	require.NoError(t, err)

	assert.True(t, response.Success, "the order stands even when the cart cannot be cleared")
	assert.Contains(t, warningCodes(response), model.WarnCartClearFailed)
	assert.Len(t, f.repo.created, 1)
}

func TestCheckout_EnqueueFailureIsAWarning(t *testing.T) {
	f := newCheckoutFixture()
	f.tasks.enqueueErr = errors.New("redis down")

	response, err := f.svc.Checkout(context.Background(), checkoutSession())
	require.NoError(t, err)

	assert.True(t, response.Success)
	assert.Contains(t, warningCodes(response), model.WarnHandoffNotQueued)
	assert.NotEmpty(t, response.HandoffURL, "the link still works without the queued message")
}

func TestCheckout_PhasesRecordedInOrder(t *testing.T) {
	f := newCheckoutFixture()

	response, err := f.svc.Checkout(context.Background(), checkoutSession())
	require.NoError(t, err)

	phases := []string{}
	for _, p := range response.Phases {
		phases = append(phases, p.Phase)
	}
	assert.Equal(t, []string{
		model.PhaseCartValidation,
		model.PhaseCouponValidation,
		model.PhaseOrderCreation,
		model.PhaseCartClearing,
		model.PhaseHandoff,
	}, phases)
}

func TestUpdateStatus(t *testing.T) {
	f := newCheckoutFixture()
	order := &model.Order{ID: uuid.New(), Status: model.OrderStatusPending}
	f.repo.orders[order.ID] = order

	updated, err := f.svc.UpdateStatus(context.Background(), order.ID, model.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, updated.Status)
}

func TestUpdateStatus_BackwardMoveRejected(t *testing.T) {
	f := newCheckoutFixture()
	order := &model.Order{ID: uuid.New(), Status: model.OrderStatusDelivered}
	f.repo.orders[order.ID] = order

	_, err := f.svc.UpdateStatus(context.Background(), order.ID, model.OrderStatusPending)
	assert.ErrorIs(t, err, model.ErrInvalidStatusTransition)
	assert.Equal(t, model.OrderStatusDelivered, order.Status)
}

func TestUpdateStatus_UnknownOrder(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.svc.UpdateStatus(context.Background(), uuid.New(), model.OrderStatusConfirmed)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestUpdateAdminMessage(t *testing.T) {
	f := newCheckoutFixture()
	order := &model.Order{ID: uuid.New(), Status: model.OrderStatusPending}
	f.repo.orders[order.ID] = order

	updated, err := f.svc.UpdateAdminMessage(context.Background(), order.ID, "Ready for pickup on Friday")
	require.NoError(t, err)
	require.NotNil(t, updated.AdminMessage)
	assert.Equal(t, "Ready for pickup on Friday", *updated.AdminMessage)

	_, err = f.svc.UpdateAdminMessage(context.Background(), uuid.New(), "note")
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}
