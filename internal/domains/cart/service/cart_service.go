package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domains/cart/model"
	"storefront-backend/internal/domains/cart/repository"
	catalogrepo "storefront-backend/internal/domains/catalog/repository"
	"storefront-backend/internal/domains/session"
	"storefront-backend/pkg/logger"
)

type CartService struct {
	repository repository.Repository
	catalog    catalogrepo.RepositoryInterface
}

func NewCartService(repo repository.Repository, catalog catalogrepo.RepositoryInterface) Service {
	return &CartService{
		repository: repo,
		catalog:    catalog,
	}
}

// Load returns the current cart. An unauthenticated session gets an
// empty cart without touching storage.
func (s *CartService) Load(ctx context.Context, sess *session.Session) (*model.CartView, error) {
	if !sess.IsAuthenticated() {
		return s.buildView(ctx, sess)
	}
	if err := s.ensureLoaded(ctx, sess); err != nil {
		return nil, err
	}
	return s.buildView(ctx, sess)
}

func (s *CartService) View(ctx context.Context, sess *session.Session) (*model.CartView, error) {
	return s.Load(ctx, sess)
}

func (s *CartService) AddItem(ctx context.Context, sess *session.Session, req model.AddItemRequest) (*model.CartView, *model.SyncWarning, error) {
	if !sess.IsAuthenticated() {
		return nil, nil, model.ErrUnauthenticated
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, nil, model.ErrProductNotFound
	}

	if err := s.ensureLoaded(ctx, sess); err != nil {
		return nil, nil, err
	}

	products, err := s.catalog.GetProductsByIDs(ctx, []uuid.UUID{productID})
	if err != nil {
		return nil, nil, err
	}
	if len(products) == 0 || !products[0].IsActive {
		return nil, nil, model.ErrProductNotFound
	}

	found := false
	for i := range sess.Items {
		if sess.Items[i].ProductID == productID {
			sess.Items[i].Quantity += req.Quantity
			found = true
			break
		}
	}
	if !found {
		sess.Items = append(sess.Items, session.Item{ProductID: productID, Quantity: req.Quantity})
	}

	return s.persistAndView(ctx, sess)
}

// UpdateQuantity sets an absolute quantity. Zero or less removes the
// line; updating a line that is not in the cart is a no-op.
func (s *CartService) UpdateQuantity(ctx context.Context, sess *session.Session, productID uuid.UUID, quantity int) (*model.CartView, *model.SyncWarning, error) {
	if !sess.IsAuthenticated() {
		return nil, nil, model.ErrUnauthenticated
	}
	if err := s.ensureLoaded(ctx, sess); err != nil {
		return nil, nil, err
	}

	if quantity <= 0 {
		sess.Items = removeItem(sess.Items, productID)
		return s.persistAndView(ctx, sess)
	}

	for i := range sess.Items {
		if sess.Items[i].ProductID == productID {
			sess.Items[i].Quantity = quantity
			break
		}
	}
	return s.persistAndView(ctx, sess)
}

func (s *CartService) RemoveItem(ctx context.Context, sess *session.Session, productID uuid.UUID) (*model.CartView, *model.SyncWarning, error) {
	if !sess.IsAuthenticated() {
		return nil, nil, model.ErrUnauthenticated
	}
	if err := s.ensureLoaded(ctx, sess); err != nil {
		return nil, nil, err
	}

	sess.Items = removeItem(sess.Items, productID)
	return s.persistAndView(ctx, sess)
}

func (s *CartService) Clear(ctx context.Context, sess *session.Session) (*model.CartView, *model.SyncWarning, error) {
	if !sess.IsAuthenticated() {
		return nil, nil, model.ErrUnauthenticated
	}

	sess.Items = []session.Item{}
	sess.Loaded = true
	return s.persistAndView(ctx, sess)
}

// ensureLoaded pulls the persisted cart into the session once. After
// that the session copy is authoritative for the request.
func (s *CartService) ensureLoaded(ctx context.Context, sess *session.Session) error {
	if sess.Loaded {
		return nil
	}

	cart, err := s.repository.GetByUserID(ctx, sess.UserID)
	if err != nil {
		return err
	}
	if cart != nil {
		sess.Items = cart.Items
	} else {
		sess.Items = []session.Item{}
	}
	sess.Loaded = true
	return nil
}

// persistAndView writes the session's items through to storage. A write
// failure degrades to a warning: the caller already saw the mutation
// applied and the session copy stays valid for this visit.
func (s *CartService) persistAndView(ctx context.Context, sess *session.Session) (*model.CartView, *model.SyncWarning, error) {
	var warning *model.SyncWarning
	if err := s.repository.Upsert(ctx, sess.UserID, sess.Items); err != nil {
		logger.Error("failed to persist cart", err)
		warning = model.NewSyncWarning()
	}

	view, err := s.buildView(ctx, sess)
	if err != nil {
		return nil, warning, err
	}
	return view, warning, nil
}

// buildView hydrates cart lines with product data. Lines whose product
// no longer exists or is inactive are kept but flagged unavailable and
// excluded from totals.
func (s *CartService) buildView(ctx context.Context, sess *session.Session) (*model.CartView, error) {
	view := &model.CartView{
		Items:    []model.CartItemView{},
		Subtotal: decimal.Zero,
	}

	if len(sess.Items) > 0 {
		ids := make([]uuid.UUID, 0, len(sess.Items))
		for _, item := range sess.Items {
			ids = append(ids, item.ProductID)
		}
		products, err := s.catalog.GetProductsByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		byID := make(map[uuid.UUID]int, len(products))
		for i := range products {
			byID[products[i].ID] = i
		}

		for _, item := range sess.Items {
			line := model.CartItemView{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			}
			idx, ok := byID[item.ProductID]
			if !ok || !products[idx].IsActive {
				line.Unavailable = true
				view.Items = append(view.Items, line)
				continue
			}
			p := products[idx]
			line.Name = p.Name
			line.Image = p.FirstImage()
			line.Price = p.Price
			line.LineTotal = p.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))

			view.Items = append(view.Items, line)
			view.TotalItems += item.Quantity
			view.Subtotal = view.Subtotal.Add(line.LineTotal)
		}
	}

	if sess.AppliedCoupon != nil {
		view.AppliedCoupon = &model.AppliedCouponView{
			Code:           sess.AppliedCoupon.Code,
			DiscountAmount: sess.AppliedCoupon.DiscountAmount,
			FinalTotal:     sess.AppliedCoupon.FinalTotal,
		}
	}
	return view, nil
}

func removeItem(items []session.Item, productID uuid.UUID) []session.Item {
	out := items[:0]
	for _, item := range items {
		if item.ProductID != productID {
			out = append(out, item)
		}
	}
	return out
}
