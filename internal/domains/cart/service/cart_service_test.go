package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartmodel "storefront-backend/internal/domains/cart/model"
	catalogmodel "storefront-backend/internal/domains/catalog/model"
	"storefront-backend/internal/domains/session"
)

type fakeCartRepo struct {
	carts     map[uuid.UUID][]session.Item
	upsertErr error
	upserts   int
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[uuid.UUID][]session.Item{}}
}

func (f *fakeCartRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*cartmodel.Cart, error) {
	items, ok := f.carts[userID]
	if !ok {
		return nil, nil
	}
	return &cartmodel.Cart{UserID: userID, Items: items}, nil
}

func (f *fakeCartRepo) Upsert(_ context.Context, userID uuid.UUID, items []session.Item) error {
	f.upserts++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.carts[userID] = append([]session.Item{}, items...)
	return nil
}

func (f *fakeCartRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	delete(f.carts, userID)
	return nil
}

type fakeCatalogRepo struct {
	products map[uuid.UUID]*catalogmodel.Product
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{products: map[uuid.UUID]*catalogmodel.Product{}}
}

func (f *fakeCatalogRepo) addProduct(name string, price int64, active bool) *catalogmodel.Product {
	p := &catalogmodel.Product{
		ID:       uuid.New(),
		Name:     name,
		Price:    decimal.NewFromInt(price),
		IsActive: active,
	}
	f.products[p.ID] = p
	return p
}

func (f *fakeCatalogRepo) GetProductsByIDs(_ context.Context, ids []uuid.UUID) ([]*catalogmodel.Product, error) {
	out := []*catalogmodel.Product{}
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) ListProducts(context.Context, catalogmodel.ListProductsRequest) ([]*catalogmodel.ProductWithCategory, int, error) {
	return nil, 0, nil
}

func (f *fakeCatalogRepo) GetProductByID(context.Context, uuid.UUID) (*catalogmodel.ProductWithCategory, error) {
	return nil, catalogmodel.ErrProductNotFound
}

func (f *fakeCatalogRepo) CreateProduct(context.Context, *catalogmodel.Product) error { return nil }
func (f *fakeCatalogRepo) UpdateProduct(context.Context, *catalogmodel.Product) error { return nil }
func (f *fakeCatalogRepo) DeleteProduct(context.Context, uuid.UUID) error             { return nil }

func (f *fakeCatalogRepo) ListCategories(context.Context) ([]*catalogmodel.Category, error) {
	return nil, nil
}

func (f *fakeCatalogRepo) GetCategoryByID(context.Context, uuid.UUID) (*catalogmodel.Category, error) {
	return nil, catalogmodel.ErrCategoryNotFound
}

func (f *fakeCatalogRepo) CreateCategory(context.Context, *catalogmodel.Category) error { return nil }
func (f *fakeCatalogRepo) DeleteCategory(context.Context, uuid.UUID) error              { return nil }

func newTestCart(t *testing.T) (Service, *fakeCartRepo, *fakeCatalogRepo) {
	t.Helper()
	repo := newFakeCartRepo()
	catalog := newFakeCatalogRepo()
	return NewCartService(repo, catalog), repo, catalog
}

func TestLoad_AnonymousGetsEmptyCart(t *testing.T) {
	svc, repo, _ := newTestCart(t)

	view, err := svc.Load(context.Background(), session.New(uuid.Nil, ""))
	require.NoError(t, err)

	assert.Empty(t, view.Items)
	assert.True(t, view.Subtotal.IsZero())
	assert.Zero(t, repo.upserts)
}

func TestLoad_HydratesFromStorageOnce(t *testing.T) {
	svc, repo, catalog := newTestCart(t)
	product := catalog.addProduct("Masala Chai", 250, true)

	userID := uuid.New()
	repo.carts[userID] = []session.Item{{ProductID: product.ID, Quantity: 2}}

	sess := session.New(userID, "Priya")
	view, err := svc.Load(context.Background(), sess)
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(500).Equal(view.Subtotal))
	assert.True(t, sess.Loaded)

	// A second load must trust the session copy, not storage.
	repo.carts[userID] = nil
	view, err = svc.Load(context.Background(), sess)
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)
}

func TestAddItem(t *testing.T) {
	svc, repo, catalog := newTestCart(t)
	product := catalog.addProduct("Masala Chai", 250, true)

	sess := session.New(uuid.New(), "Priya")
	view, warning, err := svc.AddItem(context.Background(), sess, cartmodel.AddItemRequest{
		ProductID: product.ID.String(),
		Quantity:  2,
	})
	require.NoError(t, err)
	assert.Nil(t, warning)

	require.Len(t, view.Items, 1)
	assert.Equal(t, "Masala Chai", view.Items[0].Name)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(500).Equal(view.Subtotal))
	assert.Equal(t, []session.Item{{ProductID: product.ID, Quantity: 2}}, repo.carts[sess.UserID])
}

func TestAddItem_MergesQuantities(t *testing.T) {
	svc, _, catalog := newTestCart(t)
	product := catalog.addProduct("Masala Chai", 250, true)

	sess := session.New(uuid.New(), "Priya")
	req := cartmodel.AddItemRequest{ProductID: product.ID.String(), Quantity: 2}

	_, _, err := svc.AddItem(context.Background(), sess, req)
	require.NoError(t, err)
	view, _, err := svc.AddItem(context.Background(), sess, req)
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 4, view.Items[0].Quantity)
}

func TestAddItem_Unauthenticated(t *testing.T) {
	svc, _, catalog := newTestCart(t)
	product := catalog.addProduct("Masala Chai", 250, true)

	_, _, err := svc.AddItem(context.Background(), session.New(uuid.Nil, ""), cartmodel.AddItemRequest{
		ProductID: product.ID.String(),
		Quantity:  1,
	})
	assert.ErrorIs(t, err, cartmodel.ErrUnauthenticated)
}

func TestAddItem_UnknownOrInactiveProduct(t *testing.T) {
	svc, _, catalog := newTestCart(t)
	inactive := catalog.addProduct("Retired Blend", 250, false)

	sess := session.New(uuid.New(), "Priya")

	_, _, err := svc.AddItem(context.Background(), sess, cartmodel.AddItemRequest{
		ProductID: uuid.New().String(),
		Quantity:  1,
	})
	assert.ErrorIs(t, err, cartmodel.ErrProductNotFound)

	_, _, err = svc.AddItem(context.Background(), sess, cartmodel.AddItemRequest{
		ProductID: inactive.ID.String(),
		Quantity:  1,
	})
	assert.ErrorIs(t, err, cartmodel.ErrProductNotFound)
	assert.Empty(t, sess.Items)
}

func TestUpdateQuantity(t *testing.T) {
	svc, _, catalog := newTestCart(t)
	product := catalog.addProduct("Masala Chai", 250, true)

	sess := session.New(uuid.New(), "Priya")
	_, _, err := svc.AddItem(context.Background(), sess, cartmodel.AddItemRequest{
		ProductID: product.ID.String(),
		Quantity:  2,
	})
	require.NoError(t, err)

	view, _, err := svc.UpdateQuantity(context.Background(), sess, product.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, view.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(1250).Equal(view.Subtotal))
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	svc, repo, catalog := newTestCart(t)
	product := catalog.addProduct("Masala Chai", 250, true)

	sess := session.New(uuid.New(), "Priya")
	_, _, err := svc.AddItem(context.Background(), sess, cartmodel.AddItemRequest{
		ProductID: product.ID.String(),
		Quantity:  2,
	})
	require.NoError(t, err)

	view, _, err := svc.UpdateQuantity(context.Background(), sess, product.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Empty(t, repo.carts[sess.UserID])
}

func TestUpdateQuantity_AbsentProductIsNoOp(t *testing.T) {
	svc, _, catalog := newTestCart(t)
	product := catalog.addProduct("Masala Chai", 250, true)

	sess := session.New(uuid.New(), "Priya")
	_, _, err := svc.AddItem(context.Background(), sess, cartmodel.AddItemRequest{
		ProductID: product.ID.String(),
		Quantity:  2,
	})
	require.NoError(t, err)

	view, _, err := svc.UpdateQuantity(context.Background(), sess, uuid.New(), 5)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	svc, _, catalog := newTestCart(t)
	chai := catalog.addProduct("Masala Chai", 250, true)
	coffee := catalog.addProduct("Filter Coffee", 300, true)

	sess := session.New(uuid.New(), "Priya")
	for _, p := range []uuid.UUID{chai.ID, coffee.ID} {
		_, _, err := svc.AddItem(context.Background(), sess, cartmodel.AddItemRequest{
			ProductID: p.String(),
			Quantity:  1,
		})
		require.NoError(t, err)
	}

	view, _, err := svc.RemoveItem(context.Background(), sess, chai.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, coffee.ID, view.Items[0].ProductID)
}

func TestClear(t *testing.T) {
	svc, repo, catalog := newTestCart(t)
	product := catalog.addProduct("Masala Chai", 250, true)

	sess := session.New(uuid.New(), "Priya")
	_, _, err := svc.AddItem(context.Background(), sess, cartmodel.AddItemRequest{
		ProductID: product.ID.String(),
		Quantity:  2,
	})
	require.NoError(t, err)

	view, warning, err := svc.Clear(context.Background(), sess)
	require.NoError(t, err)
	assert.Nil(t, warning)
	assert.Empty(t, view.Items)
	assert.Empty(t, repo.carts[sess.UserID])
}

func TestMutation_PersistFailureDegradesToWarning(t *testing.T) {
	svc, repo, catalog := newTestCart(t)
	product := catalog.addProduct("Masala Chai", 250, true)
	repo.upsertErr = errors.New("connection refused")

	sess := session.New(uuid.New(), "Priya")
	view, warning, err := svc.AddItem(context.Background(), sess, cartmodel.AddItemRequest{
		ProductID: product.ID.String(),
		Quantity:  2,
	})

	require.NoError(t, err)
	require.NotNil(t, warning)
	assert.Equal(t, "CART_SYNC_FAILED", warning.Code)

	// The session copy still carries the mutation.
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, sess.ItemQuantity(product.ID))
}

func TestBuildView_UnavailableLinesFlaggedAndExcludedFromTotals(t *testing.T) {
	svc, _, catalog := newTestCart(t)
	product := catalog.addProduct("Masala Chai", 250, true)
	gone := uuid.New()

	sess := session.New(uuid.New(), "Priya")
	sess.Loaded = true
	sess.Items = []session.Item{
		{ProductID: product.ID, Quantity: 2},
		{ProductID: gone, Quantity: 1},
	}

	view, err := svc.View(context.Background(), sess)
	require.NoError(t, err)

	require.Len(t, view.Items, 2)
	assert.False(t, view.Items[0].Unavailable)
	assert.True(t, view.Items[1].Unavailable)
	assert.Equal(t, 2, view.TotalItems)
	assert.True(t, decimal.NewFromInt(500).Equal(view.Subtotal))
}

func TestBuildView_CopiesAppliedCoupon(t *testing.T) {
	svc, _, _ := newTestCart(t)

	sess := session.New(uuid.New(), "Priya")
	sess.Loaded = true
	sess.AppliedCoupon = &session.AppliedCoupon{
		Code:           "SAVE20",
		DiscountAmount: decimal.NewFromInt(100),
		FinalTotal:     decimal.NewFromInt(400),
	}

	view, err := svc.View(context.Background(), sess)
	require.NoError(t, err)

	require.NotNil(t, view.AppliedCoupon)
	assert.Equal(t, "SAVE20", view.AppliedCoupon.Code)
}
