package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"storefront-backend/internal/domains/catalog/model"
)

type fakeRepo struct {
	products   []*model.Product
	categories []*model.Category
}

func (f *fakeRepo) ListProducts(context.Context, model.ListProductsRequest) ([]*model.ProductWithCategory, int, error) {
	out := make([]*model.ProductWithCategory, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, &model.ProductWithCategory{Product: *p})
	}
	return out, len(out), nil
}

func (f *fakeRepo) GetProductByID(_ context.Context, id uuid.UUID) (*model.ProductWithCategory, error) {
	for _, p := range f.products {
		if p.ID == id {
			return &model.ProductWithCategory{Product: *p}, nil
		}
	}
	return nil, model.ErrProductNotFound
}

func (f *fakeRepo) GetProductsByIDs(_ context.Context, ids []uuid.UUID) ([]*model.Product, error) {
	out := []*model.Product{}
	for _, p := range f.products {
		for _, id := range ids {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateProduct(_ context.Context, p *model.Product) error {
	p.ID = uuid.New()
	f.products = append(f.products, p)
	return nil
}

func (f *fakeRepo) UpdateProduct(_ context.Context, p *model.Product) error {
	for i := range f.products {
		if f.products[i].ID == p.ID {
			f.products[i] = p
			return nil
		}
	}
	return model.ErrProductNotFound
}

func (f *fakeRepo) DeleteProduct(_ context.Context, id uuid.UUID) error {
	for i := range f.products {
		if f.products[i].ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return model.ErrProductNotFound
}

func (f *fakeRepo) ListCategories(context.Context) ([]*model.Category, error) {
	return f.categories, nil
}

func (f *fakeRepo) GetCategoryByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	for _, c := range f.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, model.ErrCategoryNotFound
}

func (f *fakeRepo) CreateCategory(_ context.Context, c *model.Category) error {
	c.ID = uuid.New()
	f.categories = append(f.categories, c)
	return nil
}

func (f *fakeRepo) DeleteCategory(_ context.Context, id uuid.UUID) error {
	for i := range f.categories {
		if f.categories[i].ID == id {
			f.categories = append(f.categories[:i], f.categories[i+1:]...)
			return nil
		}
	}
	return model.ErrCategoryNotFound
}

func importSheet(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()

	header := []interface{}{"Name", "Description", "Price", "Category", "Active"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestImportProductsFromExcel(t *testing.T) {
	repo := &fakeRepo{
		categories: []*model.Category{{ID: uuid.New(), Name: "Teas", Slug: "teas"}},
	}
	svc := NewCatalogService(repo, nil)

	data := importSheet(t, [][]interface{}{
		{"Masala Chai", "Spiced black tea", "250", "teas", "true"},
		{"Filter Coffee", "", "300", "", ""},
	})

	result, err := svc.ImportProductsFromExcel(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Skipped)
	require.Len(t, repo.products, 2)

	chai := repo.products[0]
	assert.Equal(t, "Masala Chai", chai.Name)
	require.NotNil(t, chai.CategoryID)
	assert.Equal(t, repo.categories[0].ID, *chai.CategoryID)
	assert.True(t, chai.IsActive)

	coffee := repo.products[1]
	assert.Nil(t, coffee.CategoryID)
	assert.True(t, coffee.IsActive, "active defaults to true when the column is empty")
}

func TestImportProductsFromExcel_SkipsBadRows(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewCatalogService(repo, nil)

	data := importSheet(t, [][]interface{}{
		{"", "", "250", "", ""},
		{"No Price", "", "not-a-number", "", ""},
		{"Ghost Category", "", "100", "does-not-exist", ""},
		{"Good Row", "", "100", "", "false"},
	})

	result, err := svc.ImportProductsFromExcel(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 3, result.Skipped)
	assert.Len(t, result.Errors, 3)
	require.Len(t, repo.products, 1)
	assert.Equal(t, "Good Row", repo.products[0].Name)
	assert.False(t, repo.products[0].IsActive)
}

func TestImportProductsFromExcel_EmptySheet(t *testing.T) {
	svc := NewCatalogService(&fakeRepo{}, nil)

	result, err := svc.ImportProductsFromExcel(context.Background(), importSheet(t, nil))
	require.NoError(t, err)
	assert.Zero(t, result.Created)
	assert.Zero(t, result.Skipped)
}

func TestImportProductsFromExcel_RejectsGarbage(t *testing.T) {
	svc := NewCatalogService(&fakeRepo{}, nil)

	_, err := svc.ImportProductsFromExcel(context.Background(), []byte("not an xlsx"))
	assert.Error(t, err)
}
