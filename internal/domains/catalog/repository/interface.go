package repository

import (
	"context"

	"github.com/google/uuid"

	"storefront-backend/internal/domains/catalog/model"
)

// RepositoryInterface is the catalogue data access contract.
type RepositoryInterface interface {
	// Products
	ListProducts(ctx context.Context, req model.ListProductsRequest) ([]*model.ProductWithCategory, int, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*model.ProductWithCategory, error)
	// GetProductsByIDs returns the products that still exist; missing IDs are
	// simply absent from the result, not an error.
	GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Product, error)
	CreateProduct(ctx context.Context, p *model.Product) error
	UpdateProduct(ctx context.Context, p *model.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	// Categories
	ListCategories(ctx context.Context) ([]*model.Category, error)
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	CreateCategory(ctx context.Context, c *model.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}
