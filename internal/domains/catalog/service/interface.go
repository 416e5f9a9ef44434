package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"storefront-backend/internal/domains/catalog/model"
)

// ServiceInterface is the catalogue business logic contract.
type ServiceInterface interface {
	// Public surface
	ListProducts(ctx context.Context, req model.ListProductsRequest) ([]*model.ProductWithCategory, int, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.ProductWithCategory, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)

	// Admin surface
	CreateProduct(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *model.UpdateProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	UploadProductImage(ctx context.Context, productID uuid.UUID, filename string, data []byte, contentType string) (string, error)
	ExportProductsToExcel(ctx context.Context, req model.ListProductsRequest) (*excelize.File, error)
	ImportProductsFromExcel(ctx context.Context, data []byte) (*model.ImportResult, error)
	CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}
