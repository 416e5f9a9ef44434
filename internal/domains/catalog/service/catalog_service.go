package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"storefront-backend/internal/domains/catalog/model"
	"storefront-backend/internal/domains/catalog/repository"
	"storefront-backend/internal/infrastructure/storage"
)

type CatalogService struct {
	repository repository.RepositoryInterface
	storage    *storage.MinIOStorage
	images     *storage.ImageProcessor
}

func NewCatalogService(r repository.RepositoryInterface, st *storage.MinIOStorage) ServiceInterface {
	return &CatalogService{
		repository: r,
		storage:    st,
		images:     storage.NewImageProcessor(),
	}
}

// -------------------------------------------------------------------
// PUBLIC SURFACE
// -------------------------------------------------------------------

func (s *CatalogService) ListProducts(ctx context.Context, req model.ListProductsRequest) ([]*model.ProductWithCategory, int, error) {
	return s.repository.ListProducts(ctx, req)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*model.ProductWithCategory, error) {
	return s.repository.GetProductByID(ctx, id)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return s.repository.ListCategories(ctx)
}

// -------------------------------------------------------------------
// ADMIN SURFACE
// -------------------------------------------------------------------

func (s *CatalogService) CreateProduct(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	categoryID, err := s.resolveCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	p := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       decimal.NewFromFloat(req.Price),
		Images:      req.Images,
		CategoryID:  categoryID,
		IsActive:    isActive,
	}

	if err := s.repository.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req *model.UpdateProductRequest) (*model.Product, error) {
	existing, err := s.repository.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := existing.Product
	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.Description != nil {
		updated.Description = req.Description
	}
	if req.Price != nil {
		updated.Price = decimal.NewFromFloat(*req.Price)
	}
	if req.Images != nil {
		updated.Images = req.Images
	}
	if req.CategoryID != nil {
		categoryID, err := s.resolveCategory(ctx, req.CategoryID)
		if err != nil {
			return nil, err
		}
		updated.CategoryID = categoryID
	}
	if req.IsActive != nil {
		updated.IsActive = *req.IsActive
	}

	if err := s.repository.UpdateProduct(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.repository.DeleteProduct(ctx, id)
}

// UploadProductImage stores the file and appends its URL to the product.
func (s *CatalogService) UploadProductImage(ctx context.Context, productID uuid.UUID, filename string, data []byte, contentType string) (string, error) {
	existing, err := s.repository.GetProductByID(ctx, productID)
	if err != nil {
		return "", err
	}

	if err := s.images.Validate(data); err != nil {
		return "", err
	}
	normalized, err := s.images.Normalize(data)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("products/%s/%s.jpg", productID, uuid.New().String())

	url, err := s.storage.Upload(ctx, key, normalized, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("upload product image: %w", err)
	}

	updated := existing.Product
	updated.Images = append(updated.Images, url)
	if err := s.repository.UpdateProduct(ctx, &updated); err != nil {
		return "", err
	}

	return url, nil
}

// ExportProductsToExcel builds an xlsx of the current catalogue for the
// back office.
func (s *CatalogService) ExportProductsToExcel(ctx context.Context, req model.ListProductsRequest) (*excelize.File, error) {
	req.IncludeInactive = true
	if req.Limit <= 0 || req.Limit > 1000 {
		req.Limit = 1000
	}

	products, _, err := s.repository.ListProducts(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("list products for export: %w", err)
	}

	return buildProductsExcelFile(products)
}

func buildProductsExcelFile(products []*model.ProductWithCategory) (*excelize.File, error) {
	f := excelize.NewFile()

	sheetName := "Products"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{"ID", "Name", "Category", "Price", "Active", "Images", "Created At"}
	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		f.SetCellStyle(sheetName, "A1", "G1", headerStyle)
	}

	for i, p := range products {
		rowNum := i + 2
		cell := func(col int) string {
			c, _ := excelize.CoordinatesToCellName(col, rowNum)
			return c
		}

		f.SetCellValue(sheetName, cell(1), p.ID.String())
		f.SetCellValue(sheetName, cell(2), p.Name)
		if p.CategoryName != nil {
			f.SetCellValue(sheetName, cell(3), *p.CategoryName)
		}
		f.SetCellValue(sheetName, cell(4), p.Price.InexactFloat64())
		f.SetCellValue(sheetName, cell(5), p.IsActive)
		f.SetCellValue(sheetName, cell(6), strings.Join(p.Images, ", "))
		f.SetCellValue(sheetName, cell(7), p.CreatedAt.Format("2006-01-02 15:04"))
	}

	return f, nil
}

// ImportProductsFromExcel reads products from an xlsx sheet with the
// columns Name, Description, Price, Category, Active. Category matches
// by slug and may be empty. Bad rows are skipped and reported, good
// rows are created.
func (s *CatalogService) ImportProductsFromExcel(ctx context.Context, data []byte) (*model.ImportResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read import sheet: %w", err)
	}
	if len(rows) < 2 {
		return &model.ImportResult{}, nil
	}

	categories, err := s.repository.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	bySlug := make(map[string]uuid.UUID, len(categories))
	for _, c := range categories {
		bySlug[c.Slug] = c.ID
	}

	result := &model.ImportResult{}
	for i, row := range rows[1:] {
		rowNum := i + 2
		skip := func(reason string) {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s", rowNum, reason))
		}

		name := strings.TrimSpace(importCell(row, 0))
		if name == "" {
			skip("name is required")
			continue
		}

		price, err := decimal.NewFromString(strings.TrimSpace(importCell(row, 2)))
		if err != nil || price.IsNegative() {
			skip("invalid price")
			continue
		}

		var categoryID *uuid.UUID
		if slug := strings.ToLower(strings.TrimSpace(importCell(row, 3))); slug != "" {
			id, ok := bySlug[slug]
			if !ok {
				skip(fmt.Sprintf("unknown category %q", slug))
				continue
			}
			categoryID = &id
		}

		active := true
		if raw := strings.TrimSpace(importCell(row, 4)); raw != "" {
			active, err = strconv.ParseBool(raw)
			if err != nil {
				skip("invalid active flag")
				continue
			}
		}

		p := &model.Product{
			Name:       name,
			Price:      price,
			CategoryID: categoryID,
			IsActive:   active,
		}
		if description := strings.TrimSpace(importCell(row, 1)); description != "" {
			p.Description = &description
		}

		if err := s.repository.CreateProduct(ctx, p); err != nil {
			skip(err.Error())
			continue
		}
		result.Created++
	}

	return result, nil
}

// importCell tolerates short rows; excelize trims trailing empty cells.
func importCell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func (s *CatalogService) CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error) {
	c := &model.Category{
		Name: req.Name,
		Slug: strings.ToLower(strings.TrimSpace(req.Slug)),
	}

	if err := s.repository.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.repository.DeleteCategory(ctx, id)
}

func (s *CatalogService) resolveCategory(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}

	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, model.ErrCategoryNotFound
	}

	if _, err := s.repository.GetCategoryByID(ctx, id); err != nil {
		return nil, err
	}
	return &id, nil
}
