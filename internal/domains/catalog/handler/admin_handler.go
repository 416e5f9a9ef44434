package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront-backend/internal/domains/catalog/model"
	"storefront-backend/internal/domains/catalog/service"
	"storefront-backend/internal/shared/response"
)

const (
	maxImageSize  = 5 << 20  // 5 MB
	maxImportSize = 10 << 20 // 10 MB
)

// AdminHandler serves the back-office catalogue CRUD.
type AdminHandler struct {
	service service.ServiceInterface
}

func NewAdminHandler(svc service.ServiceInterface) *AdminHandler {
	return &AdminHandler{service: svc}
}

// CreateProduct - POST /v1/admin/products
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req model.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	product, err := h.service.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		mapCatalogError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, product)
}

// UpdateProduct - PATCH /v1/admin/products/:id
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}

	var req model.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	product, err := h.service.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		mapCatalogError(c, err)
		return
	}

	response.Success(c, http.StatusOK, product)
}

// DeleteProduct - DELETE /v1/admin/products/:id
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}

	if err := h.service.DeleteProduct(c.Request.Context(), id); err != nil {
		mapCatalogError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ListAllProducts - GET /v1/admin/products (includes inactive)
func (h *AdminHandler) ListAllProducts(c *gin.Context) {
	var req model.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	req.IncludeInactive = true
	req.Normalize()

	products, total, err := h.service.ListProducts(c.Request.Context(), req)
	if err != nil {
		response.InternalServerError(c, "failed to list products")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, products, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

// UploadImage - POST /v1/admin/products/:id/images (multipart)
func (h *AdminHandler) UploadImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "image file is required")
		return
	}
	if fileHeader.Size > maxImageSize {
		response.BadRequest(c, "image exceeds 5MB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.InternalServerError(c, "failed to read upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.InternalServerError(c, "failed to read upload")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := h.service.UploadProductImage(c.Request.Context(), id, fileHeader.Filename, data, contentType)
	if err != nil {
		mapCatalogError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"url": url})
}

// ImportProducts - POST /v1/admin/products/import (multipart)
func (h *AdminHandler) ImportProducts(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "xlsx file is required")
		return
	}
	if fileHeader.Size > maxImportSize {
		response.BadRequest(c, "import exceeds 10MB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.InternalServerError(c, "failed to read upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.InternalServerError(c, "failed to read upload")
		return
	}

	result, err := h.service.ImportProductsFromExcel(c.Request.Context(), data)
	if err != nil {
		response.BadRequest(c, "could not read the spreadsheet")
		return
	}

	response.Success(c, http.StatusOK, result)
}

// ExportProducts - GET /v1/admin/products/export
func (h *AdminHandler) ExportProducts(c *gin.Context) {
	var req model.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	f, err := h.service.ExportProductsToExcel(c.Request.Context(), req)
	if err != nil {
		response.InternalServerError(c, "failed to export products")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="products.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		response.InternalServerError(c, "failed to write export")
	}
}

// CreateCategory - POST /v1/admin/categories
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req model.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		mapCatalogError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, category)
}

// DeleteCategory - DELETE /v1/admin/categories/:id
func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid category id")
		return
	}

	if err := h.service.DeleteCategory(c.Request.Context(), id); err != nil {
		mapCatalogError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func mapCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrProductNotFound), errors.Is(err, model.ErrCategoryNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, model.ErrDuplicateSlug):
		response.Conflict(c, err.Error())
	case errors.Is(err, model.ErrCategoryHasProducts):
		response.BadRequest(c, err.Error())
	default:
		response.InternalServerError(c, "catalogue operation failed")
	}
}
