package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// CreateProductRequest is the admin payload for a new product.
type CreateProductRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Images      []string `json:"images,omitempty"`
	CategoryID  *string  `json:"category_id,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

func (r CreateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Price, validation.Required, validation.Min(0.0)),
		validation.Field(&r.CategoryID, validation.By(optionalUUID)),
	)
}

// UpdateProductRequest carries only the fields being changed.
type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Images      []string `json:"images,omitempty"`
	CategoryID  *string  `json:"category_id,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

func (r UpdateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Price, validation.Min(0.0)),
		validation.Field(&r.CategoryID, validation.By(optionalUUID)),
	)
}

// ListProductsRequest filters the public catalogue.
type ListProductsRequest struct {
	CategorySlug string `form:"category"`
	Search       string `form:"q"`
	Page         int    `form:"page"`
	Limit        int    `form:"limit"`
	// Admin listings include inactive products; the public catalogue never does.
	IncludeInactive bool `form:"-"`
}

// Normalize clamps paging to sane bounds.
func (r *ListProductsRequest) Normalize() {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Limit <= 0 {
		r.Limit = 20
	}
	if r.Limit > 100 {
		r.Limit = 100
	}
}

// ImportResult summarizes a bulk product import. Rows that could not be
// read are skipped, not fatal; their reasons are listed per row.
type ImportResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// CreateCategoryRequest is the admin payload for a new category.
type CreateCategoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (r CreateCategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Slug, validation.Required, validation.Length(1, 100)),
	)
}

func optionalUUID(value interface{}) error {
	s, _ := value.(*string)
	if s == nil || *s == "" {
		return nil
	}
	if _, err := uuid.Parse(*s); err != nil {
		return validation.NewError("validation_uuid", "must be a valid UUID")
	}
	return nil
}
