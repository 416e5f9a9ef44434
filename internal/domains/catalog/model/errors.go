package model

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrDuplicateSlug     = errors.New("category slug already exists")
	ErrCategoryHasProducts = errors.New("category still has products")
)
