package model

import "errors"

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrInvalidQuantity = errors.New("quantity out of range")
	ErrProductNotFound = errors.New("product not found or unavailable")
)
