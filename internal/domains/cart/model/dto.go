package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const maxQuantityPerItem = 100

type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (r AddItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductID, validation.Required, is.UUIDv4),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1), validation.Max(maxQuantityPerItem)),
	)
}

// UpdateItemRequest sets an absolute quantity. Zero removes the line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (r UpdateItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Quantity, validation.Min(0), validation.Max(maxQuantityPerItem)),
	)
}
