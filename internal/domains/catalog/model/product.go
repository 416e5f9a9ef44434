package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is a catalogue entry. Orders snapshot product details at checkout
// time, so later edits here never alter historical orders.
type Product struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description *string         `json:"description,omitempty" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Images      pq.StringArray  `json:"images" db:"images"`
	CategoryID  *uuid.UUID      `json:"category_id,omitempty" db:"category_id"`
	IsActive    bool            `json:"is_active" db:"is_active"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// ProductWithCategory is the list/detail read model (JOIN with categories).
type ProductWithCategory struct {
	Product
	CategoryName *string `json:"category_name,omitempty" db:"category_name"`
	CategorySlug *string `json:"category_slug,omitempty" db:"category_slug"`
}

// Category groups products for catalogue filtering.
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// FirstImage returns the primary image URL, empty when none is set.
func (p *Product) FirstImage() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}
