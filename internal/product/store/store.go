// Package store provides an interface for product storage operations.
package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog row. ImageKey references a blob in the images table
// and may be nil for products without a photograph.
type Product struct {
	ID          int64
	Title       string
	Description string
	Price       decimal.Decimal
	Category    string
	ImageKey    *string
	Sold        bool
	Featured    bool
	CreatedAt   time.Time
}

// CreateParams holds the fields required to insert a product.
type CreateParams struct {
	Title       string
	Description string
	Price       decimal.Decimal
	Category    string
	ImageKey    *string
	Featured    bool
}

// UpdateParams holds a partial update; nil fields are left unchanged.
type UpdateParams struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
	Category    *string
	ImageKey    *string
	Sold        *bool
	Featured    *bool
}

// FeaturedLimit bounds the homepage featured set.
const FeaturedLimit = 6

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations.
type ProductStore interface {
	// FindAll retrieves every product, newest first.
	FindAll(ctx context.Context) ([]Product, error)

	// FindByID retrieves a single product by its identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindFeatured retrieves up to FeaturedLimit unsold featured products, newest first.
	FindFeatured(ctx context.Context) ([]Product, error)

	// Create adds a new product to the catalog.
	Create(ctx context.Context, params CreateParams) (*Product, error)

	// Update applies a partial update to an existing product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id int64, params UpdateParams) (*Product, error)

	// DeleteByID removes a product and returns the deleted ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) (int64, error)
}
