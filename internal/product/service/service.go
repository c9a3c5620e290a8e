// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/oldwares/curio/internal/product/store"
	"github.com/shopspring/decimal"
)

// ProductService defines the methods for managing catalog products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindAll returns every product, newest first.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// FindByID retrieves a single product by its identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*ProductDto, error)

	// FindFeatured returns the bounded unsold featured subset, newest first.
	FindFeatured(ctx context.Context) ([]ProductDto, error)

	// Create adds a new product to the catalog.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// Update applies a partial update; unset fields are retained.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id int64, product ProductUpdateDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID and returns the deleted ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) (int64, error)
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
}

// NewService creates a new instance of ProductService with the provided repository.
func NewService(repo store.ProductStore) *Service {
	return &Service{
		repository: repo,
	}
}

// ProductCreateDto represents the data transfer object for creating a new product.
// Price is a pointer so that an absent field is distinguishable from zero.
type ProductCreateDto struct {
	Title       string           `json:"title"       validate:"required,max=200"`
	Description string           `json:"description" validate:"required"`
	Price       *decimal.Decimal `json:"price"       validate:"required"`
	Category    string           `json:"category"    validate:"required,max=100"`
	ImageKey    string           `json:"image"       validate:"required"`
	Featured    bool             `json:"featured"`
}

// ProductUpdateDto represents a partial product update; nil fields are retained.
type ProductUpdateDto struct {
	Title       *string          `json:"title"       validate:"omitempty,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"    validate:"omitempty,max=100"`
	ImageKey    *string          `json:"image"`
	Sold        *bool            `json:"sold"`
	Featured    *bool            `json:"featured"`
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageKey    string          `json:"image,omitempty"`
	Sold        bool            `json:"sold"`
	Featured    bool            `json:"featured"`
	CreatedAt   string          `json:"created_at"`
}

// FindAll retrieves all products and returns them as ProductDTOs.
func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return toDtos(products), nil
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) FindByID(ctx context.Context, id int64) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	return toDto(product), nil
}

// FindFeatured retrieves the featured subset and returns it as ProductDTOs.
func (s *Service) FindFeatured(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindFeatured(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch featured products: %w", err)
	}
	return toDtos(products), nil
}

// Create creates a new product and returns it as a ProductDto.
func (s *Service) Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	var imageKey *string
	if product.ImageKey != "" {
		imageKey = &product.ImageKey
	}
	created, err := s.repository.Create(ctx, store.CreateParams{
		Title:       product.Title,
		Description: product.Description,
		Price:       *product.Price,
		Category:    product.Category,
		ImageKey:    imageKey,
		Featured:    product.Featured,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return toDto(created), nil
}

// Update applies a partial update and returns the updated product as a ProductDto.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) Update(ctx context.Context, id int64, product ProductUpdateDto) (*ProductDto, error) {
	updated, err := s.repository.Update(ctx, id, store.UpdateParams{
		Title:       product.Title,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
		ImageKey:    product.ImageKey,
		Sold:        product.Sold,
		Featured:    product.Featured,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %d: %w", id, err)
	}
	return toDto(updated), nil
}

// DeleteByID deletes a product by its ID and returns the deleted ID.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) DeleteByID(ctx context.Context, id int64) (int64, error) {
	deletedID, err := s.repository.DeleteByID(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete product with ID %d: %w", id, err)
	}
	return deletedID, nil
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	var imageKey string
	if product.ImageKey != nil {
		imageKey = *product.ImageKey
	}
	return &ProductDto{
		ID:          product.ID,
		Title:       product.Title,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
		ImageKey:    imageKey,
		Sold:        product.Sold,
		Featured:    product.Featured,
		CreatedAt:   product.CreatedAt.Format(time.RFC3339),
	}
}

func toDtos(products []store.Product) []ProductDto {
	dtos := make([]ProductDto, len(products))
	for i, item := range products {
		dtos[i] = *toDto(&item)
	}
	return dtos
}
