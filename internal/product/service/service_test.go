package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oldwares/curio/internal/product/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProductStore is a mock implementation of the ProductStore interface
type mockProductStore struct {
	products []store.Product
	product  store.Product
	error    error
}

// Simulate finding all products
func (m *mockProductStore) FindAll(_ context.Context) ([]store.Product, error) {
	return m.products, m.error
}

// Simulate finding a product by ID
func (m *mockProductStore) FindByID(_ context.Context, _ int64) (*store.Product, error) {
	return &m.product, m.error
}

// Simulate finding the featured subset
func (m *mockProductStore) FindFeatured(_ context.Context) ([]store.Product, error) {
	return m.products, m.error
}

// Simulate creating a product
func (m *mockProductStore) Create(_ context.Context, _ store.CreateParams) (*store.Product, error) {
	return &m.product, m.error
}

// Simulate updating a product
func (m *mockProductStore) Update(_ context.Context, _ int64, _ store.UpdateParams) (*store.Product, error) {
	return &m.product, m.error
}

// Simulate deleting a product by ID
func (m *mockProductStore) DeleteByID(_ context.Context, id int64) (int64, error) {
	return id, m.error
}

var testCreatedAt = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func imageKey(key string) *string {
	return &key
}

func Test_ProductService_FindByID(t *testing.T) {
	ErrProductNotFound := errors.New("product not found")
	price := decimal.RequireFromString("45.50")
	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		productID   int64
		expected    *ProductDto
		expectError error
	}{
		{
			name: "Success - product found",
			mockStore: &mockProductStore{
				product: store.Product{
					ID:        1,
					Title:     "Brass Oil Lamp",
					Price:     price,
					Category:  "Lighting",
					ImageKey:  imageKey("lamp.jpg"),
					CreatedAt: testCreatedAt,
				},
				error: nil,
			},
			productID: 1,
			expected: &ProductDto{
				ID:        1,
				Title:     "Brass Oil Lamp",
				Price:     price,
				Category:  "Lighting",
				ImageKey:  "lamp.jpg",
				CreatedAt: testCreatedAt.Format(time.RFC3339),
			},
			expectError: nil,
		},
		{
			name: "Error - product not found",
			mockStore: &mockProductStore{
				error: ErrProductNotFound,
			},
			productID:   99,
			expected:    nil,
			expectError: ErrProductNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			found, err := service.FindByID(context.Background(), tc.productID)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, found)
		})
	}
}

func Test_ProductService_FindAll(t *testing.T) {
	ErrStoreError := errors.New("store error")
	price := decimal.RequireFromString("120.00")
	testCases := []struct {
		name         string
		mockStore    *mockProductStore
		expectedList []ProductDto
		expectError  error
	}{
		{
			name: "Success - products found",
			mockStore: &mockProductStore{
				products: []store.Product{
					{ID: 2, Title: "Oak Desk", Price: price, Category: "Furniture", CreatedAt: testCreatedAt},
				},
				error: nil,
			},
			expectedList: []ProductDto{
				{ID: 2, Title: "Oak Desk", Price: price, Category: "Furniture", CreatedAt: testCreatedAt.Format(time.RFC3339)},
			},
			expectError: nil,
		},
		{
			name: "Success - no products",
			mockStore: &mockProductStore{
				products: []store.Product{},
				error:    nil,
			},
			expectedList: []ProductDto{},
			expectError:  nil,
		},
		{
			name: "Error - store error",
			mockStore: &mockProductStore{
				error: ErrStoreError,
			},
			expectedList: nil,
			expectError:  ErrStoreError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			found, err := service.FindAll(context.Background())
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedList, found)
		})
	}
}

func Test_ProductService_FindFeatured(t *testing.T) {
	ErrStoreError := errors.New("store error")
	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		expectedLen int
		expectError error
	}{
		{
			name: "Success - featured subset returned",
			mockStore: &mockProductStore{
				products: []store.Product{
					{ID: 3, Title: "Mantel Clock", Featured: true, CreatedAt: testCreatedAt},
					{ID: 1, Title: "Brass Oil Lamp", Featured: true, CreatedAt: testCreatedAt},
				},
			},
			expectedLen: 2,
		},
		{
			name: "Error - store error",
			mockStore: &mockProductStore{
				error: ErrStoreError,
			},
			expectError: ErrStoreError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			found, err := service.FindFeatured(context.Background())
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Len(t, found, tc.expectedLen)
			for _, dto := range found {
				assert.True(t, dto.Featured)
			}
		})
	}
}

func Test_ProductService_Create(t *testing.T) {
	ErrStoreError := errors.New("store error")
	price := decimal.RequireFromString("75.00")
	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		product     ProductCreateDto
		expected    *ProductDto
		expectError error
	}{
		{
			name: "Success - product created",
			mockStore: &mockProductStore{
				product: store.Product{
					ID:        10,
					Title:     "Mantel Clock",
					Price:     price,
					Category:  "Collectibles",
					ImageKey:  imageKey("clock.jpg"),
					Featured:  true,
					CreatedAt: testCreatedAt,
				},
				error: nil,
			},
			product: ProductCreateDto{
				Title:    "Mantel Clock",
				Price:    &price,
				Category: "Collectibles",
				ImageKey: "clock.jpg",
				Featured: true,
			},
			expected: &ProductDto{
				ID:        10,
				Title:     "Mantel Clock",
				Price:     price,
				Category:  "Collectibles",
				ImageKey:  "clock.jpg",
				Featured:  true,
				CreatedAt: testCreatedAt.Format(time.RFC3339),
			},
			expectError: nil,
		},
		{
			name: "Error - store error",
			mockStore: &mockProductStore{
				error: ErrStoreError,
			},
			product:     ProductCreateDto{Title: "Mantel Clock", Price: &price},
			expected:    nil,
			expectError: ErrStoreError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			created, err := service.Create(context.Background(), tc.product)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, created)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, created)
		})
	}
}

func Test_ProductService_Update(t *testing.T) {
	ErrProductNotFound := errors.New("product not found")
	sold := true
	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		update      ProductUpdateDto
		expectSold  bool
		expectError error
	}{
		{
			name: "Success - sold flag set",
			mockStore: &mockProductStore{
				product: store.Product{ID: 5, Title: "Oak Desk", Sold: true, CreatedAt: testCreatedAt},
			},
			update:     ProductUpdateDto{Sold: &sold},
			expectSold: true,
		},
		{
			name: "Error - product not found",
			mockStore: &mockProductStore{
				error: ErrProductNotFound,
			},
			update:      ProductUpdateDto{Sold: &sold},
			expectError: ErrProductNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			updated, err := service.Update(context.Background(), 5, tc.update)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, updated)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectSold, updated.Sold)
		})
	}
}

func Test_ProductService_DeleteByID(t *testing.T) {
	ErrProductNotFound := errors.New("product not found")
	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		productID   int64
		expectError error
	}{
		{
			name:      "Success - product deleted",
			mockStore: &mockProductStore{},
			productID: 7,
		},
		{
			name: "Error - product not found",
			mockStore: &mockProductStore{
				error: ErrProductNotFound,
			},
			productID:   99,
			expectError: ErrProductNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			deletedID, err := service.DeleteByID(context.Background(), tc.productID)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Zero(t, deletedID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.productID, deletedID)
		})
	}
}
