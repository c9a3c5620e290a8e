package store

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	perrors "github.com/oldwares/curio/internal/product/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const skipIntegrationTests = "CURIO_SKIP_INTEGRATION_TESTS"

// ProductStoreSuite is a test suite for the ProductStore implementation.
type ProductStoreSuite struct {
	suite.Suite                             // Embedding testify's suite for structured testing
	pgContainer *postgres.PostgresContainer // PostgreSQL container for integration tests
	dbPool      *pgxpool.Pool               // PostgreSQL connection pool for integration tests
	store       ProductStore                //
	logger      *slog.Logger                // Logger for the test suite
	ctx         context.Context             // Context for the test suite, used for cancellation and timeouts
}

// SetupSuite initializes the test suite by setting up a PostgreSQL container.
func (s *ProductStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	dbName := "curio"
	dbUser := "user"
	dbPassword := "password"

	// 1. Start a PostgreSQL container with the specified configuration. Wait for the container to be ready.
	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		// Wait for a specific log message indicating the database service is ready.
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
		// Ensure the container is ready to accept connections on the default PostgreSQL port.
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp"),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	// 2. Get the connection string from the container
	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get connection string from container")

	// 3. create a new pgxpool instance using the connection string
	s.dbPool, err = pgxpool.New(s.ctx, connStr)
	require.NoError(s.T(), err, "Failed to create pgxpool")

	// 3.1 Ping the database to ensure the connection is established
	for i := range 10 {
		s.logger.Info("Pinging PostgreSQL database", "attempt", i+1)
		err = s.dbPool.Ping(s.ctx)
		if err == nil {
			break
		}
		time.Sleep(time.Second * 2)
	}
	require.NoError(s.T(), err, "Failed to connect to PostgreSQL after retries")

	// 4. Apply the embedded schema migrations
	require.NoError(s.T(), RunMigrations(connStr), "Failed to apply migrations")
	s.logger.Info("Migrations applied for integration tests")

	s.store = NewPgStore(s.dbPool)
	s.logger.Info("Initialization complete for ProductStoreSuite")
}

// TearDownSuite cleans up resources after all tests in the suite have run.
func (s *ProductStoreSuite) TearDownSuite() {
	s.logger.Info("Tearing down suite...")
	if s.dbPool != nil {
		s.dbPool.Close()
		s.logger.Info("DB pool closed.")
	}
	if s.pgContainer != nil {
		s.logger.Info("Terminating PostgreSQL container...")
		err := s.pgContainer.Terminate(s.ctx)
		if err != nil {
			s.logger.Warn("failed to terminate PostgreSQL container", "error", err)
		} else {
			s.logger.Info("PostgreSQL container terminated.")
		}
	}
}

// SetupTest prepares the database for each test by truncating the products table.
func (s *ProductStoreSuite) SetupTest() {
	_, err := s.dbPool.Exec(s.ctx, "TRUNCATE TABLE products RESTART IDENTITY CASCADE")
	require.NoError(s.T(), err, "Failed to truncate products table")
}

// TestProductStoreIntegration runs the ProductStore integration tests.
func TestProductStoreIntegration(t *testing.T) {
	// Skip integration tests if the environment variable is set
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	// Run the test suite
	suite.Run(t, new(ProductStoreSuite))
}

// createTestProduct is a helper function to create a product for testing purposes.
func (s *ProductStoreSuite) createTestProduct(title, price string, featured bool) *Product {
	s.T().Helper()
	product, err := s.store.Create(s.ctx, CreateParams{
		Title:       title,
		Description: "Description for " + title,
		Price:       decimal.RequireFromString(price),
		Category:    "Furniture",
		Featured:    featured,
	})
	require.NoError(s.T(), err, "createTestProduct helper failed to create product")
	return product
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func (s *ProductStoreSuite) TestCreateAndFindByID() {
	// 1. Create a new product
	imageKey := "lamp.jpg"
	toCreate := CreateParams{
		Title:       "Brass Oil Lamp",
		Description: "Early 20th century brass oil lamp.",
		Price:       decimal.RequireFromString("45.50"),
		Category:    "Lighting",
		ImageKey:    &imageKey,
		Featured:    true,
	}
	created, err := s.store.Create(s.ctx, toCreate)
	require.NoError(s.T(), err, "Create should not return an error")

	// 2. Check that the product was created successfully
	require.NotZero(s.T(), created.ID, "Created product ID should not be zero")
	require.Equal(s.T(), toCreate.Title, created.Title)
	require.Equal(s.T(), toCreate.Description, created.Description)
	require.True(s.T(), toCreate.Price.Equal(created.Price), "Price should round-trip through numeric")
	require.Equal(s.T(), toCreate.Category, created.Category)
	require.Equal(s.T(), imageKey, *created.ImageKey)
	require.False(s.T(), created.Sold, "New products must not be sold")
	require.True(s.T(), created.Featured)
	require.NotZero(s.T(), created.CreatedAt, "CreatedAt should be set")

	// 3. Fetch the product by ID
	fetched, err := s.store.FindByID(s.ctx, created.ID)

	// 4. Check that the fetched product matches the created product
	require.NoError(s.T(), err, "FindByID should not return an error")
	require.Equal(s.T(), created.ID, fetched.ID)
	require.Equal(s.T(), created.Title, fetched.Title)
	require.True(s.T(), created.Price.Equal(fetched.Price))
	require.WithinDuration(s.T(), created.CreatedAt, fetched.CreatedAt, time.Second)
}

func (s *ProductStoreSuite) TestFindByID_NotFound() {
	// Attempt to fetch a product that does not exist
	_, err := s.store.FindByID(s.ctx, 424242)
	// Check that the error is ErrProductNotFound
	require.ErrorIs(s.T(), err, perrors.ErrProductNotFound, "Expected ErrProductNotFound for non-existent product")
}

func (s *ProductStoreSuite) TestFindAll_NewestFirst() {
	s.createTestProduct("Oak Writing Desk", "120.00", false)
	s.createTestProduct("Mantel Clock", "75.00", false)

	products, err := s.store.FindAll(s.ctx)

	require.NoError(s.T(), err)
	require.Len(s.T(), products, 2, "Should retrieve 2 products")
	assert.Equal(s.T(), "Mantel Clock", products[0].Title, "Newest product should come first")
	assert.Equal(s.T(), "Oak Writing Desk", products[1].Title)
}

func (s *ProductStoreSuite) TestFindAll_Empty() {
	products, err := s.store.FindAll(s.ctx)

	require.NoError(s.T(), err)
	require.NotNil(s.T(), products, "Empty catalog should be an empty slice, not nil")
	require.Empty(s.T(), products)
}

func (s *ProductStoreSuite) TestFindFeatured_LimitAndFilter() {
	// Create more featured products than the limit, plus noise that must be excluded
	for i := range FeaturedLimit + 2 {
		s.createTestProduct("Featured "+string(rune('A'+i)), "10.00", true)
	}
	notFeatured := s.createTestProduct("Plain Chair", "20.00", false)
	soldFeatured := s.createTestProduct("Sold Cabinet", "30.00", true)
	_, err := s.store.Update(s.ctx, soldFeatured.ID, UpdateParams{Sold: boolPtr(true)})
	require.NoError(s.T(), err)

	featured, err := s.store.FindFeatured(s.ctx)

	require.NoError(s.T(), err)
	require.Len(s.T(), featured, FeaturedLimit, "Featured set should be capped")
	for i, product := range featured {
		assert.True(s.T(), product.Featured)
		assert.False(s.T(), product.Sold, "Sold products must be excluded from the featured set")
		assert.NotEqual(s.T(), notFeatured.ID, product.ID)
		assert.NotEqual(s.T(), soldFeatured.ID, product.ID)
		if i > 0 {
			assert.Greater(s.T(), featured[i-1].ID, product.ID, "Featured set should be newest first")
		}
	}
}

func (s *ProductStoreSuite) TestUpdate_Partial() {
	// Create a product to update
	created := s.createTestProduct("Oak Writing Desk", "120.00", false)

	// Update only the price; every other field must be retained
	newPrice := decimal.RequireFromString("99.95")
	updated, err := s.store.Update(s.ctx, created.ID, UpdateParams{Price: &newPrice})
	require.NoError(s.T(), err, "Update should not return an error")

	require.Equal(s.T(), created.ID, updated.ID)
	require.True(s.T(), newPrice.Equal(updated.Price))
	require.Equal(s.T(), created.Title, updated.Title, "Unset fields should be retained")
	require.Equal(s.T(), created.Description, updated.Description)
	require.Equal(s.T(), created.Category, updated.Category)
	require.Equal(s.T(), created.Sold, updated.Sold)
}

func (s *ProductStoreSuite) TestUpdate_MarkSold() {
	created := s.createTestProduct("Mantel Clock", "75.00", true)

	updated, err := s.store.Update(s.ctx, created.ID, UpdateParams{Sold: boolPtr(true)})
	require.NoError(s.T(), err)

	require.True(s.T(), updated.Sold)
	require.Equal(s.T(), created.Title, updated.Title)
}

func (s *ProductStoreSuite) TestUpdate_SeveralFields() {
	created := s.createTestProduct("Oak Writing Desk", "120.00", false)

	updated, err := s.store.Update(s.ctx, created.ID, UpdateParams{
		Title:    strPtr("Victorian Oak Writing Desk"),
		Category: strPtr("Antique Furniture"),
		Featured: boolPtr(true),
	})
	require.NoError(s.T(), err)

	require.Equal(s.T(), "Victorian Oak Writing Desk", updated.Title)
	require.Equal(s.T(), "Antique Furniture", updated.Category)
	require.True(s.T(), updated.Featured)
	require.True(s.T(), created.Price.Equal(updated.Price), "Price should be retained")
}

func (s *ProductStoreSuite) TestUpdate_NotFound() {
	// Attempt to update a product that does not exist
	_, err := s.store.Update(s.ctx, 424242, UpdateParams{Title: strPtr("Ghost")})
	require.ErrorIs(s.T(), err, perrors.ErrProductNotFound, "Expected ErrProductNotFound for non-existent product")
}

func (s *ProductStoreSuite) TestDeleteByID() {
	// Create a product to delete
	created := s.createTestProduct("Plain Chair", "20.00", false)

	// Delete the product by ID
	deletedID, err := s.store.DeleteByID(s.ctx, created.ID)
	require.NoError(s.T(), err, "DeleteByID should not return an error")
	require.Equal(s.T(), created.ID, deletedID)

	// Attempt to fetch the deleted product
	_, err = s.store.FindByID(s.ctx, created.ID)
	require.ErrorIs(s.T(), err, perrors.ErrProductNotFound, "Expected ErrProductNotFound for deleted product")
}

func (s *ProductStoreSuite) TestDeleteByID_NotFound() {
	// Attempt to delete a product that does not exist
	_, err := s.store.DeleteByID(s.ctx, 424242)
	require.ErrorIs(s.T(), err, perrors.ErrProductNotFound, "Expected ErrProductNotFound for non-existent product")
}
