package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	perrors "github.com/oldwares/curio/internal/product/errors"
	"github.com/shopspring/decimal"
)

// productColumns is the select list shared by all queries. Price is cast to
// text so it can be scanned into a decimal without loss.
const productColumns = "id, title, description, price::text, category, image, sold, featured, created_at"

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

// FindAll retrieves every product ordered newest first.
func (p *PgStore) FindAll(ctx context.Context) ([]Product, error) {
	rows, err := p.db.Query(ctx, "SELECT "+productColumns+" FROM products ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// FindByID retrieves a product by its identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id int64) (*Product, error) {
	row := p.db.QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return product, nil
}

// FindFeatured retrieves up to FeaturedLimit unsold featured products, newest first.
func (p *PgStore) FindFeatured(ctx context.Context) ([]Product, error) {
	rows, err := p.db.Query(ctx,
		"SELECT "+productColumns+" FROM products WHERE featured AND NOT sold ORDER BY id DESC LIMIT $1",
		FeaturedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query featured products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// Create adds a new product to the catalog.
func (p *PgStore) Create(ctx context.Context, params CreateParams) (*Product, error) {
	row := p.db.QueryRow(ctx,
		`INSERT INTO products (title, description, price, category, image, sold, featured)
		 VALUES ($1, $2, $3::numeric, $4, $5, FALSE, $6)
		 RETURNING `+productColumns,
		params.Title, params.Description, params.Price.String(), params.Category, params.ImageKey, params.Featured)
	product, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// Update applies a partial update; nil params leave the stored value unchanged.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) Update(ctx context.Context, id int64, params UpdateParams) (*Product, error) {
	var price *string
	if params.Price != nil {
		s := params.Price.String()
		price = &s
	}
	row := p.db.QueryRow(ctx,
		`UPDATE products SET
		   title       = COALESCE($2, title),
		   description = COALESCE($3, description),
		   price       = COALESCE($4::numeric, price),
		   category    = COALESCE($5, category),
		   image       = COALESCE($6, image),
		   sold        = COALESCE($7, sold),
		   featured    = COALESCE($8, featured)
		 WHERE id = $1
		 RETURNING `+productColumns,
		id, params.Title, params.Description, price, params.Category, params.ImageKey, params.Sold, params.Featured)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// DeleteByID removes a product by its identifier and returns the deleted ID.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) DeleteByID(ctx context.Context, id int64) (int64, error) {
	var deletedID int64
	err := p.db.QueryRow(ctx, "DELETE FROM products WHERE id = $1 RETURNING id", id).Scan(&deletedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, perrors.ErrProductNotFound
		}
		return 0, fmt.Errorf("failed to delete product by ID: %w", err)
	}
	return deletedID, nil
}

// scanProduct scans a single product row.
func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	var price string
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &price, &p.Category, &p.ImageKey, &p.Sold, &p.Featured, &p.CreatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price %q: %w", price, err)
	}
	p.Price = d
	return &p, nil
}

// collectProducts drains rows into a slice, which may be empty.
func collectProducts(rows pgx.Rows) ([]Product, error) {
	products := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read product rows: %w", err)
	}
	return products, nil
}
