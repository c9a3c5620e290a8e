// Package store provides blob storage for product images.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrImageNotFound is returned when no image exists with the requested key.
var ErrImageNotFound = errors.New("image not found")

// Image is a stored blob addressed by an opaque key.
type Image struct {
	Key       string
	ProductID *int64
	Data      []byte
	CreatedAt time.Time
}

// ImageStore is an interface for image blob operations.
type ImageStore interface {
	// FindByKey retrieves the raw image bytes for a blob key.
	// Returns ErrImageNotFound if no image exists with the given key.
	FindByKey(ctx context.Context, key string) ([]byte, error)

	// Save stores an image blob under the given key.
	Save(ctx context.Context, key string, data []byte) error
}

// PgStore implements ImageStore using PostgreSQL as the blob store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ImageStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

// FindByKey retrieves the raw image bytes for a blob key.
func (p *PgStore) FindByKey(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := p.db.QueryRow(ctx, "SELECT data FROM images WHERE key = $1", key).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("failed to find image by key: %w", err)
	}
	return data, nil
}

// Save stores an image blob under the given key.
func (p *PgStore) Save(ctx context.Context, key string, data []byte) error {
	_, err := p.db.Exec(ctx, "INSERT INTO images (key, data) VALUES ($1, $2)", key, data)
	if err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
