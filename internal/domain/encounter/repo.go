package encounter

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the append-only encounter store.
type Repository interface {
	// Create persists a new record. Records are never updated or deleted.
	Create(ctx context.Context, rec *Record) error

	// List returns records newest first.
	List(ctx context.Context, limit, offset int) ([]Record, error)

	// GetByID returns one record, or nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
}
