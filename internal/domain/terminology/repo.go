package terminology

import "context"

// Repository provides read access to the loaded terminology tables.
type Repository interface {
	// Search matches query case-insensitively as a substring of code,
	// display, or native term. An empty query matches everything. An empty
	// system matches all systems.
	Search(ctx context.Context, query, system string, limit int) ([]Concept, error)

	// ListBySystem returns one page of concepts for a system ordered by
	// display term.
	ListBySystem(ctx context.Context, system string, limit, offset int) ([]Concept, error)

	// CountBySystem returns the total concept count for a system.
	CountBySystem(ctx context.Context, system string) (int, error)

	// GetByCode returns a concept by system and code, or nil when absent.
	GetByCode(ctx context.Context, system, code string) (*Concept, error)

	// All returns every concept ordered by system then code.
	All(ctx context.Context) ([]Concept, error)

	// GetICD11 returns an ICD-11 entry by code, or nil when absent.
	GetICD11(ctx context.Context, code string) (*ICD11Code, error)
}
