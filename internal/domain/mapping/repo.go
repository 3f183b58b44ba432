package mapping

import "context"

// Repository provides read access to stored mapping candidates.
type Repository interface {
	// Candidates returns all mapping rows for one source concept. An empty
	// system matches any system. Rows are ordered by descending confidence
	// with nulls last, ties broken by ascending target code.
	Candidates(ctx context.Context, code, system string) ([]Mapping, error)

	// ListBySystem returns mapped candidates for one traditional system,
	// best first.
	ListBySystem(ctx context.Context, system string, limit, offset int) ([]Mapping, error)

	// List returns a filtered page of mapped candidates across all systems
	// together with the true total row count for the filter.
	List(ctx context.Context, filter ListFilter) ([]Mapping, int, error)
}
