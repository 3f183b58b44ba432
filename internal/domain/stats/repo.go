package stats

import "context"

// Repository provides the raw counts and rows the aggregator summarizes.
type Repository interface {
	// CountConcepts returns the total concept count across all systems.
	CountConcepts(ctx context.Context) (int, error)

	// SystemCounts returns per-system concept counts.
	SystemCounts(ctx context.Context) (map[string]int, error)

	// MappingRows streams every stored mapping's term, title, and
	// confidence so callers classify with the same logic the resolver uses.
	MappingRows(ctx context.Context) ([]MappingRow, error)

	// CountEncounters returns the encounter record count. A missing
	// encounter table reports zero, not an error.
	CountEncounters(ctx context.Context) (int, error)
}
