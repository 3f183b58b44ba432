package stats

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayushterm/api/pkg/apperr"
)

// undefinedTable is the postgres error code for a query against a missing
// table.
const undefinedTable = "42P01"

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) CountConcepts(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM namaste_codes`).Scan(&count)
	if err != nil {
		return 0, apperr.Unavailable("concept count", err)
	}
	return count, nil
}

func (r *repoPG) SystemCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT system, COUNT(*) FROM namaste_codes GROUP BY system`)
	if err != nil {
		return nil, apperr.Unavailable("system counts", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var system string
		var count int
		if err := rows.Scan(&system, &count); err != nil {
			return nil, apperr.Unavailable("system counts scan", err)
		}
		counts[system] = count
	}
	return counts, rows.Err()
}

func (r *repoPG) MappingRows(ctx context.Context) ([]MappingRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT nc.display, im.icd_code, im.icd_title, im.similarity_score
		 FROM icd_mappings im
		 JOIN namaste_codes nc ON nc.code = im.namc_code AND nc.system = im.source_system`)
	if err != nil {
		return nil, apperr.Unavailable("mapping rows", err)
	}
	defer rows.Close()

	var results []MappingRow
	for rows.Next() {
		var m MappingRow
		if err := rows.Scan(&m.SourceTerm, &m.TargetCode, &m.TargetTitle, &m.Confidence); err != nil {
			return nil, apperr.Unavailable("mapping rows scan", err)
		}
		results = append(results, m)
	}
	return results, rows.Err()
}

func (r *repoPG) CountEncounters(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM encounter_records`).Scan(&count)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
			return 0, nil
		}
		return 0, apperr.Unavailable("encounter count", err)
	}
	return count, nil
}
