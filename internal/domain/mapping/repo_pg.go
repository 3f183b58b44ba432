package mapping

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayushterm/api/pkg/apperr"
)

const mappingCols = `nc.code, nc.display, COALESCE(nc.native_term, ''), nc.system,
       im.icd_code, im.icd_title, im.similarity_score, im.equivalence_hint`

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) Candidates(ctx context.Context, code, system string) ([]Mapping, error) {
	sql := `SELECT ` + mappingCols + `
	 FROM icd_mappings im
	 JOIN namaste_codes nc ON nc.code = im.namc_code AND nc.system = im.source_system
	 WHERE nc.code = $1`
	args := []interface{}{code}
	if system != "" {
		sql += ` AND nc.system = $2`
		args = append(args, strings.ToLower(system))
	}
	sql += ` ORDER BY im.similarity_score DESC NULLS LAST, im.icd_code ASC`

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperr.Unavailable("mapping candidates", err)
	}
	defer rows.Close()

	var results []Mapping
	for rows.Next() {
		var m Mapping
		if err := rows.Scan(&m.SourceCode, &m.SourceTerm, &m.OriginalTerm, &m.System,
			&m.TargetCode, &m.TargetTitle, &m.Confidence, &m.EquivalenceHint); err != nil {
			return nil, apperr.Unavailable("mapping scan", err)
		}
		results = append(results, m)
	}
	return results, rows.Err()
}

func (r *repoPG) ListBySystem(ctx context.Context, system string, limit, offset int) ([]Mapping, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+mappingCols+`
		 FROM icd_mappings im
		 JOIN namaste_codes nc ON nc.code = im.namc_code AND nc.system = im.source_system
		 WHERE nc.system = $1 AND im.icd_code IS NOT NULL
		 ORDER BY im.similarity_score DESC NULLS LAST, im.icd_code ASC
		 LIMIT $2 OFFSET $3`, strings.ToLower(system), limit, offset)
	if err != nil {
		return nil, apperr.Unavailable("mapping list by system", err)
	}
	defer rows.Close()

	var results []Mapping
	for rows.Next() {
		var m Mapping
		if err := rows.Scan(&m.SourceCode, &m.SourceTerm, &m.OriginalTerm, &m.System,
			&m.TargetCode, &m.TargetTitle, &m.Confidence, &m.EquivalenceHint); err != nil {
			return nil, apperr.Unavailable("mapping scan", err)
		}
		results = append(results, m)
	}
	return results, rows.Err()
}

func (r *repoPG) List(ctx context.Context, filter ListFilter) ([]Mapping, int, error) {
	conds := []string{"im.icd_code IS NOT NULL", "im.similarity_score >= $1"}
	args := []interface{}{filter.MinConfidence}

	if filter.System != "" {
		args = append(args, strings.ToLower(filter.System))
		conds = append(conds, fmt.Sprintf("nc.system = $%d", len(args)))
	}
	if lo, hi, ok := equivalenceBounds(filter.Equivalence); ok {
		if lo != nil {
			args = append(args, *lo)
			conds = append(conds, fmt.Sprintf("im.similarity_score >= $%d", len(args)))
		}
		if hi != nil {
			args = append(args, *hi)
			conds = append(conds, fmt.Sprintf("im.similarity_score < $%d", len(args)))
		}
	}

	from := `FROM icd_mappings im
	 JOIN namaste_codes nc ON nc.code = im.namc_code AND nc.system = im.source_system
	 WHERE ` + strings.Join(conds, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+from, args...).Scan(&total); err != nil {
		return nil, 0, apperr.Unavailable("mapping count", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	sql := fmt.Sprintf(`SELECT %s %s
	 ORDER BY im.similarity_score DESC NULLS LAST, nc.system, nc.code
	 LIMIT $%d OFFSET $%d`, mappingCols, from, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, apperr.Unavailable("mapping list", err)
	}
	defer rows.Close()

	var results []Mapping
	for rows.Next() {
		var m Mapping
		if err := rows.Scan(&m.SourceCode, &m.SourceTerm, &m.OriginalTerm, &m.System,
			&m.TargetCode, &m.TargetTitle, &m.Confidence, &m.EquivalenceHint); err != nil {
			return nil, 0, apperr.Unavailable("mapping scan", err)
		}
		results = append(results, m)
	}
	return results, total, rows.Err()
}
