package terminology

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayushterm/api/pkg/apperr"
)

const conceptCols = `code, display, COALESCE(native_term, ''), system`

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) Search(ctx context.Context, query, system string, limit int) ([]Concept, error) {
	pattern := "%" + query + "%"
	sql := `SELECT ` + conceptCols + `
	 FROM namaste_codes
	 WHERE (code ILIKE $1 OR display ILIKE $1 OR native_term ILIKE $1)`
	args := []interface{}{pattern}
	if system != "" {
		sql += ` AND system = $2`
		args = append(args, system)
	}
	args = append(args, limit)
	if system != "" {
		sql += ` ORDER BY display LIMIT $3`
	} else {
		sql += ` ORDER BY display LIMIT $2`
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperr.Unavailable("concept search", err)
	}
	defer rows.Close()
	return scanConcepts(rows)
}

func (r *repoPG) ListBySystem(ctx context.Context, system string, limit, offset int) ([]Concept, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+conceptCols+`
		 FROM namaste_codes
		 WHERE system = $1
		 ORDER BY display
		 LIMIT $2 OFFSET $3`, system, limit, offset)
	if err != nil {
		return nil, apperr.Unavailable("concept list", err)
	}
	defer rows.Close()
	return scanConcepts(rows)
}

func (r *repoPG) CountBySystem(ctx context.Context, system string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM namaste_codes WHERE system = $1`, system).Scan(&count)
	if err != nil {
		return 0, apperr.Unavailable("concept count", err)
	}
	return count, nil
}

func (r *repoPG) GetByCode(ctx context.Context, system, code string) (*Concept, error) {
	var c Concept
	err := r.pool.QueryRow(ctx,
		`SELECT `+conceptCols+`
		 FROM namaste_codes WHERE system = $1 AND code = $2`, system, code).
		Scan(&c.Code, &c.Display, &c.NativeTerm, &c.System)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Unavailable("concept get", err)
	}
	return &c, nil
}

func (r *repoPG) All(ctx context.Context) ([]Concept, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+conceptCols+` FROM namaste_codes ORDER BY system, code`)
	if err != nil {
		return nil, apperr.Unavailable("concept list all", err)
	}
	defer rows.Close()
	return scanConcepts(rows)
}

func (r *repoPG) GetICD11(ctx context.Context, code string) (*ICD11Code, error) {
	var c ICD11Code
	err := r.pool.QueryRow(ctx,
		`SELECT code, title, is_tm2 FROM icd11_codes WHERE code = $1`, code).
		Scan(&c.Code, &c.Title, &c.IsTM2)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Unavailable("icd11 get", err)
	}
	return &c, nil
}

func scanConcepts(rows pgx.Rows) ([]Concept, error) {
	var results []Concept
	for rows.Next() {
		var c Concept
		if err := rows.Scan(&c.Code, &c.Display, &c.NativeTerm, &c.System); err != nil {
			return nil, apperr.Unavailable("concept scan", err)
		}
		results = append(results, c)
	}
	return results, rows.Err()
}
