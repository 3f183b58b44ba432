package encounter

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayushterm/api/pkg/apperr"
)

const recordCols = `id, encounter_id, patient_id, ayush_codes, icd11_codes, fhir_bundle, created_by, created_at`

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) Create(ctx context.Context, rec *Record) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO encounter_records (`+recordCols+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.EncounterID, rec.PatientID, rec.AyushCodes, rec.ICD11Codes,
		rec.FHIRBundle, rec.CreatedBy, rec.CreatedAt)
	if err != nil {
		return apperr.Unavailable("encounter create", err)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]Record, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+recordCols+`
		 FROM encounter_records
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, apperr.Unavailable("encounter list", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.EncounterID, &rec.PatientID, &rec.AyushCodes,
			&rec.ICD11Codes, &rec.FHIRBundle, &rec.CreatedBy, &rec.CreatedAt); err != nil {
			return nil, apperr.Unavailable("encounter scan", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	var rec Record
	err := r.pool.QueryRow(ctx,
		`SELECT `+recordCols+` FROM encounter_records WHERE id = $1`, id).
		Scan(&rec.ID, &rec.EncounterID, &rec.PatientID, &rec.AyushCodes,
			&rec.ICD11Codes, &rec.FHIRBundle, &rec.CreatedBy, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Unavailable("encounter get", err)
	}
	return &rec, nil
}
