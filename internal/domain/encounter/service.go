package encounter

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ayushterm/api/internal/domain/mapping"
	"github.com/ayushterm/api/pkg/apperr"
)

// Resolver is the slice of the mapping service used to derive ICD-11 codes.
type Resolver interface {
	Resolve(ctx context.Context, code, system string) ([]mapping.Result, error)
}

// Service records clinical encounters with dual coding.
type Service struct {
	repo     Repository
	resolver Resolver
	logger   zerolog.Logger
}

func NewService(repo Repository, resolver Resolver, logger zerolog.Logger) *Service {
	return &Service{repo: repo, resolver: resolver, logger: logger}
}

// Ingest validates the request, derives ICD-11 codes from each traditional
// code's best surviving mapping, and appends the record.
func (s *Service) Ingest(ctx context.Context, req IngestRequest, createdBy string) (*Record, error) {
	if strings.TrimSpace(req.EncounterID) == "" {
		return nil, apperr.Invalid("encounter_id must not be empty")
	}
	if strings.TrimSpace(req.PatientID) == "" {
		return nil, apperr.Invalid("patient_id must not be empty")
	}
	if len(req.Codes) == 0 {
		return nil, apperr.Invalid("at least one code is required")
	}

	ayushCodes := make([]string, 0, len(req.Codes))
	var icd11Codes []string
	seen := make(map[string]bool)
	for _, ref := range req.Codes {
		if strings.TrimSpace(ref.Code) == "" {
			return nil, apperr.Invalid("code must not be empty")
		}
		ayushCodes = append(ayushCodes, ref.Code)

		results, err := s.resolver.Resolve(ctx, ref.Code, ref.System)
		if err != nil {
			return nil, err
		}
		for _, r := range results {
			if r.TargetCode != nil && !seen[*r.TargetCode] {
				seen[*r.TargetCode] = true
				icd11Codes = append(icd11Codes, *r.TargetCode)
				break
			}
		}
	}

	bundle := req.FHIRBundle
	if len(bundle) == 0 {
		bundle = []byte("{}")
	}

	rec := &Record{
		ID:          uuid.New(),
		EncounterID: req.EncounterID,
		PatientID:   req.PatientID,
		AyushCodes:  ayushCodes,
		ICD11Codes:  icd11Codes,
		FHIRBundle:  bundle,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("encounter_id", rec.EncounterID).
		Int("ayush_codes", len(ayushCodes)).
		Int("icd11_codes", len(icd11Codes)).
		Msg("encounter recorded")

	return rec, nil
}

// List returns records newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// Get returns one record or NotFound.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperr.NotFound("encounter record %s not found", id)
	}
	return rec, nil
}
