package mapping

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ayushterm/api/internal/platform/fhir"
	"github.com/ayushterm/api/pkg/apperr"
)

var knownSystems = map[string]bool{
	"ayurveda": true,
	"siddha":   true,
	"unani":    true,
}

// Service resolves traditional-medicine concepts to ranked ICD-11 candidates.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Resolve returns the filtered, classified mapping candidates for one source
// code. An unknown code or unrecognized system yields an empty list, not an
// error. The system filter is permissive: it narrows, never rejects.
func (s *Service) Resolve(ctx context.Context, code, system string) ([]Result, error) {
	if strings.TrimSpace(code) == "" {
		return nil, apperr.Invalid("source code must not be empty")
	}

	candidates, err := s.repo.Candidates(ctx, code, system)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(candidates))
	for _, m := range candidates {
		if Excluded(m.SourceTerm, m.TargetCode, m.TargetTitle) {
			continue
		}
		results = append(results, toResult(m))
	}

	s.logger.Debug().
		Str("code", code).
		Str("system", system).
		Int("candidates", len(candidates)).
		Int("results", len(results)).
		Msg("resolved mapping candidates")

	return results, nil
}

// ListBySystem returns mapped candidates for one system, best first.
func (s *Service) ListBySystem(ctx context.Context, system string, limit, offset int) ([]Result, error) {
	system = strings.ToLower(system)
	if !knownSystems[system] {
		return nil, apperr.Invalid("unknown system: %s", system)
	}
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}

	rows, err := s.repo.ListBySystem(ctx, system, limit, offset)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(rows))
	for _, m := range rows {
		results = append(results, toResult(m))
	}
	return results, nil
}

// List returns a filtered page of mappings across systems with the true
// pre-filter total. Generic candidates are dropped from the page.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Result, int, error) {
	if filter.System != "" && !knownSystems[strings.ToLower(filter.System)] {
		return nil, 0, apperr.Invalid("unknown system: %s", filter.System)
	}
	filter.Limit = clampLimit(filter.Limit)
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	results := make([]Result, 0, len(rows))
	for _, m := range rows {
		if Excluded(m.SourceTerm, m.TargetCode, m.TargetTitle) {
			continue
		}
		results = append(results, toResult(m))
	}
	return results, total, nil
}

// Translate implements the FHIR ConceptMap $translate operation over the
// stored mappings.
func (s *Service) Translate(ctx context.Context, params *fhir.Parameters) (*fhir.Parameters, error) {
	systemURI := params.String("system")
	code := params.String("code")

	if systemURI == "" || code == "" {
		return translateFailure("Required parameters 'system' and 'code' must be provided"), nil
	}

	system := SystemFromURI(systemURI)
	if system == "" {
		return translateFailure("Unsupported source system: " + systemURI), nil
	}

	results, err := s.Resolve(ctx, code, system)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return translateFailure("No mapping found for code: " + code), nil
	}

	out := fhir.NewParameters()
	out.Add(fhir.Parameter{Name: "result", ValueBoolean: boolPtr(true)})
	for _, r := range results {
		match := fhir.Parameter{Name: "match"}
		match.Part = append(match.Part, fhir.Parameter{Name: "equivalence", ValueCode: r.Equivalence})
		if r.TargetCode != nil {
			coding := &fhir.Coding{
				System:  "http://id.who.int/icd/release/11/mms",
				Code:    *r.TargetCode,
				Display: derefOr(r.TargetTitle, ""),
			}
			match.Part = append(match.Part, fhir.Parameter{Name: "concept", ValueCoding: coding})
		}
		if r.Confidence != nil {
			match.Part = append(match.Part, fhir.Parameter{Name: "confidence", ValueDecimal: r.Confidence})
		}
		match.Part = append(match.Part, fhir.Parameter{Name: "comment", ValueString: r.ClinicalNote})
		out.Add(match)
	}
	return out, nil
}

// SystemFromURI extracts the traditional system name from a CodeSystem URI.
// Returns empty when the URI names no known system.
func SystemFromURI(uri string) string {
	lower := strings.ToLower(uri)
	for _, sys := range []string{"ayurveda", "siddha", "unani"} {
		if strings.Contains(lower, sys) {
			return sys
		}
	}
	return ""
}

func toResult(m Mapping) Result {
	title := ""
	if m.TargetTitle != nil {
		title = *m.TargetTitle
	}
	return Result{
		SourceCode:      m.SourceCode,
		SourceTerm:      m.SourceTerm,
		OriginalTerm:    m.OriginalTerm,
		System:          m.System,
		TargetCode:      m.TargetCode,
		TargetTitle:     m.TargetTitle,
		Confidence:      m.Confidence,
		Equivalence:     Classify(m.Confidence),
		EquivalenceHint: m.EquivalenceHint,
		ClinicalNote:    ClinicalNote(m.SourceTerm, m.System, title, m.Confidence),
	}
}

func translateFailure(message string) *fhir.Parameters {
	out := fhir.NewParameters()
	out.Add(fhir.Parameter{Name: "result", ValueBoolean: boolPtr(false)})
	out.Add(fhir.Parameter{Name: "message", ValueString: message})
	return out
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

func boolPtr(b bool) *bool { return &b }

func derefOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
