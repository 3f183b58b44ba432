package terminology

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayushterm/api/internal/domain/mapping"
	"github.com/ayushterm/api/pkg/apperr"
)

// maxMappingsPerConcept bounds enrichment work per search result.
const maxMappingsPerConcept = 10

// Resolver is the slice of the mapping service the facade needs.
type Resolver interface {
	Resolve(ctx context.Context, code, system string) ([]mapping.Result, error)
}

// Service composes free-text concept search with mapping resolution.
type Service struct {
	repo     Repository
	resolver Resolver
	logger   zerolog.Logger
}

func NewService(repo Repository, resolver Resolver, logger zerolog.Logger) *Service {
	return &Service{repo: repo, resolver: resolver, logger: logger}
}

// Search returns concepts matching the query, each enriched with its best
// mapping candidates. An empty query matches everything. An unrecognized
// system yields an empty result rather than an error.
func (s *Service) Search(ctx context.Context, query, system string, limit int) ([]EnrichedConcept, error) {
	system = strings.ToLower(strings.TrimSpace(system))
	if system != "" && !KnownSystem(system) {
		return []EnrichedConcept{}, nil
	}
	limit = clampLimit(limit)

	concepts, err := s.repo.Search(ctx, strings.TrimSpace(query), system, limit)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, concepts)
}

// BrowseBySystem returns one page of a system's concepts plus the true total
// count for that system, computed as a separate query.
func (s *Service) BrowseBySystem(ctx context.Context, system string, limit, offset int) ([]EnrichedConcept, int, error) {
	system = strings.ToLower(system)
	if !KnownSystem(system) {
		return nil, 0, apperr.Invalid("unknown system: %s", system)
	}
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}

	concepts, err := s.repo.ListBySystem(ctx, system, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountBySystem(ctx, system)
	if err != nil {
		return nil, 0, err
	}

	enriched, err := s.enrich(ctx, concepts)
	if err != nil {
		return nil, 0, err
	}
	return enriched, total, nil
}

// Lookup returns one concept with its mappings, or NotFound.
func (s *Service) Lookup(ctx context.Context, system, code string) (*EnrichedConcept, error) {
	system = strings.ToLower(system)
	if !KnownSystem(system) {
		return nil, apperr.Invalid("unknown system: %s", system)
	}
	concept, err := s.repo.GetByCode(ctx, system, code)
	if err != nil {
		return nil, err
	}
	if concept == nil {
		return nil, apperr.NotFound("concept %s not found in system %s", code, system)
	}

	mappings, err := s.resolver.Resolve(ctx, concept.Code, concept.System)
	if err != nil {
		return nil, err
	}
	return &EnrichedConcept{Concept: *concept, Mappings: capMappings(mappings)}, nil
}

// Validate reports whether a code exists in a system, with its display term.
func (s *Service) Validate(ctx context.Context, system, code string) (bool, string, error) {
	system = strings.ToLower(system)
	if !KnownSystem(system) {
		return false, "", apperr.Invalid("unknown system: %s", system)
	}
	concept, err := s.repo.GetByCode(ctx, system, code)
	if err != nil {
		return false, "", err
	}
	if concept == nil {
		return false, "", nil
	}
	return true, concept.Display, nil
}

// LookupICD11 returns one ICD-11 classification entry, or NotFound.
func (s *Service) LookupICD11(ctx context.Context, code string) (*ICD11Code, error) {
	if strings.TrimSpace(code) == "" {
		return nil, apperr.Invalid("code must not be empty")
	}
	entry, err := s.repo.GetICD11(ctx, code)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, apperr.NotFound("ICD-11 code %s not found", code)
	}
	return entry, nil
}

// CodeSystem builds a FHIR R4 CodeSystem resource covering every loaded
// concept across the three systems.
func (s *Service) CodeSystem(ctx context.Context) (map[string]interface{}, error) {
	concepts, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]map[string]interface{}, 0, len(concepts))
	for _, c := range concepts {
		entry := map[string]interface{}{
			"code":    c.Code,
			"display": c.Display,
			"property": []map[string]interface{}{
				{"code": "system", "valueCode": c.System},
			},
		}
		if c.NativeTerm != "" {
			entry["designation"] = []map[string]interface{}{
				{"value": c.NativeTerm},
			}
		}
		entries = append(entries, entry)
	}

	return map[string]interface{}{
		"resourceType": "CodeSystem",
		"id":           "namaste-terminology",
		"url":          "http://namaste.gov.in/fhir/CodeSystem/namaste",
		"version":      "1.0.0",
		"name":         "NAMASTETerminology",
		"title":        "NAMASTE Standardized Terminologies",
		"status":       "active",
		"experimental": false,
		"date":         time.Now().UTC().Format("2006-01-02"),
		"description":  "Unified terminology for Ayurveda, Siddha, and Unani systems.",
		"content":      "complete",
		"count":        len(entries),
		"property": []map[string]interface{}{
			{
				"code":        "system",
				"description": "The traditional medicine system the concept belongs to.",
				"type":        "code",
			},
		},
		"concept": entries,
	}, nil
}

func (s *Service) enrich(ctx context.Context, concepts []Concept) ([]EnrichedConcept, error) {
	enriched := make([]EnrichedConcept, 0, len(concepts))
	for _, c := range concepts {
		mappings, err := s.resolver.Resolve(ctx, c.Code, c.System)
		if err != nil {
			return nil, err
		}
		enriched = append(enriched, EnrichedConcept{Concept: c, Mappings: capMappings(mappings)})
	}
	return enriched, nil
}

func capMappings(results []mapping.Result) []mapping.Result {
	if results == nil {
		return []mapping.Result{}
	}
	if len(results) > maxMappingsPerConcept {
		return results[:maxMappingsPerConcept]
	}
	return results
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
