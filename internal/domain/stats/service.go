package stats

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayushterm/api/internal/domain/mapping"
	"github.com/ayushterm/api/internal/platform/cache"
)

const cacheKey = "stats:summary"

// Service aggregates corpus-wide counts for dashboards. Classification and
// generic filtering reuse the mapping package's functions so the buckets here
// always agree with the labels the resolver hands out.
type Service struct {
	repo     Repository
	cache    *cache.Cache
	cacheTTL time.Duration
	logger   zerolog.Logger
}

func NewService(repo Repository, c *cache.Cache, ttl time.Duration, logger zerolog.Logger) *Service {
	return &Service{repo: repo, cache: c, cacheTTL: ttl, logger: logger}
}

// Summarize produces the corpus report. A missing encounter store degrades to
// a zero count rather than failing the whole summary.
func (s *Service) Summarize(ctx context.Context) (*Report, error) {
	var cached Report
	if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn().Err(err).Msg("stats cache read failed")
	}

	totalConcepts, err := s.repo.CountConcepts(ctx)
	if err != nil {
		return nil, err
	}
	bySystem, err := s.repo.SystemCounts(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.MappingRows(ctx)
	if err != nil {
		return nil, err
	}
	encounters, err := s.repo.CountEncounters(ctx)
	if err != nil {
		return nil, err
	}

	byEquivalence := map[string]int{
		mapping.EquivalenceEquivalent: 0,
		mapping.EquivalenceRelatedTo:  0,
		mapping.EquivalenceWider:      0,
		mapping.EquivalenceUnmatched:  0,
	}
	totalMappings := 0
	for _, row := range rows {
		if mapping.Excluded(row.SourceTerm, row.TargetCode, row.TargetTitle) {
			continue
		}
		totalMappings++
		byEquivalence[mapping.Classify(row.Confidence)]++
	}

	report := &Report{
		TotalConcepts:   totalConcepts,
		TotalMappings:   totalMappings,
		TotalEncounters: encounters,
		BySystem:        bySystem,
		ByEquivalence:   byEquivalence,
	}

	if err := s.cache.SetJSON(ctx, cacheKey, report, s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Msg("stats cache write failed")
	}

	s.logger.Debug().
		Int("concepts", totalConcepts).
		Int("mappings", totalMappings).
		Msg("generated statistics")

	return report, nil
}
