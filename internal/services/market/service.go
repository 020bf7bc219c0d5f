// Package market implements the price-list source cascade and normalizer
package market

import (
	"context"
	"sync"
	"time"

	"github.com/taiwoadebayo/ngxd/internal/common"
	"github.com/taiwoadebayo/ngxd/internal/interfaces"
	"github.com/taiwoadebayo/ngxd/internal/models"
)

// Service tries each configured source in priority order until one returns
// a table that also normalizes. There is no backoff and no circuit breaker
// — every invocation starts the cascade from the top, which is the right
// trade-off for upstreams that fail and recover unpredictably.
type Service struct {
	sources  []interfaces.MarketSource
	logger   *common.Logger
	cacheTTL time.Duration
	now      func() time.Time // injectable clock for testing

	mu     sync.RWMutex
	cached *models.MarketSnapshot
}

// NewService creates a market service over the given sources.
// cacheTTL <= 0 disables the snapshot cache.
func NewService(sources []interfaces.MarketSource, cacheTTL time.Duration, logger *common.Logger) *Service {
	return &Service{
		sources:  sources,
		logger:   logger,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// GetSnapshot returns a normalized snapshot of the daily price list.
// A fresh cached snapshot is served without touching any upstream; this is
// the only shared mutable state in the service and exists purely to reduce
// load on the (fragile) official endpoints.
func (s *Service) GetSnapshot(ctx context.Context) (*models.MarketSnapshot, error) {
	if snap := s.freshFromCache(); snap != nil {
		s.logger.Debug().Str("source", snap.Source).Msg("Serving snapshot from cache")
		return snap, nil
	}

	var attempts []SourceAttempt

	for _, src := range s.sources {
		start := time.Now()
		table, err := src.Fetch(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Str("source", src.Name()).Dur("elapsed", time.Since(start)).
				Msg("Source fetch failed, advancing to next")
			attempts = append(attempts, SourceAttempt{Source: src.Name(), Err: err})
			continue
		}

		quotes, err := Normalize(src.Name(), table)
		if err != nil {
			s.logger.Warn().Err(err).Str("source", src.Name()).
				Msg("Source table did not normalize, advancing to next")
			attempts = append(attempts, SourceAttempt{Source: src.Name(), Err: err})
			continue
		}

		snapshot := &models.MarketSnapshot{
			Quotes:    quotes,
			Source:    src.Name(),
			FetchedAt: s.now(),
		}
		s.store(snapshot)

		s.logger.Info().
			Str("source", src.Name()).
			Int("quotes", len(quotes)).
			Int("failed_sources", len(attempts)).
			Dur("elapsed", time.Since(start)).
			Msg("Price list snapshot ready")
		return snapshot, nil
	}

	err := &DataUnavailableError{Attempts: attempts}
	s.logger.Error().Err(err).Int("sources", len(s.sources)).Msg("All price list sources exhausted")
	return nil, err
}

func (s *Service) freshFromCache() *models.MarketSnapshot {
	if s.cacheTTL <= 0 {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cached == nil || s.now().Sub(s.cached.FetchedAt) >= s.cacheTTL {
		return nil
	}
	return s.cached
}

func (s *Service) store(snapshot *models.MarketSnapshot) {
	if s.cacheTTL <= 0 {
		return
	}
	s.mu.Lock()
	s.cached = snapshot
	s.mu.Unlock()
}

// Ensure Service implements MarketService
var _ interfaces.MarketService = (*Service)(nil)
