package promo

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pecamax/backend-pecas/internal/obs"
	"github.com/pecamax/backend-pecas/internal/resilience"
)

// Source lists the raw admin-authored promotion definitions currently active.
type Source interface {
	ListActive(ctx context.Context) ([]Record, error)
}

// Service holds the catalog snapshot used by evaluation. The snapshot is
// loaded once and refreshed lazily after TTL; when the store is unreachable
// the service fails open: the last cached snapshot is used and, failing
// that, an empty catalog so base prices stand and checkout is never blocked.
type Service struct {
	Source  Source
	Cache   *Cache
	Breaker *resilience.Breaker
	Log     zerolog.Logger
	TTL     time.Duration
	Now     func() time.Time

	mu       sync.RWMutex
	snapshot Catalog
	loadedAt time.Time
	warm     bool
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) ttl() time.Duration {
	if s == nil || s.TTL <= 0 {
		return time.Minute
	}
	return s.TTL
}

// Snapshot returns the current typed catalog, refreshing it when stale.
func (s *Service) Snapshot(ctx context.Context) Catalog {
	now := s.now()
	s.mu.RLock()
	if s.warm && now.Sub(s.loadedAt) < s.ttl() {
		cat := s.snapshot
		s.mu.RUnlock()
		return cat
	}
	s.mu.RUnlock()
	return s.Reload(ctx)
}

// Reload forces a snapshot refresh, e.g. after the admin panel publishes new
// promotions. Store failures degrade to the cached snapshot.
func (s *Service) Reload(ctx context.Context) Catalog {
	if s.Source != nil && (s.Breaker == nil || s.Breaker.Allow(ctx)) {
		records, err := s.Source.ListActive(ctx)
		if s.Breaker != nil {
			s.Breaker.Report(ctx, err == nil)
		}
		if err == nil {
			catalog := s.parse(records)
			if cacheErr := s.Cache.SetRecords(ctx, records); cacheErr != nil {
				s.Log.Warn().Err(cacheErr).Msg("cache promotion snapshot")
			}
			s.store(catalog)
			countSnapshot("store")
			return catalog
		}
		s.Log.Warn().Err(err).Msg("promotion catalog unavailable, failing open")
	}

	records, ok, err := s.Cache.GetRecords(ctx)
	if err != nil {
		s.Log.Warn().Err(err).Msg("read cached promotion snapshot")
	}
	if ok {
		countSnapshot("cache")
		return s.parse(records)
	}

	countSnapshot("empty")
	return Catalog{}
}

// Evaluate prices the cart against the current snapshot at the injected clock.
func (s *Service) Evaluate(ctx context.Context, cart []CartLine, customer Customer) CartPricingResult {
	catalog := s.Snapshot(ctx)
	start := time.Now()
	result := Evaluate(cart, catalog, customer, s.now())
	if obs.EvaluationDuration != nil {
		obs.EvaluationDuration.Observe(obs.DurationMillis(time.Since(start)))
	}
	if obs.EvaluationsTotal != nil {
		obs.EvaluationsTotal.WithLabelValues(winningFamily(result)).Inc()
	}
	return result
}

func (s *Service) parse(records []Record) Catalog {
	catalog, skipped := ParseCatalog(records)
	for _, err := range skipped {
		s.Log.Warn().Err(err).Msg("promotion definition skipped")
		if obs.DefinitionSkippedTotal != nil {
			obs.DefinitionSkippedTotal.Inc()
		}
	}
	return catalog
}

func (s *Service) store(catalog Catalog) {
	s.mu.Lock()
	s.snapshot = catalog
	s.loadedAt = s.now()
	s.warm = true
	s.mu.Unlock()
}

func winningFamily(result CartPricingResult) string {
	if result.TotalSavings <= 0 {
		return "none"
	}
	for _, line := range result.Lines {
		if line.AppliedPromotionID != "" {
			return "line"
		}
	}
	return "order"
}

func countSnapshot(source string) {
	if obs.CatalogSnapshotTotal != nil {
		obs.CatalogSnapshotTotal.WithLabelValues(source).Inc()
	}
}
