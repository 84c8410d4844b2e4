// Package services provides the application services that orchestrate the
// domain logic: assignment, stats aggregation, event recording,
// recommendation fetching, and authentication.
package services

import (
	"time"

	"github.com/shopcanopy/splitrank-go/internal/domain/events"
	"github.com/shopcanopy/splitrank-go/internal/domain/experiment"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/caching/manager"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/observability/logging"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/observability/metrics"
)

// StatsService produces per-experiment, per-group aggregate interaction
// counts from the event log, cached with a bounded staleness window.
type StatsService struct {
	events events.Repository
	cache  *manager.Manager
	logger *logging.ChanneledLogger
}

// NewStatsService creates a new stats service.
func NewStatsService(eventRepo events.Repository, cache *manager.Manager, logger *logging.ChanneledLogger) *StatsService {
	return &StatsService{
		events: eventRepo,
		cache:  cache,
		logger: logger,
	}
}

// Stats returns the per-group stats for an experiment. A fresh cache entry
// is returned unchanged; a miss or expired entry triggers a synchronous
// recompute from the event log. Concurrent misses may each recompute; the
// recomputation has no side effects beyond cache population, so the races
// are harmless.
//
// When the event log is unreachable the result degrades to an empty view,
// which in turn triggers the bandit selector's fallback-to-hash policy. The
// failed view is not cached, so the next call retries.
func (s *StatsService) Stats(experimentName string) map[string]experiment.GroupStats {
	if cached, ok := s.cache.GetStats(experimentName); ok {
		metrics.StatsCacheLookups.WithLabelValues(experimentName, "hit").Inc()
		return cached
	}
	metrics.StatsCacheLookups.WithLabelValues(experimentName, "miss").Inc()

	start := time.Now()
	counts, err := s.events.CountByGroup(experimentName)
	if err != nil {
		metrics.StatsRefreshErrors.WithLabelValues(experimentName).Inc()
		s.logger.Experiment().Warn("Stats recomputation failed, degrading to empty stats",
			"experiment", experimentName,
			"error", err.Error())
		return map[string]experiment.GroupStats{}
	}

	stats := make(map[string]experiment.GroupStats, len(counts))
	for _, gc := range counts {
		stats[gc.Group] = experiment.GroupStats{Successes: gc.Successes, Trials: gc.Trials}
	}

	s.cache.SetStats(experimentName, stats)
	s.logger.Experiment().Debug("Stats recomputed from event log",
		"experiment", experimentName,
		"groups", len(stats),
		"duration", time.Since(start))

	return stats
}
