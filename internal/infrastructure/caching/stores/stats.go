// Package stores provides concrete cache store implementations
package stores

import (
	"sync"
	"time"

	"github.com/shopcanopy/splitrank-go/internal/domain/experiment"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/observability/logging"
)

// StatsEntry is one cached per-experiment stats mapping with its freshness
// deadline. Entries are replaced wholesale, never mutated in place, so
// readers never observe a partial update.
type StatsEntry struct {
	Groups     map[string]experiment.GroupStats
	ComputedAt time.Time
	ExpiresAt  time.Time
}

// StatsStore caches aggregated group stats per experiment with a bounded
// staleness window.
type StatsStore struct {
	entries map[string]*StatsEntry
	ttl     time.Duration
	mu      sync.RWMutex
	logger  *logging.ChanneledLogger
}

// NewStatsStore creates a new stats cache store.
func NewStatsStore(ttl time.Duration, logger *logging.ChanneledLogger) *StatsStore {
	if logger != nil {
		logger.Cache().Info("Initializing stats cache store", "ttl", ttl)
	}
	return &StatsStore{
		entries: make(map[string]*StatsEntry),
		ttl:     ttl,
		logger:  logger,
	}
}

// Get returns the cached stats for an experiment if present and fresh.
// Expired entries report a miss; the caller recomputes synchronously.
func (ss *StatsStore) Get(experimentName string) (map[string]experiment.GroupStats, bool) {
	start := time.Now()
	ss.mu.RLock()
	entry, exists := ss.entries[experimentName]
	ss.mu.RUnlock()

	if !exists {
		if ss.logger != nil {
			ss.logger.Cache().Debug("Cache operation", "operation", "get", "type", "stats", "experiment", experimentName, "hit", false, "reason", "absent", "duration", time.Since(start))
		}
		return nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		if ss.logger != nil {
			ss.logger.Cache().Debug("Cache operation", "operation", "get", "type", "stats", "experiment", experimentName, "hit", false, "reason", "expired", "duration", time.Since(start))
		}
		return nil, false
	}

	if ss.logger != nil {
		ss.logger.Cache().Debug("Cache operation", "operation", "get", "type", "stats", "experiment", experimentName, "hit", true, "duration", time.Since(start))
	}
	return entry.Groups, true
}

// Set replaces the cached stats for an experiment with a fresh entry.
func (ss *StatsStore) Set(experimentName string, groups map[string]experiment.GroupStats) {
	now := time.Now().UTC()
	entry := &StatsEntry{
		Groups:     groups,
		ComputedAt: now,
		ExpiresAt:  now.Add(ss.ttl),
	}

	ss.mu.Lock()
	ss.entries[experimentName] = entry
	ss.mu.Unlock()

	if ss.logger != nil {
		ss.logger.Cache().Debug("Cache operation", "operation", "set", "type", "stats", "experiment", experimentName, "groups", len(groups), "expiresAt", entry.ExpiresAt)
	}
}

// Invalidate drops the cached entry for an experiment.
func (ss *StatsStore) Invalidate(experimentName string) {
	ss.mu.Lock()
	delete(ss.entries, experimentName)
	ss.mu.Unlock()
}
