// Package manager provides centralized cache operations by delegating to
// specialized stores.
package manager

import (
	"time"

	"github.com/shopcanopy/splitrank-go/internal/domain/experiment"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/caching/stores"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/observability/logging"
)

// Manager provides centralized cache operations by delegating to the stats
// and sessions stores.
type Manager struct {
	statsStore    *stores.StatsStore
	sessionsStore *stores.SessionsStore
	logger        *logging.ChanneledLogger
}

// NewManager creates a cache manager with the given TTLs.
func NewManager(statsTTL, sessionTTL time.Duration, logger *logging.ChanneledLogger) *Manager {
	if logger != nil {
		logger.Cache().Info("Initializing cache manager", "stores", []string{"stats", "sessions"})
	}

	return &Manager{
		statsStore:    stores.NewStatsStore(statsTTL, logger),
		sessionsStore: stores.NewSessionsStore(sessionTTL, logger),
		logger:        logger,
	}
}

// GetStats returns cached group stats for an experiment, if fresh.
func (m *Manager) GetStats(experimentName string) (map[string]experiment.GroupStats, bool) {
	return m.statsStore.Get(experimentName)
}

// SetStats replaces the cached group stats for an experiment.
func (m *Manager) SetStats(experimentName string, groups map[string]experiment.GroupStats) {
	m.statsStore.Set(experimentName, groups)
}

// InvalidateStats drops cached stats for an experiment.
func (m *Manager) InvalidateStats(experimentName string) {
	m.statsStore.Invalidate(experimentName)
}

// GetSession retrieves a guest session by token.
func (m *Manager) GetSession(token string) (*stores.SessionData, bool) {
	return m.sessionsStore.Get(token)
}

// CreateSession registers a new guest session.
func (m *Manager) CreateSession(token string) *stores.SessionData {
	return m.sessionsStore.Create(token)
}

// GetSessionGroup returns the session-scoped sticky group for an experiment.
func (m *Manager) GetSessionGroup(token, experimentName string) (string, bool) {
	return m.sessionsStore.GetGroup(token, experimentName)
}

// SetSessionGroup stores the session-scoped sticky group for an experiment.
func (m *Manager) SetSessionGroup(token, experimentName, group string) {
	m.sessionsStore.SetGroup(token, experimentName, group)
}

// TouchSession refreshes a session's activity timestamp.
func (m *Manager) TouchSession(token string) {
	m.sessionsStore.Touch(token)
}
