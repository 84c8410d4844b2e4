package stores

import (
	"sync"
	"time"

	"github.com/shopcanopy/splitrank-go/internal/infrastructure/observability/logging"
)

// SessionData holds one guest session: its token and its session-scoped
// sticky experiment groups. Groups here are not durable; a new session
// starts with a clean slate.
type SessionData struct {
	Token        string
	Groups       map[string]string // experiment name → assigned group
	CreatedAt    time.Time
	LastActivity time.Time
}

// SessionsStore implements guest session caching with TTL eviction on read.
type SessionsStore struct {
	sessions map[string]*SessionData
	ttl      time.Duration
	mu       sync.RWMutex
	logger   *logging.ChanneledLogger
}

// NewSessionsStore creates a new sessions cache store.
func NewSessionsStore(ttl time.Duration, logger *logging.ChanneledLogger) *SessionsStore {
	if logger != nil {
		logger.Cache().Info("Initializing sessions cache store", "ttl", ttl)
	}
	return &SessionsStore{
		sessions: make(map[string]*SessionData),
		ttl:      ttl,
		logger:   logger,
	}
}

// Get retrieves session data by token. Expired sessions report a miss.
func (ss *SessionsStore) Get(token string) (*SessionData, bool) {
	ss.mu.RLock()
	session, exists := ss.sessions[token]
	ss.mu.RUnlock()

	if !exists {
		return nil, false
	}
	if time.Since(session.LastActivity) > ss.ttl {
		ss.mu.Lock()
		delete(ss.sessions, token)
		ss.mu.Unlock()
		if ss.logger != nil {
			ss.logger.Cache().Debug("Cache operation", "operation", "get", "type", "session", "token", token, "hit", false, "reason", "expired")
		}
		return nil, false
	}
	return session, true
}

// Create registers a new session for the given token.
func (ss *SessionsStore) Create(token string) *SessionData {
	now := time.Now().UTC()
	session := &SessionData{
		Token:        token,
		Groups:       make(map[string]string),
		CreatedAt:    now,
		LastActivity: now,
	}

	ss.mu.Lock()
	ss.sessions[token] = session
	ss.mu.Unlock()

	if ss.logger != nil {
		ss.logger.Cache().Debug("Cache operation", "operation", "create", "type", "session", "token", token)
	}
	return session
}

// GetGroup returns the session-scoped sticky group for an experiment.
func (ss *SessionsStore) GetGroup(token, experimentName string) (string, bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	session, exists := ss.sessions[token]
	if !exists {
		return "", false
	}
	group, ok := session.Groups[experimentName]
	return group, ok
}

// SetGroup stores the session-scoped sticky group for an experiment and
// refreshes the session's activity timestamp.
func (ss *SessionsStore) SetGroup(token, experimentName, group string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	session, exists := ss.sessions[token]
	if !exists {
		now := time.Now().UTC()
		session = &SessionData{
			Token:        token,
			Groups:       make(map[string]string),
			CreatedAt:    now,
			LastActivity: now,
		}
		ss.sessions[token] = session
	}
	session.Groups[experimentName] = group
	session.LastActivity = time.Now().UTC()

	if ss.logger != nil {
		ss.logger.Cache().Debug("Cache operation", "operation", "set_group", "type", "session", "token", token, "experiment", experimentName, "group", group)
	}
}

// Touch refreshes the session's activity timestamp.
func (ss *SessionsStore) Touch(token string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if session, exists := ss.sessions[token]; exists {
		session.LastActivity = time.Now().UTC()
	}
}
