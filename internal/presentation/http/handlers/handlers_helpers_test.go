package handlers

import (
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/shopcanopy/splitrank-go/internal/domain/events"
	"github.com/shopcanopy/splitrank-go/internal/domain/user"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/caching/manager"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/observability/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()

	cfg := logging.DefaultLoggerConfig()
	cfg.DefaultLevel = slog.Level(16)
	logger, err := logging.NewChanneledLogger(cfg)
	require.NoError(t, err)
	return logger
}

func newTestCache(t *testing.T) *manager.Manager {
	t.Helper()
	return manager.NewManager(time.Minute, time.Hour, newTestLogger(t))
}

// capturingEventRepo records appended events for assertions.
type capturingEventRepo struct {
	mu       sync.Mutex
	appended []*events.InteractionEvent
}

func (f *capturingEventRepo) Append(event *events.InteractionEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, event)
	return nil
}

func (f *capturingEventRepo) CountByGroup(experimentName string) ([]events.GroupCounts, error) {
	return nil, nil
}

func (f *capturingEventRepo) appendedEvents() []*events.InteractionEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*events.InteractionEvent, len(f.appended))
	copy(out, f.appended)
	return out
}

// memoryUserRepo backs the auth service in handler tests.
type memoryUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*user.User
	groups map[int64]string
	nextID int64
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{
		users:  make(map[int64]*user.User),
		groups: make(map[int64]string),
		nextID: 1,
	}
}

func (f *memoryUserRepo) FindByID(id int64) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

func (f *memoryUserRepo) FindByEmail(email string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *memoryUserRepo) Create(u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = f.nextID
	f.nextID++
	f.users[u.ID] = u
	return nil
}

func (f *memoryUserRepo) GetRecommendationGroup(userID int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.groups[userID], nil
}

func (f *memoryUserRepo) SetRecommendationGroup(userID int64, group string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groups[userID] = group
	return nil
}
