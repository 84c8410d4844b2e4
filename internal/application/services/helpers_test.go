package services

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shopcanopy/splitrank-go/internal/domain/catalog"
	"github.com/shopcanopy/splitrank-go/internal/domain/events"
	"github.com/shopcanopy/splitrank-go/internal/domain/user"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/caching/manager"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/observability/logging"
)

// newTestLogger returns a logger whose level suppresses all test noise.
func newTestLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()

	cfg := logging.DefaultLoggerConfig()
	cfg.DefaultLevel = slog.Level(16)
	logger, err := logging.NewChanneledLogger(cfg)
	require.NoError(t, err)
	return logger
}

func newTestCache(t *testing.T, statsTTL time.Duration) *manager.Manager {
	t.Helper()
	return manager.NewManager(statsTTL, time.Hour, newTestLogger(t))
}

// fakeUserRepo is an in-memory user.Repository with injectable failures.
type fakeUserRepo struct {
	mu       sync.Mutex
	groups   map[int64]string
	users    map[int64]*user.User
	nextID   int64
	readErr  error
	writeErr error

	getGroupCalls int
	setGroupCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		groups: make(map[int64]string),
		users:  make(map[int64]*user.User),
		nextID: 1,
	}
}

func (f *fakeUserRepo) FindByID(id int64) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Create(u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = f.nextID
	f.nextID++
	u.CreatedAt = time.Now().UTC()
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetRecommendationGroup(userID int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getGroupCalls++
	if f.readErr != nil {
		return "", f.readErr
	}
	return f.groups[userID], nil
}

func (f *fakeUserRepo) SetRecommendationGroup(userID int64, group string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setGroupCalls++
	if f.writeErr != nil {
		return f.writeErr
	}
	f.groups[userID] = group
	return nil
}

// fakeEventRepo is an in-memory events.Repository with injectable failures.
type fakeEventRepo struct {
	mu        sync.Mutex
	appended  []*events.InteractionEvent
	counts    []events.GroupCounts
	appendErr error
	countErr  error

	countCalls int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{}
}

func (f *fakeEventRepo) Append(event *events.InteractionEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, event)
	return nil
}

func (f *fakeEventRepo) CountByGroup(experimentName string) ([]events.GroupCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countCalls++
	if f.countErr != nil {
		return nil, f.countErr
	}
	return f.counts, nil
}

func (f *fakeEventRepo) appendedEvents() []*events.InteractionEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*events.InteractionEvent, len(f.appended))
	copy(out, f.appended)
	return out
}

// fakeCatalogRepo is an in-memory catalog.Repository.
type fakeCatalogRepo struct {
	products  map[int64]*catalog.Product
	random    []*catalog.Product
	activeErr error
	randomErr error
}

func newFakeCatalogRepo(products ...*catalog.Product) *fakeCatalogRepo {
	repo := &fakeCatalogRepo{products: make(map[int64]*catalog.Product)}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

func (f *fakeCatalogRepo) FindAll() ([]*catalog.Product, error) {
	out := make([]*catalog.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeCatalogRepo) ActiveByIDs(ids []int64) ([]*catalog.Product, error) {
	if f.activeErr != nil {
		return nil, f.activeErr
	}
	out := make([]*catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := f.products[id]; ok && p.IsActive() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) RandomActive(limit int) ([]*catalog.Product, error) {
	if f.randomErr != nil {
		return nil, f.randomErr
	}
	if len(f.random) > limit {
		return f.random[:limit], nil
	}
	return f.random, nil
}

// fakeRecommender returns canned ids or a canned error.
type fakeRecommender struct {
	ids []int64
	err error
}

func (f *fakeRecommender) Recommend(ctx context.Context, userID int64, strategyVersion string) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ids, nil
}
