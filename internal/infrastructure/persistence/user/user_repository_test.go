package user

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainUser "github.com/shopcanopy/splitrank-go/internal/domain/user"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/observability/logging"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/persistence/database"
)

func newTestRepository(t *testing.T) *SQLUserRepository {
	t.Helper()

	cfg := logging.DefaultLoggerConfig()
	cfg.DefaultLevel = slog.Level(16)
	logger, err := logging.NewChanneledLogger(cfg)
	require.NoError(t, err)

	db, err := database.NewConnection("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.NewTableCreator().CreateSchema(db.DB))

	return NewSQLUserRepository(db, logger)
}

func TestCreateBackfillsID(t *testing.T) {
	repo := newTestRepository(t)

	u := &domainUser.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(u))

	assert.NotZero(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())
}

func TestFindByIDAndEmail(t *testing.T) {
	repo := newTestRepository(t)

	u := &domainUser.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(u))

	byID, err := repo.FindByID(u.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "ada@example.com", byID.Email)

	byEmail, err := repo.FindByEmail("ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, u.ID, byEmail.ID)
}

func TestFindMissesReturnNilWithoutError(t *testing.T) {
	repo := newTestRepository(t)

	byID, err := repo.FindByID(9999)
	require.NoError(t, err)
	assert.Nil(t, byID)

	byEmail, err := repo.FindByEmail("nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, byEmail)
}

func TestRecommendationGroupRoundTrip(t *testing.T) {
	repo := newTestRepository(t)

	u := &domainUser.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(u))

	group, err := repo.GetRecommendationGroup(u.ID)
	require.NoError(t, err)
	assert.Empty(t, group, "fresh users have no group")

	require.NoError(t, repo.SetRecommendationGroup(u.ID, "model_v2"))

	group, err = repo.GetRecommendationGroup(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "model_v2", group)
}

func TestSetRecommendationGroupOverwrites(t *testing.T) {
	repo := newTestRepository(t)

	u := &domainUser.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(u))

	require.NoError(t, repo.SetRecommendationGroup(u.ID, "control"))
	require.NoError(t, repo.SetRecommendationGroup(u.ID, "model_v2"))

	group, err := repo.GetRecommendationGroup(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "model_v2", group)
}

func TestGetRecommendationGroupUnknownUser(t *testing.T) {
	repo := newTestRepository(t)

	group, err := repo.GetRecommendationGroup(12345)
	require.NoError(t, err)
	assert.Empty(t, group)
}
