package events

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainEvents "github.com/shopcanopy/splitrank-go/internal/domain/events"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/observability/logging"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/persistence/database"
)

func newTestRepository(t *testing.T) *SQLEventRepository {
	t.Helper()

	cfg := logging.DefaultLoggerConfig()
	cfg.DefaultLevel = slog.Level(16)
	logger, err := logging.NewChanneledLogger(cfg)
	require.NoError(t, err)

	db, err := database.NewConnection("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.NewTableCreator().CreateSchema(db.DB))

	return NewSQLEventRepository(db, logger)
}

func TestAppendGeneratesIDAndTimestamp(t *testing.T) {
	repo := newTestRepository(t)

	event := &domainEvents.InteractionEvent{
		UserID:         42,
		ExperimentName: "exp",
		Group:          "control",
		Action:         domainEvents.ActionImpression,
	}
	require.NoError(t, repo.Append(event))

	assert.NotEmpty(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
}

func TestAppendPersistsOptionalFields(t *testing.T) {
	repo := newTestRepository(t)

	productID := int64(7)
	require.NoError(t, repo.Append(&domainEvents.InteractionEvent{
		UserID:         42,
		ExperimentName: "exp",
		Group:          "model_v2",
		Action:         domainEvents.ActionClick,
		ProductID:      &productID,
		Metadata:       map[string]any{"position": 3},
	}))

	// Impression with neither product nor metadata.
	require.NoError(t, repo.Append(&domainEvents.InteractionEvent{
		UserID:         0,
		ExperimentName: "exp",
		Group:          "model_v2",
		Action:         domainEvents.ActionImpression,
	}))

	counts, err := repo.CountByGroup("exp")
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, int64(1), counts[0].Successes)
	assert.Equal(t, int64(2), counts[0].Trials)
}

func TestCountByGroupFoldsClicksIntoSuccesses(t *testing.T) {
	repo := newTestRepository(t)

	record := func(group string, action domainEvents.Action, n int) {
		for i := 0; i < n; i++ {
			require.NoError(t, repo.Append(&domainEvents.InteractionEvent{
				UserID:         int64(i),
				ExperimentName: "exp",
				Group:          group,
				Action:         action,
			}))
		}
	}
	record("control", domainEvents.ActionImpression, 8)
	record("control", domainEvents.ActionClick, 2)
	record("model_v2", domainEvents.ActionImpression, 5)
	record("model_v2", domainEvents.ActionClick, 5)

	counts, err := repo.CountByGroup("exp")
	require.NoError(t, err)
	require.Len(t, counts, 2)

	byGroup := map[string]domainEvents.GroupCounts{}
	for _, gc := range counts {
		byGroup[gc.Group] = gc
	}
	assert.Equal(t, int64(2), byGroup["control"].Successes)
	assert.Equal(t, int64(10), byGroup["control"].Trials)
	assert.Equal(t, int64(5), byGroup["model_v2"].Successes)
	assert.Equal(t, int64(10), byGroup["model_v2"].Trials)
}

func TestCountByGroupIsScopedToTheExperiment(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.Append(&domainEvents.InteractionEvent{
		ExperimentName: "exp_a",
		Group:          "control",
		Action:         domainEvents.ActionClick,
	}))
	require.NoError(t, repo.Append(&domainEvents.InteractionEvent{
		ExperimentName: "exp_b",
		Group:          "control",
		Action:         domainEvents.ActionImpression,
	}))

	counts, err := repo.CountByGroup("exp_a")
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, int64(1), counts[0].Trials)
}

func TestCountByGroupEmptyLog(t *testing.T) {
	repo := newTestRepository(t)

	counts, err := repo.CountByGroup("exp")
	require.NoError(t, err)
	assert.Empty(t, counts)
}
