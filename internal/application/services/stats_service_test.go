package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcanopy/splitrank-go/internal/domain/events"
	"github.com/shopcanopy/splitrank-go/internal/domain/experiment"
)

func TestStatsComputesFromEventLog(t *testing.T) {
	repo := newFakeEventRepo()
	repo.counts = []events.GroupCounts{
		{Group: "control", Successes: 3, Trials: 50},
		{Group: "model_v2", Successes: 9, Trials: 48},
	}
	service := NewStatsService(repo, newTestCache(t, time.Minute), newTestLogger(t))

	stats := service.Stats("exp")

	require.Len(t, stats, 2)
	assert.Equal(t, experiment.GroupStats{Successes: 3, Trials: 50}, stats["control"])
	assert.Equal(t, experiment.GroupStats{Successes: 9, Trials: 48}, stats["model_v2"])
}

func TestStatsServesCachedViewWithinTTL(t *testing.T) {
	repo := newFakeEventRepo()
	repo.counts = []events.GroupCounts{{Group: "control", Successes: 1, Trials: 10}}
	service := NewStatsService(repo, newTestCache(t, time.Minute), newTestLogger(t))

	first := service.Stats("exp")
	require.Equal(t, 1, repo.countCalls)

	// New events land but the cached view is still fresh.
	repo.counts = []events.GroupCounts{{Group: "control", Successes: 5, Trials: 20}}
	second := service.Stats("exp")

	assert.Equal(t, 1, repo.countCalls)
	assert.Equal(t, first, second)
}

func TestStatsRecomputesAfterExpiry(t *testing.T) {
	repo := newFakeEventRepo()
	repo.counts = []events.GroupCounts{{Group: "control", Successes: 1, Trials: 10}}
	service := NewStatsService(repo, newTestCache(t, 10*time.Millisecond), newTestLogger(t))

	service.Stats("exp")
	require.Equal(t, 1, repo.countCalls)

	time.Sleep(25 * time.Millisecond)
	repo.counts = []events.GroupCounts{{Group: "control", Successes: 5, Trials: 20}}

	stats := service.Stats("exp")
	assert.Equal(t, 2, repo.countCalls)
	assert.Equal(t, experiment.GroupStats{Successes: 5, Trials: 20}, stats["control"])
}

func TestStatsDegradesToEmptyOnStoreFailureWithoutCaching(t *testing.T) {
	repo := newFakeEventRepo()
	repo.countErr = errors.New("database is locked")
	service := NewStatsService(repo, newTestCache(t, time.Minute), newTestLogger(t))

	stats := service.Stats("exp")
	assert.Empty(t, stats)
	require.Equal(t, 1, repo.countCalls)

	// The failed view must not be cached: the next call retries the store.
	repo.countErr = nil
	repo.counts = []events.GroupCounts{{Group: "control", Successes: 2, Trials: 4}}

	recovered := service.Stats("exp")
	assert.Equal(t, 2, repo.countCalls)
	assert.Equal(t, experiment.GroupStats{Successes: 2, Trials: 4}, recovered["control"])
}

func TestStatsCachesPerExperiment(t *testing.T) {
	repo := newFakeEventRepo()
	repo.counts = []events.GroupCounts{{Group: "control", Successes: 1, Trials: 2}}
	service := NewStatsService(repo, newTestCache(t, time.Minute), newTestLogger(t))

	service.Stats("exp_a")
	service.Stats("exp_b")
	service.Stats("exp_a")

	assert.Equal(t, 2, repo.countCalls)
}
