package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcanopy/splitrank-go/internal/domain/events"
)

func TestEventServiceRecordsAndDrainsOnStop(t *testing.T) {
	repo := newFakeEventRepo()
	service := NewEventService(repo, 16, newTestLogger(t))
	service.Start()

	productID := int64(3)
	service.Record(&events.InteractionEvent{
		UserID:         42,
		ExperimentName: "exp",
		Group:          "model_v2",
		Action:         events.ActionClick,
		ProductID:      &productID,
	})
	service.Record(&events.InteractionEvent{
		UserID:         42,
		ExperimentName: "exp",
		Group:          "model_v2",
		Action:         events.ActionImpression,
	})
	service.Stop()

	appended := repo.appendedEvents()
	require.Len(t, appended, 2)
	assert.Equal(t, events.ActionClick, appended[0].Action)
	assert.Equal(t, events.ActionImpression, appended[1].Action)
	assert.False(t, appended[0].CreatedAt.IsZero(), "Record must stamp CreatedAt")
}

func TestEventServiceStoreFailureDoesNotReachCaller(t *testing.T) {
	repo := newFakeEventRepo()
	repo.appendErr = errors.New("disk full")
	service := NewEventService(repo, 16, newTestLogger(t))
	service.Start()

	// Record has no error return; a failing store must be invisible here.
	service.Record(&events.InteractionEvent{
		ExperimentName: "exp",
		Group:          "control",
		Action:         events.ActionClick,
	})
	service.Stop()

	assert.Empty(t, repo.appendedEvents())
}

func TestEventServiceDropsWhenQueueIsFull(t *testing.T) {
	repo := newFakeEventRepo()
	service := NewEventService(repo, 1, newTestLogger(t))

	// Worker not started: the queue fills and the overflow is dropped
	// without blocking.
	for i := 0; i < 5; i++ {
		service.Record(&events.InteractionEvent{
			ExperimentName: "exp",
			Group:          "control",
			Action:         events.ActionImpression,
			Metadata:       map[string]any{"n": i},
		})
	}

	service.Start()
	service.Stop()

	assert.Len(t, repo.appendedEvents(), 1)
}

func TestEventServiceStopIsIdempotent(t *testing.T) {
	repo := newFakeEventRepo()
	service := NewEventService(repo, 4, newTestLogger(t))
	service.Start()

	service.Record(&events.InteractionEvent{
		ExperimentName: "exp",
		Group:          "control",
		Action:         events.ActionImpression,
	})
	service.Stop()
	service.Stop()

	assert.Len(t, repo.appendedEvents(), 1)
}

func TestEventServiceHandlesBurstWithinCapacity(t *testing.T) {
	repo := newFakeEventRepo()
	service := NewEventService(repo, 256, newTestLogger(t))
	service.Start()

	for i := 0; i < 200; i++ {
		service.Record(&events.InteractionEvent{
			UserID:         int64(i),
			ExperimentName: "exp",
			Group:          fmt.Sprintf("group_%d", i%2),
			Action:         events.ActionImpression,
		})
	}
	service.Stop()

	assert.Len(t, repo.appendedEvents(), 200)
}
