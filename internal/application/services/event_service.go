package services

import (
	"sync"
	"time"

	"github.com/shopcanopy/splitrank-go/internal/domain/events"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/observability/logging"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/observability/metrics"
)

// EventService is the best-effort interaction event recorder. Record never
// blocks and never fails the caller: events flow through a buffered queue
// to a background worker that appends them to the durable log. Queue
// overflow and store failures are logged and counted, then swallowed.
type EventService struct {
	repo    events.Repository
	queue   chan *events.InteractionEvent
	logger  *logging.ChanneledLogger
	wg      sync.WaitGroup
	stopped sync.Once
}

// NewEventService creates an event service with the given queue capacity.
func NewEventService(repo events.Repository, queueSize int, logger *logging.ChanneledLogger) *EventService {
	return &EventService{
		repo:   repo,
		queue:  make(chan *events.InteractionEvent, queueSize),
		logger: logger,
	}
}

// Start launches the background worker that drains the queue.
func (s *EventService) Start() {
	s.wg.Add(1)
	go s.worker()
	s.logger.Events().Info("Event recorder started", "queueCapacity", cap(s.queue))
}

// Stop closes the queue and waits for the worker to drain it.
func (s *EventService) Stop() {
	s.stopped.Do(func() {
		close(s.queue)
	})
	s.wg.Wait()
	s.logger.Events().Info("Event recorder stopped")
}

// Record enqueues an interaction event for appending. It returns
// immediately; a full queue drops the event rather than blocking the
// request path.
func (s *EventService) Record(event *events.InteractionEvent) {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	select {
	case s.queue <- event:
		metrics.EventsRecorded.WithLabelValues(event.ExperimentName, string(event.Action)).Inc()
	default:
		metrics.RecordingFailures.WithLabelValues(event.ExperimentName, "queue_full").Inc()
		s.logger.Events().Warn("Event queue full, dropping interaction event",
			"experiment", event.ExperimentName,
			"group", event.Group,
			"action", event.Action)
	}
}

func (s *EventService) worker() {
	defer s.wg.Done()

	for event := range s.queue {
		if err := s.repo.Append(event); err != nil {
			metrics.RecordingFailures.WithLabelValues(event.ExperimentName, "store_error").Inc()
			s.logger.Events().Error("Failed to log recommendation interaction",
				"error", err.Error(),
				"experiment", event.ExperimentName,
				"group", event.Group,
				"action", event.Action,
				"userId", event.UserID)
			continue
		}
		s.logger.Events().Debug("Recommendation interaction logged",
			"experiment", event.ExperimentName,
			"group", event.Group,
			"action", event.Action,
			"userId", event.UserID)
	}
}
