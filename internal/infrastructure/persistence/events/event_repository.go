// Package events provides the concrete SQL-based implementation for
// interaction event persistence.
//
// PURPOSE: append interaction events to the durable log as they happen and
// fold the log into per-group success/trial counts for the stats aggregator.
// Events are the append-only source of truth; nothing here updates or
// deletes a recorded row.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	domainEvents "github.com/shopcanopy/splitrank-go/internal/domain/events"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/observability/logging"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/persistence/database"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/security"
	"github.com/shopcanopy/splitrank-go/pkg/config"
)

// SQLEventRepository handles interaction event persistence to the database.
type SQLEventRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLEventRepository creates a new instance of the repository.
func NewSQLEventRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLEventRepository {
	return &SQLEventRepository{
		db:     db,
		logger: logger,
	}
}

// Append saves an interaction event to the database.
func (r *SQLEventRepository) Append(event *domainEvents.InteractionEvent) error {
	if event.ID == "" {
		event.ID = security.GenerateULID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	var metadata any
	if event.Metadata != nil {
		encoded, err := json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("failed to serialize event metadata: %w", err)
		}
		metadata = string(encoded)
	}

	const query = `
		INSERT INTO recommendation_events (id, user_id, experiment_name, "group", action, product_id, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing interaction event insert",
		"eventId", event.ID,
		"experiment", event.ExperimentName,
		"group", event.Group,
		"action", event.Action,
		"userId", event.UserID)

	_, err := r.db.Exec(
		query,
		event.ID,
		event.UserID,
		event.ExperimentName,
		event.Group,
		string(event.Action),
		event.ProductID, // Can be NULL per schema
		metadata,        // Can be NULL per schema
		event.CreatedAt.Format("2006-01-02 15:04:05"), // SQLite format
	)
	if err != nil {
		r.logger.Database().Error("Interaction event insert failed",
			"error", err.Error(),
			"eventId", event.ID,
			"experiment", event.ExperimentName,
			"group", event.Group,
			"action", event.Action)
		return fmt.Errorf("failed to store interaction event: %w", err)
	}

	duration := time.Since(start)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return nil
}

// CountByGroup folds the event log for one experiment into per-group
// success/trial counts. The query is restricted to the experiment in
// question so recomputation cost is bounded by that experiment's traffic.
func (r *SQLEventRepository) CountByGroup(experimentName string) ([]domainEvents.GroupCounts, error) {
	const query = `
		SELECT "group",
		       SUM(CASE WHEN action = 'click' THEN 1 ELSE 0 END) AS successes,
		       COUNT(*) AS trials
		FROM recommendation_events
		WHERE experiment_name = ?
		GROUP BY "group"`

	start := time.Now()
	rows, err := r.db.Query(query, experimentName)
	if err != nil {
		r.logger.Database().Error("Event aggregation query failed",
			"error", err.Error(),
			"experiment", experimentName)
		return nil, fmt.Errorf("failed to aggregate events for %s: %w", experimentName, err)
	}
	defer rows.Close()

	var counts []domainEvents.GroupCounts
	for rows.Next() {
		var gc domainEvents.GroupCounts
		if err := rows.Scan(&gc.Group, &gc.Successes, &gc.Trials); err != nil {
			return nil, fmt.Errorf("failed to scan event aggregate row: %w", err)
		}
		counts = append(counts, gc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate event aggregate rows: %w", err)
	}

	duration := time.Since(start)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	r.logger.Database().Debug("Event aggregation completed",
		"experiment", experimentName,
		"groups", len(counts),
		"duration", duration)

	return counts, nil
}
