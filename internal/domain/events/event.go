// Package events defines the interaction event entity and its persistence
// interface. Events are append-only: they are never mutated or deleted, and
// the stats aggregator folds them into per-group counts.
package events

import "time"

// Action is the kind of interaction recorded against a recommendation.
type Action string

const (
	ActionImpression Action = "impression"
	ActionClick      Action = "click"
)

// InteractionEvent is one immutable interaction record. UserID is 0 for
// guests. ProductID is nil for impressions covering a whole list.
type InteractionEvent struct {
	ID             string         `json:"id"`
	UserID         int64          `json:"userId"`
	ExperimentName string         `json:"experimentName"`
	Group          string         `json:"group"`
	Action         Action         `json:"action"`
	ProductID      *int64         `json:"productId,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// GroupCounts is one row of the per-group aggregate: total events and how
// many of them were clicks.
type GroupCounts struct {
	Group     string
	Successes int64
	Trials    int64
}

// Repository defines persistence for interaction events. Append admits
// concurrent callers with no ordering requirement; CountByGroup reads a
// possibly concurrently-appended log and may return a lower-bound snapshot.
type Repository interface {
	Append(event *InteractionEvent) error
	CountByGroup(experimentName string) ([]GroupCounts, error)
}
