// Package metrics exposes Prometheus instrumentation for the assignment
// and event-recording paths.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Assignments counts group assignments by experiment and how the group
	// was chosen: sticky, bandit, hash, session, or default.
	Assignments = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "splitrank", Subsystem: "experiment", Name: "assignments_total", Help: "Total group assignments by source."},
		[]string{"experiment", "source"},
	)

	// BanditFallbacks counts bandit selections that degraded to hash bucketing.
	BanditFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "splitrank", Subsystem: "experiment", Name: "bandit_fallbacks_total", Help: "Bandit selections that fell back to hash bucketing, by reason."},
		[]string{"experiment", "reason"},
	)

	// EventsRecorded counts interaction events accepted by the recorder.
	EventsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "splitrank", Subsystem: "events", Name: "recorded_total", Help: "Interaction events accepted for recording."},
		[]string{"experiment", "action"},
	)

	// RecordingFailures counts event appends that were dropped or failed.
	// This is the observability channel for best-effort recording.
	RecordingFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "splitrank", Subsystem: "events", Name: "recording_failures_total", Help: "Interaction events lost to queue overflow or store failure."},
		[]string{"experiment", "reason"},
	)

	// StatsCacheLookups counts stats-cache hits and misses.
	StatsCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "splitrank", Subsystem: "stats", Name: "cache_lookups_total", Help: "Stats cache lookups by outcome."},
		[]string{"experiment", "outcome"},
	)

	// StatsRefreshErrors counts failed recomputations of group stats.
	StatsRefreshErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "splitrank", Subsystem: "stats", Name: "refresh_errors_total", Help: "Failed stats recomputations from the event log."},
		[]string{"experiment"},
	)
)

func init() {
	_ = prometheus.Register(Assignments)
	_ = prometheus.Register(BanditFallbacks)
	_ = prometheus.Register(EventsRecorded)
	_ = prometheus.Register(RecordingFailures)
	_ = prometheus.Register(StatsCacheLookups)
	_ = prometheus.Register(StatsRefreshErrors)
}
