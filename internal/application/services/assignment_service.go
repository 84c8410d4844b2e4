package services

import (
	"github.com/shopcanopy/splitrank-go/internal/domain/experiment"
	"github.com/shopcanopy/splitrank-go/internal/domain/user"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/caching/manager"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/observability/logging"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/observability/metrics"
)

// Assignment sources, recorded on metrics and returned to handlers.
const (
	SourceDefault = "default" // disabled or unconfigured experiment
	SourceSticky  = "sticky"  // persisted group on the user record
	SourceSession = "session" // session-scoped guest group
	SourceBandit  = "bandit"  // fresh bandit selection
	SourceHash    = "hash"    // deterministic weighted bucketing
)

// Assignment is the result of resolving a group for one request. It is
// attached to the request context for downstream handlers.
type Assignment struct {
	Group      string `json:"group"`
	Experiment string `json:"experiment"`
	UserID     int64  `json:"userId"` // normalized: 0 for guests
	Source     string `json:"source"`
}

// AssignmentService is the experiment gate. It resolves a stable group for
// every identity and never returns an error: every failure on the
// assignment path degrades to a defined fallback.
type AssignmentService struct {
	table    *experiment.Table
	users    user.Repository
	cache    *manager.Manager
	stats    *StatsService
	selector *experiment.Selector
	logger   *logging.ChanneledLogger
}

// NewAssignmentService creates a new assignment service.
func NewAssignmentService(
	table *experiment.Table,
	users user.Repository,
	cache *manager.Manager,
	stats *StatsService,
	selector *experiment.Selector,
	logger *logging.ChanneledLogger,
) *AssignmentService {
	return &AssignmentService{
		table:    table,
		users:    users,
		cache:    cache,
		stats:    stats,
		selector: selector,
		logger:   logger,
	}
}

// GetOrAssign resolves the group for an identity under the named experiment.
//
// Disabled or unconfigured experiments short-circuit to the default group
// before any hashing, stats lookup, or persistence. Registered users get a
// durable sticky group, chosen by the bandit on first contact; guests get a
// session-scoped group, always via hash bucketing.
func (s *AssignmentService) GetOrAssign(ident experiment.Identity, experimentName string) Assignment {
	exp, ok := s.table.Lookup(experimentName)
	if !ok || !exp.Enabled {
		group := "control"
		if ok && exp.DefaultGroup != "" {
			group = exp.DefaultGroup
		}
		s.logger.Experiment().Info("Experiment disabled or not configured, assigning default group",
			"experiment", experimentName,
			"group", group,
			"userId", ident.LogID())
		metrics.Assignments.WithLabelValues(experimentName, SourceDefault).Inc()
		return Assignment{Group: group, Experiment: experimentName, UserID: ident.LogID(), Source: SourceDefault}
	}

	if ident.IsRegistered() {
		return s.assignRegistered(ident, exp)
	}
	return s.assignGuest(ident, exp)
}

// assignRegistered reads the user's persisted sticky group, or computes and
// persists one. The read-then-write sequence is deliberately unguarded:
// concurrent first requests may both assign, last write wins (one-time,
// narrow, idempotent-outcome race).
func (s *AssignmentService) assignRegistered(ident experiment.Identity, exp *experiment.Experiment) Assignment {
	group, err := s.users.GetRecommendationGroup(ident.UserID)
	if err != nil {
		s.logger.Experiment().Warn("Sticky group read failed, falling back to hash bucketing",
			"experiment", exp.Name,
			"userId", ident.UserID,
			"error", err.Error())
		fallback := experiment.AssignByWeight(ident.Key(), exp.Groups, s.table.Salt)
		metrics.Assignments.WithLabelValues(exp.Name, SourceHash).Inc()
		return Assignment{Group: fallback, Experiment: exp.Name, UserID: ident.UserID, Source: SourceHash}
	}

	if group != "" {
		s.logger.Experiment().Debug("User already has recommendation group",
			"experiment", exp.Name,
			"userId", ident.UserID,
			"group", group)
		metrics.Assignments.WithLabelValues(exp.Name, SourceSticky).Inc()
		return Assignment{Group: group, Experiment: exp.Name, UserID: ident.UserID, Source: SourceSticky}
	}

	stats := s.stats.Stats(exp.Name)
	source := SourceBandit
	group, reason := s.selector.Select(exp, stats)
	if reason != experiment.FallbackNone {
		s.logger.Experiment().Warn("Bandit preconditions not met, falling back to weighted assignment",
			"experiment", exp.Name,
			"userId", ident.UserID,
			"reason", string(reason))
		metrics.BanditFallbacks.WithLabelValues(exp.Name, string(reason)).Inc()
		group = experiment.AssignByWeight(ident.Key(), exp.Groups, s.table.Salt)
		source = SourceHash
	}

	if err := s.users.SetRecommendationGroup(ident.UserID, group); err != nil {
		// The user still gets a valid group this request; next request
		// retries the write.
		s.logger.Experiment().Error("Failed to persist recommendation group",
			"experiment", exp.Name,
			"userId", ident.UserID,
			"group", group,
			"error", err.Error())
	} else {
		s.logger.Experiment().Info("User assigned to recommendation group",
			"experiment", exp.Name,
			"userId", ident.UserID,
			"group", group,
			"source", source)
	}

	metrics.Assignments.WithLabelValues(exp.Name, source).Inc()
	return Assignment{Group: group, Experiment: exp.Name, UserID: ident.UserID, Source: source}
}

// assignGuest resolves a session-scoped group. Guests never consume the
// bandit: their identities are not stable enough to reuse bandit-derived
// stats, so assignment is always deterministic hash bucketing.
func (s *AssignmentService) assignGuest(ident experiment.Identity, exp *experiment.Experiment) Assignment {
	if group, ok := s.cache.GetSessionGroup(ident.SessionToken, exp.Name); ok {
		metrics.Assignments.WithLabelValues(exp.Name, SourceSession).Inc()
		return Assignment{Group: group, Experiment: exp.Name, UserID: 0, Source: SourceSession}
	}

	group := experiment.AssignByWeight(ident.Key(), exp.Groups, s.table.Salt)
	s.cache.SetSessionGroup(ident.SessionToken, exp.Name, group)

	s.logger.Experiment().Info("Guest assigned to recommendation group",
		"experiment", exp.Name,
		"sessionToken", ident.SessionToken,
		"group", group)
	metrics.Assignments.WithLabelValues(exp.Name, SourceHash).Inc()
	return Assignment{Group: group, Experiment: exp.Name, UserID: 0, Source: SourceHash}
}
