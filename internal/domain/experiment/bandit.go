package experiment

import "math/rand"

// FallbackReason explains why a bandit selection was not performed.
type FallbackReason string

const (
	FallbackNone       FallbackReason = ""
	FallbackEmptyStats FallbackReason = "empty_stats"
	FallbackBadWeights FallbackReason = "weights_not_100"
	FallbackNoGroups   FallbackReason = "no_groups"
)

// Selector chooses a group for a first-time registered-user assignment using
// aggregate interaction stats.
//
// The sampler is an explicit heuristic, not exact Thompson sampling: each
// group draws alpha = successes+1, beta = (trials-successes)+1, and samples
// the posterior mean alpha/(alpha+beta) scaled by a uniform multiplicative
// jitter in [-5%, +5%]. True Beta-posterior draws are a future-work item.
type Selector struct {
	jitter func() float64
}

// NewSelector creates a selector with the default random jitter source.
func NewSelector() *Selector {
	return &Selector{
		jitter: func() float64 {
			return (rand.Float64() - 0.5) * 0.1
		},
	}
}

// NewSelectorWithJitter creates a selector with an injected jitter source.
func NewSelectorWithJitter(jitter func() float64) *Selector {
	return &Selector{jitter: jitter}
}

// Select picks the group with the highest heuristic sample. Ties go to the
// first declared group.
//
// Preconditions: at least one group has recorded stats and the configured
// weights sum to exactly 100. When either is violated Select returns the
// fallback reason and the caller must delegate to AssignByWeight so the
// weighted-proportionality guarantee still holds.
func (s *Selector) Select(exp *Experiment, stats map[string]GroupStats) (string, FallbackReason) {
	if len(exp.Groups) == 0 {
		return "", FallbackNoGroups
	}
	if len(stats) == 0 {
		return "", FallbackEmptyStats
	}
	if !exp.WeightsSumTo100() {
		return "", FallbackBadWeights
	}

	maxSample := -1.0
	selected := exp.Groups[0].Name

	for _, g := range exp.Groups {
		gs := stats[g.Name] // zero value when absent: successes=0, trials=0
		alpha := float64(gs.Successes + 1)
		beta := float64(gs.Trials-gs.Successes) + 1

		sample := (alpha / (alpha + beta)) * (1 + s.jitter())
		if sample > maxSample {
			maxSample = sample
			selected = g.Name
		}
	}

	return selected, FallbackNone
}
