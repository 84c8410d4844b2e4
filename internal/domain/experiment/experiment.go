// Package experiment defines the experiment configuration entities and the
// pure assignment algorithms: deterministic hash bucketing and the heuristic
// bandit selector. Nothing in this package touches storage or caches.
package experiment

// Group is a single weighted arm of an experiment. Weight is an integer
// percentage; declaration order is significant for bucketing and tie-breaks.
type Group struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
}

// Experiment is the immutable per-deployment configuration for one experiment.
type Experiment struct {
	Name         string  `json:"name"`
	Enabled      bool    `json:"enabled"`
	DefaultGroup string  `json:"defaultGroup"`
	Groups       []Group `json:"groups"`
}

// FirstGroup returns the first declared group name, the fallback for
// malformed weights. Empty string when no groups are configured.
func (e *Experiment) FirstGroup() string {
	if len(e.Groups) == 0 {
		return ""
	}
	return e.Groups[0].Name
}

// WeightsSumTo100 reports whether the configured weights sum to exactly 100,
// the precondition for bandit selection.
func (e *Experiment) WeightsSumTo100() bool {
	sum := 0
	for _, g := range e.Groups {
		sum += g.Weight
	}
	return sum == 100
}

// HasGroup reports whether the experiment declares the named group.
func (e *Experiment) HasGroup(name string) bool {
	for _, g := range e.Groups {
		if g.Name == name {
			return true
		}
	}
	return false
}

// Table is the process-wide experiment configuration, loaded once at startup
// and shared read-only by all callers.
type Table struct {
	Salt        string                 `json:"salt"`
	Experiments map[string]*Experiment `json:"-"`
}

// Lookup returns the named experiment, if configured.
func (t *Table) Lookup(name string) (*Experiment, bool) {
	exp, ok := t.Experiments[name]
	return exp, ok
}
