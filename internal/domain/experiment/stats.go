package experiment

// GroupStats holds the aggregate interaction counts for one group of one
// experiment, folded from the append-only event log. Trials counts every
// recorded event for the group; Successes counts clicks.
type GroupStats struct {
	Successes int64 `json:"successes"`
	Trials    int64 `json:"trials"`
}
