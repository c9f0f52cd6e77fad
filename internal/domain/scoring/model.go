package scoring

import "time"

// Marker records the most recent week that has been scored. It is a
// single transactional row: the scoring pass locks it, re-checks the
// gate, and advances it only after every ledger write has landed.
type Marker struct {
	LastScoredWeek int
	UpdatedAt      time.Time
}

// ShouldScore is the week gate predicate. A week is scored exactly once:
// after its last game completes and before the marker catches up.
func ShouldScore(lastScoredWeek, currentWeek int, weekComplete bool) bool {
	return lastScoredWeek != currentWeek && weekComplete
}
