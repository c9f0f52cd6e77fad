package jobrun

import "time"

type Outcome string

const (
	OutcomeScored Outcome = "scored"
	OutcomeFailed Outcome = "failed"
)

// Run is the audit record of one scoring pass that made it past the
// week gate. Skipped gate checks are not recorded; they happen on
// every dashboard read.
type Run struct {
	RunID        string
	Trigger      string
	Week         int
	Outcome      Outcome
	UsersScored  int
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   time.Time
	TraceID      string
	SpanID       string
}
