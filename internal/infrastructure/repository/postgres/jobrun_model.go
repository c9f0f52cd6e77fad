package postgres

import "time"

type scoringRunInsertModel struct {
	RunID        string    `db:"run_id"`
	Trigger      string    `db:"trigger"`
	Week         int       `db:"week"`
	Outcome      string    `db:"outcome"`
	UsersScored  int       `db:"users_scored"`
	ErrorMessage string    `db:"error_message"`
	StartedAt    time.Time `db:"started_at"`
	FinishedAt   time.Time `db:"finished_at"`
	TraceID      string    `db:"trace_id"`
	SpanID       string    `db:"span_id"`
}
