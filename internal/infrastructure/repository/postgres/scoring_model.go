package postgres

import "time"

type scoringMarkerTableModel struct {
	ID             int       `db:"id"`
	LastScoredWeek int       `db:"last_scored_week"`
	UpdatedAt      time.Time `db:"updated_at"`
}
