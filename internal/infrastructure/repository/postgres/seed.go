package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// BootstrapSeed makes sure the single scoring marker row exists. A fresh
// database starts with week 0 scored, so the first completed week is
// eligible immediately.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	sqlQuery, args, err := sqlx.Named(`
INSERT INTO scoring_marker (id, last_scored_week)
VALUES (:id, :last_scored_week)
ON CONFLICT (id) DO NOTHING`, map[string]any{
		"id":               scoringMarkerRowID,
		"last_scored_week": 0,
	})
	if err != nil {
		return fmt.Errorf("bind seed scoring marker query: %w", err)
	}
	sqlQuery = db.Rebind(sqlQuery)
	if _, err := db.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("seed scoring marker: %w", err)
	}

	return nil
}
