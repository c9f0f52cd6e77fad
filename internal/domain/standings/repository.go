package standings

import "context"

type Repository interface {
	// ListByLeague returns raw member rows (unsorted, Place unset).
	ListByLeague(ctx context.Context, leagueID string) ([]Entry, error)
}
