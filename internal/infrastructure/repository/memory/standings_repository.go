package memory

import (
	"context"
	"sort"

	"github.com/gridironpicks/prediction-league/internal/domain/standings"
)

type StandingsRepository struct {
	store *Store
}

func NewStandingsRepository(store *Store) *StandingsRepository {
	return &StandingsRepository{store: store}
}

func (r *StandingsRepository) ListByLeague(_ context.Context, leagueID string) ([]standings.Entry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]standings.Entry, 0, len(r.store.members[leagueID]))
	for userID, membership := range r.store.members[leagueID] {
		entry := standings.Entry{
			UserID: userID,
			Score:  membership.Score,
		}
		if u, ok := r.store.users[userID]; ok {
			entry.Username = u.Username
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}
