package memory

import (
	"context"
	"sort"
	"time"

	"github.com/gridironpicks/prediction-league/internal/domain/league"
)

type LeagueRepository struct {
	store *Store
}

func NewLeagueRepository(store *Store) *LeagueRepository {
	return &LeagueRepository{store: store}
}

func (r *LeagueRepository) Create(_ context.Context, item league.League) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.leagues {
		if existing.JoinCode == item.JoinCode {
			return league.ErrJoinCodeExists
		}
	}
	r.store.leagues[item.ID] = item
	r.store.leagueOrder = append(r.store.leagueOrder, item.ID)
	return nil
}

func (r *LeagueRepository) GetByID(_ context.Context, id string) (league.League, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	l, ok := r.store.leagues[id]
	if !ok {
		return league.League{}, false, nil
	}
	return l, true, nil
}

func (r *LeagueRepository) GetByJoinCode(_ context.Context, joinCode string) (league.League, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, l := range r.store.leagues {
		if l.JoinCode == joinCode {
			return l, true, nil
		}
	}
	return league.League{}, false, nil
}

func (r *LeagueRepository) ListByUser(_ context.Context, userID string) ([]league.League, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]league.League, 0)
	for _, leagueID := range r.store.leagueOrder {
		if _, ok := r.store.members[leagueID][userID]; ok {
			out = append(out, r.store.leagues[leagueID])
		}
	}
	return out, nil
}

func (r *LeagueRepository) AddMember(_ context.Context, leagueID, userID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.addMemberLocked(leagueID, userID, time.Now().UTC())
	return nil
}

func (r *LeagueRepository) IsMember(_ context.Context, leagueID, userID string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.members[leagueID][userID]
	return ok, nil
}

func (r *LeagueRepository) ListMemberUserIDs(_ context.Context, leagueID string) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]string, 0, len(r.store.members[leagueID]))
	for userID := range r.store.members[leagueID] {
		out = append(out, userID)
	}
	sort.Strings(out)
	return out, nil
}
