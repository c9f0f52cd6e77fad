package memory

import (
	"context"
	"sort"
	"time"

	"github.com/gridironpicks/prediction-league/internal/domain/prediction"
	"github.com/gridironpicks/prediction-league/internal/domain/scoring"
)

type ScoringRepository struct {
	store *Store
}

func NewScoringRepository(store *Store) *ScoringRepository {
	return &ScoringRepository{store: store}
}

func (r *ScoringRepository) Marker(_ context.Context) (scoring.Marker, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.marker, nil
}

// RunPass holds the store lock for the whole pass, which gives the same
// serialization the row lock gives in postgres. Writes are staged on
// the pass and only land when fn returns nil.
func (r *ScoringRepository) RunPass(_ context.Context, fn func(ctx context.Context, pass scoring.Pass) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	pass := &scoringPass{store: r.store, scoreAdds: make(map[string]float64)}
	if err := fn(context.Background(), pass); err != nil {
		return err
	}
	pass.commit()
	return nil
}

type scoringPass struct {
	store      *Store
	scoreAdds  map[string]float64
	markerWeek *int
	purgeWeeks []int
}

func (p *scoringPass) MarkerForUpdate(_ context.Context) (scoring.Marker, error) {
	return p.store.marker, nil
}

func (p *scoringPass) ListUsersWithFinals(_ context.Context, week int) ([]string, error) {
	seen := make(map[string]bool)
	for _, pred := range p.store.predictions {
		if pred.Week == week && pred.Kind == prediction.KindFinal {
			seen[pred.UserID] = true
		}
	}
	out := make([]string, 0, len(seen))
	for userID := range seen {
		out = append(out, userID)
	}
	sort.Strings(out)
	return out, nil
}

func (p *scoringPass) ListFinals(_ context.Context, userID string, week int) ([]prediction.Prediction, error) {
	out := make([]prediction.Prediction, 0)
	for _, pred := range p.store.predictions {
		if pred.UserID == userID && pred.Week == week && pred.Kind == prediction.KindFinal {
			out = append(out, pred)
		}
	}
	return out, nil
}

func (p *scoringPass) AddWeekScore(_ context.Context, userID string, points float64) error {
	p.scoreAdds[userID] += points
	return nil
}

func (p *scoringPass) AdvanceMarker(_ context.Context, week int) error {
	p.markerWeek = &week
	return nil
}

func (p *scoringPass) PurgeDrafts(_ context.Context, week int) error {
	p.purgeWeeks = append(p.purgeWeeks, week)
	return nil
}

func (p *scoringPass) commit() {
	for userID, points := range p.scoreAdds {
		for leagueID, byUser := range p.store.members {
			membership, ok := byUser[userID]
			if !ok {
				continue
			}
			membership.Score += points
			p.store.members[leagueID][userID] = membership
		}
	}
	if p.markerWeek != nil {
		p.store.marker = scoring.Marker{
			LastScoredWeek: *p.markerWeek,
			UpdatedAt:      time.Now().UTC(),
		}
	}
	for _, week := range p.purgeWeeks {
		kept := p.store.predictions[:0]
		for _, pred := range p.store.predictions {
			if pred.Week == week && pred.Kind == prediction.KindDraft {
				continue
			}
			kept = append(kept, pred)
		}
		p.store.predictions = kept
	}
}
