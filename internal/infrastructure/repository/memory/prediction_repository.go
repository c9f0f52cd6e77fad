package memory

import (
	"context"

	"github.com/gridironpicks/prediction-league/internal/domain/prediction"
)

type PredictionRepository struct {
	store *Store
}

func NewPredictionRepository(store *Store) *PredictionRepository {
	return &PredictionRepository{store: store}
}

func (r *PredictionRepository) ReplaceDrafts(_ context.Context, userID string, week int, items []prediction.Prediction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	kept := r.store.predictions[:0]
	for _, p := range r.store.predictions {
		if p.UserID == userID && p.Week == week && p.Kind == prediction.KindDraft {
			continue
		}
		kept = append(kept, p)
	}
	r.store.predictions = append(kept, items...)
	return nil
}

func (r *PredictionRepository) SubmitFinal(_ context.Context, userID string, week int, items []prediction.Prediction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, p := range r.store.predictions {
		if p.UserID == userID && p.Week == week && p.Kind == prediction.KindFinal {
			return prediction.ErrFinalExists
		}
	}
	r.store.predictions = append(r.store.predictions, items...)
	return nil
}

func (r *PredictionRepository) ListByUserWeek(_ context.Context, userID string, week int, kind prediction.Kind) ([]prediction.Prediction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for _, p := range r.store.predictions {
		if p.UserID == userID && p.Week == week && p.Kind == kind {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *PredictionRepository) ListFinalsByUsers(_ context.Context, userIDs []string, week int) (map[string][]prediction.Prediction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	wanted := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = true
	}

	out := make(map[string][]prediction.Prediction, len(userIDs))
	for _, p := range r.store.predictions {
		if p.Week == week && p.Kind == prediction.KindFinal && wanted[p.UserID] {
			out[p.UserID] = append(out[p.UserID], p)
		}
	}
	return out, nil
}

func (r *PredictionRepository) HasFinal(_ context.Context, userID string, week int) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, p := range r.store.predictions {
		if p.UserID == userID && p.Week == week && p.Kind == prediction.KindFinal {
			return true, nil
		}
	}
	return false, nil
}
