package memory

import (
	"context"

	"github.com/gridironpicks/prediction-league/internal/domain/jobrun"
)

type JobRunRepository struct {
	store *Store
}

func NewJobRunRepository(store *Store) *JobRunRepository {
	return &JobRunRepository{store: store}
}

func (r *JobRunRepository) Record(_ context.Context, run jobrun.Run) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.runs = append(r.store.runs, run)
	return nil
}
