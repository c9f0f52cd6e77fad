package postgres

import (
	"context"
	"fmt"

	"github.com/gridironpicks/prediction-league/internal/domain/jobrun"
	qb "github.com/gridironpicks/prediction-league/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

type JobRunRepository struct {
	db *sqlx.DB
}

func NewJobRunRepository(db *sqlx.DB) *JobRunRepository {
	return &JobRunRepository{db: db}
}

func (r *JobRunRepository) Record(ctx context.Context, run jobrun.Run) error {
	insertModel := scoringRunInsertModel{
		RunID:        run.RunID,
		Trigger:      run.Trigger,
		Week:         run.Week,
		Outcome:      string(run.Outcome),
		UsersScored:  run.UsersScored,
		ErrorMessage: run.ErrorMessage,
		StartedAt:    run.StartedAt.UTC(),
		FinishedAt:   run.FinishedAt.UTC(),
		TraceID:      run.TraceID,
		SpanID:       run.SpanID,
	}
	query, args, err := qb.InsertModel("scoring_runs", insertModel, `ON CONFLICT (run_id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("build insert scoring run query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert scoring run: %w", err)
	}
	return nil
}
