package postgres

import (
	"context"
	"fmt"

	"github.com/gridironpicks/prediction-league/internal/domain/prediction"
	"github.com/gridironpicks/prediction-league/internal/domain/scoring"
	qb "github.com/gridironpicks/prediction-league/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

// scoringMarkerRowID is the id of the single marker row. The migration
// inserts it; it is never deleted.
const scoringMarkerRowID = 1

type ScoringRepository struct {
	db *sqlx.DB
}

func NewScoringRepository(db *sqlx.DB) *ScoringRepository {
	return &ScoringRepository{db: db}
}

func (r *ScoringRepository) Marker(ctx context.Context) (scoring.Marker, error) {
	query, args, err := qb.Select("*").From("scoring_marker").
		Where(qb.Eq("id", scoringMarkerRowID)).
		ToSQL()
	if err != nil {
		return scoring.Marker{}, fmt.Errorf("build get scoring marker query: %w", err)
	}

	var row scoringMarkerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return scoring.Marker{}, fmt.Errorf("get scoring marker: %w", err)
	}

	return scoring.Marker{
		LastScoredWeek: row.LastScoredWeek,
		UpdatedAt:      row.UpdatedAt,
	}, nil
}

func (r *ScoringRepository) RunPass(ctx context.Context, fn func(ctx context.Context, pass scoring.Pass) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx scoring pass: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, &scoringPass{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit scoring pass tx: %w", err)
	}
	return nil
}

// scoringPass runs every statement on the pass transaction. The marker
// row lock taken by MarkerForUpdate serializes concurrent passes.
type scoringPass struct {
	tx *sqlx.Tx
}

func (p *scoringPass) MarkerForUpdate(ctx context.Context) (scoring.Marker, error) {
	query, args, err := qb.Select("*").From("scoring_marker").
		Where(qb.Eq("id", scoringMarkerRowID)).
		Suffix("FOR UPDATE").
		ToSQL()
	if err != nil {
		return scoring.Marker{}, fmt.Errorf("build lock scoring marker query: %w", err)
	}

	var row scoringMarkerTableModel
	if err := p.tx.GetContext(ctx, &row, query, args...); err != nil {
		return scoring.Marker{}, fmt.Errorf("lock scoring marker: %w", err)
	}

	return scoring.Marker{
		LastScoredWeek: row.LastScoredWeek,
		UpdatedAt:      row.UpdatedAt,
	}, nil
}

func (p *scoringPass) ListUsersWithFinals(ctx context.Context, week int) ([]string, error) {
	query, args, err := qb.Select("user_id").
		From("predictions").
		Where(
			qb.Eq("week", week),
			qb.Eq("kind", string(prediction.KindFinal)),
			qb.IsNull("deleted_at"),
		).
		GroupBy("user_id").
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list users with finals query: %w", err)
	}

	var userIDs []string
	if err := p.tx.SelectContext(ctx, &userIDs, query, args...); err != nil {
		return nil, fmt.Errorf("list users with finals: %w", err)
	}
	return userIDs, nil
}

func (p *scoringPass) ListFinals(ctx context.Context, userID string, week int) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("week", week),
			qb.Eq("kind", string(prediction.KindFinal)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list finals query: %w", err)
	}

	var rows []predictionTableModel
	if err := p.tx.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list finals: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, predictionToDomain(row))
	}
	return out, nil
}

func (p *scoringPass) AddWeekScore(ctx context.Context, userID string, points float64) error {
	query, args, err := qb.Update("league_members").
		SetExpr("score", "score + ?", points).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build add week score query: %w", err)
	}
	if _, err := p.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("add week score: %w", err)
	}
	return nil
}

func (p *scoringPass) AdvanceMarker(ctx context.Context, week int) error {
	query, args, err := qb.Update("scoring_marker").
		Set("last_scored_week", week).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", scoringMarkerRowID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build advance scoring marker query: %w", err)
	}
	if _, err := p.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("advance scoring marker: %w", err)
	}
	return nil
}

func (p *scoringPass) PurgeDrafts(ctx context.Context, week int) error {
	query, args, err := qb.Update("predictions").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("week", week),
			qb.Eq("kind", string(prediction.KindDraft)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build purge drafts query: %w", err)
	}
	if _, err := p.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("purge drafts: %w", err)
	}
	return nil
}
