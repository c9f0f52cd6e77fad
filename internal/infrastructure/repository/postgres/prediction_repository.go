package postgres

import (
	"context"
	"fmt"

	"github.com/gridironpicks/prediction-league/internal/domain/prediction"
	qb "github.com/gridironpicks/prediction-league/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) ReplaceDrafts(ctx context.Context, userID string, week int, items []prediction.Prediction) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace drafts: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.Update("predictions").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("week", week),
			qb.Eq("kind", string(prediction.KindDraft)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear drafts query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear drafts: %w", err)
	}

	for _, item := range items {
		if err := insertPrediction(ctx, tx, item); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace drafts tx: %w", err)
	}
	return nil
}

func (r *PredictionRepository) SubmitFinal(ctx context.Context, userID string, week int, items []prediction.Prediction) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx submit final: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	existingQuery, existingArgs, err := qb.Select("id").
		From("predictions").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("week", week),
			qb.Eq("kind", string(prediction.KindFinal)),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		Suffix("FOR UPDATE").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build existing finals query: %w", err)
	}

	var existing []int64
	if err := tx.SelectContext(ctx, &existing, existingQuery, existingArgs...); err != nil {
		return fmt.Errorf("check existing finals: %w", err)
	}
	if len(existing) > 0 {
		return prediction.ErrFinalExists
	}

	for _, item := range items {
		if err := insertPrediction(ctx, tx, item); err != nil {
			if isUniqueViolation(err) {
				return prediction.ErrFinalExists
			}
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit submit final tx: %w", err)
	}
	return nil
}

func (r *PredictionRepository) ListByUserWeek(ctx context.Context, userID string, week int, kind prediction.Kind) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("week", week),
			qb.Eq("kind", string(kind)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, predictionToDomain(row))
	}
	return out, nil
}

func (r *PredictionRepository) ListFinalsByUsers(ctx context.Context, userIDs []string, week int) (map[string][]prediction.Prediction, error) {
	out := make(map[string][]prediction.Prediction, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	idValues := make([]any, 0, len(userIDs))
	for _, id := range userIDs {
		idValues = append(idValues, id)
	}
	query, args, err := qb.Select("*").From("predictions").
		Where(
			qb.In("user_id", idValues),
			qb.Eq("week", week),
			qb.Eq("kind", string(prediction.KindFinal)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("user_id", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list finals by users query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list finals by users: %w", err)
	}

	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], predictionToDomain(row))
	}
	return out, nil
}

func (r *PredictionRepository) HasFinal(ctx context.Context, userID string, week int) (bool, error) {
	query, args, err := qb.Select("COUNT(1)").
		From("predictions").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("week", week),
			qb.Eq("kind", string(prediction.KindFinal)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build has final query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("has final: %w", err)
	}
	return count > 0, nil
}

func insertPrediction(ctx context.Context, tx *sqlx.Tx, item prediction.Prediction) error {
	insertModel := predictionInsertModel{
		UserID: item.UserID,
		Week:   item.Week,
		Team1:  item.Team1,
		Score1: item.Score1,
		Team2:  item.Team2,
		Score2: item.Score2,
		Kind:   string(item.Kind),
	}
	query, args, err := qb.InsertModel("predictions", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert prediction query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}
	return nil
}
