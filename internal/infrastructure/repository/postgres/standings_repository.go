package postgres

import (
	"context"
	"fmt"

	"github.com/gridironpicks/prediction-league/internal/domain/standings"
	qb "github.com/gridironpicks/prediction-league/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

type StandingsRepository struct {
	db *sqlx.DB
}

func NewStandingsRepository(db *sqlx.DB) *StandingsRepository {
	return &StandingsRepository{db: db}
}

func (r *StandingsRepository) ListByLeague(ctx context.Context, leagueID string) ([]standings.Entry, error) {
	memberQuery, memberArgs, err := qb.Select("*").
		From("league_members").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list league members query: %w", err)
	}

	var memberRows []leagueMemberTableModel
	if err := r.db.SelectContext(ctx, &memberRows, memberQuery, memberArgs...); err != nil {
		return nil, fmt.Errorf("list league members: %w", err)
	}
	if len(memberRows) == 0 {
		return []standings.Entry{}, nil
	}

	userIDs := make([]any, 0, len(memberRows))
	for _, row := range memberRows {
		userIDs = append(userIDs, row.UserID)
	}
	userQuery, userArgs, err := qb.Select("*").From("users").
		Where(
			qb.In("public_id", userIDs),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list member users query: %w", err)
	}

	var userRows []userTableModel
	if err := r.db.SelectContext(ctx, &userRows, userQuery, userArgs...); err != nil {
		return nil, fmt.Errorf("list member users: %w", err)
	}
	usernames := make(map[string]string, len(userRows))
	for _, row := range userRows {
		usernames[row.PublicID] = row.Username
	}

	out := make([]standings.Entry, 0, len(memberRows))
	for _, row := range memberRows {
		out = append(out, standings.Entry{
			UserID:   row.UserID,
			Username: usernames[row.UserID],
			Score:    row.Score,
		})
	}
	return out, nil
}
