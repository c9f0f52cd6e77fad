package postgres

import (
	"context"
	"fmt"

	"github.com/gridironpicks/prediction-league/internal/domain/league"
	qb "github.com/gridironpicks/prediction-league/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) Create(ctx context.Context, item league.League) error {
	insertModel := leagueInsertModel{
		PublicID:  item.ID,
		Name:      item.Name,
		JoinCode:  item.JoinCode,
		CreatedBy: item.CreatedBy,
	}
	query, args, err := qb.InsertModel("leagues", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert league query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return league.ErrJoinCodeExists
		}
		return fmt.Errorf("insert league: %w", err)
	}
	return nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, id string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("public_id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by id query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by id: %w", err)
	}

	return leagueToDomain(row), true, nil
}

func (r *LeagueRepository) GetByJoinCode(ctx context.Context, joinCode string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("join_code", joinCode),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by join code query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by join code: %w", err)
	}

	return leagueToDomain(row), true, nil
}

func (r *LeagueRepository) ListByUser(ctx context.Context, userID string) ([]league.League, error) {
	memberQuery, memberArgs, err := qb.Select("league_public_id").
		From("league_members").
		Where(
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list memberships query: %w", err)
	}

	var leagueIDs []string
	if err := r.db.SelectContext(ctx, &leagueIDs, memberQuery, memberArgs...); err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	if len(leagueIDs) == 0 {
		return []league.League{}, nil
	}

	idValues := make([]any, 0, len(leagueIDs))
	for _, id := range leagueIDs {
		idValues = append(idValues, id)
	}
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.In("public_id", idValues),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, leagueToDomain(row))
	}
	return out, nil
}

func (r *LeagueRepository) AddMember(ctx context.Context, leagueID, userID string) error {
	insertModel := leagueMemberInsertModel{
		LeagueID: leagueID,
		UserID:   userID,
		Score:    0,
	}
	query, args, err := qb.InsertModel("league_members", insertModel, `ON CONFLICT (league_public_id, user_id) WHERE deleted_at IS NULL
DO NOTHING`)
	if err != nil {
		return fmt.Errorf("build insert league member query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert league member: %w", err)
	}
	return nil
}

func (r *LeagueRepository) IsMember(ctx context.Context, leagueID, userID string) (bool, error) {
	query, args, err := qb.Select("COUNT(1)").
		From("league_members").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build is member query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("is member: %w", err)
	}
	return count > 0, nil
}

func (r *LeagueRepository) ListMemberUserIDs(ctx context.Context, leagueID string) ([]string, error) {
	query, args, err := qb.Select("user_id").
		From("league_members").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list member user ids query: %w", err)
	}

	var userIDs []string
	if err := r.db.SelectContext(ctx, &userIDs, query, args...); err != nil {
		return nil, fmt.Errorf("list member user ids: %w", err)
	}
	return userIDs, nil
}

func leagueToDomain(row leagueTableModel) league.League {
	return league.League{
		ID:        row.PublicID,
		Name:      row.Name,
		JoinCode:  row.JoinCode,
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt,
	}
}
