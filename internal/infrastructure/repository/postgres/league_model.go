package postgres

import "time"

type leagueTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Name      string     `db:"name"`
	JoinCode  string     `db:"join_code"`
	CreatedBy string     `db:"created_by_user_id"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type leagueInsertModel struct {
	PublicID  string `db:"public_id"`
	Name      string `db:"name"`
	JoinCode  string `db:"join_code"`
	CreatedBy string `db:"created_by_user_id"`
}

type leagueMemberTableModel struct {
	ID        int64      `db:"id"`
	LeagueID  string     `db:"league_public_id"`
	UserID    string     `db:"user_id"`
	Score     float64    `db:"score"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type leagueMemberInsertModel struct {
	LeagueID string  `db:"league_public_id"`
	UserID   string  `db:"user_id"`
	Score    float64 `db:"score"`
}
