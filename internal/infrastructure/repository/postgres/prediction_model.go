package postgres

import (
	"time"

	"github.com/gridironpicks/prediction-league/internal/domain/prediction"
)

type predictionTableModel struct {
	ID        int64      `db:"id"`
	UserID    string     `db:"user_id"`
	Week      int        `db:"week"`
	Team1     string     `db:"team1"`
	Score1    int        `db:"score1"`
	Team2     string     `db:"team2"`
	Score2    int        `db:"score2"`
	Kind      string     `db:"kind"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type predictionInsertModel struct {
	UserID string `db:"user_id"`
	Week   int    `db:"week"`
	Team1  string `db:"team1"`
	Score1 int    `db:"score1"`
	Team2  string `db:"team2"`
	Score2 int    `db:"score2"`
	Kind   string `db:"kind"`
}

func predictionToDomain(row predictionTableModel) prediction.Prediction {
	return prediction.Prediction{
		UserID:    row.UserID,
		Week:      row.Week,
		Team1:     row.Team1,
		Score1:    row.Score1,
		Team2:     row.Team2,
		Score2:    row.Score2,
		Kind:      prediction.Kind(row.Kind),
		CreatedAt: row.CreatedAt,
	}
}
