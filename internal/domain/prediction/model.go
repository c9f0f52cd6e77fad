package prediction

import (
	"errors"
	"strings"
	"time"

	"github.com/gridironpicks/prediction-league/internal/domain/matchup"
)

type Kind string

const (
	// KindDraft predictions are autosaved work in progress. They can be
	// rewritten freely until the week starts and are purged once the week
	// is scored.
	KindDraft Kind = "draft"
	// KindFinal predictions are the submitted set that gets scored.
	// They are written once and never updated or deleted.
	KindFinal Kind = "final"
)

const maxScore = 999

var (
	ErrTeamRequired    = errors.New("both teams are required")
	ErrSameTeam        = errors.New("a matchup needs two distinct teams")
	ErrScoreOutOfRange = errors.New("score must be between 0 and 999")
)

// Prediction is one user's predicted final score for one matchup.
type Prediction struct {
	UserID    string
	Week      int
	Team1     string
	Score1    int
	Team2     string
	Score2    int
	Kind      Kind
	CreatedAt time.Time
}

func (p Prediction) Key() matchup.Key {
	return matchup.NewKey(p.Week, p.Team1, p.Team2)
}

func (p Prediction) Validate() error {
	team1 := strings.TrimSpace(p.Team1)
	team2 := strings.TrimSpace(p.Team2)
	if team1 == "" || team2 == "" {
		return ErrTeamRequired
	}
	if strings.EqualFold(team1, team2) {
		return ErrSameTeam
	}
	if p.Score1 < 0 || p.Score1 > maxScore || p.Score2 < 0 || p.Score2 > maxScore {
		return ErrScoreOutOfRange
	}
	return nil
}
