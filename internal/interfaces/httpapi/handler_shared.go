package httpapi

import (
	"context"
	"time"

	"github.com/gridironpicks/prediction-league/internal/domain/league"
	"github.com/gridironpicks/prediction-league/internal/domain/matchup"
	"github.com/gridironpicks/prediction-league/internal/domain/prediction"
	"github.com/gridironpicks/prediction-league/internal/domain/standings"
	"github.com/gridironpicks/prediction-league/internal/domain/user"
	"github.com/gridironpicks/prediction-league/internal/usecase"
)

type savePredictionsRequest struct {
	Picks []predictionPickRequest `json:"picks" validate:"required,min=1,dive"`
}

type predictionPickRequest struct {
	Team1  string `json:"team1" validate:"required,max=8"`
	Score1 int    `json:"score1" validate:"gte=0,lte=999"`
	Team2  string `json:"team2" validate:"required,max=8"`
	Score2 int    `json:"score2" validate:"gte=0,lte=999"`
}

type createLeagueRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	JoinCode string `json:"join_code" validate:"omitempty,min=4,max=32"`
}

type joinLeagueRequest struct {
	JoinCode string `json:"join_code" validate:"required,min=4,max=32"`
}

type userDTO struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	CreatedAtUTC string `json:"created_at_utc"`
}

type matchupDTO struct {
	Week      int    `json:"week"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	Status    string `json:"status"`
	Completed bool   `json:"completed"`
}

type scoreboardDTO struct {
	Week     int          `json:"week"`
	Matchups []matchupDTO `json:"matchups"`
}

type predictionDTO struct {
	Week   int    `json:"week"`
	Team1  string `json:"team1"`
	Score1 int    `json:"score1"`
	Team2  string `json:"team2"`
	Score2 int    `json:"score2"`
	Kind   string `json:"kind"`
}

type savePredictionsDTO struct {
	Week  int  `json:"week"`
	Saved int  `json:"saved"`
	Final bool `json:"final"`
}

type weekPicksDTO struct {
	Week       int             `json:"week"`
	Started    bool            `json:"started"`
	Submitted  bool            `json:"submitted"`
	Scoreboard scoreboardDTO   `json:"scoreboard"`
	Drafts     []predictionDTO `json:"drafts"`
	Finals     []predictionDTO `json:"finals"`
}

type leagueDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	JoinCode     string `json:"join_code"`
	CreatedBy    string `json:"created_by"`
	CreatedAtUTC string `json:"created_at_utc"`
}

type standingsEntryDTO struct {
	Place    int     `json:"place"`
	UserID   string  `json:"user_id"`
	Username string  `json:"username"`
	Score    float64 `json:"score"`
}

type leagueStandingsDTO struct {
	League  leagueDTO           `json:"league"`
	Entries []standingsEntryDTO `json:"entries"`
}

type weekBoardDTO struct {
	League  leagueDTO        `json:"league"`
	Week    int              `json:"week"`
	Started bool             `json:"started"`
	Members []memberPicksDTO `json:"members"`
}

type memberPicksDTO struct {
	UserID    string          `json:"user_id"`
	Username  string          `json:"username"`
	Submitted bool            `json:"submitted"`
	Finals    []predictionDTO `json:"finals"`
}

type dashboardDTO struct {
	User          userDTO              `json:"user"`
	Week          int                  `json:"week"`
	WeekStarted   bool                 `json:"week_started"`
	FeedAvailable bool                 `json:"feed_available"`
	Submitted     bool                 `json:"submitted"`
	Scoreboard    scoreboardDTO        `json:"scoreboard"`
	Leagues       []dashboardLeagueDTO `json:"leagues"`
}

type dashboardLeagueDTO struct {
	League  leagueDTO `json:"league"`
	Members int       `json:"members"`
	Score   float64   `json:"score"`
	Place   int       `json:"place"`
}

func userToDTO(ctx context.Context, v user.User) userDTO {
	ctx, span := startSpan(ctx, "httpapi.userToDTO")
	defer span.End()

	return userDTO{
		ID:           v.ID,
		Username:     v.Username,
		Email:        v.Email,
		CreatedAtUTC: v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func scoreboardToDTO(ctx context.Context, v matchup.Scoreboard) scoreboardDTO {
	ctx, span := startSpan(ctx, "httpapi.scoreboardToDTO")
	defer span.End()

	matchups := make([]matchupDTO, 0, len(v.Matchups))
	for _, m := range v.Matchups {
		matchups = append(matchups, matchupDTO{
			Week:      m.Week,
			HomeTeam:  m.HomeTeam,
			AwayTeam:  m.AwayTeam,
			HomeScore: m.HomeScore,
			AwayScore: m.AwayScore,
			Status:    string(m.Status),
			Completed: m.Completed,
		})
	}
	return scoreboardDTO{Week: v.Week, Matchups: matchups}
}

func predictionsToDTO(ctx context.Context, items []prediction.Prediction) []predictionDTO {
	ctx, span := startSpan(ctx, "httpapi.predictionsToDTO")
	defer span.End()

	out := make([]predictionDTO, 0, len(items))
	for _, p := range items {
		out = append(out, predictionDTO{
			Week:   p.Week,
			Team1:  p.Team1,
			Score1: p.Score1,
			Team2:  p.Team2,
			Score2: p.Score2,
			Kind:   string(p.Kind),
		})
	}
	return out
}

func leagueToDTO(ctx context.Context, v league.League) leagueDTO {
	ctx, span := startSpan(ctx, "httpapi.leagueToDTO")
	defer span.End()

	return leagueDTO{
		ID:           v.ID,
		Name:         v.Name,
		JoinCode:     v.JoinCode,
		CreatedBy:    v.CreatedBy,
		CreatedAtUTC: v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func standingsToDTO(ctx context.Context, entries []standings.Entry) []standingsEntryDTO {
	ctx, span := startSpan(ctx, "httpapi.standingsToDTO")
	defer span.End()

	out := make([]standingsEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, standingsEntryDTO{
			Place:    e.Place,
			UserID:   e.UserID,
			Username: e.Username,
			Score:    e.Score,
		})
	}
	return out
}

func weekPicksToDTO(ctx context.Context, v usecase.WeekPicks) weekPicksDTO {
	ctx, span := startSpan(ctx, "httpapi.weekPicksToDTO")
	defer span.End()

	return weekPicksDTO{
		Week:       v.Week,
		Started:    v.Started,
		Submitted:  v.Submitted,
		Scoreboard: scoreboardToDTO(ctx, v.Scoreboard),
		Drafts:     predictionsToDTO(ctx, v.Drafts),
		Finals:     predictionsToDTO(ctx, v.Finals),
	}
}

func weekBoardToDTO(ctx context.Context, v usecase.LeagueWeekBoard) weekBoardDTO {
	ctx, span := startSpan(ctx, "httpapi.weekBoardToDTO")
	defer span.End()

	members := make([]memberPicksDTO, 0, len(v.Members))
	for _, m := range v.Members {
		members = append(members, memberPicksDTO{
			UserID:    m.UserID,
			Username:  m.Username,
			Submitted: m.Submitted,
			Finals:    predictionsToDTO(ctx, m.Finals),
		})
	}
	return weekBoardDTO{
		League:  leagueToDTO(ctx, v.League),
		Week:    v.Week,
		Started: v.Started,
		Members: members,
	}
}

func dashboardToDTO(ctx context.Context, v usecase.Dashboard) dashboardDTO {
	ctx, span := startSpan(ctx, "httpapi.dashboardToDTO")
	defer span.End()

	leagues := make([]dashboardLeagueDTO, 0, len(v.Leagues))
	for _, l := range v.Leagues {
		leagues = append(leagues, dashboardLeagueDTO{
			League:  leagueToDTO(ctx, l.League),
			Members: l.Members,
			Score:   l.Score,
			Place:   l.Place,
		})
	}
	return dashboardDTO{
		User:          userToDTO(ctx, v.User),
		Week:          v.Week,
		WeekStarted:   v.WeekStarted,
		FeedAvailable: v.FeedAvailable,
		Submitted:     v.Submitted,
		Scoreboard:    scoreboardToDTO(ctx, v.Scoreboard),
		Leagues:       leagues,
	}
}

func picksFromRequest(picks []predictionPickRequest) []usecase.PredictionPick {
	out := make([]usecase.PredictionPick, 0, len(picks))
	for _, p := range picks {
		out = append(out, usecase.PredictionPick{
			Team1:  p.Team1,
			Score1: p.Score1,
			Team2:  p.Team2,
			Score2: p.Score2,
		})
	}
	return out
}
