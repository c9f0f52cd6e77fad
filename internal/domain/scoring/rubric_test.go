package scoring

import (
	"testing"

	"github.com/gridironpicks/prediction-league/internal/domain/matchup"
	"github.com/gridironpicks/prediction-league/internal/domain/prediction"
)

func TestScoreMatchupWinnerAndSpreadAndTotal(t *testing.T) {
	t.Parallel()

	rubric := DefaultRubric()
	pred := prediction.Prediction{Week: 3, Team1: "KC", Score1: 21, Team2: "BUF", Score2: 14, Kind: prediction.KindFinal}
	result := matchup.Result{Week: 3, HomeTeam: "KC", HomeScore: 24, AwayTeam: "BUF", AwayScore: 17}

	points := rubric.ScoreMatchup(pred, result)
	if points.Winner != 10 {
		t.Fatalf("winner points = %v, want 10", points.Winner)
	}
	if points.Spread != 10 {
		t.Fatalf("spread points = %v, want 10 (exact spread)", points.Spread)
	}
	if points.Total != 5 {
		t.Fatalf("total points = %v, want 5", points.Total)
	}
	if points.Exact != 0 {
		t.Fatalf("exact points = %v, want 0", points.Exact)
	}
	if got := points.Sum(); got != 25 {
		t.Fatalf("sum = %v, want 25", got)
	}
}

func TestScoreMatchupMissedTieKeepsFractionalTotal(t *testing.T) {
	t.Parallel()

	rubric := DefaultRubric()
	pred := prediction.Prediction{Week: 5, Team1: "DEN", Score1: 10, Team2: "LV", Score2: 7, Kind: prediction.KindFinal}
	result := matchup.Result{Week: 5, HomeTeam: "DEN", HomeScore: 14, AwayTeam: "LV", AwayScore: 14}

	points := rubric.ScoreMatchup(pred, result)
	if points.Winner != 5 {
		t.Fatalf("winner points = %v, want 5 consolation", points.Winner)
	}
	if points.Spread != 7 {
		t.Fatalf("spread points = %v, want 7", points.Spread)
	}
	if points.Total != 2.5 {
		t.Fatalf("total points = %v, want 2.5", points.Total)
	}
	if got := points.Sum(); got != 14.5 {
		t.Fatalf("sum = %v, want 14.5", got)
	}
}

func TestScoreMatchupPerfectCall(t *testing.T) {
	t.Parallel()

	rubric := DefaultRubric()
	pred := prediction.Prediction{Week: 1, Team1: "PHI", Score1: 31, Team2: "DAL", Score2: 20, Kind: prediction.KindFinal}
	result := matchup.Result{Week: 1, HomeTeam: "PHI", HomeScore: 31, AwayTeam: "DAL", AwayScore: 20}

	if got := rubric.ScoreMatchup(pred, result).Sum(); got != 78 {
		t.Fatalf("perfect call = %v, want 78", got)
	}
}

func TestScoreMatchupWrongWinnerEarnsNoWinnerPoints(t *testing.T) {
	t.Parallel()

	rubric := DefaultRubric()
	pred := prediction.Prediction{Week: 2, Team1: "NYJ", Score1: 24, Team2: "NE", Score2: 20, Kind: prediction.KindFinal}
	result := matchup.Result{Week: 2, HomeTeam: "NYJ", HomeScore: 20, AwayTeam: "NE", AwayScore: 24}

	points := rubric.ScoreMatchup(pred, result)
	if points.Winner != 0 {
		t.Fatalf("winner points = %v, want 0 for wrong winner", points.Winner)
	}
}

func TestScoreMatchupWrongWinnerRightMarginKeepsSpreadPoints(t *testing.T) {
	t.Parallel()

	rubric := DefaultRubric()
	// Picked the loser but nailed the margin and the total: spread and
	// total points survive, winner and exact do not.
	pred := prediction.Prediction{Week: 6, Team1: "KC", Score1: 17, Team2: "BUF", Score2: 24, Kind: prediction.KindFinal}
	result := matchup.Result{Week: 6, HomeTeam: "KC", HomeScore: 24, AwayTeam: "BUF", AwayScore: 17}

	points := rubric.ScoreMatchup(pred, result)
	if points.Winner != 0 {
		t.Fatalf("winner points = %v, want 0 for wrong winner", points.Winner)
	}
	if points.Spread != 10 {
		t.Fatalf("spread points = %v, want 10 (margins match)", points.Spread)
	}
	if points.Total != 8 {
		t.Fatalf("total points = %v, want 8 (totals match)", points.Total)
	}
	if points.Exact != 0 {
		t.Fatalf("exact points = %v, want 0", points.Exact)
	}
	if got := points.Sum(); got != 18 {
		t.Fatalf("sum = %v, want 18", got)
	}
}

func TestScoreMatchupOrientsByTeamNotByColumnOrder(t *testing.T) {
	t.Parallel()

	rubric := DefaultRubric()
	// Prediction stored with teams swapped relative to the result row.
	pred := prediction.Prediction{Week: 4, Team1: "BUF", Score1: 17, Team2: "KC", Score2: 24, Kind: prediction.KindFinal}
	result := matchup.Result{Week: 4, HomeTeam: "KC", HomeScore: 24, AwayTeam: "BUF", AwayScore: 17}

	if got := rubric.ScoreMatchup(pred, result).Sum(); got != 78 {
		t.Fatalf("swapped orientation = %v, want 78", got)
	}
}

func TestScoreMatchupDifferentWeekScoresZero(t *testing.T) {
	t.Parallel()

	rubric := DefaultRubric()
	pred := prediction.Prediction{Week: 4, Team1: "KC", Score1: 24, Team2: "BUF", Score2: 17, Kind: prediction.KindFinal}
	result := matchup.Result{Week: 5, HomeTeam: "KC", HomeScore: 24, AwayTeam: "BUF", AwayScore: 17}

	if got := rubric.ScoreMatchup(pred, result).Sum(); got != 0 {
		t.Fatalf("mismatched week = %v, want 0", got)
	}
}

func TestScoreWeekSkipsUnmatchedPredictions(t *testing.T) {
	t.Parallel()

	rubric := DefaultRubric()
	preds := []prediction.Prediction{
		{Week: 3, Team1: "KC", Score1: 21, Team2: "BUF", Score2: 14, Kind: prediction.KindFinal},
		{Week: 3, Team1: "SEA", Score1: 20, Team2: "SF", Score2: 17, Kind: prediction.KindFinal},
	}
	results := []matchup.Result{
		{Week: 3, HomeTeam: "KC", HomeScore: 24, AwayTeam: "BUF", AwayScore: 17},
	}

	if got := rubric.ScoreWeek(preds, results); got != 25 {
		t.Fatalf("week score = %v, want 25 (unmatched prediction ignored)", got)
	}
}

func TestShouldScore(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name           string
		lastScoredWeek int
		currentWeek    int
		weekComplete   bool
		want           bool
	}{
		{"fresh week complete", 2, 3, true, true},
		{"already scored", 3, 3, true, false},
		{"week still running", 2, 3, false, false},
		{"already scored and running", 3, 3, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ShouldScore(tc.lastScoredWeek, tc.currentWeek, tc.weekComplete); got != tc.want {
				t.Fatalf("ShouldScore(%d, %d, %t) = %t, want %t", tc.lastScoredWeek, tc.currentWeek, tc.weekComplete, got, tc.want)
			}
		})
	}
}
