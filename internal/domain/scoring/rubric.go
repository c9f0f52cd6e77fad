package scoring

import (
	"math"
	"strings"

	"github.com/gridironpicks/prediction-league/internal/domain/matchup"
	"github.com/gridironpicks/prediction-league/internal/domain/prediction"
)

// Rubric stores the point values awarded per matchup. A perfect call
// (right winner, exact spread, exact total, exact scores) is worth 78.
type Rubric struct {
	WinnerPoints   float64
	TieConsolation float64
	SpreadWindow   float64
	TotalWindow    float64
	TotalBase      float64
	TotalStep      float64
	ExactBonus     float64
}

func DefaultRubric() Rubric {
	return Rubric{
		WinnerPoints:   10,
		TieConsolation: 5,
		SpreadWindow:   10,
		TotalWindow:    16,
		TotalBase:      8,
		TotalStep:      0.5,
		ExactBonus:     50,
	}
}

// MatchupPoints is the per-component breakdown for one scored matchup.
type MatchupPoints struct {
	Winner float64
	Spread float64
	Total  float64
	Exact  float64
}

func (p MatchupPoints) Sum() float64 {
	return p.Winner + p.Spread + p.Total + p.Exact
}

// ScoreMatchup grades one final prediction against the settled result.
// The prediction is oriented to the result by team before comparing, so
// the stored column order never matters.
func (r Rubric) ScoreMatchup(pred prediction.Prediction, result matchup.Result) MatchupPoints {
	predHome, predAway, ok := orientPrediction(pred, result)
	if !ok {
		return MatchupPoints{}
	}

	var points MatchupPoints

	switch {
	case sign(predHome-predAway) == sign(result.HomeScore-result.AwayScore):
		points.Winner = r.WinnerPoints
	case result.HomeScore == result.AwayScore:
		// Ties are near-impossible to call; missing one costs half.
		points.Winner = r.TieConsolation
	}

	// Spread compares margins of victory, not signed differences: calling
	// the right margin for the wrong winner still earns the full window.
	predSpread := math.Abs(float64(predHome - predAway))
	actualSpread := math.Abs(float64(result.HomeScore - result.AwayScore))
	spreadDiff := math.Abs(predSpread - actualSpread)
	if spreadDiff < r.SpreadWindow {
		points.Spread = r.SpreadWindow - spreadDiff
	}

	totalDiff := math.Abs(float64((predHome + predAway) - (result.HomeScore + result.AwayScore)))
	if totalDiff < r.TotalWindow {
		points.Total = r.TotalBase - r.TotalStep*totalDiff
	}

	if predHome == result.HomeScore && predAway == result.AwayScore {
		points.Exact = r.ExactBonus
	}

	return points
}

// ScoreWeek sums matchup points for one user's final set. Predictions
// are matched to results by (week, team pair); a prediction with no
// settled result contributes nothing.
func (r Rubric) ScoreWeek(preds []prediction.Prediction, results []matchup.Result) float64 {
	byKey := make(map[matchup.Key]matchup.Result, len(results))
	for _, res := range results {
		byKey[res.Key()] = res
	}

	var total float64
	for _, pred := range preds {
		result, ok := byKey[pred.Key()]
		if !ok {
			continue
		}
		total += r.ScoreMatchup(pred, result).Sum()
	}
	return total
}

func orientPrediction(pred prediction.Prediction, result matchup.Result) (home, away int, ok bool) {
	if pred.Key() != result.Key() {
		return 0, 0, false
	}
	if equalTeam(pred.Team1, result.HomeTeam) {
		return pred.Score1, pred.Score2, true
	}
	return pred.Score2, pred.Score1, true
}

func equalTeam(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
