package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/gridironpicks/prediction-league/internal/domain/jobrun"
	"github.com/gridironpicks/prediction-league/internal/domain/prediction"
	"github.com/gridironpicks/prediction-league/internal/domain/scoring"
)

func week3Finals(userID string) []prediction.Prediction {
	return []prediction.Prediction{
		{UserID: userID, Week: 3, Team1: "KC", Score1: 21, Team2: "BUF", Score2: 14, Kind: prediction.KindFinal},
	}
}

func TestScoringService_EnsureWeekScored_SettlesFinishedWeek(t *testing.T) {
	t.Parallel()

	feed := &stubFeed{board: finishedBoard(3)}
	repo := newMemScoringRepo()
	repo.marker = scoring.Marker{LastScoredWeek: 2}
	repo.finalsByUser["user-a"] = week3Finals("user-a")
	repo.finalsByUser["user-b"] = []prediction.Prediction{
		{UserID: "user-b", Week: 3, Team1: "SEA", Score1: 20, Team2: "SF", Score2: 20, Kind: prediction.KindFinal},
	}
	runs := &stubRunRepo{}

	service := NewScoringService(NewScoreboardService(feed, nil), repo, runs, nil, nil)

	if err := service.EnsureWeekScored(context.Background(), TriggerTicker); err != nil {
		t.Fatalf("EnsureWeekScored error: %v", err)
	}

	if got := repo.scores["user-a"]; got != 25 {
		t.Fatalf("user-a score = %v, want 25", got)
	}
	if got := repo.scores["user-b"]; got != 78 {
		t.Fatalf("user-b score = %v, want 78 for exact call", got)
	}
	if repo.marker.LastScoredWeek != 3 {
		t.Fatalf("marker = %d, want 3", repo.marker.LastScoredWeek)
	}
	if len(repo.purgedWeeks) != 1 || repo.purgedWeeks[0] != 3 {
		t.Fatalf("purged weeks = %v, want [3]", repo.purgedWeeks)
	}

	recorded := runs.recorded()
	if len(recorded) != 1 {
		t.Fatalf("recorded runs = %d, want 1", len(recorded))
	}
	run := recorded[0]
	if run.Outcome != jobrun.OutcomeScored || run.UsersScored != 2 || run.Week != 3 || run.Trigger != TriggerTicker {
		t.Fatalf("unexpected run: %+v", run)
	}
	if run.RunID == "" {
		t.Fatalf("run id must be set")
	}
}

func TestScoringService_ScoreWeek_RacingPassesSettleOnce(t *testing.T) {
	t.Parallel()

	feed := &stubFeed{board: finishedBoard(3)}
	repo := newMemScoringRepo()
	repo.marker = scoring.Marker{LastScoredWeek: 2}
	repo.finalsByUser["user-a"] = week3Finals("user-a")
	runs := &stubRunRepo{}

	service := NewScoringService(NewScoreboardService(feed, nil), repo, runs, nil, nil)

	// Two passes race on the same finished week. The stub serializes them
	// the way the row lock does, so the loser must see the advanced marker
	// on its re-check and leave without writing anything.
	board := finishedBoard(3)
	start := make(chan struct{})
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			<-start
			errs <- service.scoreWeek(context.Background(), board, TriggerTicker, service.now().UTC())
		}()
	}
	close(start)
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("scoreWeek error: %v", err)
		}
	}

	if got := repo.scores["user-a"]; got != 25 {
		t.Fatalf("user-a score = %v, want 25 applied exactly once", got)
	}
	if repo.marker.LastScoredWeek != 3 {
		t.Fatalf("marker = %d, want 3", repo.marker.LastScoredWeek)
	}
	if len(repo.purgedWeeks) != 1 || repo.purgedWeeks[0] != 3 {
		t.Fatalf("purged weeks = %v, want [3]", repo.purgedWeeks)
	}
	if recorded := runs.recorded(); len(recorded) != 1 {
		t.Fatalf("recorded runs = %d, want 1 (the losing pass is a no-op)", len(recorded))
	}
}

func TestScoringService_EnsureWeekScored_SkipsAlreadyScoredWeek(t *testing.T) {
	t.Parallel()

	feed := &stubFeed{board: finishedBoard(3)}
	repo := newMemScoringRepo()
	repo.marker = scoring.Marker{LastScoredWeek: 3}
	repo.finalsByUser["user-a"] = week3Finals("user-a")
	runs := &stubRunRepo{}

	service := NewScoringService(NewScoreboardService(feed, nil), repo, runs, nil, nil)

	// The second call lands inside the ensure interval and must not
	// even reach the feed.
	for i := 0; i < 2; i++ {
		if err := service.EnsureWeekScored(context.Background(), TriggerDashboard); err != nil {
			t.Fatalf("EnsureWeekScored error: %v", err)
		}
	}

	if len(repo.scores) != 0 {
		t.Fatalf("scores = %v, want none", repo.scores)
	}
	if len(runs.recorded()) != 0 {
		t.Fatalf("skipped gate checks must not be recorded")
	}
	if got := feed.callCount(); got != 1 {
		t.Fatalf("feed calls = %d, want 1", got)
	}
}

func TestScoringService_EnsureWeekScored_WaitsForWeekToFinish(t *testing.T) {
	t.Parallel()

	feed := &stubFeed{board: scheduledBoard(3)}
	repo := newMemScoringRepo()
	repo.marker = scoring.Marker{LastScoredWeek: 2}
	repo.finalsByUser["user-a"] = week3Finals("user-a")
	runs := &stubRunRepo{}

	service := NewScoringService(NewScoreboardService(feed, nil), repo, runs, nil, nil)

	if err := service.EnsureWeekScored(context.Background(), TriggerJob); err != nil {
		t.Fatalf("EnsureWeekScored error: %v", err)
	}
	if len(repo.scores) != 0 {
		t.Fatalf("scores = %v, want none while week is running", repo.scores)
	}
	if repo.marker.LastScoredWeek != 2 {
		t.Fatalf("marker = %d, want 2", repo.marker.LastScoredWeek)
	}
	if len(runs.recorded()) != 0 {
		t.Fatalf("no run must be recorded for a closed gate")
	}
}

func TestScoringService_EnsureWeekScored_FailedPassLeavesWeekEligible(t *testing.T) {
	t.Parallel()

	feed := &stubFeed{board: finishedBoard(3)}
	repo := newMemScoringRepo()
	repo.marker = scoring.Marker{LastScoredWeek: 2}
	repo.finalsByUser["user-a"] = week3Finals("user-a")
	repo.failScore = errStubFailure
	runs := &stubRunRepo{}

	service := NewScoringService(NewScoreboardService(feed, nil), repo, runs, nil, nil)

	if err := service.EnsureWeekScored(context.Background(), TriggerTicker); !errors.Is(err, errStubFailure) {
		t.Fatalf("err = %v, want wrapped stub failure", err)
	}
	if repo.marker.LastScoredWeek != 2 {
		t.Fatalf("marker = %d, want 2 after rollback", repo.marker.LastScoredWeek)
	}

	recorded := runs.recorded()
	if len(recorded) != 1 || recorded[0].Outcome != jobrun.OutcomeFailed {
		t.Fatalf("recorded runs = %+v, want one failed run", recorded)
	}
	if recorded[0].ErrorMessage == "" {
		t.Fatalf("failed run must carry the error message")
	}

	// A failed pass must not arm the ensure interval; the retry scores
	// the week.
	repo.failScore = nil
	if err := service.EnsureWeekScored(context.Background(), TriggerTicker); err != nil {
		t.Fatalf("retry error: %v", err)
	}
	if got := repo.scores["user-a"]; got != 25 {
		t.Fatalf("user-a score = %v, want 25 after retry", got)
	}
	if repo.marker.LastScoredWeek != 3 {
		t.Fatalf("marker = %d, want 3 after retry", repo.marker.LastScoredWeek)
	}
}
