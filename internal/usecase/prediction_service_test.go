package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/gridironpicks/prediction-league/internal/domain/prediction"
	"github.com/gridironpicks/prediction-league/internal/domain/user"
)

var testPrincipal = user.Principal{UserID: "user-1", Username: "sam", Email: "sam@example.com"}

func newPredictionService(feed *stubFeed, predRepo *memPredictionRepo) *PredictionService {
	return NewPredictionService(NewScoreboardService(feed, nil), predRepo, newMemUserRepo(), nil)
}

func TestPredictionService_SaveDraft_ReplacesDraftSet(t *testing.T) {
	t.Parallel()

	feed := &stubFeed{board: scheduledBoard(4)}
	predRepo := newMemPredictionRepo()
	service := newPredictionService(feed, predRepo)

	week, err := service.SaveDraft(context.Background(), testPrincipal, []PredictionPick{
		{Team1: "KC", Score1: 27, Team2: "BUF", Score2: 24},
		{Team1: "SEA", Score1: 17, Team2: "SF", Score2: 13},
	})
	if err != nil {
		t.Fatalf("SaveDraft error: %v", err)
	}
	if week != 4 {
		t.Fatalf("week = %d, want 4", week)
	}

	// Saving again replaces the whole set.
	if _, err := service.SaveDraft(context.Background(), testPrincipal, []PredictionPick{
		{Team1: "KC", Score1: 30, Team2: "BUF", Score2: 10},
	}); err != nil {
		t.Fatalf("second SaveDraft error: %v", err)
	}

	drafts, err := predRepo.ListByUserWeek(context.Background(), testPrincipal.UserID, 4, prediction.KindDraft)
	if err != nil {
		t.Fatalf("ListByUserWeek error: %v", err)
	}
	if len(drafts) != 1 || drafts[0].Score1 != 30 {
		t.Fatalf("drafts = %+v, want single replaced draft", drafts)
	}
}

func TestPredictionService_SaveDraft_RejectedOnceWeekStarted(t *testing.T) {
	t.Parallel()

	feed := &stubFeed{board: finishedBoard(4)}
	service := newPredictionService(feed, newMemPredictionRepo())

	_, err := service.SaveDraft(context.Background(), testPrincipal, []PredictionPick{
		{Team1: "KC", Score1: 27, Team2: "BUF", Score2: 24},
	})
	if !errors.Is(err, ErrWeekStarted) {
		t.Fatalf("err = %v, want ErrWeekStarted", err)
	}
}

func TestPredictionService_SaveDraft_RejectsUnknownMatchup(t *testing.T) {
	t.Parallel()

	feed := &stubFeed{board: scheduledBoard(4)}
	service := newPredictionService(feed, newMemPredictionRepo())

	_, err := service.SaveDraft(context.Background(), testPrincipal, []PredictionPick{
		{Team1: "KC", Score1: 27, Team2: "SEA", Score2: 24},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput for unknown pair", err)
	}
}

func TestPredictionService_SubmitFinal_WritesOnce(t *testing.T) {
	t.Parallel()

	feed := &stubFeed{board: scheduledBoard(4)}
	predRepo := newMemPredictionRepo()
	service := newPredictionService(feed, predRepo)

	picks := []PredictionPick{
		{Team1: "KC", Score1: 27, Team2: "BUF", Score2: 24},
		{Team1: "SEA", Score1: 17, Team2: "SF", Score2: 13},
	}
	if _, err := service.SubmitFinal(context.Background(), testPrincipal, picks); err != nil {
		t.Fatalf("SubmitFinal error: %v", err)
	}

	has, err := predRepo.HasFinal(context.Background(), testPrincipal.UserID, 4)
	if err != nil {
		t.Fatalf("HasFinal error: %v", err)
	}
	if !has {
		t.Fatalf("expected finals stored for week 4")
	}

	_, err = service.SubmitFinal(context.Background(), testPrincipal, picks)
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("err = %v, want ErrAlreadySubmitted", err)
	}
}

func TestPredictionService_SubmitFinal_RequiresPicks(t *testing.T) {
	t.Parallel()

	feed := &stubFeed{board: scheduledBoard(4)}
	service := newPredictionService(feed, newMemPredictionRepo())

	_, err := service.SubmitFinal(context.Background(), testPrincipal, nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput for empty submission", err)
	}
}

func TestPredictionService_SubmitFinal_RejectsDuplicatePair(t *testing.T) {
	t.Parallel()

	feed := &stubFeed{board: scheduledBoard(4)}
	service := newPredictionService(feed, newMemPredictionRepo())

	_, err := service.SubmitFinal(context.Background(), testPrincipal, []PredictionPick{
		{Team1: "KC", Score1: 27, Team2: "BUF", Score2: 24},
		{Team1: "BUF", Score1: 20, Team2: "KC", Score2: 21},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput for duplicate pair", err)
	}
}

func TestPredictionService_WeekPicks(t *testing.T) {
	t.Parallel()

	feed := &stubFeed{board: scheduledBoard(6)}
	predRepo := newMemPredictionRepo()
	service := newPredictionService(feed, predRepo)

	if _, err := service.SaveDraft(context.Background(), testPrincipal, []PredictionPick{
		{Team1: "KC", Score1: 27, Team2: "BUF", Score2: 24},
	}); err != nil {
		t.Fatalf("SaveDraft error: %v", err)
	}

	view, err := service.WeekPicks(context.Background(), testPrincipal)
	if err != nil {
		t.Fatalf("WeekPicks error: %v", err)
	}
	if view.Week != 6 || view.Started {
		t.Fatalf("unexpected view header: %+v", view)
	}
	if len(view.Drafts) != 1 || view.Submitted {
		t.Fatalf("view = %+v, want one draft and no finals", view)
	}
}
