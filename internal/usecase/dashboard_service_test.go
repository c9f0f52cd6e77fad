package usecase

import (
	"context"
	"testing"

	"github.com/gridironpicks/prediction-league/internal/domain/league"
	"github.com/gridironpicks/prediction-league/internal/domain/prediction"
	"github.com/gridironpicks/prediction-league/internal/domain/standings"
)

type dashboardFixture struct {
	service   *DashboardService
	feed      *stubFeed
	ensurer   *stubEnsurer
	leagues   *memLeagueRepo
	standings *memStandingsRepo
	preds     *memPredictionRepo
	users     *memUserRepo
}

func newDashboardFixture() *dashboardFixture {
	f := &dashboardFixture{
		feed:      &stubFeed{board: scheduledBoard(4)},
		ensurer:   &stubEnsurer{},
		leagues:   newMemLeagueRepo(),
		standings: newMemStandingsRepo(),
		preds:     newMemPredictionRepo(),
		users:     newMemUserRepo(),
	}
	f.service = NewDashboardService(
		NewScoreboardService(f.feed, nil),
		f.ensurer,
		f.leagues,
		f.standings,
		f.preds,
		f.users,
		nil,
	)
	return f
}

func TestDashboardService_Get(t *testing.T) {
	t.Parallel()

	f := newDashboardFixture()
	f.leagues.leagues["lg-1"] = league.League{ID: "lg-1", Name: "Office Pool", JoinCode: "GRIDIRON"}
	f.leagues.members["lg-1"] = []string{"user-1", "user-2"}
	f.standings.rows["lg-1"] = []standings.Entry{
		{UserID: "user-1", Username: "sam", Score: 40},
		{UserID: "user-2", Username: "alex", Score: 62.5},
	}
	f.preds.rows = []prediction.Prediction{
		{UserID: "user-1", Week: 4, Team1: "KC", Score1: 27, Team2: "BUF", Score2: 24, Kind: prediction.KindFinal},
	}

	view, err := f.service.Get(context.Background(), testPrincipal)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}

	if !view.FeedAvailable || view.Week != 4 || view.WeekStarted {
		t.Fatalf("unexpected view header: %+v", view)
	}
	if !view.Submitted {
		t.Fatalf("submitted flag must reflect the stored final")
	}
	if view.User.ID != "user-1" || view.User.Username != "sam" {
		t.Fatalf("unexpected profile: %+v", view.User)
	}

	if len(view.Leagues) != 1 {
		t.Fatalf("leagues = %d, want 1", len(view.Leagues))
	}
	row := view.Leagues[0]
	if row.League.ID != "lg-1" || row.Members != 2 {
		t.Fatalf("unexpected league row: %+v", row)
	}
	if row.Score != 40 || row.Place != 2 {
		t.Fatalf("score/place = %v/%d, want 40/2", row.Score, row.Place)
	}

	if f.ensurer.callCount() != 1 {
		t.Fatalf("ensure calls = %d, want 1", f.ensurer.callCount())
	}
}

func TestDashboardService_Get_DegradesWhenFeedIsDown(t *testing.T) {
	t.Parallel()

	f := newDashboardFixture()
	f.feed.err = errStubFailure
	f.leagues.leagues["lg-1"] = league.League{ID: "lg-1", Name: "Office Pool", JoinCode: "GRIDIRON"}
	f.leagues.members["lg-1"] = []string{"user-1"}
	f.standings.rows["lg-1"] = []standings.Entry{
		{UserID: "user-1", Username: "sam", Score: 40},
	}

	view, err := f.service.Get(context.Background(), testPrincipal)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if view.FeedAvailable || view.Week != 0 {
		t.Fatalf("feed section must degrade: %+v", view)
	}
	if len(view.Leagues) != 1 || view.Leagues[0].Score != 40 {
		t.Fatalf("league tables must survive a dead feed: %+v", view.Leagues)
	}
}

func TestDashboardService_Get_SurvivesEnsureFailure(t *testing.T) {
	t.Parallel()

	f := newDashboardFixture()
	f.ensurer.err = errStubFailure

	view, err := f.service.Get(context.Background(), testPrincipal)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !view.FeedAvailable {
		t.Fatalf("ensure failure must not block the scoreboard: %+v", view)
	}
}
