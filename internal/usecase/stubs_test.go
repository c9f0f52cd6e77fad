package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/gridironpicks/prediction-league/internal/domain/jobrun"
	"github.com/gridironpicks/prediction-league/internal/domain/league"
	"github.com/gridironpicks/prediction-league/internal/domain/matchup"
	"github.com/gridironpicks/prediction-league/internal/domain/prediction"
	"github.com/gridironpicks/prediction-league/internal/domain/scoring"
	"github.com/gridironpicks/prediction-league/internal/domain/standings"
	"github.com/gridironpicks/prediction-league/internal/domain/user"
)

// stubFeed serves a canned scoreboard and counts upstream hits.
type stubFeed struct {
	mu    sync.Mutex
	board matchup.Scoreboard
	err   error
	calls int
}

func (s *stubFeed) FetchScoreboard(_ context.Context) (matchup.Scoreboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return matchup.Scoreboard{}, s.err
	}
	return s.board, nil
}

func (s *stubFeed) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]user.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]user.User)}
}

func (r *memUserRepo) Upsert(_ context.Context, item user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.users[item.ID]; ok {
		existing.Username = item.Username
		existing.Email = item.Email
		r.users[item.ID] = existing
		return nil
	}
	r.users[item.ID] = item
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (user.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.users[id]
	return item, ok, nil
}

type memLeagueRepo struct {
	mu      sync.Mutex
	leagues map[string]league.League
	members map[string][]string
}

func newMemLeagueRepo() *memLeagueRepo {
	return &memLeagueRepo{
		leagues: make(map[string]league.League),
		members: make(map[string][]string),
	}
}

func (r *memLeagueRepo) Create(_ context.Context, item league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.leagues {
		if existing.JoinCode == item.JoinCode {
			return league.ErrJoinCodeExists
		}
	}
	r.leagues[item.ID] = item
	return nil
}

func (r *memLeagueRepo) GetByID(_ context.Context, id string) (league.League, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.leagues[id]
	return item, ok, nil
}

func (r *memLeagueRepo) GetByJoinCode(_ context.Context, joinCode string) (league.League, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.leagues {
		if item.JoinCode == joinCode {
			return item, true, nil
		}
	}
	return league.League{}, false, nil
}

func (r *memLeagueRepo) ListByUser(_ context.Context, userID string) ([]league.League, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]league.League, 0)
	for leagueID, userIDs := range r.members {
		for _, id := range userIDs {
			if id == userID {
				out = append(out, r.leagues[leagueID])
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memLeagueRepo) AddMember(_ context.Context, leagueID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[leagueID] = append(r.members[leagueID], userID)
	return nil
}

func (r *memLeagueRepo) IsMember(_ context.Context, leagueID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.members[leagueID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memLeagueRepo) ListMemberUserIDs(_ context.Context, leagueID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.members[leagueID]))
	copy(out, r.members[leagueID])
	return out, nil
}

type memPredictionRepo struct {
	mu   sync.Mutex
	rows []prediction.Prediction
}

func newMemPredictionRepo() *memPredictionRepo {
	return &memPredictionRepo{}
}

func (r *memPredictionRepo) ReplaceDrafts(_ context.Context, userID string, week int, items []prediction.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.UserID == userID && row.Week == week && row.Kind == prediction.KindDraft {
			continue
		}
		kept = append(kept, row)
	}
	r.rows = append(kept, items...)
	return nil
}

func (r *memPredictionRepo) SubmitFinal(_ context.Context, userID string, week int, items []prediction.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.UserID == userID && row.Week == week && row.Kind == prediction.KindFinal {
			return prediction.ErrFinalExists
		}
	}
	r.rows = append(r.rows, items...)
	return nil
}

func (r *memPredictionRepo) ListByUserWeek(_ context.Context, userID string, week int, kind prediction.Kind) ([]prediction.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]prediction.Prediction, 0)
	for _, row := range r.rows {
		if row.UserID == userID && row.Week == week && row.Kind == kind {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *memPredictionRepo) ListFinalsByUsers(_ context.Context, userIDs []string, week int) (map[string][]prediction.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = struct{}{}
	}
	out := make(map[string][]prediction.Prediction)
	for _, row := range r.rows {
		if row.Week != week || row.Kind != prediction.KindFinal {
			continue
		}
		if _, ok := wanted[row.UserID]; !ok {
			continue
		}
		out[row.UserID] = append(out[row.UserID], row)
	}
	return out, nil
}

func (r *memPredictionRepo) HasFinal(_ context.Context, userID string, week int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.UserID == userID && row.Week == week && row.Kind == prediction.KindFinal {
			return true, nil
		}
	}
	return false, nil
}

type memStandingsRepo struct {
	mu   sync.Mutex
	rows map[string][]standings.Entry
}

func newMemStandingsRepo() *memStandingsRepo {
	return &memStandingsRepo{rows: make(map[string][]standings.Entry)}
}

func (r *memStandingsRepo) ListByLeague(_ context.Context, leagueID string) ([]standings.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]standings.Entry, len(r.rows[leagueID]))
	copy(out, r.rows[leagueID])
	return out, nil
}

// memScoringRepo backs a full scoring pass in memory. Mutations are
// staged and only applied on commit, mirroring the transactional repo.
type memScoringRepo struct {
	mu           sync.Mutex
	marker       scoring.Marker
	finalsByUser map[string][]prediction.Prediction
	scores       map[string]float64
	purgedWeeks  []int
	failScore    error
}

func newMemScoringRepo() *memScoringRepo {
	return &memScoringRepo{
		finalsByUser: make(map[string][]prediction.Prediction),
		scores:       make(map[string]float64),
	}
}

func (r *memScoringRepo) Marker(_ context.Context) (scoring.Marker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.marker, nil
}

func (r *memScoringRepo) RunPass(ctx context.Context, fn func(ctx context.Context, pass scoring.Pass) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	staged := &memScoringPass{repo: r}
	if err := fn(ctx, staged); err != nil {
		return err
	}
	for userID, points := range staged.addedScores {
		r.scores[userID] += points
	}
	if staged.markerWeek != 0 {
		r.marker.LastScoredWeek = staged.markerWeek
	}
	r.purgedWeeks = append(r.purgedWeeks, staged.purgedWeeks...)
	return nil
}

type memScoringPass struct {
	repo        *memScoringRepo
	addedScores map[string]float64
	markerWeek  int
	purgedWeeks []int
}

func (p *memScoringPass) MarkerForUpdate(_ context.Context) (scoring.Marker, error) {
	return p.repo.marker, nil
}

func (p *memScoringPass) ListUsersWithFinals(_ context.Context, week int) ([]string, error) {
	out := make([]string, 0, len(p.repo.finalsByUser))
	for userID, finals := range p.repo.finalsByUser {
		for _, row := range finals {
			if row.Week == week {
				out = append(out, userID)
				break
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func (p *memScoringPass) ListFinals(_ context.Context, userID string, week int) ([]prediction.Prediction, error) {
	out := make([]prediction.Prediction, 0)
	for _, row := range p.repo.finalsByUser[userID] {
		if row.Week == week {
			out = append(out, row)
		}
	}
	return out, nil
}

func (p *memScoringPass) AddWeekScore(_ context.Context, userID string, points float64) error {
	if p.repo.failScore != nil {
		return p.repo.failScore
	}
	if p.addedScores == nil {
		p.addedScores = make(map[string]float64)
	}
	p.addedScores[userID] += points
	return nil
}

func (p *memScoringPass) AdvanceMarker(_ context.Context, week int) error {
	p.markerWeek = week
	return nil
}

func (p *memScoringPass) PurgeDrafts(_ context.Context, week int) error {
	p.purgedWeeks = append(p.purgedWeeks, week)
	return nil
}

type stubRunRepo struct {
	mu   sync.Mutex
	runs []jobrun.Run
}

func (r *stubRunRepo) Record(_ context.Context, run jobrun.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, run)
	return nil
}

func (r *stubRunRepo) recorded() []jobrun.Run {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]jobrun.Run, len(r.runs))
	copy(out, r.runs)
	return out
}

type stubEnsurer struct {
	mu       sync.Mutex
	err      error
	calls    int
	triggers []string
}

func (s *stubEnsurer) EnsureWeekScored(_ context.Context, trigger string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.triggers = append(s.triggers, trigger)
	return s.err
}

func (s *stubEnsurer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

var errStubFailure = errors.New("stub failure")

func finishedBoard(week int) matchup.Scoreboard {
	return matchup.Scoreboard{
		Week: week,
		Matchups: []matchup.Matchup{
			{Week: week, HomeTeam: "KC", AwayTeam: "BUF", HomeScore: 24, AwayScore: 17, Status: matchup.StatusFinal, Completed: true},
			{Week: week, HomeTeam: "SEA", AwayTeam: "SF", HomeScore: 20, AwayScore: 20, Status: matchup.StatusFinal, Completed: true},
		},
	}
}

func scheduledBoard(week int) matchup.Scoreboard {
	return matchup.Scoreboard{
		Week: week,
		Matchups: []matchup.Matchup{
			{Week: week, HomeTeam: "KC", AwayTeam: "BUF", Status: matchup.StatusScheduled},
			{Week: week, HomeTeam: "SEA", AwayTeam: "SF", Status: matchup.StatusScheduled},
		},
	}
}
