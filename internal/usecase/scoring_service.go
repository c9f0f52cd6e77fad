package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/trace"

	"github.com/gridironpicks/prediction-league/internal/domain/jobrun"
	"github.com/gridironpicks/prediction-league/internal/domain/matchup"
	"github.com/gridironpicks/prediction-league/internal/domain/prediction"
	"github.com/gridironpicks/prediction-league/internal/domain/scoring"
	"github.com/gridironpicks/prediction-league/internal/platform/id"
	"github.com/gridironpicks/prediction-league/internal/platform/logging"
	"github.com/gridironpicks/prediction-league/internal/platform/resilience"
)

const (
	defaultScoringEnsureInterval = 30 * time.Second
	defaultScoringWorkers        = 8
)

// Trigger labels recorded on scoring run audit rows.
const (
	TriggerDashboard = "dashboard"
	TriggerTicker    = "ticker"
	TriggerJob       = "internal-job"
)

// ScoringService settles finished weeks. A week is settled at most once:
// the marker row records the last scored week and is only advanced inside
// the same transaction that writes the scores, so a rolled-back pass
// leaves the week eligible for the next attempt.
type ScoringService struct {
	scoreboards    *ScoreboardService
	scoringRepo    scoring.Repository
	runRepo        jobrun.Repository
	idGen          id.Generator
	rubric         scoring.Rubric
	logger         *logging.Logger
	workers        int
	now            func() time.Time
	ensureFlight   resilience.SingleFlight
	ensureMu       sync.Mutex
	lastEnsureAt   time.Time
	ensureInterval time.Duration
}

func NewScoringService(
	scoreboards *ScoreboardService,
	scoringRepo scoring.Repository,
	runRepo jobrun.Repository,
	idGen id.Generator,
	logger *logging.Logger,
) *ScoringService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ScoringService{
		scoreboards:    scoreboards,
		scoringRepo:    scoringRepo,
		runRepo:        runRepo,
		idGen:          idGen,
		rubric:         scoring.DefaultRubric(),
		logger:         logger,
		workers:        defaultScoringWorkers,
		now:            time.Now,
		ensureInterval: defaultScoringEnsureInterval,
	}
}

// SetEnsureInterval adjusts how long gate checks are suppressed after a
// completed ensure. Zero or negative disables the suppression.
func (s *ScoringService) SetEnsureInterval(interval time.Duration) {
	s.ensureMu.Lock()
	s.ensureInterval = interval
	s.ensureMu.Unlock()
}

// EnsureWeekScored checks the week gate and runs a scoring pass when the
// current week is complete and not yet scored. Concurrent callers share
// one in-flight check; callers within the ensure interval of the last
// completed check return immediately.
func (s *ScoringService) EnsureWeekScored(ctx context.Context, trigger string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.EnsureWeekScored")
	defer span.End()

	now := s.now().UTC()
	if s.shouldSkipEnsure(now) {
		return nil
	}

	_, err, _ := s.ensureFlight.Do("scoring:ensure", func() (any, error) {
		runNow := s.now().UTC()
		if s.shouldSkipEnsure(runNow) {
			return nil, nil
		}

		board, err := s.scoreboards.Current(ctx)
		if err != nil {
			return nil, err
		}

		marker, err := s.scoringRepo.Marker(ctx)
		if err != nil {
			return nil, fmt.Errorf("read scoring marker: %w", err)
		}
		if !scoring.ShouldScore(marker.LastScoredWeek, board.Week, board.Finished()) {
			s.markEnsure(runNow)
			return nil, nil
		}

		if err := s.scoreWeek(ctx, board, trigger, runNow); err != nil {
			return nil, err
		}
		s.markEnsure(runNow)
		return nil, nil
	})
	return err
}

// scoreWeek runs the transactional scoring pass for the board's week and
// records the run outcome. The marker is re-checked under lock so two
// passes racing on the same week settle it exactly once.
func (s *ScoringService) scoreWeek(ctx context.Context, board matchup.Scoreboard, trigger string, startedAt time.Time) error {
	results := board.Results()

	usersScored := 0
	applied := false
	passErr := s.scoringRepo.RunPass(ctx, func(ctx context.Context, pass scoring.Pass) error {
		marker, err := pass.MarkerForUpdate(ctx)
		if err != nil {
			return fmt.Errorf("lock scoring marker: %w", err)
		}
		if !scoring.ShouldScore(marker.LastScoredWeek, board.Week, true) {
			// Another pass settled the week while we waited on the lock.
			return nil
		}

		userIDs, err := pass.ListUsersWithFinals(ctx, board.Week)
		if err != nil {
			return fmt.Errorf("list users with finals week=%d: %w", board.Week, err)
		}

		finalsByUser := make(map[string][]prediction.Prediction, len(userIDs))
		for _, userID := range userIDs {
			finals, err := pass.ListFinals(ctx, userID, board.Week)
			if err != nil {
				return fmt.Errorf("list finals user=%s week=%d: %w", userID, board.Week, err)
			}
			finalsByUser[userID] = finals
		}

		scores, err := s.computeWeekScores(finalsByUser, results)
		if err != nil {
			return err
		}

		sort.Strings(userIDs)
		for _, userID := range userIDs {
			if err := pass.AddWeekScore(ctx, userID, scores[userID]); err != nil {
				return fmt.Errorf("add week score user=%s: %w", userID, err)
			}
		}

		if err := pass.AdvanceMarker(ctx, board.Week); err != nil {
			return fmt.Errorf("advance scoring marker to week=%d: %w", board.Week, err)
		}
		if err := pass.PurgeDrafts(ctx, board.Week); err != nil {
			return fmt.Errorf("purge drafts week=%d: %w", board.Week, err)
		}

		usersScored = len(userIDs)
		applied = true
		return nil
	})

	if applied || passErr != nil {
		s.recordRun(ctx, trigger, board.Week, usersScored, startedAt, passErr)
	}
	if passErr != nil {
		return passErr
	}
	if applied {
		s.logger.InfoContext(ctx, "week scored",
			"week", board.Week,
			"users_scored", usersScored,
			"trigger", trigger,
		)
	}
	return nil
}

// computeWeekScores grades every user's final set against the settled
// results. Grading is pure in-memory work, so it fans out over a bounded
// worker pool while the surrounding transaction stays single-threaded.
func (s *ScoringService) computeWeekScores(finalsByUser map[string][]prediction.Prediction, results []matchup.Result) (map[string]float64, error) {
	out := make(map[string]float64, len(finalsByUser))
	if len(finalsByUser) == 0 {
		return out, nil
	}

	workers := s.workers
	if workers <= 0 {
		workers = defaultScoringWorkers
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create scoring worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for userID, finals := range finalsByUser {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			points := s.rubric.ScoreWeek(finals, results)
			mu.Lock()
			out[userID] = points
			mu.Unlock()
		}
		if submitErr := pool.Submit(task); submitErr != nil {
			// Pool rejected the task; grade inline instead.
			task()
		}
	}
	wg.Wait()

	return out, nil
}

func (s *ScoringService) recordRun(ctx context.Context, trigger string, week, usersScored int, startedAt time.Time, passErr error) {
	if s.runRepo == nil {
		return
	}

	runID, err := s.idGen.NewID()
	if err != nil {
		s.logger.WarnContext(ctx, "generate scoring run id failed", "error", err)
		return
	}

	run := jobrun.Run{
		RunID:       runID,
		Trigger:     trigger,
		Week:        week,
		Outcome:     jobrun.OutcomeScored,
		UsersScored: usersScored,
		StartedAt:   startedAt,
		FinishedAt:  s.now().UTC(),
	}
	if passErr != nil {
		run.Outcome = jobrun.OutcomeFailed
		run.ErrorMessage = passErr.Error()
	}
	if spanCtx := trace.SpanFromContext(ctx).SpanContext(); spanCtx.IsValid() {
		run.TraceID = spanCtx.TraceID().String()
		run.SpanID = spanCtx.SpanID().String()
	}

	if err := s.runRepo.Record(ctx, run); err != nil {
		s.logger.WarnContext(ctx, "record scoring run failed",
			"error", err,
			"week", week,
			"trigger", trigger,
		)
	}
}

func (s *ScoringService) shouldSkipEnsure(now time.Time) bool {
	s.ensureMu.Lock()
	defer s.ensureMu.Unlock()
	if s.ensureInterval <= 0 || s.lastEnsureAt.IsZero() {
		return false
	}
	return now.Sub(s.lastEnsureAt) < s.ensureInterval
}

func (s *ScoringService) markEnsure(now time.Time) {
	s.ensureMu.Lock()
	s.lastEnsureAt = now
	s.ensureMu.Unlock()
}
