package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gridironpicks/prediction-league/internal/domain/matchup"
	"github.com/gridironpicks/prediction-league/internal/domain/prediction"
	"github.com/gridironpicks/prediction-league/internal/domain/user"
	"github.com/gridironpicks/prediction-league/internal/platform/logging"
	"github.com/gridironpicks/prediction-league/internal/platform/resilience"
)

// PredictionPick is one matchup prediction as submitted by the user.
// Teams are matched against the current scoreboard, not trusted as-is.
type PredictionPick struct {
	Team1  string
	Score1 int
	Team2  string
	Score2 int
}

// WeekPicks is the picks-page view: the current scoreboard plus the
// caller's saved drafts and submitted finals for that week.
type WeekPicks struct {
	Week       int
	Started    bool
	Scoreboard matchup.Scoreboard
	Drafts     []prediction.Prediction
	Finals     []prediction.Prediction
	Submitted  bool
}

type PredictionService struct {
	scoreboards  *ScoreboardService
	predRepo     prediction.Repository
	userRepo     user.Repository
	logger       *logging.Logger
	now          func() time.Time
	submitFlight resilience.SingleFlight
}

func NewPredictionService(
	scoreboards *ScoreboardService,
	predRepo prediction.Repository,
	userRepo user.Repository,
	logger *logging.Logger,
) *PredictionService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &PredictionService{
		scoreboards: scoreboards,
		predRepo:    predRepo,
		userRepo:    userRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// SaveDraft replaces the caller's draft set for the current week. An
// empty set clears the drafts. Drafts are rejected once the week's first
// game has kicked off.
func (s *PredictionService) SaveDraft(ctx context.Context, principal user.Principal, picks []PredictionPick) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.SaveDraft")
	defer span.End()

	if _, err := ensureProfile(ctx, s.userRepo, principal, s.now().UTC()); err != nil {
		return 0, err
	}

	board, err := s.scoreboards.Current(ctx)
	if err != nil {
		return 0, err
	}
	if board.Started() {
		return 0, fmt.Errorf("%w: week %d", ErrWeekStarted, board.Week)
	}

	items, err := s.buildPredictions(principal.UserID, board, picks, prediction.KindDraft)
	if err != nil {
		return 0, err
	}

	if err := s.predRepo.ReplaceDrafts(ctx, principal.UserID, board.Week, items); err != nil {
		return 0, fmt.Errorf("replace drafts week=%d: %w", board.Week, err)
	}
	return board.Week, nil
}

// SubmitFinal writes the caller's final set for the current week. Finals
// are immutable: a second submission for the same week fails whole, and
// concurrent submissions collapse into one attempt.
func (s *PredictionService) SubmitFinal(ctx context.Context, principal user.Principal, picks []PredictionPick) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.SubmitFinal")
	defer span.End()

	if _, err := ensureProfile(ctx, s.userRepo, principal, s.now().UTC()); err != nil {
		return 0, err
	}
	if len(picks) == 0 {
		return 0, fmt.Errorf("%w: a final submission needs at least one prediction", ErrInvalidInput)
	}

	board, err := s.scoreboards.Current(ctx)
	if err != nil {
		return 0, err
	}
	if board.Started() {
		return 0, fmt.Errorf("%w: week %d", ErrWeekStarted, board.Week)
	}

	items, err := s.buildPredictions(principal.UserID, board, picks, prediction.KindFinal)
	if err != nil {
		return 0, err
	}

	key := fmt.Sprintf("predictions:final:%s:%d", principal.UserID, board.Week)
	_, err, _ = s.submitFlight.Do(key, func() (any, error) {
		exists, err := s.predRepo.HasFinal(ctx, principal.UserID, board.Week)
		if err != nil {
			return nil, fmt.Errorf("check existing final week=%d: %w", board.Week, err)
		}
		if exists {
			return nil, fmt.Errorf("%w: week %d", ErrAlreadySubmitted, board.Week)
		}

		if err := s.predRepo.SubmitFinal(ctx, principal.UserID, board.Week, items); err != nil {
			if errors.Is(err, prediction.ErrFinalExists) {
				return nil, fmt.Errorf("%w: week %d", ErrAlreadySubmitted, board.Week)
			}
			return nil, fmt.Errorf("submit final week=%d: %w", board.Week, err)
		}
		return nil, nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "final predictions submitted",
		"user_id", principal.UserID,
		"week", board.Week,
		"picks", len(items),
	)
	return board.Week, nil
}

// WeekPicks returns the picks-page view for the caller.
func (s *PredictionService) WeekPicks(ctx context.Context, principal user.Principal) (WeekPicks, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.WeekPicks")
	defer span.End()

	if _, err := ensureProfile(ctx, s.userRepo, principal, s.now().UTC()); err != nil {
		return WeekPicks{}, err
	}

	board, err := s.scoreboards.Current(ctx)
	if err != nil {
		return WeekPicks{}, err
	}

	drafts, err := s.predRepo.ListByUserWeek(ctx, principal.UserID, board.Week, prediction.KindDraft)
	if err != nil {
		return WeekPicks{}, fmt.Errorf("list drafts week=%d: %w", board.Week, err)
	}
	finals, err := s.predRepo.ListByUserWeek(ctx, principal.UserID, board.Week, prediction.KindFinal)
	if err != nil {
		return WeekPicks{}, fmt.Errorf("list finals week=%d: %w", board.Week, err)
	}

	return WeekPicks{
		Week:       board.Week,
		Started:    board.Started(),
		Scoreboard: board,
		Drafts:     drafts,
		Finals:     finals,
		Submitted:  len(finals) > 0,
	}, nil
}

// buildPredictions validates picks against the scoreboard and stamps
// them with the caller, week, and kind. Every pick must name a matchup
// on the board, and no matchup may be picked twice.
func (s *PredictionService) buildPredictions(userID string, board matchup.Scoreboard, picks []PredictionPick, kind prediction.Kind) ([]prediction.Prediction, error) {
	now := s.now().UTC()
	seen := make(map[matchup.Key]struct{}, len(picks))
	items := make([]prediction.Prediction, 0, len(picks))

	for _, pick := range picks {
		item := prediction.Prediction{
			UserID:    userID,
			Week:      board.Week,
			Team1:     pick.Team1,
			Score1:    pick.Score1,
			Team2:     pick.Team2,
			Score2:    pick.Score2,
			Kind:      kind,
			CreatedAt: now,
		}
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
		}
		if _, ok := board.Find(item.Team1, item.Team2); !ok {
			return nil, fmt.Errorf("%w: no week %d matchup between %s and %s", ErrInvalidInput, board.Week, item.Team1, item.Team2)
		}

		key := item.Key()
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: duplicate prediction for %s vs %s", ErrInvalidInput, item.Team1, item.Team2)
		}
		seen[key] = struct{}{}
		items = append(items, item)
	}

	return items, nil
}
