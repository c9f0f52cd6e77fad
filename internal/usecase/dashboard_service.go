package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/gridironpicks/prediction-league/internal/domain/league"
	"github.com/gridironpicks/prediction-league/internal/domain/matchup"
	"github.com/gridironpicks/prediction-league/internal/domain/prediction"
	"github.com/gridironpicks/prediction-league/internal/domain/standings"
	"github.com/gridironpicks/prediction-league/internal/domain/user"
	"github.com/gridironpicks/prediction-league/internal/platform/logging"
)

// Dashboard is the landing-page view: the current scoreboard, whether
// the caller has submitted this week, and their position in every
// league they belong to.
type Dashboard struct {
	User          user.User
	Week          int
	WeekStarted   bool
	FeedAvailable bool
	Scoreboard    matchup.Scoreboard
	Submitted     bool
	Leagues       []DashboardLeague
}

type DashboardLeague struct {
	League  league.League
	Members int
	Score   float64
	Place   int
}

type DashboardService struct {
	scoreboards   *ScoreboardService
	ensurer       weekScoreEnsurer
	leagueRepo    league.Repository
	standingsRepo standings.Repository
	predRepo      prediction.Repository
	userRepo      user.Repository
	logger        *logging.Logger
	now           func() time.Time
}

func NewDashboardService(
	scoreboards *ScoreboardService,
	ensurer weekScoreEnsurer,
	leagueRepo league.Repository,
	standingsRepo standings.Repository,
	predRepo prediction.Repository,
	userRepo user.Repository,
	logger *logging.Logger,
) *DashboardService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &DashboardService{
		scoreboards:   scoreboards,
		ensurer:       ensurer,
		leagueRepo:    leagueRepo,
		standingsRepo: standingsRepo,
		predRepo:      predRepo,
		userRepo:      userRepo,
		logger:        logger,
		now:           time.Now,
	}
}

// Get builds the caller's dashboard. Every render runs the week gate
// check first, so a finished week gets settled by whoever loads the
// page next. A dead results feed degrades the scoreboard section but
// never blanks the league tables.
func (s *DashboardService) Get(ctx context.Context, principal user.Principal) (Dashboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.Get")
	defer span.End()

	profile, err := ensureProfile(ctx, s.userRepo, principal, s.now().UTC())
	if err != nil {
		return Dashboard{}, err
	}

	if s.ensurer != nil {
		if err := s.ensurer.EnsureWeekScored(ctx, TriggerDashboard); err != nil {
			s.logger.WarnContext(ctx, "ensure week scored before dashboard failed",
				"error", err,
				"user_id", principal.UserID,
			)
		}
	}

	out := Dashboard{User: profile}

	board, boardErr := s.scoreboards.Current(ctx)
	if boardErr != nil {
		s.logger.WarnContext(ctx, "scoreboard unavailable for dashboard",
			"error", boardErr,
			"user_id", principal.UserID,
		)
	} else {
		out.Week = board.Week
		out.WeekStarted = board.Started()
		out.FeedAvailable = true
		out.Scoreboard = board

		submitted, err := s.predRepo.HasFinal(ctx, principal.UserID, board.Week)
		if err != nil {
			return Dashboard{}, fmt.Errorf("check submitted final week=%d: %w", board.Week, err)
		}
		out.Submitted = submitted
	}

	leagues, err := s.leagueRepo.ListByUser(ctx, principal.UserID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list leagues by user: %w", err)
	}

	out.Leagues = make([]DashboardLeague, 0, len(leagues))
	for _, item := range leagues {
		entries, err := s.standingsRepo.ListByLeague(ctx, item.ID)
		if err != nil {
			return Dashboard{}, fmt.Errorf("list standings league=%s: %w", item.ID, err)
		}
		standings.Sort(entries)

		row := DashboardLeague{
			League:  item,
			Members: len(entries),
			Place:   standings.PlaceOf(entries, principal.UserID),
		}
		for _, entry := range entries {
			if entry.UserID == principal.UserID {
				row.Score = entry.Score
				break
			}
		}
		out.Leagues = append(out.Leagues, row)
	}

	return out, nil
}
