package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gridironpicks/prediction-league/internal/domain/league"
	"github.com/gridironpicks/prediction-league/internal/domain/prediction"
	"github.com/gridironpicks/prediction-league/internal/domain/standings"
	"github.com/gridironpicks/prediction-league/internal/domain/user"
	"github.com/gridironpicks/prediction-league/internal/platform/id"
	"github.com/gridironpicks/prediction-league/internal/platform/logging"
)

const generatedJoinCodeLength = 8

// weekScoreEnsurer lets read paths trigger the week gate check without
// depending on the full scoring service.
type weekScoreEnsurer interface {
	EnsureWeekScored(ctx context.Context, trigger string) error
}

// LeagueWeekBoard is the league board view for the current week: every
// member's submitted finals, visible only once the week has started.
type LeagueWeekBoard struct {
	League  league.League
	Week    int
	Started bool
	Members []MemberPicks
}

type MemberPicks struct {
	UserID    string
	Username  string
	Submitted bool
	Finals    []prediction.Prediction
}

type LeagueService struct {
	leagueRepo    league.Repository
	standingsRepo standings.Repository
	predRepo      prediction.Repository
	userRepo      user.Repository
	scoreboards   *ScoreboardService
	ensurer       weekScoreEnsurer
	idGen         id.Generator
	logger        *logging.Logger
	now           func() time.Time
}

func NewLeagueService(
	leagueRepo league.Repository,
	standingsRepo standings.Repository,
	predRepo prediction.Repository,
	userRepo user.Repository,
	scoreboards *ScoreboardService,
	ensurer weekScoreEnsurer,
	idGen id.Generator,
	logger *logging.Logger,
) *LeagueService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LeagueService{
		leagueRepo:    leagueRepo,
		standingsRepo: standingsRepo,
		predRepo:      predRepo,
		userRepo:      userRepo,
		scoreboards:   scoreboards,
		ensurer:       ensurer,
		idGen:         idGen,
		logger:        logger,
		now:           time.Now,
	}
}

// Create opens a new league with the caller as its first member. An
// empty join code gets a generated one; a caller-supplied code that is
// already taken fails with ErrJoinCodeTaken.
func (s *LeagueService) Create(ctx context.Context, principal user.Principal, name, joinCode string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Create")
	defer span.End()

	if _, err := ensureProfile(ctx, s.userRepo, principal, s.now().UTC()); err != nil {
		return league.League{}, err
	}

	leagueID, err := s.idGen.NewID()
	if err != nil {
		return league.League{}, fmt.Errorf("generate league id: %w", err)
	}

	item := league.League{
		ID:        leagueID,
		Name:      strings.TrimSpace(name),
		JoinCode:  strings.TrimSpace(joinCode),
		CreatedBy: principal.UserID,
		CreatedAt: s.now().UTC(),
	}

	generated := item.JoinCode == ""
	if generated {
		item.JoinCode, err = s.newJoinCode()
		if err != nil {
			return league.League{}, err
		}
	}
	if err := item.Validate(); err != nil {
		return league.League{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	for attempt := 0; ; attempt++ {
		err := s.leagueRepo.Create(ctx, item)
		if err == nil {
			break
		}
		if !errors.Is(err, league.ErrJoinCodeExists) {
			return league.League{}, fmt.Errorf("create league: %w", err)
		}
		if !generated {
			return league.League{}, fmt.Errorf("%w: %s", ErrJoinCodeTaken, item.JoinCode)
		}
		if attempt >= 2 {
			return league.League{}, fmt.Errorf("allocate join code: %w", err)
		}
		item.JoinCode, err = s.newJoinCode()
		if err != nil {
			return league.League{}, err
		}
	}

	if err := s.leagueRepo.AddMember(ctx, item.ID, principal.UserID); err != nil {
		return league.League{}, fmt.Errorf("add creator to league: %w", err)
	}

	s.logger.InfoContext(ctx, "league created",
		"league_id", item.ID,
		"created_by", principal.UserID,
	)
	return item, nil
}

// Join adds the caller to the league holding the join code.
func (s *LeagueService) Join(ctx context.Context, principal user.Principal, joinCode string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Join")
	defer span.End()

	if _, err := ensureProfile(ctx, s.userRepo, principal, s.now().UTC()); err != nil {
		return league.League{}, err
	}

	joinCode = strings.TrimSpace(joinCode)
	if err := league.ValidateJoinCode(joinCode); err != nil {
		return league.League{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	item, exists, err := s.leagueRepo.GetByJoinCode(ctx, joinCode)
	if err != nil {
		return league.League{}, fmt.Errorf("get league by join code: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: no league for join code", ErrNotFound)
	}

	member, err := s.leagueRepo.IsMember(ctx, item.ID, principal.UserID)
	if err != nil {
		return league.League{}, fmt.Errorf("check league membership: %w", err)
	}
	if member {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrAlreadyMember, item.ID)
	}

	if err := s.leagueRepo.AddMember(ctx, item.ID, principal.UserID); err != nil {
		return league.League{}, fmt.Errorf("join league: %w", err)
	}

	s.logger.InfoContext(ctx, "league joined",
		"league_id", item.ID,
		"user_id", principal.UserID,
	)
	return item, nil
}

// ListForUser returns every league the caller belongs to.
func (s *LeagueService) ListForUser(ctx context.Context, principal user.Principal) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListForUser")
	defer span.End()

	if _, err := ensureProfile(ctx, s.userRepo, principal, s.now().UTC()); err != nil {
		return nil, err
	}

	leagues, err := s.leagueRepo.ListByUser(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("list leagues by user: %w", err)
	}
	return leagues, nil
}

// Standings returns the league table, places assigned. Membership is
// required; non-members get not found so league existence is not leaked.
func (s *LeagueService) Standings(ctx context.Context, principal user.Principal, leagueID string) (league.League, []standings.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Standings")
	defer span.End()

	item, err := s.requireMembership(ctx, principal, leagueID)
	if err != nil {
		return league.League{}, nil, err
	}

	// Settle the week if it just finished, so the table never shows a
	// stale score when results are already in. Failures degrade to the
	// last persisted scores.
	if s.ensurer != nil {
		if err := s.ensurer.EnsureWeekScored(ctx, TriggerDashboard); err != nil {
			s.logger.WarnContext(ctx, "ensure week scored before standings failed",
				"error", err,
				"league_id", item.ID,
			)
		}
	}

	entries, err := s.standingsRepo.ListByLeague(ctx, item.ID)
	if err != nil {
		return league.League{}, nil, fmt.Errorf("list standings: %w", err)
	}
	standings.Sort(entries)

	return item, entries, nil
}

// WeekBoard returns every member's finals for the current week. Picks
// stay hidden until the week's first kickoff.
func (s *LeagueService) WeekBoard(ctx context.Context, principal user.Principal, leagueID string) (LeagueWeekBoard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.WeekBoard")
	defer span.End()

	item, err := s.requireMembership(ctx, principal, leagueID)
	if err != nil {
		return LeagueWeekBoard{}, err
	}

	board, err := s.scoreboards.Current(ctx)
	if err != nil {
		return LeagueWeekBoard{}, err
	}

	out := LeagueWeekBoard{
		League:  item,
		Week:    board.Week,
		Started: board.Started(),
	}
	if !out.Started {
		return out, nil
	}

	memberIDs, err := s.leagueRepo.ListMemberUserIDs(ctx, item.ID)
	if err != nil {
		return LeagueWeekBoard{}, fmt.Errorf("list league members: %w", err)
	}

	finalsByUser, err := s.predRepo.ListFinalsByUsers(ctx, memberIDs, board.Week)
	if err != nil {
		return LeagueWeekBoard{}, fmt.Errorf("list member finals week=%d: %w", board.Week, err)
	}

	out.Members = make([]MemberPicks, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		picks := MemberPicks{
			UserID: memberID,
			Finals: finalsByUser[memberID],
		}
		picks.Submitted = len(picks.Finals) > 0
		if profile, exists, err := s.userRepo.GetByID(ctx, memberID); err != nil {
			return LeagueWeekBoard{}, fmt.Errorf("get member profile user=%s: %w", memberID, err)
		} else if exists {
			picks.Username = profile.Username
		}
		out.Members = append(out.Members, picks)
	}

	return out, nil
}

func (s *LeagueService) requireMembership(ctx context.Context, principal user.Principal, leagueID string) (league.League, error) {
	if _, err := ensureProfile(ctx, s.userRepo, principal, s.now().UTC()); err != nil {
		return league.League{}, err
	}

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	item, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	member, err := s.leagueRepo.IsMember(ctx, item.ID, principal.UserID)
	if err != nil {
		return league.League{}, fmt.Errorf("check league membership: %w", err)
	}
	if !member {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	return item, nil
}

func (s *LeagueService) newJoinCode() (string, error) {
	raw, err := s.idGen.NewID()
	if err != nil {
		return "", fmt.Errorf("generate join code: %w", err)
	}
	if len(raw) > generatedJoinCodeLength {
		raw = raw[:generatedJoinCodeLength]
	}
	return strings.ToUpper(raw), nil
}
