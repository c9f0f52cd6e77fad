package usecase

import (
	"context"
	"fmt"

	"github.com/gridironpicks/prediction-league/internal/domain/matchup"
	"github.com/gridironpicks/prediction-league/internal/platform/cache"
)

// ResultsFeed fetches the live scoreboard for the current week from the
// upstream provider.
type ResultsFeed interface {
	FetchScoreboard(ctx context.Context) (matchup.Scoreboard, error)
}

const scoreboardCacheKey = "scoreboard:current"

// ScoreboardService serves the current-week scoreboard, caching feed
// responses so every dashboard render does not hit the provider.
type ScoreboardService struct {
	feed  ResultsFeed
	cache *cache.Store
}

func NewScoreboardService(feed ResultsFeed, store *cache.Store) *ScoreboardService {
	return &ScoreboardService{
		feed:  feed,
		cache: store,
	}
}

func (s *ScoreboardService) Current(ctx context.Context) (matchup.Scoreboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreboardService.Current")
	defer span.End()

	if s.cache == nil {
		return s.fetch(ctx)
	}

	value, err := s.cache.GetOrLoad(ctx, scoreboardCacheKey, func(ctx context.Context) (any, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		return matchup.Scoreboard{}, err
	}

	board, ok := value.(matchup.Scoreboard)
	if !ok {
		return matchup.Scoreboard{}, fmt.Errorf("unexpected scoreboard cache entry of type %T", value)
	}
	return board, nil
}

func (s *ScoreboardService) fetch(ctx context.Context) (matchup.Scoreboard, error) {
	board, err := s.feed.FetchScoreboard(ctx)
	if err != nil {
		return matchup.Scoreboard{}, fmt.Errorf("fetch scoreboard: %w", err)
	}
	if board.Week <= 0 {
		return matchup.Scoreboard{}, fmt.Errorf("%w: scoreboard reported week %d", ErrDependencyUnavailable, board.Week)
	}
	return board, nil
}
