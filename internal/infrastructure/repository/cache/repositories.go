package cache

import (
	"context"

	"github.com/gridironpicks/prediction-league/internal/domain/league"
	"github.com/gridironpicks/prediction-league/internal/domain/standings"
	"github.com/gridironpicks/prediction-league/internal/domain/user"
	basecache "github.com/gridironpicks/prediction-league/internal/platform/cache"
)

type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) Create(ctx context.Context, item league.League) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, leagueByIDKey(item.ID))
	r.cache.Delete(ctx, leagueByJoinCodeKey(item.JoinCode))
	r.cache.Delete(ctx, leagueListByUserKey(item.CreatedBy))
	return nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, id string) (league.League, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueByIDKey(id), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedLeague{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeague)
	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) GetByJoinCode(ctx context.Context, joinCode string) (league.League, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueByJoinCodeKey(joinCode), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByJoinCode(ctx, joinCode)
		if err != nil {
			return nil, err
		}
		return cachedLeague{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeague)
	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) ListByUser(ctx context.Context, userID string) ([]league.League, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueListByUserKey(userID), func(ctx context.Context) (any, error) {
		items, err := r.next.ListByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		return append([]league.League(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.League)
	return append([]league.League(nil), items...), nil
}

func (r *LeagueRepository) AddMember(ctx context.Context, leagueID, userID string) error {
	if err := r.next.AddMember(ctx, leagueID, userID); err != nil {
		return err
	}
	r.cache.Delete(ctx, leagueListByUserKey(userID))
	r.cache.Delete(ctx, leagueIsMemberKey(leagueID, userID))
	r.cache.Delete(ctx, leagueMemberIDsKey(leagueID))
	return nil
}

func (r *LeagueRepository) IsMember(ctx context.Context, leagueID, userID string) (bool, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueIsMemberKey(leagueID, userID), func(ctx context.Context) (any, error) {
		isMember, err := r.next.IsMember(ctx, leagueID, userID)
		if err != nil {
			return nil, err
		}
		return isMember, nil
	})
	if err != nil {
		return false, err
	}

	isMember, _ := v.(bool)
	return isMember, nil
}

func (r *LeagueRepository) ListMemberUserIDs(ctx context.Context, leagueID string) ([]string, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueMemberIDsKey(leagueID), func(ctx context.Context) (any, error) {
		userIDs, err := r.next.ListMemberUserIDs(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return append([]string(nil), userIDs...), nil
	})
	if err != nil {
		return nil, err
	}

	userIDs, _ := v.([]string)
	return append([]string(nil), userIDs...), nil
}

type cachedLeague struct {
	value  league.League
	exists bool
}

func leagueByIDKey(id string) string {
	return "league:id:" + id
}

func leagueByJoinCodeKey(joinCode string) string {
	return "league:join-code:" + joinCode
}

func leagueListByUserKey(userID string) string {
	return "league:list:user:" + userID
}

func leagueIsMemberKey(leagueID, userID string) string {
	return "league:member:" + leagueID + ":" + userID
}

func leagueMemberIDsKey(leagueID string) string {
	return "league:member-ids:" + leagueID
}

type UserRepository struct {
	next  user.Repository
	cache *basecache.Store
}

func NewUserRepository(next user.Repository, cache *basecache.Store) *UserRepository {
	return &UserRepository{next: next, cache: cache}
}

func (r *UserRepository) Upsert(ctx context.Context, item user.User) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, userByIDKey(item.ID))
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (user.User, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, userByIDKey(id), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedUser{value: item, exists: exists}, nil
	})
	if err != nil {
		return user.User{}, false, err
	}

	cached, _ := v.(cachedUser)
	return cached.value, cached.exists, nil
}

type cachedUser struct {
	value  user.User
	exists bool
}

func userByIDKey(id string) string {
	return "user:id:" + id
}

// StandingsRepository caches league tables for the store's TTL. Scores
// only move when a week is scored, so briefly stale tables are fine.
type StandingsRepository struct {
	next  standings.Repository
	cache *basecache.Store
}

func NewStandingsRepository(next standings.Repository, cache *basecache.Store) *StandingsRepository {
	return &StandingsRepository{next: next, cache: cache}
}

func (r *StandingsRepository) ListByLeague(ctx context.Context, leagueID string) ([]standings.Entry, error) {
	v, err := r.cache.GetOrLoad(ctx, "standings:league:"+leagueID, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByLeague(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return append([]standings.Entry(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]standings.Entry)
	return append([]standings.Entry(nil), items...), nil
}
