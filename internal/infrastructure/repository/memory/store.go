package memory

import (
	"sync"
	"time"

	"github.com/gridironpicks/prediction-league/internal/domain/jobrun"
	"github.com/gridironpicks/prediction-league/internal/domain/league"
	"github.com/gridironpicks/prediction-league/internal/domain/prediction"
	"github.com/gridironpicks/prediction-league/internal/domain/scoring"
	"github.com/gridironpicks/prediction-league/internal/domain/user"
)

// Store is the shared state behind every in-memory repository. The
// scoring pass spans users, predictions, memberships, and the marker,
// so they live under one lock instead of one per repository.
type Store struct {
	mu sync.RWMutex

	users       map[string]user.User
	leagues     map[string]league.League
	leagueOrder []string
	members     map[string]map[string]league.Membership
	predictions []prediction.Prediction
	marker      scoring.Marker
	runs        []jobrun.Run
}

func NewStore() *Store {
	return &Store{
		users:   make(map[string]user.User),
		leagues: make(map[string]league.League),
		members: make(map[string]map[string]league.Membership),
	}
}

func (s *Store) addMemberLocked(leagueID, userID string, joinedAt time.Time) {
	byUser, ok := s.members[leagueID]
	if !ok {
		byUser = make(map[string]league.Membership)
		s.members[leagueID] = byUser
	}
	if _, exists := byUser[userID]; exists {
		return
	}
	byUser[userID] = league.Membership{
		LeagueID: leagueID,
		UserID:   userID,
		JoinedAt: joinedAt,
	}
}
