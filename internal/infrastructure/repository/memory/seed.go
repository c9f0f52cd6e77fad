package memory

import (
	"time"

	"github.com/gridironpicks/prediction-league/internal/domain/league"
	"github.com/gridironpicks/prediction-league/internal/domain/user"
)

const seedLeagueIDOffice = "league-office-pool"

func seedNow() time.Time {
	return time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
}

func SeedUsers() []user.User {
	return []user.User{
		{ID: "user-demo-1", Username: "samplefan", Email: "samplefan@example.com", CreatedAt: seedNow()},
		{ID: "user-demo-2", Username: "armchairqb", Email: "armchairqb@example.com", CreatedAt: seedNow()},
	}
}

func SeedLeagues() []league.League {
	return []league.League{
		{
			ID:        seedLeagueIDOffice,
			Name:      "Office Pool",
			JoinCode:  "OFFICE25",
			CreatedBy: "user-demo-1",
			CreatedAt: seedNow(),
		},
	}
}

// Seed loads demo users and one joinable league into the store. Only
// used when the service runs without a database.
func Seed(store *Store) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, u := range SeedUsers() {
		store.users[u.ID] = u
	}
	for _, l := range SeedLeagues() {
		store.leagues[l.ID] = l
		store.leagueOrder = append(store.leagueOrder, l.ID)
	}
	store.addMemberLocked(seedLeagueIDOffice, "user-demo-1", seedNow())
	store.addMemberLocked(seedLeagueIDOffice, "user-demo-2", seedNow())
}
