package standings

import "sort"

// Entry is one member's row in a league table.
type Entry struct {
	UserID   string
	Username string
	Score    float64
	Place    int
}

// Sort orders entries by score descending with deterministic tie-breaks:
// higher userID first, then higher username. Place is assigned 1-based
// after ordering. Ties share nothing; every entry gets a distinct place.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if entries[i].UserID != entries[j].UserID {
			return entries[i].UserID > entries[j].UserID
		}
		return entries[i].Username > entries[j].Username
	})
	for i := range entries {
		entries[i].Place = i + 1
	}
}

// PlaceOf returns the 1-based place of userID in already-sorted entries,
// or 0 when the user is not in the table.
func PlaceOf(entries []Entry, userID string) int {
	for _, e := range entries {
		if e.UserID == userID {
			return e.Place
		}
	}
	return 0
}
