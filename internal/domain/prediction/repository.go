package prediction

import (
	"context"
	"errors"
)

// ErrFinalExists is returned by SubmitFinal when the user already holds a
// final prediction for any matchup of the week. Finals are immutable.
var ErrFinalExists = errors.New("final prediction already exists")

type Repository interface {
	// ReplaceDrafts swaps the user's entire draft set for the week in one
	// transaction. An empty slice clears the drafts.
	ReplaceDrafts(ctx context.Context, userID string, week int, items []Prediction) error
	// SubmitFinal inserts the full final set atomically. Implementations
	// must fail the whole batch when any row conflicts with an existing
	// final prediction for the same (user, week, matchup).
	SubmitFinal(ctx context.Context, userID string, week int, items []Prediction) error
	ListByUserWeek(ctx context.Context, userID string, week int, kind Kind) ([]Prediction, error)
	ListFinalsByUsers(ctx context.Context, userIDs []string, week int) (map[string][]Prediction, error)
	HasFinal(ctx context.Context, userID string, week int) (bool, error)
}
