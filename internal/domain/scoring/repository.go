package scoring

import (
	"context"

	"github.com/gridironpicks/prediction-league/internal/domain/prediction"
)

// Pass is the transactional view of one scoring run. Every method runs
// on the same transaction; the marker row is locked for its duration so
// concurrent passes serialize behind it.
type Pass interface {
	MarkerForUpdate(ctx context.Context) (Marker, error)
	ListUsersWithFinals(ctx context.Context, week int) ([]string, error)
	ListFinals(ctx context.Context, userID string, week int) ([]prediction.Prediction, error)
	// AddWeekScore adds points to every league membership of the user.
	AddWeekScore(ctx context.Context, userID string, points float64) error
	AdvanceMarker(ctx context.Context, week int) error
	PurgeDrafts(ctx context.Context, week int) error
}

type Repository interface {
	Marker(ctx context.Context) (Marker, error)
	// RunPass executes fn inside a single transaction. fn returning an
	// error rolls the whole pass back, including the marker advance.
	RunPass(ctx context.Context, fn func(ctx context.Context, pass Pass) error) error
}
