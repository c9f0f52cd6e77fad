package jobrun

import "context"

type Repository interface {
	Record(ctx context.Context, run Run) error
}
