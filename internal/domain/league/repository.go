package league

import (
	"context"
	"errors"
)

// ErrJoinCodeExists is returned by Create when another league already
// holds the join code. Join codes are globally unique.
var ErrJoinCodeExists = errors.New("join code already exists")

type Repository interface {
	Create(ctx context.Context, item League) error
	GetByID(ctx context.Context, id string) (League, bool, error)
	GetByJoinCode(ctx context.Context, joinCode string) (League, bool, error)
	ListByUser(ctx context.Context, userID string) ([]League, error)
	AddMember(ctx context.Context, leagueID, userID string) error
	IsMember(ctx context.Context, leagueID, userID string) (bool, error)
	ListMemberUserIDs(ctx context.Context, leagueID string) ([]string, error)
}
