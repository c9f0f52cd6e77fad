package user

import "context"

type Repository interface {
	// Upsert creates the profile row on first sight of a principal and
	// refreshes username/email on later logins.
	Upsert(ctx context.Context, item User) error
	GetByID(ctx context.Context, id string) (User, bool, error)
}
