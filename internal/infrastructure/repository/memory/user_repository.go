package memory

import (
	"context"

	"github.com/gridironpicks/prediction-league/internal/domain/user"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Upsert(_ context.Context, item user.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if existing, ok := r.store.users[item.ID]; ok {
		existing.Username = item.Username
		existing.Email = item.Email
		r.store.users[item.ID] = existing
		return nil
	}
	r.store.users[item.ID] = item
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (user.User, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[id]
	if !ok {
		return user.User{}, false, nil
	}
	return u, true, nil
}
