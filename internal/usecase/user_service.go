package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gridironpicks/prediction-league/internal/domain/user"
)

type UserService struct {
	userRepo user.Repository
	now      func() time.Time
}

func NewUserService(userRepo user.Repository) *UserService {
	return &UserService{
		userRepo: userRepo,
		now:      time.Now,
	}
}

// EnsureProfile provisions the profile row for a verified principal and
// returns it. Called on the first authenticated request of a session;
// repeated calls refresh username and email.
func (s *UserService) EnsureProfile(ctx context.Context, principal user.Principal) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.EnsureProfile")
	defer span.End()

	return ensureProfile(ctx, s.userRepo, principal, s.now().UTC())
}

func (s *UserService) Profile(ctx context.Context, userID string) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.Profile")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return user.User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	item, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}
	return item, nil
}

// ensureProfile is shared by every usecase that must guarantee the
// profile row exists before writing rows that reference it.
func ensureProfile(ctx context.Context, repo user.Repository, principal user.Principal, now time.Time) (user.User, error) {
	if strings.TrimSpace(principal.UserID) == "" {
		return user.User{}, fmt.Errorf("%w: principal has no user id", ErrUnauthorized)
	}

	item := user.User{
		ID:        principal.UserID,
		Username:  principal.Username,
		Email:     principal.Email,
		CreatedAt: now,
	}
	if err := repo.Upsert(ctx, item); err != nil {
		return user.User{}, fmt.Errorf("upsert user profile: %w", err)
	}
	return item, nil
}
