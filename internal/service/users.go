package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"weekplanner/internal/model"
	"weekplanner/internal/repository"
)

// UserService exposes the read-only user directory and the
// "view another user's events" read path.
type UserService interface {
	// List returns every user without credential fields, oldest first.
	List(ctx context.Context) ([]model.User, error)
	// EventsByUser returns another user's events, read-only.
	EventsByUser(ctx context.Context, userID uuid.UUID) ([]model.Event, error)
}

type UserServiceImpl struct {
	users  repository.UserRepository
	events EventService
}

// NewUserService constructs UserService.
func NewUserService(users repository.UserRepository, events EventService) *UserServiceImpl {
	return &UserServiceImpl{users: users, events: events}
}

// List returns the full directory ordered by created_at ascending.
func (s *UserServiceImpl) List(ctx context.Context) ([]model.User, error) {
	out, err := s.users.List(ctx)
	if err != nil {
		return nil, flatten(err)
	}
	return out, nil
}

// EventsByUser lists the target user's events with no date narrowing;
// the caller renders them read-only.
func (s *UserServiceImpl) EventsByUser(ctx context.Context, userID uuid.UUID) ([]model.Event, error) {
	return s.events.List(ctx, userID, model.EventFilters{})
}
