package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"weekplanner/internal/model"
)

// UserRepository stores user accounts.
type UserRepository interface {
	// Create inserts a new user row; ErrAlreadyExists if the email is taken.
	Create(ctx context.Context, u *model.User) error
	// GetByID selects a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByEmail selects a user by login email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// List returns every user ordered by created_at ascending, without
	// credential fields.
	List(ctx context.Context) ([]model.User, error)
}
