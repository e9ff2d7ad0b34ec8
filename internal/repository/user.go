package repository

import (
	"context"

	"carpool/internal/domain"
)

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	// Create persists a new user. Returns ErrDuplicate if the phone number is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByIDs retrieves the users that exist among ids, keyed by ID.
	GetByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)

	// GetByPhone retrieves a user by phone number.
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)

	// Update overwrites the mutable profile fields of an existing user.
	Update(ctx context.Context, user *domain.User) error
}
