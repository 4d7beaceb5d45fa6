package repository

import (
	"context"

	"github.com/doccluster/auth-service/internal/domain"
)

type UserRepository interface {
	// Create persists a new user. A duplicate email, username or phone
	// number yields domain.ErrConflict.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)

	// MarkVerified flips is_verified to true. Idempotent at the storage
	// level; flow gating happens in the usecase.
	MarkVerified(ctx context.Context, id string) error

	// UpdatePassword stores a new hash together with a new session version
	// in a single statement, so a password change always invalidates
	// outstanding tokens.
	UpdatePassword(ctx context.Context, id, passwordHash, version string) error
}
