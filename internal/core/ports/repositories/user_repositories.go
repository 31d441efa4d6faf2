package repositories

import (
	"context"
	"time"

	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
)

// UserReader defines read operations for staff users.
type UserReader interface {
	// FindUserByID retrieves a user by their unique identifier.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email, excluding soft-deleted users.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// UserWriter defines write operations for staff users.
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateRefreshToken stores the hash and expiry of a user's refresh
	// token; nil values clear it.
	UpdateRefreshToken(ctx context.Context, userID string, tokenHash *string, expiry *time.Time, now time.Time) error
}

// UserRepositoryFacade combines the user repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
