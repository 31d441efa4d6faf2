package services

import (
	"context"

	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
	"github.com/a7mdelbanna/clients_plus_backend/internal/dto"
)

// UserSvcFacade defines operations for staff users.
type UserSvcFacade interface {
	// CreateUser registers a new staff member with a bcrypt-hashed password.
	CreateUser(ctx context.Context, companyID string, req dto.CreateUserRequest, actorID string) (*domain.User, error)

	// GetUserByID retrieves a user by their unique identifier.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}
