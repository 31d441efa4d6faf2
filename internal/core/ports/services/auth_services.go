package services

import (
	"context"

	"github.com/a7mdelbanna/clients_plus_backend/internal/dto"
)

// AuthSvc defines login and token refresh for staff users.
type AuthSvc interface {
	// Login verifies credentials and issues an access/refresh token pair.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)

	// Refresh rotates a valid refresh token into a new token pair.
	Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.AuthResponse, error)

	// Logout invalidates the user's refresh token.
	Logout(ctx context.Context, userID string) error
}
