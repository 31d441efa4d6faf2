package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/a7mdelbanna/clients_plus_backend/internal/apperrors"
	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
	portsrepo "github.com/a7mdelbanna/clients_plus_backend/internal/core/ports/repositories"
	portssvc "github.com/a7mdelbanna/clients_plus_backend/internal/core/ports/services"
	"github.com/a7mdelbanna/clients_plus_backend/internal/dto"
	"github.com/a7mdelbanna/clients_plus_backend/internal/platform/config"
	"github.com/a7mdelbanna/clients_plus_backend/internal/utils"
)

// authService implements AuthSvc. Refresh tokens rotate on every use; only
// their SHA256 hash is stored.
type authService struct {
	BaseService
	cfg      *config.Config
	userRepo portsrepo.UserRepositoryFacade
}

// NewAuthService creates a new auth service.
func NewAuthService(cfg *config.Config, userRepo portsrepo.UserRepositoryFacade) portssvc.AuthSvc {
	return &authService{cfg: cfg, userRepo: userRepo}
}

var _ portssvc.AuthSvc = (*authService)(nil)

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.LogWarn(ctx, "Login failed", slog.String("email", req.Email))
		return nil, apperrors.ErrUnauthorized
	}
	return s.issueTokenPair(ctx, user)
}

func (s *authService) Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.AuthResponse, error) {
	// The refresh token is scoped to a user through the JWT it was issued
	// with; clients send the raw token which embeds the user id prefix.
	userID, rawToken, ok := splitRefreshToken(req.RefreshToken)
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	if user.RefreshTokenHash == nil || user.RefreshTokenExpiry == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if time.Now().After(*user.RefreshTokenExpiry) {
		return nil, fmt.Errorf("%w: refresh token expired", apperrors.ErrUnauthorized)
	}
	if !utils.CompareRefreshTokenHash(rawToken, *user.RefreshTokenHash) {
		s.LogWarn(ctx, "Refresh token mismatch", slog.String("user_id", userID))
		return nil, apperrors.ErrUnauthorized
	}

	return s.issueTokenPair(ctx, user)
}

func (s *authService) Logout(ctx context.Context, userID string) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, nil, nil, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to clear refresh token", slog.String("user_id", userID))
		return err
	}
	return nil
}

// issueTokenPair signs a fresh access token and rotates the refresh token.
func (s *authService) issueTokenPair(ctx context.Context, user *domain.User) (*dto.AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(user.UserID, user.CompanyID, string(user.Role), s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate access token", slog.String("user_id", user.UserID))
		return nil, err
	}

	rawToken, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	tokenHash := utils.HashRefreshToken(rawToken)
	expiry := time.Now().Add(s.cfg.RefreshTokenExpiryDuration)

	if err := s.userRepo.UpdateRefreshToken(ctx, user.UserID, &tokenHash, &expiry, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to store refresh token", slog.String("user_id", user.UserID))
		return nil, err
	}

	return &dto.AuthResponse{
		Token:        accessToken,
		RefreshToken: user.UserID + "." + rawToken,
		User:         dto.ToUserResponse(user),
	}, nil
}

// splitRefreshToken splits the "userID.random" wire form of a refresh token.
func splitRefreshToken(token string) (userID string, raw string, ok bool) {
	idx := strings.IndexByte(token, '.')
	if idx <= 0 || idx == len(token)-1 {
		return "", "", false
	}
	return token[:idx], token[idx+1:], true
}
