package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a7mdelbanna/clients_plus_backend/internal/apperrors"
	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
	portssvc "github.com/a7mdelbanna/clients_plus_backend/internal/core/ports/services"
	"github.com/a7mdelbanna/clients_plus_backend/internal/core/services"
	"github.com/a7mdelbanna/clients_plus_backend/internal/dto"
	"github.com/a7mdelbanna/clients_plus_backend/internal/platform/config"
	"github.com/a7mdelbanna/clients_plus_backend/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AuthServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.AuthSvc
	user         *domain.User
	password     string
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	cfg := &config.Config{
		JWTSecret:                  "test-secret",
		JWTExpiryDuration:          time.Hour,
		JWTIssuer:                  "clients-plus-backend",
		RefreshTokenExpiryDuration: 168 * time.Hour,
	}
	suite.service = services.NewAuthService(cfg, suite.mockUserRepo)

	suite.password = "correct horse battery staple"
	hash, err := utils.HashPassword(suite.password)
	suite.Require().NoError(err)

	suite.user = &domain.User{
		UserID:       uuid.NewString(),
		CompanyID:    uuid.NewString(),
		Name:         "Sara",
		Email:        "sara@example.com",
		PasswordHash: hash,
		Role:         domain.RoleManager,
	}
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByEmail", ctx, "sara@example.com").Return(suite.user, nil).Once()
	suite.mockUserRepo.On("UpdateRefreshToken", ctx, suite.user.UserID, mock.AnythingOfType("*string"), mock.AnythingOfType("*time.Time"), mock.AnythingOfType("time.Time")).Return(nil).Once()

	// Email lookup is case-insensitive.
	res, err := suite.service.Login(ctx, dto.LoginRequest{Email: "Sara@Example.com", Password: suite.password})

	suite.Require().NoError(err)
	suite.NotEmpty(res.Token)
	suite.True(strings.HasPrefix(res.RefreshToken, suite.user.UserID+"."))
	suite.Equal(suite.user.UserID, res.User.UserID)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPasswordFails() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByEmail", ctx, "sara@example.com").Return(suite.user, nil).Once()

	_, err := suite.service.Login(ctx, dto.LoginRequest{Email: "sara@example.com", Password: "wrong"})

	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownEmailFails() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByEmail", ctx, "ghost@example.com").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Login(ctx, dto.LoginRequest{Email: "ghost@example.com", Password: "whatever"})

	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestRefresh_RotatesToken() {
	ctx := context.Background()
	raw, err := utils.GenerateSecureRandomString(32)
	suite.Require().NoError(err)
	hash := utils.HashRefreshToken(raw)
	expiry := time.Now().Add(time.Hour)
	suite.user.RefreshTokenHash = &hash
	suite.user.RefreshTokenExpiry = &expiry

	suite.mockUserRepo.On("FindUserByID", ctx, suite.user.UserID).Return(suite.user, nil).Once()

	var storedHash *string
	suite.mockUserRepo.On("UpdateRefreshToken", ctx, suite.user.UserID, mock.AnythingOfType("*string"), mock.AnythingOfType("*time.Time"), mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			storedHash = args.Get(2).(*string)
		}).Return(nil).Once()

	res, err := suite.service.Refresh(ctx, dto.RefreshRequest{RefreshToken: suite.user.UserID + "." + raw})

	suite.Require().NoError(err)
	suite.NotEmpty(res.Token)
	// A new refresh token is issued; the old hash no longer matches.
	suite.Require().NotNil(storedHash)
	suite.NotEqual(hash, *storedHash)
	suite.NotEqual(suite.user.UserID+"."+raw, res.RefreshToken)
}

func (suite *AuthServiceTestSuite) TestRefresh_ExpiredTokenFails() {
	ctx := context.Background()
	raw, err := utils.GenerateSecureRandomString(32)
	suite.Require().NoError(err)
	hash := utils.HashRefreshToken(raw)
	expiry := time.Now().Add(-time.Minute)
	suite.user.RefreshTokenHash = &hash
	suite.user.RefreshTokenExpiry = &expiry

	suite.mockUserRepo.On("FindUserByID", ctx, suite.user.UserID).Return(suite.user, nil).Once()

	_, err = suite.service.Refresh(ctx, dto.RefreshRequest{RefreshToken: suite.user.UserID + "." + raw})

	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestRefresh_MismatchedTokenFails() {
	ctx := context.Background()
	hash := utils.HashRefreshToken("the-stored-token")
	expiry := time.Now().Add(time.Hour)
	suite.user.RefreshTokenHash = &hash
	suite.user.RefreshTokenExpiry = &expiry

	suite.mockUserRepo.On("FindUserByID", ctx, suite.user.UserID).Return(suite.user, nil).Once()

	_, err := suite.service.Refresh(ctx, dto.RefreshRequest{RefreshToken: suite.user.UserID + ".a-different-token"})

	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestRefresh_MalformedTokenFails() {
	ctx := context.Background()

	_, err := suite.service.Refresh(ctx, dto.RefreshRequest{RefreshToken: "no-separator"})

	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "FindUserByID", mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestLogout_ClearsRefreshToken() {
	ctx := context.Background()
	suite.mockUserRepo.On("UpdateRefreshToken", ctx, suite.user.UserID, (*string)(nil), (*time.Time)(nil), mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.Logout(ctx, suite.user.UserID)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
