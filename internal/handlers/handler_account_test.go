package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/a7mdelbanna/clients_plus_backend/internal/apperrors"
	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
	portssvc "github.com/a7mdelbanna/clients_plus_backend/internal/core/ports/services"
	"github.com/a7mdelbanna/clients_plus_backend/internal/dto"
	"github.com/a7mdelbanna/clients_plus_backend/internal/middleware"
	"github.com/a7mdelbanna/clients_plus_backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, companyID string, params dto.ListAccountsParams) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) CloseAccount(ctx context.Context, companyID string, accountID string, userID string) error {
	args := m.Called(ctx, companyID, accountID, userID)
	return args.Error(0)
}

// --- Test Suite ---
type AccountHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockAccountService
	jwtSecret   string
	companyID   string
	userID      string
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.router = gin.New()
	suite.mockService = new(MockAccountService)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret))
	registerAccountRoutes(v1, suite.mockService)
}

func (suite *AccountHandlerTestSuite) authHeader() string {
	token, err := utils.GenerateJWT(suite.userID, suite.companyID, string(domain.RoleManager), suite.jwtSecret, time.Hour, "cpb-test")
	suite.Require().NoError(err)
	return "Bearer " + token
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	account := &domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		BranchID:    uuid.NewString(),
		Name:        "Main Till",
		AccountType: domain.AccountCash,
		Status:      domain.AccountActive,
	}

	suite.mockService.On("CreateAccount",
		mock.Anything,
		suite.companyID,
		mock.MatchedBy(func(req dto.CreateAccountRequest) bool {
			return req.Name == "Main Till" && req.AccountType == domain.AccountCash
		}),
		suite.userID,
	).Return(account, nil).Once()

	body, _ := json.Marshal(gin.H{
		"branchID":    account.BranchID,
		"name":        "Main Till",
		"accountType": "CASH",
	})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/accounts", bytes.NewReader(body))
	req.Header.Set("Authorization", suite.authHeader())
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal(account.AccountID, res.AccountID)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_NoTokenRejected() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/accounts", bytes.NewReader([]byte(`{}`)))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	accountID := uuid.NewString()
	suite.mockService.On("GetAccountByID", mock.Anything, suite.companyID, accountID).Return(nil, apperrors.ErrNotFound).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/accounts/"+accountID, nil)
	req.Header.Set("Authorization", suite.authHeader())

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *AccountHandlerTestSuite) TestCloseAccount_NonZeroBalanceConflict() {
	accountID := uuid.NewString()
	suite.mockService.On("CloseAccount", mock.Anything, suite.companyID, accountID, suite.userID).Return(apperrors.ErrNonZeroBalance).Once()

	req, _ := http.NewRequest(http.MethodDelete, "/api/v1/accounts/"+accountID, nil)
	req.Header.Set("Authorization", suite.authHeader())

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *AccountHandlerTestSuite) TestListAccounts_Success() {
	accounts := []domain.Account{
		{AccountID: uuid.NewString(), CompanyID: suite.companyID, Name: "Main Till", AccountType: domain.AccountCash, Status: domain.AccountActive, Balance: decimal.NewFromInt(120)},
		{AccountID: uuid.NewString(), CompanyID: suite.companyID, Name: "Business Account", AccountType: domain.AccountBank, Status: domain.AccountActive},
	}

	suite.mockService.On("ListAccounts", mock.Anything, suite.companyID, mock.AnythingOfType("dto.ListAccountsParams")).Return(accounts, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/accounts?limit=10", nil)
	req.Header.Set("Authorization", suite.authHeader())

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.ListAccountsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Len(res.Accounts, 2)
}

func TestAccountHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
