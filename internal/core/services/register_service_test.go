package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/a7mdelbanna/clients_plus_backend/internal/apperrors"
	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
	portssvc "github.com/a7mdelbanna/clients_plus_backend/internal/core/ports/services"
	"github.com/a7mdelbanna/clients_plus_backend/internal/core/services"
	"github.com/a7mdelbanna/clients_plus_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type RegisterServiceTestSuite struct {
	suite.Suite
	mockRegisterRepo *MockRegisterRepository
	mockAccountRepo  *MockAccountRepository
	service          portssvc.RegisterSvcFacade
	companyID        string
	branchID         string
	registerID       string
	userID           string
	cashAccountID    string
	cardAccountID    string
	overShortID      string
}

func (suite *RegisterServiceTestSuite) SetupTest() {
	suite.mockRegisterRepo = new(MockRegisterRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewRegisterService(suite.mockRegisterRepo, suite.mockAccountRepo)

	suite.companyID = uuid.NewString()
	suite.branchID = uuid.NewString()
	suite.registerID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.cashAccountID = uuid.NewString()
	suite.cardAccountID = uuid.NewString()
	suite.overShortID = uuid.NewString()
}

func (suite *RegisterServiceTestSuite) activeAccount(accountID string, balance int64) domain.Account {
	return domain.Account{
		AccountID: accountID,
		CompanyID: suite.companyID,
		BranchID:  suite.branchID,
		Status:    domain.AccountActive,
		Balance:   decimal.NewFromInt(balance),
	}
}

func (suite *RegisterServiceTestSuite) openSession() *domain.RegisterSession {
	return &domain.RegisterSession{
		SessionID:  uuid.NewString(),
		CompanyID:  suite.companyID,
		BranchID:   suite.branchID,
		RegisterID: suite.registerID,
		Status:     domain.SessionOpen,
		OpenedBy:   suite.userID,
		OpenedAt:   time.Now().UTC().Add(-8 * time.Hour),
		AccountMappings: map[domain.AccountRole]string{
			domain.RoleCash:      suite.cashAccountID,
			domain.RoleCard:      suite.cardAccountID,
			domain.RoleOverShort: suite.overShortID,
		},
		Movements: map[string]domain.AccountMovement{
			suite.cashAccountID: {
				AccountID:        suite.cashAccountID,
				Role:             domain.RoleCash,
				OpeningBalance:   decimal.NewFromInt(100),
				TransactionTotal: decimal.NewFromInt(250),
			},
			suite.cardAccountID: {
				AccountID:        suite.cardAccountID,
				Role:             domain.RoleCard,
				OpeningBalance:   decimal.NewFromInt(0),
				TransactionTotal: decimal.NewFromInt(400),
			},
			suite.overShortID: {
				AccountID: suite.overShortID,
				Role:      domain.RoleOverShort,
			},
		},
	}
}

func (suite *RegisterServiceTestSuite) TestOpenSession_MissingOverShortFails() {
	ctx := context.Background()
	req := dto.OpenSessionRequest{
		BranchID:   suite.branchID,
		RegisterID: suite.registerID,
		AccountMappings: map[domain.AccountRole]string{
			domain.RoleCash: suite.cashAccountID,
		},
	}

	_, err := suite.service.OpenSession(ctx, suite.companyID, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockRegisterRepo.AssertNotCalled(suite.T(), "SaveSession", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RegisterServiceTestSuite) TestOpenSession_SnapshotsOpeningBalances() {
	ctx := context.Background()
	req := dto.OpenSessionRequest{
		BranchID:   suite.branchID,
		RegisterID: suite.registerID,
		AccountMappings: map[domain.AccountRole]string{
			domain.RoleCash:      suite.cashAccountID,
			domain.RoleCard:      suite.cardAccountID,
			domain.RoleOverShort: suite.overShortID,
		},
	}

	accounts := map[string]domain.Account{
		suite.cashAccountID: suite.activeAccount(suite.cashAccountID, 150),
		suite.cardAccountID: suite.activeAccount(suite.cardAccountID, 0),
		suite.overShortID:   suite.activeAccount(suite.overShortID, 0),
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, mock.AnythingOfType("[]string")).Return(accounts, nil).Once()

	var postings []*domain.Transaction
	suite.mockRegisterRepo.On("SaveSession", ctx, mock.AnythingOfType("domain.RegisterSession"), mock.AnythingOfType("[]*domain.Transaction")).
		Run(func(args mock.Arguments) {
			postings = args.Get(2).([]*domain.Transaction)
		}).Return(nil).Once()

	session, err := suite.service.OpenSession(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(session)
	suite.Equal(domain.SessionOpen, session.Status)
	suite.Len(session.Movements, 3)
	suite.True(session.Movements[suite.cashAccountID].OpeningBalance.Equal(decimal.NewFromInt(150)))
	suite.Equal(domain.RoleCash, session.Movements[suite.cashAccountID].Role)
	// No declared floats, nothing hits the ledger.
	suite.Empty(postings)
	suite.mockRegisterRepo.AssertExpectations(suite.T())
}

func (suite *RegisterServiceTestSuite) TestOpenSession_OpeningAmountsSeedExpectedAndPost() {
	ctx := context.Background()
	req := dto.OpenSessionRequest{
		BranchID:   suite.branchID,
		RegisterID: suite.registerID,
		AccountMappings: map[domain.AccountRole]string{
			domain.RoleCash:      suite.cashAccountID,
			domain.RoleOverShort: suite.overShortID,
		},
		OpeningAmounts: map[domain.AccountRole]decimal.Decimal{
			domain.RoleCash: decimal.NewFromInt(200),
		},
	}

	accounts := map[string]domain.Account{
		suite.cashAccountID: suite.activeAccount(suite.cashAccountID, 1000),
		suite.overShortID:   suite.activeAccount(suite.overShortID, 0),
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, mock.AnythingOfType("[]string")).Return(accounts, nil).Once()

	var postings []*domain.Transaction
	suite.mockRegisterRepo.On("SaveSession", ctx, mock.AnythingOfType("domain.RegisterSession"), mock.AnythingOfType("[]*domain.Transaction")).
		Run(func(args mock.Arguments) {
			postings = args.Get(2).([]*domain.Transaction)
		}).Return(nil).Once()

	session, err := suite.service.OpenSession(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	// Ledger held 1000 and 200 more was counted into the drawer, so the
	// session expects 1200 once the opening-count posting lands.
	suite.True(session.Movements[suite.cashAccountID].OpeningBalance.Equal(decimal.NewFromInt(1200)))

	suite.Require().Len(postings, 1)
	suite.Equal(suite.cashAccountID, postings[0].AccountID)
	suite.Equal(domain.Income, postings[0].Type)
	suite.True(postings[0].Amount.Equal(decimal.NewFromInt(200)))
	suite.Equal(domain.SourceSessionOpen, postings[0].SourceType)
	suite.Equal(session.SessionID, postings[0].SessionID)
}

func (suite *RegisterServiceTestSuite) TestOpenSession_NegativeOpeningAmountFails() {
	ctx := context.Background()
	req := dto.OpenSessionRequest{
		BranchID:   suite.branchID,
		RegisterID: suite.registerID,
		AccountMappings: map[domain.AccountRole]string{
			domain.RoleCash:      suite.cashAccountID,
			domain.RoleOverShort: suite.overShortID,
		},
		OpeningAmounts: map[domain.AccountRole]decimal.Decimal{
			domain.RoleCash: decimal.NewFromInt(-50),
		},
	}

	_, err := suite.service.OpenSession(ctx, suite.companyID, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockRegisterRepo.AssertNotCalled(suite.T(), "SaveSession", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RegisterServiceTestSuite) TestOpenSession_InactiveAccountFails() {
	ctx := context.Background()
	req := dto.OpenSessionRequest{
		BranchID:   suite.branchID,
		RegisterID: suite.registerID,
		AccountMappings: map[domain.AccountRole]string{
			domain.RoleCash:      suite.cashAccountID,
			domain.RoleOverShort: suite.overShortID,
		},
	}

	inactive := suite.activeAccount(suite.cashAccountID, 0)
	inactive.Status = domain.AccountInactive
	accounts := map[string]domain.Account{
		suite.cashAccountID: inactive,
		suite.overShortID:   suite.activeAccount(suite.overShortID, 0),
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, mock.AnythingOfType("[]string")).Return(accounts, nil).Once()

	_, err := suite.service.OpenSession(ctx, suite.companyID, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RegisterServiceTestSuite) TestRecordMovement_ClosedSessionFails() {
	ctx := context.Background()
	session := suite.openSession()
	session.Status = domain.SessionClosed

	suite.mockRegisterRepo.On("FindSessionByID", ctx, suite.companyID, session.SessionID).Return(session, nil).Once()

	req := dto.RecordMovementRequest{
		Type:          domain.MovementDeposit,
		Amount:        decimal.NewFromInt(50),
		PaymentMethod: domain.MethodCash,
	}
	_, err := suite.service.RecordMovement(ctx, suite.companyID, session.SessionID, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrSessionNotOpen)
	suite.mockRegisterRepo.AssertNotCalled(suite.T(), "RecordMovement", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RegisterServiceTestSuite) TestRecordMovement_PayoutPostsExpenseAgainstCash() {
	ctx := context.Background()
	session := suite.openSession()

	suite.mockRegisterRepo.On("FindSessionByID", ctx, suite.companyID, session.SessionID).Return(session, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, []string{suite.cashAccountID}).Return(map[string]domain.Account{
		suite.cashAccountID: suite.activeAccount(suite.cashAccountID, 350),
	}, nil).Once()

	var captured domain.SessionMovement
	var adjustments map[string]decimal.Decimal
	var postings []*domain.Transaction
	suite.mockRegisterRepo.On("RecordMovement", ctx, mock.AnythingOfType("domain.SessionMovement"), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(domain.SessionMovement)
			adjustments = args.Get(2).(map[string]decimal.Decimal)
			postings = args.Get(3).([]*domain.Transaction)
		}).Return(nil).Once()

	req := dto.RecordMovementRequest{
		Type:          domain.MovementPayout,
		Amount:        decimal.NewFromInt(50),
		PaymentMethod: domain.MethodCash,
		Note:          "Courier payout",
	}
	movement, err := suite.service.RecordMovement(ctx, suite.companyID, session.SessionID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(suite.cashAccountID, movement.AccountID)
	suite.Equal(domain.MovementPayout, captured.Type)

	// A payout drains the drawer and must leave a matching ledger trace.
	suite.Require().Len(postings, 1)
	suite.Equal(suite.cashAccountID, postings[0].AccountID)
	suite.Equal(domain.Expense, postings[0].Type)
	suite.True(postings[0].Amount.Equal(decimal.NewFromInt(50)))
	suite.Equal(domain.SourceSessionMovement, postings[0].SourceType)
	suite.Equal(session.SessionID, postings[0].SessionID)
	suite.True(adjustments[suite.cashAccountID].Equal(decimal.NewFromInt(-50)))
}

func (suite *RegisterServiceTestSuite) TestRecordMovement_BothAccountsPostsTransfer() {
	ctx := context.Background()
	session := suite.openSession()

	suite.mockRegisterRepo.On("FindSessionByID", ctx, suite.companyID, session.SessionID).Return(session, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, mock.AnythingOfType("[]string")).Return(map[string]domain.Account{
		suite.cashAccountID: suite.activeAccount(suite.cashAccountID, 350),
		suite.cardAccountID: suite.activeAccount(suite.cardAccountID, 400),
	}, nil).Once()

	var adjustments map[string]decimal.Decimal
	var postings []*domain.Transaction
	suite.mockRegisterRepo.On("RecordMovement", ctx, mock.AnythingOfType("domain.SessionMovement"), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			adjustments = args.Get(2).(map[string]decimal.Decimal)
			postings = args.Get(3).([]*domain.Transaction)
		}).Return(nil).Once()

	req := dto.RecordMovementRequest{
		Type:          domain.MovementWithdrawal,
		Amount:        decimal.NewFromInt(60),
		PaymentMethod: domain.MethodCash,
		FromAccountID: suite.cashAccountID,
		ToAccountID:   suite.cardAccountID,
	}
	movement, err := suite.service.RecordMovement(ctx, suite.companyID, session.SessionID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(suite.cashAccountID, movement.AccountID)

	suite.Require().Len(postings, 2)
	suite.Equal(domain.TransferOut, postings[0].Type)
	suite.Equal(suite.cashAccountID, postings[0].AccountID)
	suite.Equal(domain.TransferIn, postings[1].Type)
	suite.Equal(suite.cardAccountID, postings[1].AccountID)
	suite.True(adjustments[suite.cashAccountID].Equal(decimal.NewFromInt(-60)))
	suite.True(adjustments[suite.cardAccountID].Equal(decimal.NewFromInt(60)))
}

func (suite *RegisterServiceTestSuite) TestCloseSession_NoDiscrepanciesPostsNothing() {
	ctx := context.Background()
	session := suite.openSession()

	suite.mockRegisterRepo.On("FindSessionByID", ctx, suite.companyID, session.SessionID).Return(session, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, mock.AnythingOfType("[]string")).Return(map[string]domain.Account{
		suite.cashAccountID: suite.activeAccount(suite.cashAccountID, 350),
		suite.cardAccountID: suite.activeAccount(suite.cardAccountID, 400),
		suite.overShortID:   suite.activeAccount(suite.overShortID, 0),
	}, nil).Once()

	var adjustments []*domain.Transaction
	suite.mockRegisterRepo.On("CloseSession", ctx, mock.AnythingOfType("domain.RegisterSession"), mock.Anything).
		Run(func(args mock.Arguments) {
			adjustments = args.Get(2).([]*domain.Transaction)
		}).Return(nil).Once()

	// Declared balances match expectations exactly.
	req := dto.CloseSessionRequest{
		ActualBalances: map[string]decimal.Decimal{
			suite.cashAccountID: decimal.NewFromInt(350),
			suite.cardAccountID: decimal.NewFromInt(400),
		},
	}
	summary, err := suite.service.CloseSession(ctx, suite.companyID, session.SessionID, req, suite.userID)

	suite.Require().NoError(err)
	suite.False(summary.HasDiscrepancies)
	suite.True(summary.TotalDiscrepancy.IsZero())
	suite.Empty(adjustments)
}

func (suite *RegisterServiceTestSuite) TestCloseSession_ShortagePostsAdjustmentToOverShort() {
	ctx := context.Background()
	session := suite.openSession()

	suite.mockRegisterRepo.On("FindSessionByID", ctx, suite.companyID, session.SessionID).Return(session, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, mock.AnythingOfType("[]string")).Return(map[string]domain.Account{
		suite.cashAccountID: suite.activeAccount(suite.cashAccountID, 350),
		suite.cardAccountID: suite.activeAccount(suite.cardAccountID, 400),
		suite.overShortID:   suite.activeAccount(suite.overShortID, 0),
	}, nil).Once()

	var closed domain.RegisterSession
	var adjustments []*domain.Transaction
	suite.mockRegisterRepo.On("CloseSession", ctx, mock.AnythingOfType("domain.RegisterSession"), mock.Anything).
		Run(func(args mock.Arguments) {
			closed = args.Get(1).(domain.RegisterSession)
			adjustments = args.Get(2).([]*domain.Transaction)
		}).Return(nil).Once()

	// Cash counted 20 short; card matches and should not trigger a transfer.
	req := dto.CloseSessionRequest{
		ActualBalances: map[string]decimal.Decimal{
			suite.cashAccountID: decimal.NewFromInt(330),
			suite.cardAccountID: decimal.NewFromInt(400),
		},
	}
	summary, err := suite.service.CloseSession(ctx, suite.companyID, session.SessionID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(summary.HasDiscrepancies)
	suite.True(summary.TotalDiscrepancy.Equal(decimal.NewFromInt(-20)))

	// Shortage moves money from the short account into over/short, posted by
	// the repository inside the closing transaction.
	suite.Require().Len(adjustments, 2)
	out, in := adjustments[0], adjustments[1]
	suite.Equal(suite.cashAccountID, out.AccountID)
	suite.Equal(suite.overShortID, in.AccountID)
	suite.True(out.Amount.Equal(decimal.NewFromInt(20)))
	suite.Equal(session.SessionID, out.SessionID)
	suite.Equal(domain.SourceSessionAdjustment, out.SourceType)
	suite.Equal(out.TransactionID, closed.Movements[suite.cashAccountID].AdjustmentTransactionID)
}

func (suite *RegisterServiceTestSuite) TestCloseSession_OverShortDiscrepancyStillFlags() {
	ctx := context.Background()
	session := suite.openSession()

	suite.mockRegisterRepo.On("FindSessionByID", ctx, suite.companyID, session.SessionID).Return(session, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, mock.AnythingOfType("[]string")).Return(map[string]domain.Account{
		suite.cashAccountID: suite.activeAccount(suite.cashAccountID, 350),
		suite.cardAccountID: suite.activeAccount(suite.cardAccountID, 400),
		suite.overShortID:   suite.activeAccount(suite.overShortID, 0),
	}, nil).Once()

	var adjustments []*domain.Transaction
	suite.mockRegisterRepo.On("CloseSession", ctx, mock.AnythingOfType("domain.RegisterSession"), mock.Anything).
		Run(func(args mock.Arguments) {
			adjustments = args.Get(2).([]*domain.Transaction)
		}).Return(nil).Once()

	// Only the over/short account itself is off. It gets no counterpart
	// transfer, but the summary must still report the discrepancy.
	req := dto.CloseSessionRequest{
		ActualBalances: map[string]decimal.Decimal{
			suite.cashAccountID: decimal.NewFromInt(350),
			suite.cardAccountID: decimal.NewFromInt(400),
			suite.overShortID:   decimal.NewFromInt(5),
		},
	}
	summary, err := suite.service.CloseSession(ctx, suite.companyID, session.SessionID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(summary.HasDiscrepancies)
	suite.True(summary.TotalDiscrepancy.Equal(decimal.NewFromInt(5)))
	suite.Empty(adjustments)
}

func (suite *RegisterServiceTestSuite) TestCloseSession_UndeclaredAccountTakenAtExpected() {
	ctx := context.Background()
	session := suite.openSession()

	suite.mockRegisterRepo.On("FindSessionByID", ctx, suite.companyID, session.SessionID).Return(session, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, mock.AnythingOfType("[]string")).Return(map[string]domain.Account{
		suite.cashAccountID: suite.activeAccount(suite.cashAccountID, 350),
		suite.cardAccountID: suite.activeAccount(suite.cardAccountID, 400),
		suite.overShortID:   suite.activeAccount(suite.overShortID, 0),
	}, nil).Once()

	var adjustments []*domain.Transaction
	suite.mockRegisterRepo.On("CloseSession", ctx, mock.AnythingOfType("domain.RegisterSession"), mock.Anything).
		Run(func(args mock.Arguments) {
			adjustments = args.Get(2).([]*domain.Transaction)
		}).Return(nil).Once()

	// Nothing declared at all: every account closes at its expected balance.
	req := dto.CloseSessionRequest{ActualBalances: map[string]decimal.Decimal{}}
	summary, err := suite.service.CloseSession(ctx, suite.companyID, session.SessionID, req, suite.userID)

	suite.Require().NoError(err)
	suite.False(summary.HasDiscrepancies)
	suite.True(summary.TotalExpected.Equal(summary.TotalActual))
	suite.Empty(adjustments)
}

func (suite *RegisterServiceTestSuite) TestCloseSession_AlreadyClosedFails() {
	ctx := context.Background()
	session := suite.openSession()
	session.Status = domain.SessionClosed

	suite.mockRegisterRepo.On("FindSessionByID", ctx, suite.companyID, session.SessionID).Return(session, nil).Once()

	_, err := suite.service.CloseSession(ctx, suite.companyID, session.SessionID, dto.CloseSessionRequest{ActualBalances: map[string]decimal.Decimal{}}, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrSessionNotOpen)
}

func TestRegisterServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RegisterServiceTestSuite))
}
