package services_test

import (
	"context"
	"testing"

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

type LedgerServiceTestSuite struct {
	suite.Suite
	mockTxnRepo     *MockTransactionRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.LedgerSvcFacade
	companyID       string
	branchID        string
	userID          string
	cashAccount     domain.Account
	bankAccount     domain.Account
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewLedgerService(suite.mockTxnRepo, suite.mockAccountRepo)

	suite.companyID = uuid.NewString()
	suite.branchID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.cashAccount = domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		BranchID:    suite.branchID,
		Name:        "Main Till",
		AccountType: domain.AccountCash,
		Status:      domain.AccountActive,
		Balance:     decimal.NewFromInt(100),
	}
	suite.bankAccount = domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		BranchID:    suite.branchID,
		Name:        "Business Account",
		AccountType: domain.AccountBank,
		Status:      domain.AccountActive,
		Balance:     decimal.NewFromInt(1000),
	}
}

func (suite *LedgerServiceTestSuite) TestPostTransaction_Success() {
	ctx := context.Background()
	req := dto.CreatePostingRequest{
		BranchID:      suite.branchID,
		AccountID:     suite.cashAccount.AccountID,
		Type:          domain.Income,
		Amount:        decimal.NewFromInt(50),
		TaxAmount:     decimal.NewFromInt(7),
		PaymentMethod: domain.MethodCash,
		Category:      "Services",
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, suite.cashAccount.AccountID).Return(&suite.cashAccount, nil).Once()
	suite.mockTxnRepo.On("SavePosting", ctx, mock.AnythingOfType("*domain.Transaction")).
		Run(func(args mock.Arguments) {
			txn := args.Get(1).(*domain.Transaction)
			txn.RunningBalance = decimal.NewFromInt(157)
		}).Return(nil).Once()

	txn, err := suite.service.PostTransaction(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.Equal(domain.TxnCompleted, txn.Status)
	suite.True(txn.TotalAmount.Equal(decimal.NewFromInt(57)))
	suite.True(txn.RunningBalance.Equal(decimal.NewFromInt(157)))
	suite.Equal(suite.userID, txn.CreatedBy)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPostTransaction_InactiveAccountFails() {
	ctx := context.Background()
	inactive := suite.cashAccount
	inactive.Status = domain.AccountInactive

	req := dto.CreatePostingRequest{
		BranchID:      suite.branchID,
		AccountID:     inactive.AccountID,
		Type:          domain.Expense,
		Amount:        decimal.NewFromInt(10),
		PaymentMethod: domain.MethodCash,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, inactive.AccountID).Return(&inactive, nil).Once()

	_, err := suite.service.PostTransaction(ctx, suite.companyID, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SavePosting", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPostTransaction_NonPositiveAmountFails() {
	ctx := context.Background()
	req := dto.CreatePostingRequest{
		BranchID:      suite.branchID,
		AccountID:     suite.cashAccount.AccountID,
		Type:          domain.Income,
		Amount:        decimal.Zero,
		PaymentMethod: domain.MethodCash,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, suite.cashAccount.AccountID).Return(&suite.cashAccount, nil).Once()

	_, err := suite.service.PostTransaction(ctx, suite.companyID, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestPostTransfer_LinksBothLegs() {
	ctx := context.Background()
	req := dto.CreateTransferRequest{
		BranchID:      suite.branchID,
		FromAccountID: suite.cashAccount.AccountID,
		ToAccountID:   suite.bankAccount.AccountID,
		Amount:        decimal.NewFromInt(75),
		Description:   "End of day deposit",
	}

	accounts := map[string]domain.Account{
		suite.cashAccount.AccountID: suite.cashAccount,
		suite.bankAccount.AccountID: suite.bankAccount,
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, []string{suite.cashAccount.AccountID, suite.bankAccount.AccountID}).Return(accounts, nil).Once()
	suite.mockTxnRepo.On("SaveTransfer", ctx, mock.AnythingOfType("*domain.Transaction"), mock.AnythingOfType("*domain.Transaction")).Return(nil).Once()

	out, in, err := suite.service.PostTransfer(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.TransferOut, out.Type)
	suite.Equal(domain.TransferIn, in.Type)
	suite.Equal(suite.cashAccount.AccountID, out.AccountID)
	suite.Equal(suite.bankAccount.AccountID, in.AccountID)
	suite.Equal(in.TransactionID, out.LinkedTransactionID)
	suite.Equal(out.TransactionID, in.LinkedTransactionID)
	suite.Equal(suite.bankAccount.AccountID, out.TransferAccountID)
	suite.Equal(suite.cashAccount.AccountID, in.TransferAccountID)
	suite.True(out.Amount.Equal(in.Amount))
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPostTransfer_InactiveDestinationFails() {
	ctx := context.Background()
	inactive := suite.bankAccount
	inactive.Status = domain.AccountInactive

	req := dto.CreateTransferRequest{
		BranchID:      suite.branchID,
		FromAccountID: suite.cashAccount.AccountID,
		ToAccountID:   inactive.AccountID,
		Amount:        decimal.NewFromInt(75),
	}

	accounts := map[string]domain.Account{
		suite.cashAccount.AccountID: suite.cashAccount,
		inactive.AccountID:          inactive,
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, []string{suite.cashAccount.AccountID, inactive.AccountID}).Return(accounts, nil).Once()

	_, _, err := suite.service.PostTransfer(ctx, suite.companyID, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransfer", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestListTransactions_UnknownAccountFails() {
	ctx := context.Background()
	accountID := uuid.NewString()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, accountID).Return(nil, apperrors.ErrNotFound).Once()

	_, _, err := suite.service.ListTransactions(ctx, suite.companyID, accountID, 20, nil)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "ListTransactionsByAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
