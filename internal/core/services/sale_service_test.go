package services_test

import (
	"context"
	"errors"
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

type SaleServiceTestSuite struct {
	suite.Suite
	mockSaleRepo     *MockSaleRepository
	mockProductRepo  *MockProductRepository
	mockAccountRepo  *MockAccountRepository
	mockRegisterRepo *MockRegisterRepository
	service          portssvc.SaleSvcFacade
	companyID        string
	branchID         string
	userID           string
	cashAccountID    string
	trackedProduct   domain.Product
	serviceProduct   domain.Product
}

func (suite *SaleServiceTestSuite) SetupTest() {
	suite.mockSaleRepo = new(MockSaleRepository)
	suite.mockProductRepo = new(MockProductRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockRegisterRepo = new(MockRegisterRepository)
	suite.service = services.NewSaleService(suite.mockSaleRepo, suite.mockProductRepo, suite.mockAccountRepo, suite.mockRegisterRepo)

	suite.companyID = uuid.NewString()
	suite.branchID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.cashAccountID = uuid.NewString()

	suite.trackedProduct = domain.Product{
		ProductID:      uuid.NewString(),
		CompanyID:      suite.companyID,
		Name:           "Shampoo",
		Price:          decimal.NewFromInt(40),
		TrackInventory: true,
		IsActive:       true,
	}
	suite.serviceProduct = domain.Product{
		ProductID: uuid.NewString(),
		CompanyID: suite.companyID,
		Name:      "Haircut",
		Price:     decimal.NewFromInt(60),
		IsActive:  true,
	}
}

func (suite *SaleServiceTestSuite) draftSale() *domain.Sale {
	sale := &domain.Sale{
		SaleID:     uuid.NewString(),
		CompanyID:  suite.companyID,
		BranchID:   suite.branchID,
		SaleNumber: "S-20260831-AB12CD",
		Status:     domain.SaleDraft,
		TaxTotal:   decimal.Zero,
		Items: []domain.SaleItem{
			{ProductID: suite.trackedProduct.ProductID, Name: "Shampoo", Quantity: 2, UnitPrice: decimal.NewFromInt(40)},
			{ProductID: suite.serviceProduct.ProductID, Name: "Haircut", Quantity: 1, UnitPrice: decimal.NewFromInt(60)},
		},
		Payments: []domain.SalePayment{
			{Method: domain.MethodCash, Amount: decimal.NewFromInt(150)},
		},
	}
	sale.Recalculate() // Total 140, Paid 150, Change 10
	return sale
}

func (suite *SaleServiceTestSuite) session() *domain.RegisterSession {
	return &domain.RegisterSession{
		SessionID:  uuid.NewString(),
		CompanyID:  suite.companyID,
		BranchID:   suite.branchID,
		RegisterID: uuid.NewString(),
		Status:     domain.SessionOpen,
		OpenedAt:   time.Now().UTC().Add(-2 * time.Hour),
		AccountMappings: map[domain.AccountRole]string{
			domain.RoleCash:      suite.cashAccountID,
			domain.RoleOverShort: uuid.NewString(),
		},
	}
}

func (suite *SaleServiceTestSuite) productsMap() map[string]domain.Product {
	return map[string]domain.Product{
		suite.trackedProduct.ProductID: suite.trackedProduct,
		suite.serviceProduct.ProductID: suite.serviceProduct,
	}
}

func (suite *SaleServiceTestSuite) TestCreateSale_SnapshotsNameAndPrice() {
	ctx := context.Background()
	req := dto.CreateSaleRequest{
		BranchID: suite.branchID,
		Items: []dto.SaleItemRequest{
			{ProductID: suite.trackedProduct.ProductID, Quantity: 2},
		},
		Payments: []dto.SalePaymentRequest{
			{Method: domain.MethodCash, Amount: decimal.NewFromInt(80)},
		},
	}

	suite.mockProductRepo.On("FindProductsByIDs", ctx, suite.companyID, []string{suite.trackedProduct.ProductID}).Return(map[string]domain.Product{
		suite.trackedProduct.ProductID: suite.trackedProduct,
	}, nil).Once()
	suite.mockSaleRepo.On("SaveSale", ctx, mock.AnythingOfType("domain.Sale")).Return(nil).Once()

	sale, err := suite.service.CreateSale(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.SaleDraft, sale.Status)
	suite.NotEmpty(sale.SaleNumber)
	suite.Equal("Shampoo", sale.Items[0].Name)
	suite.True(sale.Items[0].UnitPrice.Equal(decimal.NewFromInt(40)))
	suite.True(sale.Total.Equal(decimal.NewFromInt(80)))
	suite.True(sale.Change.IsZero())
	suite.mockSaleRepo.AssertExpectations(suite.T())
}

func (suite *SaleServiceTestSuite) TestCreateSale_InactiveProductFails() {
	ctx := context.Background()
	inactive := suite.trackedProduct
	inactive.IsActive = false

	req := dto.CreateSaleRequest{
		BranchID: suite.branchID,
		Items:    []dto.SaleItemRequest{{ProductID: inactive.ProductID, Quantity: 1}},
	}

	suite.mockProductRepo.On("FindProductsByIDs", ctx, suite.companyID, []string{inactive.ProductID}).Return(map[string]domain.Product{
		inactive.ProductID: inactive,
	}, nil).Once()

	_, err := suite.service.CreateSale(ctx, suite.companyID, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockSaleRepo.AssertNotCalled(suite.T(), "SaveSale", mock.Anything, mock.Anything)
}

func (suite *SaleServiceTestSuite) TestCompleteSale_InsufficientPaymentFails() {
	ctx := context.Background()
	sale := suite.draftSale()
	sale.Payments = []domain.SalePayment{{Method: domain.MethodCash, Amount: decimal.NewFromInt(100)}}
	sale.Recalculate() // Paid 100 < Total 140

	suite.mockSaleRepo.On("FindSaleByID", ctx, suite.companyID, sale.SaleID).Return(sale, nil).Once()

	_, err := suite.service.CompleteSale(ctx, suite.companyID, sale.SaleID, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrInsufficientPayment)
	suite.mockSaleRepo.AssertNotCalled(suite.T(), "CompleteSale", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SaleServiceTestSuite) TestCompleteSale_NotDraftFails() {
	ctx := context.Background()
	sale := suite.draftSale()
	sale.Status = domain.SaleCompleted

	suite.mockSaleRepo.On("FindSaleByID", ctx, suite.companyID, sale.SaleID).Return(sale, nil).Once()

	_, err := suite.service.CompleteSale(ctx, suite.companyID, sale.SaleID, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
}

func (suite *SaleServiceTestSuite) TestCompleteSale_NoSessionNoAccountFails() {
	ctx := context.Background()
	sale := suite.draftSale()

	suite.mockSaleRepo.On("FindSaleByID", ctx, suite.companyID, sale.SaleID).Return(sale, nil).Once()
	suite.mockRegisterRepo.On("FindOpenSessionByBranch", ctx, suite.companyID, suite.branchID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CompleteSale(ctx, suite.companyID, sale.SaleID, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SaleServiceTestSuite) TestCompleteSale_Success() {
	ctx := context.Background()
	sale := suite.draftSale()
	session := suite.session()

	suite.mockSaleRepo.On("FindSaleByID", ctx, suite.companyID, sale.SaleID).Return(sale, nil).Once()
	suite.mockRegisterRepo.On("FindOpenSessionByBranch", ctx, suite.companyID, suite.branchID).Return(session, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, suite.companyID, mock.AnythingOfType("[]string")).Return(suite.productsMap(), nil).Once()

	var postings []*domain.Transaction
	var decrements map[string]int64
	suite.mockSaleRepo.On("CompleteSale", ctx, sale, mock.AnythingOfType("[]*domain.Transaction"), mock.AnythingOfType("map[string]int64")).
		Run(func(args mock.Arguments) {
			postings = args.Get(2).([]*domain.Transaction)
			decrements = args.Get(3).(map[string]int64)
			for _, p := range postings {
				p.RunningBalance = p.Amount
			}
		}).Return(nil).Once()
	suite.mockRegisterRepo.On("AppendMovement", ctx, mock.AnythingOfType("domain.SessionMovement")).Return(nil)
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, mock.AnythingOfType("[]string")).Return(map[string]domain.Account{
		suite.cashAccountID: {AccountID: suite.cashAccountID, Status: domain.AccountActive},
	}, nil).Once()

	completed, err := suite.service.CompleteSale(ctx, suite.companyID, sale.SaleID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.SaleCompleted, completed.Status)

	// One income posting for the cash payment, net of the 10 change.
	suite.Require().Len(postings, 1)
	suite.Equal(domain.Income, postings[0].Type)
	suite.Equal(suite.cashAccountID, postings[0].AccountID)
	suite.True(postings[0].Amount.Equal(decimal.NewFromInt(140)))
	suite.Equal(session.SessionID, postings[0].SessionID)
	suite.Equal(domain.SourceSale, postings[0].SourceType)
	suite.Equal(sale.SaleID, postings[0].SourceID)
	suite.Equal(postings[0].TransactionID, completed.Payments[0].TransactionID)

	// Only the inventory-tracked product is decremented.
	suite.Equal(map[string]int64{suite.trackedProduct.ProductID: 2}, decrements)

	suite.mockRegisterRepo.AssertCalled(suite.T(), "AppendMovement", ctx, mock.AnythingOfType("domain.SessionMovement"))
}

func (suite *SaleServiceTestSuite) TestCompleteSale_AttributionFailureTolerated() {
	ctx := context.Background()
	sale := suite.draftSale()
	sale.Payments[0].AccountID = suite.cashAccountID
	session := suite.session()

	suite.mockSaleRepo.On("FindSaleByID", ctx, suite.companyID, sale.SaleID).Return(sale, nil).Once()
	suite.mockRegisterRepo.On("FindOpenSessionByBranch", ctx, suite.companyID, suite.branchID).Return(session, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, suite.companyID, mock.AnythingOfType("[]string")).Return(suite.productsMap(), nil).Once()
	suite.mockSaleRepo.On("CompleteSale", ctx, sale, mock.AnythingOfType("[]*domain.Transaction"), mock.AnythingOfType("map[string]int64")).Return(nil).Once()
	// Session attribution fails after the sale committed.
	suite.mockRegisterRepo.On("AppendMovement", ctx, mock.AnythingOfType("domain.SessionMovement")).Return(errors.New("session just closed"))
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, mock.AnythingOfType("[]string")).Return(map[string]domain.Account{
		suite.cashAccountID: {AccountID: suite.cashAccountID, Status: domain.AccountActive},
	}, nil).Once()

	completed, err := suite.service.CompleteSale(ctx, suite.companyID, sale.SaleID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.SaleCompleted, completed.Status)
}

func (suite *SaleServiceTestSuite) TestCompleteSale_ProductLookupFailureFails() {
	ctx := context.Background()
	sale := suite.draftSale()
	session := suite.session()

	suite.mockSaleRepo.On("FindSaleByID", ctx, suite.companyID, sale.SaleID).Return(sale, nil).Once()
	suite.mockRegisterRepo.On("FindOpenSessionByBranch", ctx, suite.companyID, suite.branchID).Return(session, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, suite.companyID, mock.AnythingOfType("[]string")).Return(nil, errors.New("connection reset")).Once()

	_, err := suite.service.CompleteSale(ctx, suite.companyID, sale.SaleID, suite.userID)

	// Completing without the stock movement would drift inventory, so the
	// sale must not commit.
	suite.Require().Error(err)
	suite.mockSaleRepo.AssertNotCalled(suite.T(), "CompleteSale", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SaleServiceTestSuite) TestVoidSale_ReversesPayments() {
	ctx := context.Background()
	sale := suite.draftSale()
	sale.Status = domain.SaleCompleted
	sale.Payments[0].AccountID = suite.cashAccountID
	sale.Payments[0].TransactionID = uuid.NewString()
	originalTxnID := sale.Payments[0].TransactionID

	suite.mockSaleRepo.On("FindSaleByID", ctx, suite.companyID, sale.SaleID).Return(sale, nil).Once()
	suite.mockRegisterRepo.On("FindOpenSessionByBranch", ctx, suite.companyID, suite.branchID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, suite.companyID, mock.AnythingOfType("[]string")).Return(suite.productsMap(), nil).Once()

	var postings []*domain.Transaction
	var increments map[string]int64
	suite.mockSaleRepo.On("VoidSale", ctx, sale, mock.AnythingOfType("[]*domain.Transaction"), mock.AnythingOfType("map[string]int64")).
		Run(func(args mock.Arguments) {
			postings = args.Get(2).([]*domain.Transaction)
			increments = args.Get(3).(map[string]int64)
		}).Return(nil).Once()

	voided, err := suite.service.VoidSale(ctx, suite.companyID, sale.SaleID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.SaleVoided, voided.Status)

	suite.Require().Len(postings, 1)
	suite.Equal(domain.Expense, postings[0].Type)
	suite.True(postings[0].Amount.Equal(decimal.NewFromInt(140)))
	suite.Equal(originalTxnID, postings[0].LinkedTransactionID)
	suite.Equal(map[string]int64{suite.trackedProduct.ProductID: 2}, increments)
}

func (suite *SaleServiceTestSuite) TestVoidSale_DraftFails() {
	ctx := context.Background()
	sale := suite.draftSale()

	suite.mockSaleRepo.On("FindSaleByID", ctx, suite.companyID, sale.SaleID).Return(sale, nil).Once()

	_, err := suite.service.VoidSale(ctx, suite.companyID, sale.SaleID, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.mockSaleRepo.AssertNotCalled(suite.T(), "VoidSale", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSaleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SaleServiceTestSuite))
}
