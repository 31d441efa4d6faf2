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

type ProductServiceTestSuite struct {
	suite.Suite
	mockProductRepo *MockProductRepository
	service         portssvc.ProductSvcFacade
	companyID       string
	branchID        string
	userID          string
}

func (suite *ProductServiceTestSuite) SetupTest() {
	suite.mockProductRepo = new(MockProductRepository)
	suite.service = services.NewProductService(suite.mockProductRepo)
	suite.companyID = uuid.NewString()
	suite.branchID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *ProductServiceTestSuite) TestCreateProduct_StartsActive() {
	ctx := context.Background()
	req := dto.CreateProductRequest{
		Name:           "Conditioner",
		SKU:            "COND-250",
		Price:          decimal.NewFromInt(35),
		TrackInventory: true,
	}

	suite.mockProductRepo.On("SaveProduct", ctx, mock.AnythingOfType("domain.Product")).Return(nil).Once()

	product, err := suite.service.CreateProduct(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(product.IsActive)
	suite.True(product.TrackInventory)
	suite.NotEmpty(product.ProductID)
}

func (suite *ProductServiceTestSuite) TestRestock_RecordsMovement() {
	ctx := context.Background()
	tracked := &domain.Product{
		ProductID:      uuid.NewString(),
		CompanyID:      suite.companyID,
		Name:           "Shampoo",
		TrackInventory: true,
		IsActive:       true,
	}

	suite.mockProductRepo.On("FindProductByID", ctx, suite.companyID, tracked.ProductID).Return(tracked, nil).Once()

	var captured *domain.InventoryMovement
	suite.mockProductRepo.On("AdjustStock", ctx, mock.AnythingOfType("*domain.InventoryMovement")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*domain.InventoryMovement)
		}).Return(nil).Once()

	err := suite.service.Restock(ctx, suite.companyID, tracked.ProductID, dto.RestockRequest{
		BranchID:  suite.branchID,
		Quantity:  24,
		Reference: "PO-1042",
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(captured)
	suite.Equal(domain.StockRestock, captured.Type)
	suite.Equal(int64(24), captured.Quantity)
	suite.Equal(suite.branchID, captured.BranchID)
}

func (suite *ProductServiceTestSuite) TestRestock_UntrackedProductFails() {
	ctx := context.Background()
	untracked := &domain.Product{
		ProductID: uuid.NewString(),
		CompanyID: suite.companyID,
		Name:      "Haircut",
		IsActive:  true,
	}

	suite.mockProductRepo.On("FindProductByID", ctx, suite.companyID, untracked.ProductID).Return(untracked, nil).Once()

	err := suite.service.Restock(ctx, suite.companyID, untracked.ProductID, dto.RestockRequest{
		BranchID: suite.branchID,
		Quantity: 5,
	}, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockProductRepo.AssertNotCalled(suite.T(), "AdjustStock", mock.Anything, mock.Anything)
}

func (suite *ProductServiceTestSuite) TestAdjustStock_ZeroQuantityFails() {
	ctx := context.Background()

	err := suite.service.AdjustStock(ctx, suite.companyID, uuid.NewString(), dto.AdjustStockRequest{
		BranchID: suite.branchID,
		Quantity: 0,
	}, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockProductRepo.AssertNotCalled(suite.T(), "FindProductByID", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ProductServiceTestSuite) TestGetBranchStock_UnknownProductFails() {
	ctx := context.Background()
	productID := uuid.NewString()
	suite.mockProductRepo.On("FindProductByID", ctx, suite.companyID, productID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetBranchStock(ctx, suite.companyID, productID, suite.branchID)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.mockProductRepo.AssertNotCalled(suite.T(), "GetBranchStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}
