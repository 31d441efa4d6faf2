package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/a7mdelbanna/clients_plus_backend/internal/apperrors"
	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
	portsrepo "github.com/a7mdelbanna/clients_plus_backend/internal/core/ports/repositories"
	portssvc "github.com/a7mdelbanna/clients_plus_backend/internal/core/ports/services"
	"github.com/a7mdelbanna/clients_plus_backend/internal/dto"
	"github.com/google/uuid"
)

// productService implements the ProductSvcFacade interface
type productService struct {
	BaseService
	productRepo portsrepo.ProductRepositoryFacade
}

// NewProductService creates a new product service.
func NewProductService(productRepo portsrepo.ProductRepositoryFacade) portssvc.ProductSvcFacade {
	return &productService{productRepo: productRepo}
}

var _ portssvc.ProductSvcFacade = (*productService)(nil)

func (s *productService) CreateProduct(ctx context.Context, companyID string, req dto.CreateProductRequest, userID string) (*domain.Product, error) {
	now := time.Now().UTC()
	product := domain.Product{
		ProductID:      uuid.NewString(),
		CompanyID:      companyID,
		Name:           req.Name,
		SKU:            req.SKU,
		Price:          req.Price,
		TrackInventory: req.TrackInventory,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.productRepo.SaveProduct(ctx, product); err != nil {
		s.LogError(ctx, err, "Failed to save product", slog.String("company_id", companyID))
		return nil, err
	}
	s.LogInfo(ctx, "Product created", slog.String("product_id", product.ProductID))
	return &product, nil
}

func (s *productService) GetProductByID(ctx context.Context, companyID string, productID string) (*domain.Product, error) {
	return s.productRepo.FindProductByID(ctx, companyID, productID)
}

func (s *productService) ListProducts(ctx context.Context, companyID string, params dto.ListProductsParams) ([]domain.Product, error) {
	return s.productRepo.ListProducts(ctx, companyID, params.Limit, params.Offset)
}

func (s *productService) GetBranchStock(ctx context.Context, companyID string, productID string, branchID string) (*domain.BranchStock, error) {
	if _, err := s.productRepo.FindProductByID(ctx, companyID, productID); err != nil {
		return nil, err
	}
	return s.productRepo.GetBranchStock(ctx, productID, branchID)
}

func (s *productService) UpdateProduct(ctx context.Context, companyID string, productID string, req dto.UpdateProductRequest, userID string) (*domain.Product, error) {
	product, err := s.productRepo.FindProductByID(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.SKU != nil {
		product.SKU = *req.SKU
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	product.LastUpdatedAt = time.Now().UTC()
	product.LastUpdatedBy = userID

	if err := s.productRepo.UpdateProduct(ctx, *product); err != nil {
		s.LogError(ctx, err, "Failed to update product", slog.String("product_id", productID))
		return nil, err
	}
	return product, nil
}

func (s *productService) Restock(ctx context.Context, companyID string, productID string, req dto.RestockRequest, userID string) error {
	return s.moveStock(ctx, companyID, productID, req.BranchID, req.Quantity, domain.StockRestock, req.Reference, userID)
}

func (s *productService) AdjustStock(ctx context.Context, companyID string, productID string, req dto.AdjustStockRequest, userID string) error {
	if req.Quantity == 0 {
		return fmt.Errorf("%w: quantity must be nonzero", apperrors.ErrValidation)
	}
	return s.moveStock(ctx, companyID, productID, req.BranchID, req.Quantity, domain.StockAdjustment, req.Reference, userID)
}

func (s *productService) moveStock(ctx context.Context, companyID, productID, branchID string, quantity int64, movementType domain.InventoryMovementType, reference string, userID string) error {
	product, err := s.productRepo.FindProductByID(ctx, companyID, productID)
	if err != nil {
		return err
	}
	if !product.TrackInventory {
		return fmt.Errorf("%w: product %s does not track inventory", apperrors.ErrValidation, productID)
	}

	now := time.Now().UTC()
	movement := domain.InventoryMovement{
		MovementID: uuid.NewString(),
		ProductID:  productID,
		BranchID:   branchID,
		Type:       movementType,
		Quantity:   quantity,
		Reference:  reference,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.productRepo.AdjustStock(ctx, &movement); err != nil {
		s.LogError(ctx, err, "Failed to move stock",
			slog.String("product_id", productID),
			slog.String("branch_id", branchID))
		return err
	}
	s.LogInfo(ctx, "Stock moved",
		slog.String("product_id", productID),
		slog.String("type", string(movementType)),
		slog.Int64("quantity", movement.Quantity))
	return nil
}
