package services

import (
	"context"

	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
	"github.com/a7mdelbanna/clients_plus_backend/internal/dto"
)

// ProductReaderSvc defines read operations for products and stock.
type ProductReaderSvc interface {
	// GetProductByID retrieves a product by its unique identifier.
	GetProductByID(ctx context.Context, companyID string, productID string) (*domain.Product, error)

	// ListProducts retrieves the products of a company.
	ListProducts(ctx context.Context, companyID string, params dto.ListProductsParams) ([]domain.Product, error)

	// GetBranchStock retrieves the stock level of a product in a branch.
	GetBranchStock(ctx context.Context, companyID string, productID string, branchID string) (*domain.BranchStock, error)
}

// ProductWriterSvc defines write operations for products and stock.
type ProductWriterSvc interface {
	// CreateProduct persists a new product.
	CreateProduct(ctx context.Context, companyID string, req dto.CreateProductRequest, userID string) (*domain.Product, error)

	// UpdateProduct updates an existing product's details.
	UpdateProduct(ctx context.Context, companyID string, productID string, req dto.UpdateProductRequest, userID string) (*domain.Product, error)

	// Restock adds stock to a branch and records the inventory movement.
	Restock(ctx context.Context, companyID string, productID string, req dto.RestockRequest, userID string) error

	// AdjustStock applies a signed stock correction, clamped at zero.
	AdjustStock(ctx context.Context, companyID string, productID string, req dto.AdjustStockRequest, userID string) error
}

// ProductSvcFacade combines the product service interfaces.
type ProductSvcFacade interface {
	ProductReaderSvc
	ProductWriterSvc
}
