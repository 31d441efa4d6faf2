package repositories

import (
	"context"

	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
)

// ProductReader defines read operations for products and stock.
type ProductReader interface {
	// FindProductByID retrieves a product by its unique identifier.
	FindProductByID(ctx context.Context, companyID string, productID string) (*domain.Product, error)

	// FindProductsByIDs retrieves multiple products by their IDs.
	FindProductsByIDs(ctx context.Context, companyID string, productIDs []string) (map[string]domain.Product, error)

	// ListProducts retrieves the products of a company.
	ListProducts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Product, error)

	// GetBranchStock retrieves the stock level of a product in a branch.
	// Missing rows read as zero.
	GetBranchStock(ctx context.Context, productID string, branchID string) (*domain.BranchStock, error)
}

// ProductWriter defines write operations for products and stock.
type ProductWriter interface {
	// SaveProduct persists a new product.
	SaveProduct(ctx context.Context, product domain.Product) error

	// UpdateProduct updates an existing product's details.
	UpdateProduct(ctx context.Context, product domain.Product) error

	// AdjustStock applies a signed stock delta (clamped at zero) and records
	// the inventory movement, atomically. The movement's Quantity is updated
	// to the delta actually applied.
	AdjustStock(ctx context.Context, movement *domain.InventoryMovement) error
}

// ProductRepositoryFacade combines the product repository interfaces.
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
}
