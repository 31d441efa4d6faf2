package repositories

import (
	"context"

	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
)

// SaleReader defines read operations for sales.
type SaleReader interface {
	// FindSaleByID retrieves a sale with its items and payments.
	FindSaleByID(ctx context.Context, companyID string, saleID string) (*domain.Sale, error)

	// ListSales retrieves sales for a branch, newest first.
	ListSales(ctx context.Context, companyID string, branchID string, limit int, offset int) ([]domain.Sale, error)
}

// SaleWriter defines write operations for sales. CompleteSale and VoidSale
// are single storage transactions covering stock, ledger postings and the
// status flip together.
type SaleWriter interface {
	// SaveSale persists a draft sale with its items and payments.
	SaveSale(ctx context.Context, sale domain.Sale) error

	// CompleteSale atomically decrements tracked stock (clamped at zero),
	// records the resulting inventory movements, posts the income
	// transactions, stamps payment transaction ids and flips the sale to
	// COMPLETED. decrements maps productID to the quantity sold for tracked
	// products only. The postings' RunningBalance fields are filled in.
	CompleteSale(ctx context.Context, sale *domain.Sale, postings []*domain.Transaction, decrements map[string]int64) error

	// VoidSale atomically restores stock, records VOID_RETURN inventory
	// movements, posts the reversing transactions and flips the sale to
	// VOIDED. increments maps productID to the quantity returned.
	VoidSale(ctx context.Context, sale *domain.Sale, postings []*domain.Transaction, increments map[string]int64) error
}

// SaleRepositoryFacade combines the sale repository interfaces.
type SaleRepositoryFacade interface {
	SaleReader
	SaleWriter
}
