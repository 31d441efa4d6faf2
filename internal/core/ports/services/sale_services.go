package services

import (
	"context"

	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
	"github.com/a7mdelbanna/clients_plus_backend/internal/dto"
)

// SaleReaderSvc defines read operations for sales.
type SaleReaderSvc interface {
	// GetSaleByID retrieves a sale with its items and payments.
	GetSaleByID(ctx context.Context, companyID string, saleID string) (*domain.Sale, error)

	// ListSales retrieves sales for a branch, newest first.
	ListSales(ctx context.Context, companyID string, params dto.ListSalesParams) ([]domain.Sale, error)
}

// SaleWriterSvc defines the sale lifecycle operations.
type SaleWriterSvc interface {
	// CreateSale computes totals and persists a draft sale.
	CreateSale(ctx context.Context, companyID string, req dto.CreateSaleRequest, userID string) (*domain.Sale, error)

	// CompleteSale atomically decrements stock, posts the income
	// transactions and flips the sale to COMPLETED; register attribution and
	// low-balance alerts follow best-effort.
	CompleteSale(ctx context.Context, companyID string, saleID string, userID string) (*domain.Sale, error)

	// VoidSale reverses a completed sale: stock comes back, reversing
	// postings are created, and the sale flips to VOIDED.
	VoidSale(ctx context.Context, companyID string, saleID string, userID string) (*domain.Sale, error)
}

// SaleSvcFacade combines the sale service interfaces.
type SaleSvcFacade interface {
	SaleReaderSvc
	SaleWriterSvc
}
