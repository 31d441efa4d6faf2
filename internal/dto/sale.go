package dto

import (
	"time"

	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SaleItemRequest is one product line on a sale request.
type SaleItemRequest struct {
	ProductID string          `json:"productID" binding:"required"`
	Quantity  int64           `json:"quantity" binding:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unitPrice"` // defaults to the product price
	Discount  decimal.Decimal `json:"discount"`
}

// SalePaymentRequest is one payment on a sale request. AccountID may be left
// empty when an open register session supplies the mapping.
type SalePaymentRequest struct {
	Method    domain.PaymentMethod `json:"method" binding:"required,oneof=CASH CARD BANK_TRANSFER DIGITAL_WALLET"`
	Amount    decimal.Decimal      `json:"amount" binding:"required"`
	AccountID string               `json:"accountID"`
}

// CreateSaleRequest defines the data needed to create a draft sale.
type CreateSaleRequest struct {
	BranchID   string               `json:"branchID" binding:"required"`
	CustomerID string               `json:"customerID"`
	Items      []SaleItemRequest    `json:"items" binding:"required,min=1,dive"`
	Payments   []SalePaymentRequest `json:"payments" binding:"dive"`
	TaxTotal   decimal.Decimal      `json:"taxTotal"`
	Notes      string               `json:"notes"`
}

// SaleItemResponse is one product line on a sale.
type SaleItemResponse struct {
	ProductID string          `json:"productID"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Discount  decimal.Decimal `json:"discount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SalePaymentResponse is one payment on a sale.
type SalePaymentResponse struct {
	Method        string          `json:"method"`
	Amount        decimal.Decimal `json:"amount"`
	AccountID     string          `json:"accountID"`
	TransactionID string          `json:"transactionID,omitempty"`
}

// SaleResponse defines the data returned for a sale.
type SaleResponse struct {
	SaleID        string                `json:"saleID"`
	CompanyID     string                `json:"companyID"`
	BranchID      string                `json:"branchID"`
	SaleNumber    string                `json:"saleNumber"`
	CustomerID    string                `json:"customerID,omitempty"`
	Items         []SaleItemResponse    `json:"items"`
	Payments      []SalePaymentResponse `json:"payments"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	DiscountTotal decimal.Decimal       `json:"discountTotal"`
	TaxTotal      decimal.Decimal       `json:"taxTotal"`
	Total         decimal.Decimal       `json:"total"`
	Paid          decimal.Decimal       `json:"paid"`
	Change        decimal.Decimal       `json:"change"`
	Status        string                `json:"status"`
	Notes         string                `json:"notes,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	LastUpdatedAt time.Time             `json:"lastUpdatedAt"`
}

// ToSaleResponse converts a domain.Sale to its response DTO
func ToSaleResponse(s *domain.Sale) SaleResponse {
	items := make([]SaleItemResponse, len(s.Items))
	for i, item := range s.Items {
		items[i] = SaleItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
			Subtotal:  item.Subtotal,
		}
	}
	payments := make([]SalePaymentResponse, len(s.Payments))
	for i, p := range s.Payments {
		payments[i] = SalePaymentResponse{
			Method:        string(p.Method),
			Amount:        p.Amount,
			AccountID:     p.AccountID,
			TransactionID: p.TransactionID,
		}
	}
	return SaleResponse{
		SaleID:        s.SaleID,
		CompanyID:     s.CompanyID,
		BranchID:      s.BranchID,
		SaleNumber:    s.SaleNumber,
		CustomerID:    s.CustomerID,
		Items:         items,
		Payments:      payments,
		Subtotal:      s.Subtotal,
		DiscountTotal: s.DiscountTotal,
		TaxTotal:      s.TaxTotal,
		Total:         s.Total,
		Paid:          s.Paid,
		Change:        s.Change,
		Status:        string(s.Status),
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt,
		LastUpdatedAt: s.LastUpdatedAt,
	}
}

// ToListSaleResponse converts a slice of domain.Sale to response DTOs
func ToListSaleResponse(sales []domain.Sale) []SaleResponse {
	res := make([]SaleResponse, len(sales))
	for i := range sales {
		res[i] = ToSaleResponse(&sales[i])
	}
	return res
}

// ListSalesParams defines query parameters for listing sales.
type ListSalesParams struct {
	BranchID string `form:"branchID" binding:"required"`
	Limit    int    `form:"limit,default=20"`
	Offset   int    `form:"offset,default=0"`
}

// ListSalesResponse wraps the list of sales.
type ListSalesResponse struct {
	Sales []SaleResponse `json:"sales"`
}
