package dto

import (
	"time"

	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProductRequest defines the data needed to create a new product.
type CreateProductRequest struct {
	Name           string          `json:"name" binding:"required"`
	SKU            string          `json:"sku"`
	Price          decimal.Decimal `json:"price" binding:"required"`
	TrackInventory bool            `json:"trackInventory"`
}

// UpdateProductRequest defines the data allowed for updating a product.
type UpdateProductRequest struct {
	Name     *string          `json:"name"`
	SKU      *string          `json:"sku"`
	Price    *decimal.Decimal `json:"price"`
	IsActive *bool            `json:"isActive"`
}

// RestockRequest adds stock to a branch.
type RestockRequest struct {
	BranchID  string `json:"branchID" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
	Reference string `json:"reference"`
}

// AdjustStockRequest applies a signed correction to branch stock.
type AdjustStockRequest struct {
	BranchID  string `json:"branchID" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required"`
	Reference string `json:"reference"`
}

// ProductResponse defines the data returned for a product.
type ProductResponse struct {
	ProductID      string          `json:"productID"`
	CompanyID      string          `json:"companyID"`
	Name           string          `json:"name"`
	SKU            string          `json:"sku,omitempty"`
	Price          decimal.Decimal `json:"price"`
	TrackInventory bool            `json:"trackInventory"`
	IsActive       bool            `json:"isActive"`
	CreatedAt      time.Time       `json:"createdAt"`
	LastUpdatedAt  time.Time       `json:"lastUpdatedAt"`
}

// ToProductResponse converts a domain.Product to ProductResponse DTO
func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ProductID:      p.ProductID,
		CompanyID:      p.CompanyID,
		Name:           p.Name,
		SKU:            p.SKU,
		Price:          p.Price,
		TrackInventory: p.TrackInventory,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		LastUpdatedAt:  p.LastUpdatedAt,
	}
}

// ToListProductResponse converts a slice of domain.Product to response DTOs
func ToListProductResponse(products []domain.Product) []ProductResponse {
	res := make([]ProductResponse, len(products))
	for i := range products {
		res[i] = ToProductResponse(&products[i])
	}
	return res
}

// BranchStockResponse defines the stock level of a product in a branch.
type BranchStockResponse struct {
	ProductID string    `json:"productID"`
	BranchID  string    `json:"branchID"`
	Quantity  int64     `json:"quantity"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToBranchStockResponse converts a domain.BranchStock to its response DTO
func ToBranchStockResponse(s *domain.BranchStock) BranchStockResponse {
	return BranchStockResponse{
		ProductID: s.ProductID,
		BranchID:  s.BranchID,
		Quantity:  s.Quantity,
		UpdatedAt: s.UpdatedAt,
	}
}

// ListProductsParams defines query parameters for listing products.
type ListProductsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListProductsResponse wraps the list of products.
type ListProductsResponse struct {
	Products []ProductResponse `json:"products"`
}
