package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item. Stock is tracked per branch only when
// TrackInventory is set.
type Product struct {
	ProductID      string          `json:"productID"` // Primary key (UUID)
	CompanyID      string          `json:"companyID"`
	Name           string          `json:"name"`
	SKU            string          `json:"sku,omitempty"`
	Price          decimal.Decimal `json:"price"`
	TrackInventory bool            `json:"trackInventory"`
	IsActive       bool            `json:"isActive"`
	AuditFields
}

// BranchStock is the on-hand quantity of a product in one branch. Quantity
// never goes below zero; sales clamp their decrement at the available stock.
type BranchStock struct {
	ProductID string    `json:"productID"`
	BranchID  string    `json:"branchID"`
	Quantity  int64     `json:"quantity"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// InventoryMovementType classifies a stock change.
type InventoryMovementType string

const (
	StockSale       InventoryMovementType = "SALE"
	StockRestock    InventoryMovementType = "RESTOCK"
	StockAdjustment InventoryMovementType = "ADJUSTMENT"
	StockVoidReturn InventoryMovementType = "VOID_RETURN"
)

// InventoryMovement records one signed stock change. Quantity is the delta
// actually applied, so summing movements reproduces the stock level.
type InventoryMovement struct {
	MovementID string                `json:"movementID"` // Primary key (UUID)
	ProductID  string                `json:"productID"`
	BranchID   string                `json:"branchID"`
	Type       InventoryMovementType `json:"type"`
	Quantity   int64                 `json:"quantity"` // signed
	Reference  string                `json:"reference,omitempty"`
	AuditFields
}
