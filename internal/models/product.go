package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the row shape of the products table.
type Product struct {
	ProductID      string          `db:"product_id"`
	CompanyID      string          `db:"company_id"`
	Name           string          `db:"name"`
	SKU            *string         `db:"sku"`
	Price          decimal.Decimal `db:"price"`
	TrackInventory bool            `db:"track_inventory"`
	IsActive       bool            `db:"is_active"`
	AuditFields
}

// BranchStock is the row shape of the branch_stock table.
type BranchStock struct {
	ProductID string    `db:"product_id"`
	BranchID  string    `db:"branch_id"`
	Quantity  int64     `db:"quantity"`
	UpdatedAt time.Time `db:"updated_at"`
}

// InventoryMovement is the row shape of the inventory_movements table.
type InventoryMovement struct {
	MovementID string  `db:"movement_id"`
	ProductID  string  `db:"product_id"`
	BranchID   string  `db:"branch_id"`
	Type       string  `db:"type"`
	Quantity   int64   `db:"quantity"`
	Reference  *string `db:"reference"`
	AuditFields
}
