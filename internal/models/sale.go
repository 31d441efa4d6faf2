package models

import (
	"github.com/shopspring/decimal"
)

// Sale is the row shape of the sales table.
type Sale struct {
	SaleID        string          `db:"sale_id"`
	CompanyID     string          `db:"company_id"`
	BranchID      string          `db:"branch_id"`
	SaleNumber    string          `db:"sale_number"`
	CustomerID    *string         `db:"customer_id"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	DiscountTotal decimal.Decimal `db:"discount_total"`
	TaxTotal      decimal.Decimal `db:"tax_total"`
	Total         decimal.Decimal `db:"total"`
	Paid          decimal.Decimal `db:"paid"`
	Change        decimal.Decimal `db:"change_due"`
	Status        string          `db:"status"`
	Notes         *string         `db:"notes"`
	AuditFields
}

// SaleItem is the row shape of the sale_items table.
type SaleItem struct {
	SaleID    string          `db:"sale_id"`
	LineNo    int             `db:"line_no"`
	ProductID string          `db:"product_id"`
	Name      string          `db:"name"`
	Quantity  int64           `db:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price"`
	Discount  decimal.Decimal `db:"discount"`
	Subtotal  decimal.Decimal `db:"subtotal"`
}

// SalePayment is the row shape of the sale_payments table.
type SalePayment struct {
	SaleID        string          `db:"sale_id"`
	LineNo        int             `db:"line_no"`
	Method        string          `db:"method"`
	Amount        decimal.Decimal `db:"amount"`
	AccountID     string          `db:"account_id"`
	TransactionID *string         `db:"transaction_id"`
}
