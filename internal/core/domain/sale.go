package domain

import (
	"github.com/shopspring/decimal"
)

// SaleStatus is the lifecycle state of a sale.
type SaleStatus string

const (
	SaleDraft     SaleStatus = "DRAFT"
	SaleCompleted SaleStatus = "COMPLETED"
	SaleVoided    SaleStatus = "VOIDED"
)

// SaleItem is one product line on a sale. Name is a snapshot of the product
// name at sale time.
type SaleItem struct {
	ProductID string          `json:"productID"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Discount  decimal.Decimal `json:"discount"` // absolute discount on the line
	Subtotal  decimal.Decimal `json:"subtotal"` // quantity*unitPrice - discount
}

// SalePayment is one payment applied to a sale. AccountID is the ledger
// account credited when the sale completes; TransactionID is set once the
// income posting exists.
type SalePayment struct {
	Method        PaymentMethod   `json:"method"`
	Amount        decimal.Decimal `json:"amount"`
	AccountID     string          `json:"accountID"`
	TransactionID string          `json:"transactionID,omitempty"`
}

// Sale is a customer checkout. Completion posts income to the ledger and
// decrements stock atomically; voiding reverses both.
type Sale struct {
	SaleID        string          `json:"saleID"` // Primary key (UUID)
	CompanyID     string          `json:"companyID"`
	BranchID      string          `json:"branchID"`
	SaleNumber    string          `json:"saleNumber"`
	CustomerID    string          `json:"customerID,omitempty"`
	Items         []SaleItem      `json:"items"`
	Payments      []SalePayment   `json:"payments"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DiscountTotal decimal.Decimal `json:"discountTotal"`
	TaxTotal      decimal.Decimal `json:"taxTotal"`
	Total         decimal.Decimal `json:"total"`
	Paid          decimal.Decimal `json:"paid"`
	Change        decimal.Decimal `json:"change"`
	Status        SaleStatus      `json:"status"`
	Notes         string          `json:"notes,omitempty"`
	AuditFields
}

// Recalculate derives line subtotals and the sale totals from items, tax and
// payments. Change never goes negative; underpayment is surfaced by the
// completion precondition instead.
func (s *Sale) Recalculate() {
	subtotal := decimal.Zero
	discount := decimal.Zero
	for i := range s.Items {
		item := &s.Items[i]
		gross := item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity))
		item.Subtotal = gross.Sub(item.Discount)
		subtotal = subtotal.Add(item.Subtotal)
		discount = discount.Add(item.Discount)
	}
	s.Subtotal = subtotal
	s.DiscountTotal = discount
	s.Total = subtotal.Add(s.TaxTotal)

	paid := decimal.Zero
	for _, p := range s.Payments {
		paid = paid.Add(p.Amount)
	}
	s.Paid = paid
	change := paid.Sub(s.Total)
	if change.IsNegative() {
		change = decimal.Zero
	}
	s.Change = change
}
