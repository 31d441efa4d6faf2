package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the row shape of the transactions table. Nullable linkage
// columns use pointers.
type Transaction struct {
	TransactionID       string          `db:"transaction_id"`
	CompanyID           string          `db:"company_id"`
	BranchID            string          `db:"branch_id"`
	AccountID           string          `db:"account_id"`
	AccountName         string          `db:"account_name"`
	Type                string          `db:"type"`
	Amount              decimal.Decimal `db:"amount"`
	TaxAmount           decimal.Decimal `db:"tax_amount"`
	TotalAmount         decimal.Decimal `db:"total_amount"`
	PaymentMethod       string          `db:"payment_method"`
	Status              string          `db:"status"`
	Category            string          `db:"category"`
	Description         string          `db:"description"`
	TransactionDate     time.Time       `db:"transaction_date"`
	RunningBalance      decimal.Decimal `db:"running_balance"`
	TransferAccountID   *string         `db:"transfer_account_id"`
	LinkedTransactionID *string         `db:"linked_transaction_id"`
	SessionID           *string         `db:"session_id"`
	SourceType          *string         `db:"source_type"`
	SourceID            *string         `db:"source_id"`
	AuditFields
}
