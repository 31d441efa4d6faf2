package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the row shape of the accounts table.
type Account struct {
	AccountID           string          `db:"account_id"`
	CompanyID           string          `db:"company_id"`
	BranchID            string          `db:"branch_id"`
	Name                string          `db:"name"`
	AccountType         string          `db:"account_type"`
	Status              string          `db:"status"`
	OpeningBalance      decimal.Decimal `db:"opening_balance"`
	OpeningDate         time.Time       `db:"opening_date"`
	Balance             decimal.Decimal `db:"balance"`
	AllowNegative       bool            `db:"allow_negative"`
	LowBalanceThreshold decimal.Decimal `db:"low_balance_threshold"`
	IsDefault           bool            `db:"is_default"`
	AuditFields
}
