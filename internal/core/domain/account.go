package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies a financial account by where the money lives.
type AccountType string

const (
	AccountCash          AccountType = "CASH"
	AccountBank          AccountType = "BANK"
	AccountCreditCard    AccountType = "CREDIT_CARD"
	AccountDigitalWallet AccountType = "DIGITAL_WALLET"
	AccountOther         AccountType = "OTHER"
)

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

const (
	AccountActive   AccountStatus = "ACTIVE"
	AccountInactive AccountStatus = "INACTIVE"
	AccountClosed   AccountStatus = "CLOSED"
)

// Account represents a financial account scoped to a company branch.
// Balance is the persisted running balance; it always equals the opening
// balance plus the signed sum of completed postings against the account.
type Account struct {
	AccountID           string          `json:"accountID"` // Primary key (UUID)
	CompanyID           string          `json:"companyID"`
	BranchID            string          `json:"branchID"`
	Name                string          `json:"name"`
	AccountType         AccountType     `json:"accountType"`
	Status              AccountStatus   `json:"status"`
	OpeningBalance      decimal.Decimal `json:"openingBalance"`
	OpeningDate         time.Time       `json:"openingDate"`
	Balance             decimal.Decimal `json:"balance"`
	AllowNegative       bool            `json:"allowNegative"`
	LowBalanceThreshold decimal.Decimal `json:"lowBalanceThreshold"` // zero disables alerts
	IsDefault           bool            `json:"isDefault"`           // default account for its type in the branch
	AuditFields
}

// IsActive reports whether the account can accept postings.
func (a *Account) IsActive() bool {
	return a.Status == AccountActive
}
