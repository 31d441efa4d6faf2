package dto

import (
	"time"

	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	BranchID            string             `json:"branchID" binding:"required"`
	Name                string             `json:"name" binding:"required"`
	AccountType         domain.AccountType `json:"accountType" binding:"required,oneof=CASH BANK CREDIT_CARD DIGITAL_WALLET OTHER"`
	OpeningBalance      decimal.Decimal    `json:"openingBalance"`
	OpeningDate         *time.Time         `json:"openingDate"` // defaults to now
	AllowNegative       bool               `json:"allowNegative"`
	LowBalanceThreshold decimal.Decimal    `json:"lowBalanceThreshold"`
	IsDefault           bool               `json:"isDefault"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Pointers distinguish zero-value updates from fields not provided.
type UpdateAccountRequest struct {
	Name                *string          `json:"name"`
	AllowNegative       *bool            `json:"allowNegative"`
	LowBalanceThreshold *decimal.Decimal `json:"lowBalanceThreshold"`
	IsDefault           *bool            `json:"isDefault"`
	Status              *string          `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID           string             `json:"accountID"`
	CompanyID           string             `json:"companyID"`
	BranchID            string             `json:"branchID"`
	Name                string             `json:"name"`
	AccountType         domain.AccountType `json:"accountType"`
	Status              string             `json:"status"`
	OpeningBalance      decimal.Decimal    `json:"openingBalance"`
	OpeningDate         time.Time          `json:"openingDate"`
	Balance             decimal.Decimal    `json:"balance"`
	AllowNegative       bool               `json:"allowNegative"`
	LowBalanceThreshold decimal.Decimal    `json:"lowBalanceThreshold"`
	IsDefault           bool               `json:"isDefault"`
	CreatedAt           time.Time          `json:"createdAt"`
	LastUpdatedAt       time.Time          `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:           acc.AccountID,
		CompanyID:           acc.CompanyID,
		BranchID:            acc.BranchID,
		Name:                acc.Name,
		AccountType:         acc.AccountType,
		Status:              string(acc.Status),
		OpeningBalance:      acc.OpeningBalance,
		OpeningDate:         acc.OpeningDate,
		Balance:             acc.Balance,
		AllowNegative:       acc.AllowNegative,
		LowBalanceThreshold: acc.LowBalanceThreshold,
		IsDefault:           acc.IsDefault,
		CreatedAt:           acc.CreatedAt,
		LastUpdatedAt:       acc.LastUpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to response DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	BranchID    string `form:"branchID"`
	AccountType string `form:"type"`
	Status      string `form:"status"`
	Limit       int    `form:"limit,default=20"`
	Offset      int    `form:"offset,default=0"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
