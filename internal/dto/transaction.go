package dto

import (
	"time"

	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePostingRequest defines the data needed to post income or an expense.
type CreatePostingRequest struct {
	BranchID        string               `json:"branchID" binding:"required"`
	AccountID       string               `json:"accountID" binding:"required"`
	Type            domain.TransactionType `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Amount          decimal.Decimal      `json:"amount" binding:"required"`
	TaxAmount       decimal.Decimal      `json:"taxAmount"`
	PaymentMethod   domain.PaymentMethod `json:"paymentMethod" binding:"required,oneof=CASH CARD BANK_TRANSFER DIGITAL_WALLET"`
	Category        string               `json:"category"`
	Description     string               `json:"description"`
	TransactionDate *time.Time           `json:"transactionDate"` // defaults to now
	SessionID       string               `json:"sessionID"`
}

// CreateTransferRequest defines the data needed to move money between accounts.
type CreateTransferRequest struct {
	BranchID        string          `json:"branchID" binding:"required"`
	FromAccountID   string          `json:"fromAccountID" binding:"required"`
	ToAccountID     string          `json:"toAccountID" binding:"required,nefield=FromAccountID"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Description     string          `json:"description"`
	TransactionDate *time.Time      `json:"transactionDate"`
}

// TransactionResponse defines the data returned for a posting.
type TransactionResponse struct {
	TransactionID       string                 `json:"transactionID"`
	AccountID           string                 `json:"accountID"`
	AccountName         string                 `json:"accountName"`
	BranchID            string                 `json:"branchID"`
	Type                domain.TransactionType `json:"type"`
	Amount              decimal.Decimal        `json:"amount"`
	TaxAmount           decimal.Decimal        `json:"taxAmount"`
	TotalAmount         decimal.Decimal        `json:"totalAmount"`
	PaymentMethod       domain.PaymentMethod   `json:"paymentMethod"`
	Status              string                 `json:"status"`
	Category            string                 `json:"category,omitempty"`
	Description         string                 `json:"description,omitempty"`
	TransactionDate     time.Time              `json:"transactionDate"`
	RunningBalance      decimal.Decimal        `json:"runningBalance"`
	TransferAccountID   string                 `json:"transferAccountID,omitempty"`
	LinkedTransactionID string                 `json:"linkedTransactionID,omitempty"`
	SessionID           string                 `json:"sessionID,omitempty"`
	SourceType          string                 `json:"sourceType,omitempty"`
	SourceID            string                 `json:"sourceID,omitempty"`
	CreatedAt           time.Time              `json:"createdAt"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:       txn.TransactionID,
		AccountID:           txn.AccountID,
		AccountName:         txn.AccountName,
		BranchID:            txn.BranchID,
		Type:                txn.Type,
		Amount:              txn.Amount,
		TaxAmount:           txn.TaxAmount,
		TotalAmount:         txn.TotalAmount,
		PaymentMethod:       txn.PaymentMethod,
		Status:              string(txn.Status),
		Category:            txn.Category,
		Description:         txn.Description,
		TransactionDate:     txn.TransactionDate,
		RunningBalance:      txn.RunningBalance,
		TransferAccountID:   txn.TransferAccountID,
		LinkedTransactionID: txn.LinkedTransactionID,
		SessionID:           txn.SessionID,
		SourceType:          txn.SourceType,
		SourceID:            txn.SourceID,
		CreatedAt:           txn.CreatedAt,
	}
}

// TransferResponse returns both legs of a transfer.
type TransferResponse struct {
	Out TransactionResponse `json:"out"`
	In  TransactionResponse `json:"in"`
}

// ListTransactionsParams defines query parameters for listing postings.
type ListTransactionsParams struct {
	Limit     int    `form:"limit,default=20"`
	NextToken string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of postings.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToListTransactionsResponse converts a page of domain transactions.
func ToListTransactionsResponse(txns []domain.Transaction, nextToken *string) ListTransactionsResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return ListTransactionsResponse{Transactions: res, NextToken: nextToken}
}
