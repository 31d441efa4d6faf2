package services

import (
	"context"

	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
	"github.com/a7mdelbanna/clients_plus_backend/internal/dto"
)

// LedgerReaderSvc defines read operations for ledger postings.
type LedgerReaderSvc interface {
	// GetTransactionByID retrieves a posting by its unique identifier.
	GetTransactionByID(ctx context.Context, companyID string, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a token-paginated page of postings for an
	// account, newest first.
	ListTransactions(ctx context.Context, companyID string, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// LedgerWriterSvc defines the posting operations.
type LedgerWriterSvc interface {
	// PostTransaction posts income or an expense against an account. The
	// balance mutation and posting insert happen in one atomic unit; a
	// low-balance alert may follow, best-effort.
	PostTransaction(ctx context.Context, companyID string, req dto.CreatePostingRequest, userID string) (*domain.Transaction, error)

	// PostTransfer moves money between two accounts as a linked pair of
	// legs committed together.
	PostTransfer(ctx context.Context, companyID string, req dto.CreateTransferRequest, userID string) (*domain.Transaction, *domain.Transaction, error)
}

// LedgerSvcFacade combines the ledger service interfaces.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
