package repositories

import (
	"context"

	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
)

// TransactionReader defines read operations for ledger postings.
type TransactionReader interface {
	// FindTransactionByID retrieves a posting by its unique identifier.
	FindTransactionByID(ctx context.Context, companyID string, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByAccount retrieves a token-paginated list of postings
	// for an account, newest first.
	ListTransactionsByAccount(ctx context.Context, companyID string, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// ListTransactionsBySession retrieves the postings attributed to a register session.
	ListTransactionsBySession(ctx context.Context, companyID string, sessionID string) ([]domain.Transaction, error)
}

// TransactionWriter defines the atomic posting operations. Each call is one
// storage transaction: account rows are locked, the negative-balance rule is
// checked against the locked balance, deltas are applied and the posting rows
// inserted, or nothing happens at all.
type TransactionWriter interface {
	// SavePosting posts a single income or expense transaction. The
	// transaction's RunningBalance is filled in from the locked account.
	SavePosting(ctx context.Context, txn *domain.Transaction) error

	// SaveTransfer posts a linked pair of legs: out on the source account,
	// in on the destination. Both legs commit together.
	SaveTransfer(ctx context.Context, out *domain.Transaction, in *domain.Transaction) error
}

// TransactionRepositoryFacade combines the posting repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}

// TransactionRepositoryWithTx extends the facade with transaction capabilities.
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
