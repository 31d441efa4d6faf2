package repositories

import (
	"context"

	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RegisterReader defines read operations for register sessions.
type RegisterReader interface {
	// FindSessionByID retrieves a session with its account movements and log.
	FindSessionByID(ctx context.Context, companyID string, sessionID string) (*domain.RegisterSession, error)

	// FindOpenSession retrieves the open session for a register, or ErrNotFound.
	FindOpenSession(ctx context.Context, companyID string, branchID string, registerID string) (*domain.RegisterSession, error)

	// FindOpenSessionByBranch retrieves the earliest-opened open session in a
	// branch, or ErrNotFound. Used to attribute sales when no register is named.
	FindOpenSessionByBranch(ctx context.Context, companyID string, branchID string) (*domain.RegisterSession, error)

	// ListSessions retrieves sessions for a branch, newest first.
	ListSessions(ctx context.Context, companyID string, branchID string, limit int, offset int) ([]domain.RegisterSession, error)
}

// RegisterWriter defines write operations for register sessions. Every
// method that carries postings runs them in the same storage transaction as
// the session mutation, so session state and ledger never diverge.
type RegisterWriter interface {
	// SaveSession persists a new session together with its account movement
	// rows and the opening-count postings in one storage transaction.
	SaveSession(ctx context.Context, session domain.RegisterSession, postings []*domain.Transaction) error

	// AppendMovement inserts a movement log entry and accumulates its signed
	// amount onto the mapped account's transaction total, atomically. Used
	// for sale attribution, where the ledger side already committed.
	AppendMovement(ctx context.Context, movement domain.SessionMovement) error

	// RecordMovement inserts a movement log entry, applies the per-account
	// adjustment deltas and posts the movement's ledger transactions, all in
	// one storage transaction. Fails with ErrSessionNotOpen when the session
	// is no longer open.
	RecordMovement(ctx context.Context, movement domain.SessionMovement, adjustments map[string]decimal.Decimal, postings []*domain.Transaction) error

	// CloseSession marks the session closed, writes the final account
	// movement figures and posts the adjustment transfer legs in one storage
	// transaction.
	CloseSession(ctx context.Context, session domain.RegisterSession, adjustments []*domain.Transaction) error
}

// RegisterRepositoryFacade combines the register repository interfaces.
type RegisterRepositoryFacade interface {
	RegisterReader
	RegisterWriter
}
