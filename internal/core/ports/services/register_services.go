package services

import (
	"context"

	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
	"github.com/a7mdelbanna/clients_plus_backend/internal/dto"
)

// RegisterReaderSvc defines read operations for register sessions.
type RegisterReaderSvc interface {
	// GetSessionByID retrieves a session with its movements and log.
	GetSessionByID(ctx context.Context, companyID string, sessionID string) (*domain.RegisterSession, error)

	// GetOpenSession retrieves the open session for a register, or ErrNotFound.
	GetOpenSession(ctx context.Context, companyID string, branchID string, registerID string) (*domain.RegisterSession, error)

	// ListSessions retrieves sessions for a branch, newest first.
	ListSessions(ctx context.Context, companyID string, params dto.ListSessionsParams) ([]domain.RegisterSession, error)
}

// RegisterWriterSvc defines the session lifecycle operations.
type RegisterWriterSvc interface {
	// OpenSession opens a session for a register, seeding opening balances
	// from the mapped accounts plus the declared floats and posting an
	// opening-count income per funded account. Fails when the register
	// already has one open.
	OpenSession(ctx context.Context, companyID string, req dto.OpenSessionRequest, userID string) (*domain.RegisterSession, error)

	// RecordMovement appends to an open session's movement log and posts the
	// movement's ledger effect: a transfer when both accounts are named, a
	// single income or expense posting otherwise.
	RecordMovement(ctx context.Context, companyID string, sessionID string, req dto.RecordMovementRequest, userID string) (*domain.SessionMovement, error)

	// CloseSession reconciles declared balances against expectations, posts
	// one adjustment transfer per discrepant account through the over/short
	// account, and closes the session.
	CloseSession(ctx context.Context, companyID string, sessionID string, req dto.CloseSessionRequest, userID string) (*domain.ClosingSummary, error)
}

// RegisterSvcFacade combines the register service interfaces.
type RegisterSvcFacade interface {
	RegisterReaderSvc
	RegisterWriterSvc
}
