package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/a7mdelbanna/clients_plus_backend/internal/apperrors"
	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
	portsrepo "github.com/a7mdelbanna/clients_plus_backend/internal/core/ports/repositories"
	"github.com/a7mdelbanna/clients_plus_backend/internal/models"
	"github.com/a7mdelbanna/clients_plus_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const sessionColumns = `session_id, company_id, branch_id, register_id, status, opened_by, opened_at, closed_by, closed_at, created_at, created_by, last_updated_at, last_updated_by`

const sessionAccountColumns = `session_id, account_id, role, opening_balance, transaction_total, adjustments, expected_balance, actual_balance, discrepancy, adjustment_transaction_id`

type PgxRegisterRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxRegisterRepository creates a new repository for register sessions.
func newPgxRegisterRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.RegisterRepositoryFacade {
	return &PgxRegisterRepository{BaseRepository: BaseRepository{Pool: pool}, accountRepo: accountRepo}
}

// Ensure PgxRegisterRepository implements the facade
var _ portsrepo.RegisterRepositoryFacade = (*PgxRegisterRepository)(nil)

func scanSession(row pgx.Row) (*models.RegisterSession, error) {
	var m models.RegisterSession
	err := row.Scan(
		&m.SessionID,
		&m.CompanyID,
		&m.BranchID,
		&m.RegisterID,
		&m.Status,
		&m.OpenedBy,
		&m.OpenedAt,
		&m.ClosedBy,
		&m.ClosedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveSession persists a new session with its account movement rows and posts
// the opening-count transactions against the ledger in the same database
// transaction. The partial unique index on open sessions turns a concurrent
// double-open into ErrSessionAlreadyOpen.
func (r *PgxRegisterRepository) SaveSession(ctx context.Context, session domain.RegisterSession, postings []*domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelRegisterSession(session)
	sessionQuery := `
		INSERT INTO register_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, sessionQuery,
		m.SessionID,
		m.CompanyID,
		m.BranchID,
		m.RegisterID,
		m.Status,
		m.OpenedBy,
		m.OpenedAt,
		m.ClosedBy,
		m.ClosedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: register %s", apperrors.ErrSessionAlreadyOpen, m.RegisterID)
		}
		return apperrors.NewAppError(500, "failed to insert register session "+m.SessionID, err)
	}

	accountQuery := `
		INSERT INTO session_accounts (` + sessionAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, movement := range session.Movements {
		sa := mapping.ToModelSessionAccount(session.SessionID, movement)
		batch.Queue(accountQuery,
			sa.SessionID,
			sa.AccountID,
			sa.Role,
			sa.OpeningBalance,
			sa.TransactionTotal,
			sa.Adjustments,
			sa.ExpectedBalance,
			sa.ActualBalance,
			sa.Discrepancy,
			sa.AdjustmentTransactionID,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert session accounts for "+m.SessionID, err)
	}

	if err := postLedgerTransactionsInTx(ctx, tx, r.accountRepo, postings, session.OpenedBy, session.OpenedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// loadSessionDetails attaches account movements and the movement log to a
// session loaded from its row.
func (r *PgxRegisterRepository) loadSessionDetails(ctx context.Context, session *domain.RegisterSession) error {
	accountsQuery := `
		SELECT ` + sessionAccountColumns + `
		FROM session_accounts
		WHERE session_id = $1;
	`
	rows, err := r.Pool.Query(ctx, accountsQuery, session.SessionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to query session accounts for "+session.SessionID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var sa models.SessionAccount
		if err := rows.Scan(
			&sa.SessionID,
			&sa.AccountID,
			&sa.Role,
			&sa.OpeningBalance,
			&sa.TransactionTotal,
			&sa.Adjustments,
			&sa.ExpectedBalance,
			&sa.ActualBalance,
			&sa.Discrepancy,
			&sa.AdjustmentTransactionID,
		); err != nil {
			return apperrors.NewAppError(500, "failed to scan session account row", err)
		}
		movement := mapping.ToDomainAccountMovement(sa)
		session.Movements[movement.AccountID] = movement
		session.AccountMappings[movement.Role] = movement.AccountID
	}
	if err := rows.Err(); err != nil {
		return apperrors.NewAppError(500, "error iterating session account rows", err)
	}

	logQuery := `
		SELECT movement_id, session_id, type, amount, payment_method, account_id, reference, note, recorded_by, recorded_at
		FROM session_movements
		WHERE session_id = $1
		ORDER BY recorded_at;
	`
	logRows, err := r.Pool.Query(ctx, logQuery, session.SessionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to query session movements for "+session.SessionID, err)
	}
	defer logRows.Close()

	for logRows.Next() {
		var sm models.SessionMovement
		if err := logRows.Scan(
			&sm.MovementID,
			&sm.SessionID,
			&sm.Type,
			&sm.Amount,
			&sm.PaymentMethod,
			&sm.AccountID,
			&sm.Reference,
			&sm.Note,
			&sm.RecordedBy,
			&sm.RecordedAt,
		); err != nil {
			return apperrors.NewAppError(500, "failed to scan session movement row", err)
		}
		session.Log = append(session.Log, mapping.ToDomainSessionMovement(sm))
	}
	return logRows.Err()
}

// FindSessionByID retrieves a session with its account movements and log.
func (r *PgxRegisterRepository) FindSessionByID(ctx context.Context, companyID string, sessionID string) (*domain.RegisterSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM register_sessions
		WHERE company_id = $1 AND session_id = $2;
	`
	m, err := scanSession(r.Pool.QueryRow(ctx, query, companyID, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find session by ID "+sessionID, err)
	}
	session := mapping.ToDomainRegisterSession(*m)
	if err := r.loadSessionDetails(ctx, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// FindOpenSession retrieves the open session for a register, or ErrNotFound.
func (r *PgxRegisterRepository) FindOpenSession(ctx context.Context, companyID string, branchID string, registerID string) (*domain.RegisterSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM register_sessions
		WHERE company_id = $1 AND branch_id = $2 AND register_id = $3 AND status = 'OPEN';
	`
	m, err := scanSession(r.Pool.QueryRow(ctx, query, companyID, branchID, registerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find open session for register "+registerID, err)
	}
	session := mapping.ToDomainRegisterSession(*m)
	if err := r.loadSessionDetails(ctx, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// FindOpenSessionByBranch retrieves the earliest-opened open session in a
// branch, or ErrNotFound.
func (r *PgxRegisterRepository) FindOpenSessionByBranch(ctx context.Context, companyID string, branchID string) (*domain.RegisterSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM register_sessions
		WHERE company_id = $1 AND branch_id = $2 AND status = 'OPEN'
		ORDER BY opened_at ASC
		LIMIT 1;
	`
	m, err := scanSession(r.Pool.QueryRow(ctx, query, companyID, branchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find open session for branch "+branchID, err)
	}
	session := mapping.ToDomainRegisterSession(*m)
	if err := r.loadSessionDetails(ctx, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessions retrieves session rows for a branch, newest first. Account
// movements and logs are loaded on demand through FindSessionByID.
func (r *PgxRegisterRepository) ListSessions(ctx context.Context, companyID string, branchID string, limit int, offset int) ([]domain.RegisterSession, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT ` + sessionColumns + `
		FROM register_sessions
		WHERE company_id = $1 AND branch_id = $2
		ORDER BY opened_at DESC
		LIMIT $3 OFFSET $4;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, branchID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list sessions for branch "+branchID, err)
	}
	defer rows.Close()

	sessions := []domain.RegisterSession{}
	for rows.Next() {
		m, err := scanSession(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan session row", err)
		}
		sessions = append(sessions, mapping.ToDomainRegisterSession(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating session rows", err)
	}
	return sessions, nil
}

// AppendMovement inserts a movement log entry and accumulates its signed
// amount onto the mapped account's transaction total. The update only
// matches an OPEN session, so a closed session surfaces as ErrSessionNotOpen.
func (r *PgxRegisterRepository) AppendMovement(ctx context.Context, movement domain.SessionMovement) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	updateQuery := `
		UPDATE session_accounts sa
		SET transaction_total = sa.transaction_total + $3
		FROM register_sessions rs
		WHERE sa.session_id = rs.session_id
		  AND sa.session_id = $1
		  AND sa.account_id = $2
		  AND rs.status = 'OPEN';
	`
	cmdTag, err := tx.Exec(ctx, updateQuery, movement.SessionID, movement.AccountID, movement.SignedAmount())
	if err != nil {
		return apperrors.NewAppError(500, "failed to accumulate movement for session "+movement.SessionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: session %s account %s", apperrors.ErrSessionNotOpen, movement.SessionID, movement.AccountID)
	}

	m := mapping.ToModelSessionMovement(movement)
	insertQuery := `
		INSERT INTO session_movements (movement_id, session_id, type, amount, payment_method, account_id, reference, note, recorded_by, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	if _, err := tx.Exec(ctx, insertQuery,
		m.MovementID,
		m.SessionID,
		m.Type,
		m.Amount,
		m.PaymentMethod,
		m.AccountID,
		m.Reference,
		m.Note,
		m.RecordedBy,
		m.RecordedAt,
	); err != nil {
		return apperrors.NewAppError(500, "failed to insert session movement "+m.MovementID, err)
	}

	return r.Commit(ctx, tx)
}

// RecordMovement inserts a manual movement log entry, accumulates its ledger
// effect onto the session's adjustments columns and posts the backing
// transactions, all in one database transaction. The session row is locked
// first so a concurrent close cannot slip between the guard and the posting.
func (r *PgxRegisterRepository) RecordMovement(ctx context.Context, movement domain.SessionMovement, adjustments map[string]decimal.Decimal, postings []*domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var status string
	guardQuery := `SELECT status FROM register_sessions WHERE session_id = $1 FOR UPDATE;`
	if err := tx.QueryRow(ctx, guardQuery, movement.SessionID).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to lock session "+movement.SessionID, err)
	}
	if status != string(domain.SessionOpen) {
		return fmt.Errorf("%w: session %s", apperrors.ErrSessionNotOpen, movement.SessionID)
	}

	accountIDs := make([]string, 0, len(adjustments))
	for accountID := range adjustments {
		accountIDs = append(accountIDs, accountID)
	}
	sort.Strings(accountIDs)

	adjustQuery := `
		UPDATE session_accounts
		SET adjustments = adjustments + $3
		WHERE session_id = $1 AND account_id = $2;
	`
	batch := &pgx.Batch{}
	for _, accountID := range accountIDs {
		batch.Queue(adjustQuery, movement.SessionID, accountID, adjustments[accountID])
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to accumulate adjustments for session "+movement.SessionID, err)
	}

	m := mapping.ToModelSessionMovement(movement)
	insertQuery := `
		INSERT INTO session_movements (movement_id, session_id, type, amount, payment_method, account_id, reference, note, recorded_by, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	if _, err := tx.Exec(ctx, insertQuery,
		m.MovementID,
		m.SessionID,
		m.Type,
		m.Amount,
		m.PaymentMethod,
		m.AccountID,
		m.Reference,
		m.Note,
		m.RecordedBy,
		m.RecordedAt,
	); err != nil {
		return apperrors.NewAppError(500, "failed to insert session movement "+m.MovementID, err)
	}

	if err := postLedgerTransactionsInTx(ctx, tx, r.accountRepo, postings, movement.RecordedBy, movement.RecordedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// CloseSession marks the session closed, writes the final account movement
// figures and posts the discrepancy adjustments in one database transaction.
// A retry after a failure therefore finds either an open session with no
// adjustment postings or a closed one with all of them.
func (r *PgxRegisterRepository) CloseSession(ctx context.Context, session domain.RegisterSession, adjustments []*domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelRegisterSession(session)
	sessionQuery := `
		UPDATE register_sessions
		SET status = $2,
		    closed_by = $3,
		    closed_at = $4,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE session_id = $1 AND status = 'OPEN';
	`
	cmdTag, err := tx.Exec(ctx, sessionQuery,
		m.SessionID,
		m.Status,
		m.ClosedBy,
		m.ClosedAt,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to close session "+m.SessionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: session %s", apperrors.ErrSessionNotOpen, m.SessionID)
	}

	accountQuery := `
		UPDATE session_accounts
		SET adjustments = $3,
		    expected_balance = $4,
		    actual_balance = $5,
		    discrepancy = $6,
		    adjustment_transaction_id = $7
		WHERE session_id = $1 AND account_id = $2;
	`
	batch := &pgx.Batch{}
	for _, movement := range session.Movements {
		sa := mapping.ToModelSessionAccount(session.SessionID, movement)
		batch.Queue(accountQuery,
			sa.SessionID,
			sa.AccountID,
			sa.Adjustments,
			sa.ExpectedBalance,
			sa.ActualBalance,
			sa.Discrepancy,
			sa.AdjustmentTransactionID,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to write closing figures for session "+m.SessionID, err)
	}

	closedAt := time.Now()
	if session.ClosedAt != nil {
		closedAt = *session.ClosedAt
	}
	if err := postLedgerTransactionsInTx(ctx, tx, r.accountRepo, adjustments, session.ClosedBy, closedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}
