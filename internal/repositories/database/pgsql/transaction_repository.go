package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/a7mdelbanna/clients_plus_backend/internal/apperrors"
	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
	portsrepo "github.com/a7mdelbanna/clients_plus_backend/internal/core/ports/repositories"
	"github.com/a7mdelbanna/clients_plus_backend/internal/models"
	"github.com/a7mdelbanna/clients_plus_backend/internal/utils/mapping"
	"github.com/a7mdelbanna/clients_plus_backend/internal/utils/money"
	"github.com/a7mdelbanna/clients_plus_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const transactionColumns = `transaction_id, company_id, branch_id, account_id, account_name, type, amount, tax_amount, total_amount, payment_method, status, category, description, transaction_date, running_balance, transfer_account_id, linked_transaction_id, session_id, source_type, source_id, created_at, created_by, last_updated_at, last_updated_by`

const insertTransactionQuery = `
	INSERT INTO transactions (` + transactionColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24);
`

type PgxTransactionRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxTransactionRepository creates a new repository for ledger postings.
func newPgxTransactionRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxTransactionRepository implements the facade with tx support
var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

func transactionInsertArgs(m models.Transaction) []interface{} {
	return []interface{}{
		m.TransactionID,
		m.CompanyID,
		m.BranchID,
		m.AccountID,
		m.AccountName,
		m.Type,
		m.Amount,
		m.TaxAmount,
		m.TotalAmount,
		m.PaymentMethod,
		m.Status,
		m.Category,
		m.Description,
		m.TransactionDate,
		m.RunningBalance,
		m.TransferAccountID,
		m.LinkedTransactionID,
		m.SessionID,
		m.SourceType,
		m.SourceID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.CompanyID,
		&m.BranchID,
		&m.AccountID,
		&m.AccountName,
		&m.Type,
		&m.Amount,
		&m.TaxAmount,
		&m.TotalAmount,
		&m.PaymentMethod,
		&m.Status,
		&m.Category,
		&m.Description,
		&m.TransactionDate,
		&m.RunningBalance,
		&m.TransferAccountID,
		&m.LinkedTransactionID,
		&m.SessionID,
		&m.SourceType,
		&m.SourceID,
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

// checkBalanceAfter enforces the negative-balance rule against the locked
// account's freshest balance.
func checkBalanceAfter(account domain.Account, delta decimal.Decimal) (decimal.Decimal, error) {
	newBalance := account.Balance.Add(delta)
	if !account.AllowNegative && newBalance.LessThan(money.Epsilon.Neg()) {
		return decimal.Decimal{}, fmt.Errorf("%w: account %s balance %s cannot absorb %s",
			apperrors.ErrInsufficientBalance, account.AccountID, account.Balance, delta)
	}
	return newBalance, nil
}

// postLedgerTransactionsInTx locks the accounts behind the postings (in one
// batch), enforces the negative-balance rule, applies per-account deltas and
// inserts the posting rows, filling in running balances along the way. It is
// the shared core of every composite atomic unit that carries postings.
func postLedgerTransactionsInTx(ctx context.Context, tx pgx.Tx, accountRepo portsrepo.AccountRepositoryFacade, postings []*domain.Transaction, userID string, now time.Time) error {
	if len(postings) == 0 {
		return nil
	}
	accountIDs := make([]string, 0, len(postings))
	seen := map[string]bool{}
	for _, txn := range postings {
		if !seen[txn.AccountID] {
			seen[txn.AccountID] = true
			accountIDs = append(accountIDs, txn.AccountID)
		}
	}

	locked, err := accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return err
	}

	running := make(map[string]decimal.Decimal, len(locked))
	changes := make(map[string]decimal.Decimal, len(locked))
	for id, acc := range locked {
		running[id] = acc.Balance
		changes[id] = decimal.Zero
	}

	batch := &pgx.Batch{}
	for _, txn := range postings {
		account := locked[txn.AccountID]
		delta := txn.SignedTotal()

		snapshot := account
		snapshot.Balance = running[txn.AccountID]
		newBalance, err := checkBalanceAfter(snapshot, delta)
		if err != nil {
			return err
		}
		running[txn.AccountID] = newBalance
		changes[txn.AccountID] = changes[txn.AccountID].Add(delta)

		txn.RunningBalance = newBalance
		txn.AccountName = account.Name
		batch.Queue(insertTransactionQuery, transactionInsertArgs(mapping.ToModelTransaction(*txn))...)
	}

	if err := accountRepo.UpdateAccountBalancesInTx(ctx, tx, changes, userID, now); err != nil {
		return err
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert ledger postings", err)
	}
	return nil
}

// SavePosting posts a single income or expense transaction. The account row
// is locked, the negative-balance rule checked, the balance delta applied and
// the posting inserted in one database transaction.
func (r *PgxTransactionRepository) SavePosting(ctx context.Context, txn *domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	locked, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, []string{txn.AccountID})
	if err != nil {
		return err
	}
	account := locked[txn.AccountID]

	delta := txn.SignedTotal()
	newBalance, err := checkBalanceAfter(account, delta)
	if err != nil {
		return err
	}
	txn.RunningBalance = newBalance
	txn.AccountName = account.Name

	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx,
		map[string]decimal.Decimal{txn.AccountID: delta}, txn.CreatedBy, txn.CreatedAt); err != nil {
		return err
	}

	m := mapping.ToModelTransaction(*txn)
	if _, err := tx.Exec(ctx, insertTransactionQuery, transactionInsertArgs(m)...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, m.TransactionID)
		}
		return apperrors.NewAppError(500, "failed to insert transaction "+m.TransactionID, err)
	}

	return r.Commit(ctx, tx)
}

// SaveTransfer posts both legs of a transfer in one database transaction.
// Both accounts are locked (in sorted order), the source sufficiency check
// runs against the locked balance, then both deltas and both rows commit
// together.
func (r *PgxTransactionRepository) SaveTransfer(ctx context.Context, out *domain.Transaction, in *domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	locked, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, []string{out.AccountID, in.AccountID})
	if err != nil {
		return err
	}
	source := locked[out.AccountID]
	dest := locked[in.AccountID]

	outBalance, err := checkBalanceAfter(source, out.SignedTotal())
	if err != nil {
		return err
	}
	inBalance, err := checkBalanceAfter(dest, in.SignedTotal())
	if err != nil {
		return err
	}
	out.RunningBalance = outBalance
	out.AccountName = source.Name
	in.RunningBalance = inBalance
	in.AccountName = dest.Name

	changes := map[string]decimal.Decimal{
		out.AccountID: out.SignedTotal(),
		in.AccountID:  in.SignedTotal(),
	}
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, changes, out.CreatedBy, out.CreatedAt); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	batch.Queue(insertTransactionQuery, transactionInsertArgs(mapping.ToModelTransaction(*out))...)
	batch.Queue(insertTransactionQuery, transactionInsertArgs(mapping.ToModelTransaction(*in))...)
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert transfer legs", err)
	}

	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves a posting by its ID within a company.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, companyID string, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE company_id = $1 AND transaction_id = $2;
	`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, companyID, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by ID "+transactionID, err)
	}
	txn := mapping.ToDomainTransaction(*m)
	return &txn, nil
}

// ListTransactionsByAccount retrieves a token-paginated list of completed
// postings for an account, newest first. The cursor is (transaction_date,
// created_at); one extra row is fetched to detect the next page.
func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, companyID string, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE company_id = $1 AND account_id = $2 AND status = 'COMPLETED'
	`
	orderByClause := `ORDER BY transaction_date DESC, created_at DESC`

	args := []interface{}{companyID, accountID}
	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		query += ` AND (transaction_date, created_at) < ($3, $4) `
	}
	query += orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions for account "+accountID, err)
	}
	defer rows.Close()

	results := make([]models.Transaction, 0, fetchLimit)
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		results = append(results, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}

	var nextTokenVal *string
	if len(results) > limit {
		last := results[limit-1]
		token := pagination.EncodeToken(last.TransactionDate, last.CreatedAt)
		nextTokenVal = &token
		results = results[:limit]
	}
	return mapping.ToDomainTransactionSlice(results), nextTokenVal, nil
}

// ListTransactionsBySession retrieves the postings attributed to a register session.
func (r *PgxTransactionRepository) ListTransactionsBySession(ctx context.Context, companyID string, sessionID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE company_id = $1 AND session_id = $2
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, sessionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions for session "+sessionID, err)
	}
	defer rows.Close()

	results := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		results = append(results, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}
	return mapping.ToDomainTransactionSlice(results), nil
}
