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
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const saleColumns = `sale_id, company_id, branch_id, sale_number, customer_id, subtotal, discount_total, tax_total, total, paid, change_due, status, notes, created_at, created_by, last_updated_at, last_updated_by`

type PgxSaleRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxSaleRepository creates a new repository for sales.
func newPgxSaleRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.SaleRepositoryFacade {
	return &PgxSaleRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxSaleRepository implements the facade
var _ portsrepo.SaleRepositoryFacade = (*PgxSaleRepository)(nil)

// SaveSale persists a draft sale with its items and payments in one database
// transaction.
func (r *PgxSaleRepository) SaveSale(ctx context.Context, sale domain.Sale) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelSale(sale)
	saleQuery := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err = tx.Exec(ctx, saleQuery,
		m.SaleID,
		m.CompanyID,
		m.BranchID,
		m.SaleNumber,
		m.CustomerID,
		m.Subtotal,
		m.DiscountTotal,
		m.TaxTotal,
		m.Total,
		m.Paid,
		m.Change,
		m.Status,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: sale %s", apperrors.ErrDuplicate, m.SaleID)
		}
		return apperrors.NewAppError(500, "failed to insert sale "+m.SaleID, err)
	}

	batch := &pgx.Batch{}
	itemQuery := `
		INSERT INTO sale_items (sale_id, line_no, product_id, name, quantity, unit_price, discount, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for i, item := range sale.Items {
		mi := mapping.ToModelSaleItem(sale.SaleID, i+1, item)
		batch.Queue(itemQuery, mi.SaleID, mi.LineNo, mi.ProductID, mi.Name, mi.Quantity, mi.UnitPrice, mi.Discount, mi.Subtotal)
	}
	paymentQuery := `
		INSERT INTO sale_payments (sale_id, line_no, method, amount, account_id, transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for i, payment := range sale.Payments {
		mp := mapping.ToModelSalePayment(sale.SaleID, i+1, payment)
		batch.Queue(paymentQuery, mp.SaleID, mp.LineNo, mp.Method, mp.Amount, mp.AccountID, mp.TransactionID)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert sale lines for "+m.SaleID, err)
	}

	return r.Commit(ctx, tx)
}

// loadSaleLines attaches items and payments to a sale loaded from its row.
func (r *PgxSaleRepository) loadSaleLines(ctx context.Context, sale *domain.Sale) error {
	itemsQuery := `
		SELECT sale_id, line_no, product_id, name, quantity, unit_price, discount, subtotal
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY line_no;
	`
	rows, err := r.Pool.Query(ctx, itemsQuery, sale.SaleID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to query sale items for "+sale.SaleID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var mi models.SaleItem
		if err := rows.Scan(&mi.SaleID, &mi.LineNo, &mi.ProductID, &mi.Name, &mi.Quantity, &mi.UnitPrice, &mi.Discount, &mi.Subtotal); err != nil {
			return apperrors.NewAppError(500, "failed to scan sale item row", err)
		}
		sale.Items = append(sale.Items, mapping.ToDomainSaleItem(mi))
	}
	if err := rows.Err(); err != nil {
		return apperrors.NewAppError(500, "error iterating sale item rows", err)
	}

	paymentsQuery := `
		SELECT sale_id, line_no, method, amount, account_id, transaction_id
		FROM sale_payments
		WHERE sale_id = $1
		ORDER BY line_no;
	`
	payRows, err := r.Pool.Query(ctx, paymentsQuery, sale.SaleID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to query sale payments for "+sale.SaleID, err)
	}
	defer payRows.Close()
	for payRows.Next() {
		var mp models.SalePayment
		if err := payRows.Scan(&mp.SaleID, &mp.LineNo, &mp.Method, &mp.Amount, &mp.AccountID, &mp.TransactionID); err != nil {
			return apperrors.NewAppError(500, "failed to scan sale payment row", err)
		}
		sale.Payments = append(sale.Payments, mapping.ToDomainSalePayment(mp))
	}
	return payRows.Err()
}

func scanSale(row pgx.Row) (*models.Sale, error) {
	var m models.Sale
	err := row.Scan(
		&m.SaleID,
		&m.CompanyID,
		&m.BranchID,
		&m.SaleNumber,
		&m.CustomerID,
		&m.Subtotal,
		&m.DiscountTotal,
		&m.TaxTotal,
		&m.Total,
		&m.Paid,
		&m.Change,
		&m.Status,
		&m.Notes,
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

// FindSaleByID retrieves a sale with its items and payments.
func (r *PgxSaleRepository) FindSaleByID(ctx context.Context, companyID string, saleID string) (*domain.Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales
		WHERE company_id = $1 AND sale_id = $2;
	`
	m, err := scanSale(r.Pool.QueryRow(ctx, query, companyID, saleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find sale by ID "+saleID, err)
	}
	sale := mapping.ToDomainSale(*m)
	if err := r.loadSaleLines(ctx, &sale); err != nil {
		return nil, err
	}
	return &sale, nil
}

// ListSales retrieves sales for a branch, newest first.
func (r *PgxSaleRepository) ListSales(ctx context.Context, companyID string, branchID string, limit int, offset int) ([]domain.Sale, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT ` + saleColumns + `
		FROM sales
		WHERE company_id = $1 AND branch_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, branchID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list sales for branch "+branchID, err)
	}
	defer rows.Close()

	sales := []domain.Sale{}
	for rows.Next() {
		m, err := scanSale(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan sale row", err)
		}
		sales = append(sales, mapping.ToDomainSale(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating sale rows", err)
	}
	return sales, nil
}

// applyStockDeltas locks the branch stock rows (in sorted product order),
// applies the signed deltas with a floor of zero, and records an inventory
// movement per product carrying the delta actually applied. Missing stock
// rows are created on the fly so untracked history starts at zero.
func (r *PgxSaleRepository) applyStockDeltas(ctx context.Context, tx pgx.Tx, branchID string, deltas map[string]int64, movementType domain.InventoryMovementType, reference string, userID string, now time.Time) error {
	if len(deltas) == 0 {
		return nil
	}
	productIDs := make([]string, 0, len(deltas))
	for id := range deltas {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	ensureQuery := `
		INSERT INTO branch_stock (product_id, branch_id, quantity, updated_at)
		VALUES ($1, $2, 0, $3)
		ON CONFLICT (product_id, branch_id) DO NOTHING;
	`
	ensureBatch := &pgx.Batch{}
	for _, id := range productIDs {
		ensureBatch.Queue(ensureQuery, id, branchID, now)
	}
	if err := tx.SendBatch(ctx, ensureBatch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to ensure stock rows", err)
	}

	lockQuery := `
		SELECT product_id, quantity
		FROM branch_stock
		WHERE branch_id = $1 AND product_id = ANY($2)
		ORDER BY product_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, lockQuery, branchID, productIDs)
	if err != nil {
		return apperrors.NewAppError(500, "failed to lock stock rows", err)
	}
	current := make(map[string]int64, len(productIDs))
	for rows.Next() {
		var productID string
		var quantity int64
		if err := rows.Scan(&productID, &quantity); err != nil {
			rows.Close()
			return apperrors.NewAppError(500, "failed to scan stock row", err)
		}
		current[productID] = quantity
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return apperrors.NewAppError(500, "error iterating stock rows", err)
	}

	updateQuery := `
		UPDATE branch_stock
		SET quantity = $3, updated_at = $4
		WHERE product_id = $1 AND branch_id = $2;
	`
	movementQuery := `
		INSERT INTO inventory_movements (movement_id, product_id, branch_id, type, quantity, reference, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, productID := range productIDs {
		applied := deltas[productID]
		newQty := current[productID] + applied
		if newQty < 0 {
			// Stock floors at zero; the movement records the clamped delta.
			applied = -current[productID]
			newQty = 0
		}
		batch.Queue(updateQuery, productID, branchID, newQty, now)
		batch.Queue(movementQuery,
			uuid.NewString(), productID, branchID, string(movementType), applied, reference, now, userID, now, userID)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to apply stock deltas", err)
	}
	return nil
}

// flipSaleStatus transitions the sale row between lifecycle states, failing
// with ErrConflict when the row is no longer in fromStatus.
func flipSaleStatus(ctx context.Context, tx pgx.Tx, saleID string, fromStatus, toStatus domain.SaleStatus, userID string, now time.Time) error {
	query := `
		UPDATE sales
		SET status = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE sale_id = $1 AND status = $5;
	`
	cmdTag, err := tx.Exec(ctx, query, saleID, string(toStatus), now, userID, string(fromStatus))
	if err != nil {
		return apperrors.NewAppError(500, "failed to update sale status for "+saleID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: sale %s is not %s", apperrors.ErrConflict, saleID, fromStatus)
	}
	return nil
}

// stampPaymentTransactions writes the posting ids back onto the payment rows.
func stampPaymentTransactions(ctx context.Context, tx pgx.Tx, sale *domain.Sale) error {
	query := `
		UPDATE sale_payments
		SET transaction_id = $3
		WHERE sale_id = $1 AND line_no = $2;
	`
	batch := &pgx.Batch{}
	for i, payment := range sale.Payments {
		if payment.TransactionID == "" {
			continue
		}
		batch.Queue(query, sale.SaleID, i+1, payment.TransactionID)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to stamp payment transactions for "+sale.SaleID, err)
	}
	return nil
}

// CompleteSale runs the primary unit of sale completion as one database
// transaction: stock decrements (clamped at zero) with their inventory
// movements, income postings with balance updates, payment stamping and the
// DRAFT to COMPLETED flip. Everything commits or nothing does.
func (r *PgxSaleRepository) CompleteSale(ctx context.Context, sale *domain.Sale, postings []*domain.Transaction, decrements map[string]int64) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	now := sale.LastUpdatedAt
	userID := sale.LastUpdatedBy

	if err := flipSaleStatus(ctx, tx, sale.SaleID, domain.SaleDraft, domain.SaleCompleted, userID, now); err != nil {
		return err
	}

	deltas := make(map[string]int64, len(decrements))
	for productID, qty := range decrements {
		deltas[productID] = -qty
	}
	if err := r.applyStockDeltas(ctx, tx, sale.BranchID, deltas, domain.StockSale, sale.SaleID, userID, now); err != nil {
		return err
	}

	if err := postLedgerTransactionsInTx(ctx, tx, r.accountRepo, postings, userID, now); err != nil {
		return err
	}
	if err := stampPaymentTransactions(ctx, tx, sale); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// VoidSale reverses a completed sale in one database transaction: stock comes
// back with VOID_RETURN movements, reversing postings are inserted, and the
// sale flips COMPLETED to VOIDED.
func (r *PgxSaleRepository) VoidSale(ctx context.Context, sale *domain.Sale, postings []*domain.Transaction, increments map[string]int64) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	now := sale.LastUpdatedAt
	userID := sale.LastUpdatedBy

	if err := flipSaleStatus(ctx, tx, sale.SaleID, domain.SaleCompleted, domain.SaleVoided, userID, now); err != nil {
		return err
	}

	deltas := make(map[string]int64, len(increments))
	for productID, qty := range increments {
		deltas[productID] = qty
	}
	if err := r.applyStockDeltas(ctx, tx, sale.BranchID, deltas, domain.StockVoidReturn, sale.SaleID, userID, now); err != nil {
		return err
	}

	if err := postLedgerTransactionsInTx(ctx, tx, r.accountRepo, postings, userID, now); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}
