package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/a7mdelbanna/clients_plus_backend/internal/apperrors"
	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
	portsrepo "github.com/a7mdelbanna/clients_plus_backend/internal/core/ports/repositories"
	"github.com/a7mdelbanna/clients_plus_backend/internal/models"
	"github.com/a7mdelbanna/clients_plus_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `product_id, company_id, name, sku, price, track_inventory, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxProductRepository struct {
	BaseRepository
}

// newPgxProductRepository creates a new repository for products and stock.
func newPgxProductRepository(pool *pgxpool.Pool) portsrepo.ProductRepositoryFacade {
	return &PgxProductRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxProductRepository implements the facade
var _ portsrepo.ProductRepositoryFacade = (*PgxProductRepository)(nil)

func scanProduct(row pgx.Row) (*models.Product, error) {
	var m models.Product
	err := row.Scan(
		&m.ProductID,
		&m.CompanyID,
		&m.Name,
		&m.SKU,
		&m.Price,
		&m.TrackInventory,
		&m.IsActive,
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

// SaveProduct inserts a new product.
func (r *PgxProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	m := mapping.ToModelProduct(product)
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ProductID,
		m.CompanyID,
		m.Name,
		m.SKU,
		m.Price,
		m.TrackInventory,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: product with SKU %s already exists", apperrors.ErrDuplicate, product.SKU)
		}
		return fmt.Errorf("failed to save product %s: %w", m.ProductID, err)
	}
	return nil
}

// FindProductByID retrieves a product by its ID within a company.
func (r *PgxProductRepository) FindProductByID(ctx context.Context, companyID string, productID string) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE company_id = $1 AND product_id = $2;
	`
	m, err := scanProduct(r.Pool.QueryRow(ctx, query, companyID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find product by ID "+productID, err)
	}
	p := mapping.ToDomainProduct(*m)
	return &p, nil
}

// FindProductsByIDs retrieves multiple products by their IDs. Every requested
// ID must exist or ErrNotFound is returned.
func (r *PgxProductRepository) FindProductsByIDs(ctx context.Context, companyID string, productIDs []string) (map[string]domain.Product, error) {
	if len(productIDs) == 0 {
		return map[string]domain.Product{}, nil
	}
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE company_id = $1 AND product_id = ANY($2);
	`
	rows, err := r.Pool.Query(ctx, query, companyID, productIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query products by IDs", err)
	}
	defer rows.Close()

	found := make(map[string]domain.Product, len(productIDs))
	for rows.Next() {
		m, err := scanProduct(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan product row", err)
		}
		found[m.ProductID] = mapping.ToDomainProduct(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating product rows", err)
	}

	for _, id := range productIDs {
		if _, ok := found[id]; !ok {
			return nil, fmt.Errorf("%w: product %s", apperrors.ErrNotFound, id)
		}
	}
	return found, nil
}

// ListProducts retrieves the products of a company.
func (r *PgxProductRepository) ListProducts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE company_id = $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list products for company "+companyID, err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		m, err := scanProduct(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan product row", err)
		}
		products = append(products, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating product rows", err)
	}
	return mapping.ToDomainProductSlice(products), nil
}

// GetBranchStock retrieves the stock level of a product in a branch. Missing
// rows read as zero stock.
func (r *PgxProductRepository) GetBranchStock(ctx context.Context, productID string, branchID string) (*domain.BranchStock, error) {
	query := `
		SELECT product_id, branch_id, quantity, updated_at
		FROM branch_stock
		WHERE product_id = $1 AND branch_id = $2;
	`
	var m models.BranchStock
	err := r.Pool.QueryRow(ctx, query, productID, branchID).Scan(&m.ProductID, &m.BranchID, &m.Quantity, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.BranchStock{ProductID: productID, BranchID: branchID, Quantity: 0}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to read stock for product "+productID, err)
	}
	return &domain.BranchStock{
		ProductID: m.ProductID,
		BranchID:  m.BranchID,
		Quantity:  m.Quantity,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

// UpdateProduct updates an existing product's details.
func (r *PgxProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	m := mapping.ToModelProduct(product)
	query := `
		UPDATE products
		SET name = $3,
		    sku = $4,
		    price = $5,
		    is_active = $6,
		    last_updated_at = $7,
		    last_updated_by = $8
		WHERE company_id = $1 AND product_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.CompanyID,
		m.ProductID,
		m.Name,
		m.SKU,
		m.Price,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update product "+m.ProductID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("product " + m.ProductID + " not found for update")
	}
	return nil
}

// AdjustStock applies a signed stock delta with a floor of zero and records
// the inventory movement, all under a row lock. The movement's Quantity is
// rewritten to the delta actually applied.
func (r *PgxProductRepository) AdjustStock(ctx context.Context, movement *domain.InventoryMovement) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	now := movement.CreatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	ensureQuery := `
		INSERT INTO branch_stock (product_id, branch_id, quantity, updated_at)
		VALUES ($1, $2, 0, $3)
		ON CONFLICT (product_id, branch_id) DO NOTHING;
	`
	if _, err := tx.Exec(ctx, ensureQuery, movement.ProductID, movement.BranchID, now); err != nil {
		return apperrors.NewAppError(500, "failed to ensure stock row", err)
	}

	var current int64
	lockQuery := `
		SELECT quantity FROM branch_stock
		WHERE product_id = $1 AND branch_id = $2
		FOR UPDATE;
	`
	if err := tx.QueryRow(ctx, lockQuery, movement.ProductID, movement.BranchID).Scan(&current); err != nil {
		return apperrors.NewAppError(500, "failed to lock stock row", err)
	}

	applied := movement.Quantity
	newQty := current + applied
	if newQty < 0 {
		applied = -current
		newQty = 0
	}
	movement.Quantity = applied

	updateQuery := `
		UPDATE branch_stock
		SET quantity = $3, updated_at = $4
		WHERE product_id = $1 AND branch_id = $2;
	`
	if _, err := tx.Exec(ctx, updateQuery, movement.ProductID, movement.BranchID, newQty, now); err != nil {
		return apperrors.NewAppError(500, "failed to update stock row", err)
	}

	m := mapping.ToModelInventoryMovement(*movement)
	movementQuery := `
		INSERT INTO inventory_movements (movement_id, product_id, branch_id, type, quantity, reference, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	if _, err := tx.Exec(ctx, movementQuery,
		m.MovementID,
		m.ProductID,
		m.BranchID,
		m.Type,
		m.Quantity,
		m.Reference,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	); err != nil {
		return apperrors.NewAppError(500, "failed to insert inventory movement "+m.MovementID, err)
	}

	return r.Commit(ctx, tx)
}
