package pgsql

import (
	portsrepo "github.com/a7mdelbanna/clients_plus_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires up all pgsql-backed repositories against a
// single connection pool. The account repository is created first because
// the ledger, register and sale repositories lock and update account balances
// through its transaction-scoped methods.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool, accountRepo)
	registerRepo := newPgxRegisterRepository(dbPool, accountRepo)
	saleRepo := newPgxSaleRepository(dbPool, accountRepo)
	productRepo := newPgxProductRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:     accountRepo,
		TransactionRepo: transactionRepo,
		RegisterRepo:    registerRepo,
		SaleRepo:        saleRepo,
		ProductRepo:     productRepo,
		UserRepo:        userRepo,
	}
}
