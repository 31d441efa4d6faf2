package services

import (
	portsrepo "github.com/a7mdelbanna/clients_plus_backend/internal/core/ports/repositories"
	portssvc "github.com/a7mdelbanna/clients_plus_backend/internal/core/ports/services"
	"github.com/a7mdelbanna/clients_plus_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo, repos.TransactionRepo)
	container.Ledger = NewLedgerService(repos.TransactionRepo, repos.AccountRepo)
	container.Register = NewRegisterService(repos.RegisterRepo, repos.AccountRepo)
	container.Sale = NewSaleService(repos.SaleRepo, repos.ProductRepo, repos.AccountRepo, repos.RegisterRepo)
	container.Product = NewProductService(repos.ProductRepo)
	container.User = NewUserService(repos.UserRepo)
	container.Auth = NewAuthService(cfg, repos.UserRepo)

	return container
}
