package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/a7mdelbanna/clients_plus_backend/internal/apperrors"
	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
	portsrepo "github.com/a7mdelbanna/clients_plus_backend/internal/core/ports/repositories"
	portssvc "github.com/a7mdelbanna/clients_plus_backend/internal/core/ports/services"
	"github.com/a7mdelbanna/clients_plus_backend/internal/dto"
	"github.com/a7mdelbanna/clients_plus_backend/internal/utils/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo     portsrepo.AccountRepositoryFacade
	transactionRepo portsrepo.TransactionRepositoryFacade
}

// NewAccountService creates a new account service. The transaction repository
// is needed because a nonzero opening balance is recorded through a posting.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, transactionRepo portsrepo.TransactionRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	now := time.Now().UTC()
	openingDate := now
	if req.OpeningDate != nil {
		openingDate = req.OpeningDate.UTC()
	}

	account := domain.Account{
		AccountID:           uuid.NewString(),
		CompanyID:           companyID,
		BranchID:            req.BranchID,
		Name:                req.Name,
		AccountType:         req.AccountType,
		Status:              domain.AccountActive,
		OpeningBalance:      req.OpeningBalance,
		OpeningDate:         openingDate,
		Balance:             decimal.Zero,
		AllowNegative:       req.AllowNegative,
		LowBalanceThreshold: req.LowBalanceThreshold,
		IsDefault:           req.IsDefault,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("company_id", companyID))
		return nil, err
	}

	// The account row starts at zero; a nonzero opening balance arrives via
	// an opening posting so the ledger explains every unit of balance.
	if !money.IsZero(req.OpeningBalance) {
		posting := buildOpeningPosting(&account, userID, now)
		if err := s.transactionRepo.SavePosting(ctx, posting); err != nil {
			s.LogError(ctx, err, "Failed to post opening balance", slog.String("account_id", account.AccountID))
			return nil, fmt.Errorf("account created but opening balance posting failed: %w", err)
		}
		account.Balance = posting.RunningBalance
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("account_type", string(account.AccountType)))
	return &account, nil
}

// buildOpeningPosting shapes the synthetic posting that carries an account's
// opening balance. A negative opening balance becomes an expense leg.
func buildOpeningPosting(account *domain.Account, userID string, now time.Time) *domain.Transaction {
	txnType := domain.Income
	amount := account.OpeningBalance
	if amount.IsNegative() {
		txnType = domain.Expense
		amount = amount.Neg()
	}
	return &domain.Transaction{
		TransactionID:   uuid.NewString(),
		CompanyID:       account.CompanyID,
		BranchID:        account.BranchID,
		AccountID:       account.AccountID,
		Type:            txnType,
		Amount:          amount,
		TaxAmount:       decimal.Zero,
		TotalAmount:     amount,
		PaymentMethod:   domain.MethodCash,
		Status:          domain.TxnCompleted,
		Category:        "Opening Balance",
		Description:     "Opening balance for " + account.Name,
		TransactionDate: account.OpeningDate,
		SourceType:      domain.SourceOpening,
		SourceID:        account.AccountID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
}

func (s *accountService) GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, companyID string, params dto.ListAccountsParams) ([]domain.Account, error) {
	filter := portsrepo.AccountListFilter{
		BranchID:    params.BranchID,
		AccountType: domain.AccountType(params.AccountType),
		Status:      domain.AccountStatus(params.Status),
		Limit:       params.Limit,
		Offset:      params.Offset,
	}
	return s.accountRepo.ListAccounts(ctx, companyID, filter)
}

func (s *accountService) UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}
	if account.Status == domain.AccountClosed {
		return nil, fmt.Errorf("%w: account %s is closed", apperrors.ErrConflict, accountID)
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.AllowNegative != nil {
		account.AllowNegative = *req.AllowNegative
	}
	if req.LowBalanceThreshold != nil {
		account.LowBalanceThreshold = *req.LowBalanceThreshold
	}
	if req.IsDefault != nil {
		account.IsDefault = *req.IsDefault
	}
	if req.Status != nil {
		account.Status = domain.AccountStatus(*req.Status)
	}
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

func (s *accountService) CloseAccount(ctx context.Context, companyID string, accountID string, userID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		return err
	}
	if account.Status == domain.AccountClosed {
		return fmt.Errorf("%w: account %s is already closed", apperrors.ErrConflict, accountID)
	}
	if !money.IsZero(account.Balance) {
		return fmt.Errorf("%w: account %s holds %s", apperrors.ErrNonZeroBalance, accountID, account.Balance.String())
	}

	count, err := s.accountRepo.CountActiveByType(ctx, companyID, account.BranchID, account.AccountType)
	if err != nil {
		return err
	}
	if account.IsActive() && count <= 1 {
		return fmt.Errorf("%w: %s", apperrors.ErrLastAccountOfType, account.AccountType)
	}

	if err := s.accountRepo.MarkAccountClosed(ctx, accountID, userID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to close account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account closed", slog.String("account_id", accountID))
	return nil
}
