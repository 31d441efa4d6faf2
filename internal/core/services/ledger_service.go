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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ledgerService implements the LedgerSvcFacade interface
type ledgerService struct {
	BaseService
	transactionRepo portsrepo.TransactionRepositoryFacade
	accountRepo     portsrepo.AccountRepositoryFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(transactionRepo portsrepo.TransactionRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) PostTransaction(ctx context.Context, companyID string, req dto.CreatePostingRequest, userID string) (*domain.Transaction, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, companyID, req.AccountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive() {
		return nil, fmt.Errorf("%w: account %s is not active", apperrors.ErrValidation, req.AccountID)
	}
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	txnDate := now
	if req.TransactionDate != nil {
		txnDate = req.TransactionDate.UTC()
	}

	txn := &domain.Transaction{
		TransactionID:   uuid.NewString(),
		CompanyID:       companyID,
		BranchID:        req.BranchID,
		AccountID:       req.AccountID,
		Type:            req.Type,
		Amount:          req.Amount,
		TaxAmount:       req.TaxAmount,
		TotalAmount:     req.Amount.Add(req.TaxAmount),
		PaymentMethod:   req.PaymentMethod,
		Status:          domain.TxnCompleted,
		Category:        req.Category,
		Description:     req.Description,
		TransactionDate: txnDate,
		SessionID:       req.SessionID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.transactionRepo.SavePosting(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save posting", slog.String("account_id", req.AccountID))
		return nil, err
	}

	// The posting is durable at this point; alerting never fails the call.
	s.alertIfBalanceLow(ctx, account, txn.RunningBalance)

	s.LogInfo(ctx, "Transaction posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("account_id", txn.AccountID),
		slog.String("type", string(txn.Type)))
	return txn, nil
}

func (s *ledgerService) PostTransfer(ctx context.Context, companyID string, req dto.CreateTransferRequest, userID string) (*domain.Transaction, *domain.Transaction, error) {
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return nil, nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, companyID, []string{req.FromAccountID, req.ToAccountID})
	if err != nil {
		return nil, nil, err
	}
	from := accounts[req.FromAccountID]
	to := accounts[req.ToAccountID]
	if !from.IsActive() {
		return nil, nil, fmt.Errorf("%w: account %s is not active", apperrors.ErrValidation, req.FromAccountID)
	}
	if !to.IsActive() {
		return nil, nil, fmt.Errorf("%w: account %s is not active", apperrors.ErrValidation, req.ToAccountID)
	}

	now := time.Now().UTC()
	txnDate := now
	if req.TransactionDate != nil {
		txnDate = req.TransactionDate.UTC()
	}

	out, in := buildTransferPair(companyID, req.BranchID, req.FromAccountID, req.ToAccountID, req.Amount, req.Description, txnDate, userID, now)

	if err := s.transactionRepo.SaveTransfer(ctx, out, in); err != nil {
		s.LogError(ctx, err, "Failed to save transfer",
			slog.String("from_account_id", req.FromAccountID),
			slog.String("to_account_id", req.ToAccountID))
		return nil, nil, err
	}

	s.alertIfBalanceLow(ctx, &from, out.RunningBalance)

	s.LogInfo(ctx, "Transfer posted",
		slog.String("out_transaction_id", out.TransactionID),
		slog.String("in_transaction_id", in.TransactionID))
	return out, in, nil
}

// buildTransferPair shapes the two linked legs of a transfer. Both carry the
// same amount; each references the other leg and the counterpart account.
func buildTransferPair(companyID, branchID, fromAccountID, toAccountID string, amount decimal.Decimal, description string, txnDate time.Time, userID string, now time.Time) (*domain.Transaction, *domain.Transaction) {
	outID := uuid.NewString()
	inID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
	out := &domain.Transaction{
		TransactionID:       outID,
		CompanyID:           companyID,
		BranchID:            branchID,
		AccountID:           fromAccountID,
		Type:                domain.TransferOut,
		Amount:              amount,
		TotalAmount:         amount,
		PaymentMethod:       domain.MethodBankTransfer,
		Status:              domain.TxnCompleted,
		Description:         description,
		TransactionDate:     txnDate,
		TransferAccountID:   toAccountID,
		LinkedTransactionID: inID,
		AuditFields:         audit,
	}
	in := &domain.Transaction{
		TransactionID:       inID,
		CompanyID:           companyID,
		BranchID:            branchID,
		AccountID:           toAccountID,
		Type:                domain.TransferIn,
		Amount:              amount,
		TotalAmount:         amount,
		PaymentMethod:       domain.MethodBankTransfer,
		Status:              domain.TxnCompleted,
		Description:         description,
		TransactionDate:     txnDate,
		TransferAccountID:   fromAccountID,
		LinkedTransactionID: outID,
		AuditFields:         audit,
	}
	return out, in
}

// alertIfBalanceLow logs a warning when an account drops below its
// configured threshold. Best-effort only.
func (s *ledgerService) alertIfBalanceLow(ctx context.Context, account *domain.Account, balance decimal.Decimal) {
	if account.LowBalanceThreshold.IsZero() {
		return
	}
	if balance.LessThan(account.LowBalanceThreshold) {
		s.LogWarn(ctx, "Account balance below threshold",
			slog.String("account_id", account.AccountID),
			slog.String("account_name", account.Name),
			slog.String("balance", balance.String()),
			slog.String("threshold", account.LowBalanceThreshold.String()))
	}
}

func (s *ledgerService) GetTransactionByID(ctx context.Context, companyID string, transactionID string) (*domain.Transaction, error) {
	return s.transactionRepo.FindTransactionByID(ctx, companyID, transactionID)
}

func (s *ledgerService) ListTransactions(ctx context.Context, companyID string, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID); err != nil {
		return nil, nil, err
	}
	return s.transactionRepo.ListTransactionsByAccount(ctx, companyID, accountID, limit, nextToken)
}
