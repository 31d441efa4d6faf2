package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
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

// roleOrder fixes the iteration order over account mappings so repeated runs
// produce identical sessions and summaries.
var roleOrder = []domain.AccountRole{
	domain.RoleCash,
	domain.RoleCard,
	domain.RoleBank,
	domain.RoleDigitalWallet,
	domain.RoleOverShort,
}

// roleMethod maps each drawer role to the payment method its postings carry.
func roleMethod(role domain.AccountRole) domain.PaymentMethod {
	switch role {
	case domain.RoleCard:
		return domain.MethodCard
	case domain.RoleBank:
		return domain.MethodBankTransfer
	case domain.RoleDigitalWallet:
		return domain.MethodDigitalWallet
	default:
		return domain.MethodCash
	}
}

// registerService implements the RegisterSvcFacade interface
type registerService struct {
	BaseService
	registerRepo portsrepo.RegisterRepositoryFacade
	accountRepo  portsrepo.AccountRepositoryFacade
}

// NewRegisterService creates a new register session service. Ledger postings
// tied to session events flow through the register repository so they commit
// atomically with the session mutation.
func NewRegisterService(registerRepo portsrepo.RegisterRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.RegisterSvcFacade {
	return &registerService{
		registerRepo: registerRepo,
		accountRepo:  accountRepo,
	}
}

var _ portssvc.RegisterSvcFacade = (*registerService)(nil)

func (s *registerService) OpenSession(ctx context.Context, companyID string, req dto.OpenSessionRequest, userID string) (*domain.RegisterSession, error) {
	if req.AccountMappings[domain.RoleCash] == "" {
		return nil, fmt.Errorf("%w: account mapping for role %s is required", apperrors.ErrValidation, domain.RoleCash)
	}
	if req.AccountMappings[domain.RoleOverShort] == "" {
		return nil, fmt.Errorf("%w: account mapping for role %s is required", apperrors.ErrValidation, domain.RoleOverShort)
	}
	for role, amount := range req.OpeningAmounts {
		if amount.IsNegative() {
			return nil, fmt.Errorf("%w: opening amount for role %s must not be negative", apperrors.ErrValidation, role)
		}
		if !amount.IsZero() && req.AccountMappings[role] == "" {
			return nil, fmt.Errorf("%w: opening amount declared for unmapped role %s", apperrors.ErrValidation, role)
		}
	}

	mappedIDs := make([]string, 0, len(req.AccountMappings))
	seen := make(map[string]bool, len(req.AccountMappings))
	for _, role := range roleOrder {
		id := req.AccountMappings[role]
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		mappedIDs = append(mappedIDs, id)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, companyID, mappedIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range mappedIDs {
		acc := accounts[id]
		if !acc.IsActive() {
			return nil, fmt.Errorf("%w: mapped account %s is not active", apperrors.ErrValidation, id)
		}
	}

	now := time.Now().UTC()
	session := domain.RegisterSession{
		SessionID:       uuid.NewString(),
		CompanyID:       companyID,
		BranchID:        req.BranchID,
		RegisterID:      req.RegisterID,
		Status:          domain.SessionOpen,
		OpenedBy:        userID,
		OpenedAt:        now,
		AccountMappings: req.AccountMappings,
		Movements:       make(map[string]domain.AccountMovement, len(mappedIDs)),
		Log:             []domain.SessionMovement{},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	// Declared opening floats accumulate per account; roles sharing one
	// account share one drawer.
	declared := make(map[string]decimal.Decimal, len(mappedIDs))
	methodFor := make(map[string]domain.PaymentMethod, len(mappedIDs))
	for _, role := range roleOrder {
		id := req.AccountMappings[role]
		if id == "" {
			continue
		}
		amount, ok := req.OpeningAmounts[role]
		if !ok || amount.IsZero() {
			continue
		}
		if _, funded := declared[id]; !funded {
			declared[id] = decimal.Zero
			methodFor[id] = roleMethod(role)
		}
		declared[id] = declared[id].Add(amount)
	}

	// Opening balances start from the mapped ledger account's current balance
	// plus the declared float, so the expected total mirrors the ledger once
	// the opening-count postings land. When one account serves several roles
	// the first role in order wins.
	for _, role := range roleOrder {
		id := req.AccountMappings[role]
		if id == "" {
			continue
		}
		if _, exists := session.Movements[id]; exists {
			continue
		}
		acc := accounts[id]
		session.Movements[id] = domain.AccountMovement{
			AccountID:      id,
			Role:           role,
			OpeningBalance: acc.Balance.Add(declared[id]),
		}
	}

	postings := make([]*domain.Transaction, 0, len(declared))
	for _, id := range mappedIDs {
		amount, funded := declared[id]
		if !funded {
			continue
		}
		postings = append(postings, &domain.Transaction{
			TransactionID:   uuid.NewString(),
			CompanyID:       companyID,
			BranchID:        req.BranchID,
			AccountID:       id,
			Type:            domain.Income,
			Amount:          amount,
			TotalAmount:     amount,
			PaymentMethod:   methodFor[id],
			Status:          domain.TxnCompleted,
			Description:     fmt.Sprintf("Opening count for register %s", req.RegisterID),
			TransactionDate: now,
			SessionID:       session.SessionID,
			SourceType:      domain.SourceSessionOpen,
			SourceID:        session.SessionID,
			AuditFields:     session.AuditFields,
		})
	}

	if err := s.registerRepo.SaveSession(ctx, session, postings); err != nil {
		s.LogError(ctx, err, "Failed to open register session",
			slog.String("branch_id", req.BranchID),
			slog.String("register_id", req.RegisterID))
		return nil, err
	}

	s.LogInfo(ctx, "Register session opened",
		slog.String("session_id", session.SessionID),
		slog.String("register_id", req.RegisterID))
	return &session, nil
}

func (s *registerService) RecordMovement(ctx context.Context, companyID string, sessionID string, req dto.RecordMovementRequest, userID string) (*domain.SessionMovement, error) {
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	session, err := s.registerRepo.FindSessionByID(ctx, companyID, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsOpen() {
		return nil, fmt.Errorf("%w: session %s", apperrors.ErrSessionNotOpen, sessionID)
	}

	if req.FromAccountID != "" && req.FromAccountID == req.ToAccountID {
		return nil, fmt.Errorf("%w: movement cannot target the same account on both ends", apperrors.ErrValidation)
	}

	outflow := req.Type.Sign().IsNegative()
	fromAccountID := req.FromAccountID
	toAccountID := req.ToAccountID
	if fromAccountID == "" && toAccountID == "" {
		mapped, ok := session.AccountForMethod(req.PaymentMethod)
		if !ok {
			return nil, fmt.Errorf("%w: session has no account mapped for method %s", apperrors.ErrValidation, req.PaymentMethod)
		}
		if outflow {
			fromAccountID = mapped
		} else {
			toAccountID = mapped
		}
	}

	involvedIDs := []string{}
	for _, id := range []string{fromAccountID, toAccountID} {
		if id != "" {
			involvedIDs = append(involvedIDs, id)
		}
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, companyID, involvedIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range involvedIDs {
		acc := accounts[id]
		if !acc.IsActive() {
			return nil, fmt.Errorf("%w: account %s is not active", apperrors.ErrValidation, id)
		}
	}

	now := time.Now().UTC()
	movement := domain.SessionMovement{
		MovementID:    uuid.NewString(),
		SessionID:     sessionID,
		Type:          req.Type,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Reference:     req.Reference,
		Note:          req.Note,
		RecordedBy:    userID,
		RecordedAt:    now,
	}

	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	var postings []*domain.Transaction
	switch {
	case fromAccountID != "" && toAccountID != "":
		// Both ends given: the movement is a transfer between the two
		// accounts, whatever its type.
		description := movementDescription(req, sessionID)
		out, in := buildTransferPair(companyID, session.BranchID, fromAccountID, toAccountID, req.Amount, description, now, userID, now)
		postings = []*domain.Transaction{out, in}
		if outflow {
			movement.AccountID = fromAccountID
		} else {
			movement.AccountID = toAccountID
		}
	case fromAccountID != "":
		if !outflow {
			return nil, fmt.Errorf("%w: %s movements need a destination account", apperrors.ErrValidation, req.Type)
		}
		movement.AccountID = fromAccountID
		postings = []*domain.Transaction{singlePosting(companyID, session.BranchID, fromAccountID, domain.Expense, req, sessionID, now, audit)}
	default:
		if outflow {
			return nil, fmt.Errorf("%w: %s movements need a source account", apperrors.ErrValidation, req.Type)
		}
		movement.AccountID = toAccountID
		postings = []*domain.Transaction{singlePosting(companyID, session.BranchID, toAccountID, domain.Income, req, sessionID, now, audit)}
	}
	for _, txn := range postings {
		txn.SessionID = sessionID
		txn.SourceType = domain.SourceSessionMovement
		txn.SourceID = movement.MovementID
	}

	// Only accounts tracked by the session carry an adjustment; the ledger
	// side of an external counterparty is covered by its posting alone.
	adjustments := map[string]decimal.Decimal{}
	if fromAccountID != "" {
		if _, tracked := session.Movements[fromAccountID]; tracked {
			adjustments[fromAccountID] = req.Amount.Neg()
		}
	}
	if toAccountID != "" {
		if _, tracked := session.Movements[toAccountID]; tracked {
			adjustments[toAccountID] = req.Amount
		}
	}

	if err := s.registerRepo.RecordMovement(ctx, movement, adjustments, postings); err != nil {
		s.LogError(ctx, err, "Failed to record session movement", slog.String("session_id", sessionID))
		return nil, err
	}
	return &movement, nil
}

// movementDescription labels the ledger side of a manual movement.
func movementDescription(req dto.RecordMovementRequest, sessionID string) string {
	if req.Note != "" {
		return req.Note
	}
	return fmt.Sprintf("Register %s for session %s", req.Type, sessionID)
}

// singlePosting shapes the one-legged ledger effect of a manual movement.
func singlePosting(companyID, branchID, accountID string, txnType domain.TransactionType, req dto.RecordMovementRequest, sessionID string, now time.Time, audit domain.AuditFields) *domain.Transaction {
	return &domain.Transaction{
		TransactionID:   uuid.NewString(),
		CompanyID:       companyID,
		BranchID:        branchID,
		AccountID:       accountID,
		Type:            txnType,
		Amount:          req.Amount,
		TotalAmount:     req.Amount,
		PaymentMethod:   req.PaymentMethod,
		Status:          domain.TxnCompleted,
		Description:     movementDescription(req, sessionID),
		TransactionDate: now,
		AuditFields:     audit,
	}
}

func (s *registerService) CloseSession(ctx context.Context, companyID string, sessionID string, req dto.CloseSessionRequest, userID string) (*domain.ClosingSummary, error) {
	session, err := s.registerRepo.FindSessionByID(ctx, companyID, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsOpen() {
		return nil, fmt.Errorf("%w: session %s", apperrors.ErrSessionNotOpen, sessionID)
	}

	overShortAccountID := session.AccountMappings[domain.RoleOverShort]

	accountIDs := make([]string, 0, len(session.Movements))
	for id := range session.Movements {
		accountIDs = append(accountIDs, id)
	}
	sort.Strings(accountIDs)

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, companyID, accountIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	summary := &domain.ClosingSummary{
		SessionID:        sessionID,
		TotalExpected:    decimal.Zero,
		TotalActual:      decimal.Zero,
		TotalDiscrepancy: decimal.Zero,
		Accounts:         make([]domain.ClosingLine, 0, len(accountIDs)),
		Log:              session.Log,
	}

	adjustments := []*domain.Transaction{}
	for _, accountID := range accountIDs {
		movement := session.Movements[accountID]
		expected := movement.Expected()
		actual, declared := req.ActualBalances[accountID]
		if !declared {
			// Undeclared accounts are taken at face value.
			actual = expected
		}
		discrepancy := actual.Sub(expected)

		movement.ExpectedBalance = expected
		movement.ActualBalance = actual
		movement.Discrepancy = discrepancy

		if !money.IsZero(discrepancy) {
			summary.HasDiscrepancies = true
			// The over/short account absorbs the counterpart legs, so its own
			// discrepancy never gets an adjustment of its own.
			if accountID != overShortAccountID {
				out, in := s.buildAdjustment(session, accountID, overShortAccountID, discrepancy, userID, now)
				adjustments = append(adjustments, out, in)
				if out.AccountID == accountID {
					movement.AdjustmentTransactionID = out.TransactionID
				} else {
					movement.AdjustmentTransactionID = in.TransactionID
				}
			}
		}

		session.Movements[accountID] = movement

		acc := accounts[accountID]
		summary.Accounts = append(summary.Accounts, domain.ClosingLine{
			AccountID:               accountID,
			AccountName:             acc.Name,
			Role:                    movement.Role,
			OpeningBalance:          movement.OpeningBalance,
			TransactionTotal:        movement.TransactionTotal,
			Adjustments:             movement.Adjustments,
			ExpectedBalance:         expected,
			ActualBalance:           actual,
			Discrepancy:             discrepancy,
			AdjustmentTransactionID: movement.AdjustmentTransactionID,
		})
		summary.TotalExpected = summary.TotalExpected.Add(expected)
		summary.TotalActual = summary.TotalActual.Add(actual)
		summary.TotalDiscrepancy = summary.TotalDiscrepancy.Add(discrepancy)
	}

	session.Status = domain.SessionClosed
	session.ClosedBy = userID
	session.ClosedAt = &now
	session.LastUpdatedAt = now
	session.LastUpdatedBy = userID

	if err := s.registerRepo.CloseSession(ctx, *session, adjustments); err != nil {
		s.LogError(ctx, err, "Failed to close register session", slog.String("session_id", sessionID))
		return nil, err
	}

	s.LogInfo(ctx, "Register session closed",
		slog.String("session_id", sessionID),
		slog.String("total_discrepancy", summary.TotalDiscrepancy.String()))
	return summary, nil
}

// buildAdjustment reconciles one account to its counted balance through the
// over/short account. An overage moves money in, a shortage moves it out. The
// legs are posted by the repository inside the closing transaction.
func (s *registerService) buildAdjustment(session *domain.RegisterSession, accountID string, overShortAccountID string, discrepancy decimal.Decimal, userID string, now time.Time) (*domain.Transaction, *domain.Transaction) {
	fromAccountID := overShortAccountID
	toAccountID := accountID
	amount := discrepancy
	if discrepancy.IsNegative() {
		fromAccountID = accountID
		toAccountID = overShortAccountID
		amount = discrepancy.Neg()
	}

	description := fmt.Sprintf("Register close adjustment for session %s", session.SessionID)
	out, in := buildTransferPair(session.CompanyID, session.BranchID, fromAccountID, toAccountID, amount, description, now, userID, now)
	for _, leg := range []*domain.Transaction{out, in} {
		leg.SessionID = session.SessionID
		leg.SourceType = domain.SourceSessionAdjustment
		leg.SourceID = session.SessionID
	}
	return out, in
}

func (s *registerService) GetSessionByID(ctx context.Context, companyID string, sessionID string) (*domain.RegisterSession, error) {
	return s.registerRepo.FindSessionByID(ctx, companyID, sessionID)
}

func (s *registerService) GetOpenSession(ctx context.Context, companyID string, branchID string, registerID string) (*domain.RegisterSession, error) {
	return s.registerRepo.FindOpenSession(ctx, companyID, branchID, registerID)
}

func (s *registerService) ListSessions(ctx context.Context, companyID string, params dto.ListSessionsParams) ([]domain.RegisterSession, error) {
	return s.registerRepo.ListSessions(ctx, companyID, params.BranchID, params.Limit, params.Offset)
}
