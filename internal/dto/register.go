package dto

import (
	"time"

	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OpenSessionRequest defines the data needed to open a register session.
// AccountMappings binds roles (cash, card, bank, digital_wallet, over_short)
// to ledger account ids; cash and over_short are required. OpeningAmounts
// declares the float counted into each role's drawer; every funded role gets
// an opening-count transaction posted against its mapped account.
type OpenSessionRequest struct {
	BranchID        string                                 `json:"branchID" binding:"required"`
	RegisterID      string                                 `json:"registerID" binding:"required"`
	AccountMappings map[domain.AccountRole]string          `json:"accountMappings" binding:"required"`
	OpeningAmounts  map[domain.AccountRole]decimal.Decimal `json:"openingAmounts"`
}

// RecordMovementRequest appends one movement to an open session's log and
// posts its ledger effect. When both FromAccountID and ToAccountID are set
// the movement posts as a transfer; otherwise a single income or expense
// posting hits the explicit account, falling back to the account mapped for
// the payment method.
type RecordMovementRequest struct {
	Type          domain.MovementType  `json:"type" binding:"required,oneof=SALE DEPOSIT PAYOUT WITHDRAWAL"`
	Amount        decimal.Decimal      `json:"amount" binding:"required"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" binding:"required,oneof=CASH CARD BANK_TRANSFER DIGITAL_WALLET"`
	FromAccountID string               `json:"fromAccountID"`
	ToAccountID   string               `json:"toAccountID"`
	Reference     string               `json:"reference"`
	Note          string               `json:"note"`
}

// CloseSessionRequest carries the declared balances counted at close, keyed
// by account id.
type CloseSessionRequest struct {
	ActualBalances map[string]decimal.Decimal `json:"actualBalances" binding:"required"`
}

// AccountMovementResponse is one mapped account's figures.
type AccountMovementResponse struct {
	AccountID               string          `json:"accountID"`
	Role                    string          `json:"role"`
	OpeningBalance          decimal.Decimal `json:"openingBalance"`
	TransactionTotal        decimal.Decimal `json:"transactionTotal"`
	Adjustments             decimal.Decimal `json:"adjustments"`
	ExpectedBalance         decimal.Decimal `json:"expectedBalance"`
	ActualBalance           decimal.Decimal `json:"actualBalance"`
	Discrepancy             decimal.Decimal `json:"discrepancy"`
	AdjustmentTransactionID string          `json:"adjustmentTransactionID,omitempty"`
}

// SessionMovementResponse is one movement log entry.
type SessionMovementResponse struct {
	MovementID    string          `json:"movementID"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
	AccountID     string          `json:"accountID"`
	Reference     string          `json:"reference,omitempty"`
	Note          string          `json:"note,omitempty"`
	RecordedBy    string          `json:"recordedBy"`
	RecordedAt    time.Time       `json:"recordedAt"`
}

// SessionResponse defines the data returned for a register session.
type SessionResponse struct {
	SessionID       string                             `json:"sessionID"`
	CompanyID       string                             `json:"companyID"`
	BranchID        string                             `json:"branchID"`
	RegisterID      string                             `json:"registerID"`
	Status          string                             `json:"status"`
	OpenedBy        string                             `json:"openedBy"`
	OpenedAt        time.Time                          `json:"openedAt"`
	ClosedBy        string                             `json:"closedBy,omitempty"`
	ClosedAt        *time.Time                         `json:"closedAt,omitempty"`
	AccountMappings map[domain.AccountRole]string      `json:"accountMappings"`
	Movements       map[string]AccountMovementResponse `json:"movements"`
	Log             []SessionMovementResponse          `json:"log"`
}

func toAccountMovementResponse(m domain.AccountMovement) AccountMovementResponse {
	return AccountMovementResponse{
		AccountID:               m.AccountID,
		Role:                    string(m.Role),
		OpeningBalance:          m.OpeningBalance,
		TransactionTotal:        m.TransactionTotal,
		Adjustments:             m.Adjustments,
		ExpectedBalance:         m.ExpectedBalance,
		ActualBalance:           m.ActualBalance,
		Discrepancy:             m.Discrepancy,
		AdjustmentTransactionID: m.AdjustmentTransactionID,
	}
}

func toSessionMovementResponse(m domain.SessionMovement) SessionMovementResponse {
	return SessionMovementResponse{
		MovementID:    m.MovementID,
		Type:          string(m.Type),
		Amount:        m.Amount,
		PaymentMethod: string(m.PaymentMethod),
		AccountID:     m.AccountID,
		Reference:     m.Reference,
		Note:          m.Note,
		RecordedBy:    m.RecordedBy,
		RecordedAt:    m.RecordedAt,
	}
}

// ToSessionMovementResponse converts a single movement log entry.
func ToSessionMovementResponse(m *domain.SessionMovement) SessionMovementResponse {
	return toSessionMovementResponse(*m)
}

// ToSessionResponse converts a domain.RegisterSession to its response DTO
func ToSessionResponse(s *domain.RegisterSession) SessionResponse {
	movements := make(map[string]AccountMovementResponse, len(s.Movements))
	for accID, m := range s.Movements {
		movements[accID] = toAccountMovementResponse(m)
	}
	log := make([]SessionMovementResponse, len(s.Log))
	for i, m := range s.Log {
		log[i] = toSessionMovementResponse(m)
	}
	return SessionResponse{
		SessionID:       s.SessionID,
		CompanyID:       s.CompanyID,
		BranchID:        s.BranchID,
		RegisterID:      s.RegisterID,
		Status:          string(s.Status),
		OpenedBy:        s.OpenedBy,
		OpenedAt:        s.OpenedAt,
		ClosedBy:        s.ClosedBy,
		ClosedAt:        s.ClosedAt,
		AccountMappings: s.AccountMappings,
		Movements:       movements,
		Log:             log,
	}
}

// ClosingLineResponse is the per-account section of a closing summary.
type ClosingLineResponse struct {
	AccountID               string          `json:"accountID"`
	AccountName             string          `json:"accountName"`
	Role                    string          `json:"role"`
	OpeningBalance          decimal.Decimal `json:"openingBalance"`
	TransactionTotal        decimal.Decimal `json:"transactionTotal"`
	Adjustments             decimal.Decimal `json:"adjustments"`
	ExpectedBalance         decimal.Decimal `json:"expectedBalance"`
	ActualBalance           decimal.Decimal `json:"actualBalance"`
	Discrepancy             decimal.Decimal `json:"discrepancy"`
	AdjustmentTransactionID string          `json:"adjustmentTransactionID,omitempty"`
}

// ClosingSummaryResponse is returned when a session closes.
type ClosingSummaryResponse struct {
	SessionID        string                    `json:"sessionID"`
	TotalExpected    decimal.Decimal           `json:"totalExpected"`
	TotalActual      decimal.Decimal           `json:"totalActual"`
	TotalDiscrepancy decimal.Decimal           `json:"totalDiscrepancy"`
	HasDiscrepancies bool                      `json:"hasDiscrepancies"`
	Accounts         []ClosingLineResponse     `json:"accounts"`
	Log              []SessionMovementResponse `json:"log"`
}

// ToClosingSummaryResponse converts a domain.ClosingSummary to its response DTO
func ToClosingSummaryResponse(s *domain.ClosingSummary) ClosingSummaryResponse {
	accounts := make([]ClosingLineResponse, len(s.Accounts))
	for i, line := range s.Accounts {
		accounts[i] = ClosingLineResponse{
			AccountID:               line.AccountID,
			AccountName:             line.AccountName,
			Role:                    string(line.Role),
			OpeningBalance:          line.OpeningBalance,
			TransactionTotal:        line.TransactionTotal,
			Adjustments:             line.Adjustments,
			ExpectedBalance:         line.ExpectedBalance,
			ActualBalance:           line.ActualBalance,
			Discrepancy:             line.Discrepancy,
			AdjustmentTransactionID: line.AdjustmentTransactionID,
		}
	}
	log := make([]SessionMovementResponse, len(s.Log))
	for i, m := range s.Log {
		log[i] = toSessionMovementResponse(m)
	}
	return ClosingSummaryResponse{
		SessionID:        s.SessionID,
		TotalExpected:    s.TotalExpected,
		TotalActual:      s.TotalActual,
		TotalDiscrepancy: s.TotalDiscrepancy,
		HasDiscrepancies: s.HasDiscrepancies,
		Accounts:         accounts,
		Log:              log,
	}
}

// ListSessionsParams defines query parameters for listing sessions.
type ListSessionsParams struct {
	BranchID string `form:"branchID" binding:"required"`
	Limit    int    `form:"limit,default=20"`
	Offset   int    `form:"offset,default=0"`
}

// ListSessionsResponse wraps the list of sessions.
type ListSessionsResponse struct {
	Sessions []SessionResponse `json:"sessions"`
}
