package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionStatus is the lifecycle state of a register session.
type SessionStatus string

const (
	SessionOpen   SessionStatus = "OPEN"
	SessionClosed SessionStatus = "CLOSED"
)

// AccountRole names the part an account plays inside a register session.
type AccountRole string

const (
	RoleCash          AccountRole = "cash"
	RoleCard          AccountRole = "card"
	RoleBank          AccountRole = "bank"
	RoleDigitalWallet AccountRole = "digital_wallet"
	RoleOverShort     AccountRole = "over_short" // absorbs closing discrepancies
)

// MovementType classifies a register movement.
type MovementType string

const (
	MovementSale       MovementType = "SALE"
	MovementDeposit    MovementType = "DEPOSIT"
	MovementPayout     MovementType = "PAYOUT"
	MovementWithdrawal MovementType = "WITHDRAWAL"
)

// Sign returns +1 for movements that add money to the register account and -1
// for movements that take money out.
func (m MovementType) Sign() decimal.Decimal {
	switch m {
	case MovementSale, MovementDeposit:
		return decimal.NewFromInt(1)
	default:
		return decimal.NewFromInt(-1)
	}
}

// AccountMovement tracks one mapped account across the life of a session.
// ExpectedBalance is derived: opening + transactionTotal + adjustments.
// ActualBalance and Discrepancy are only set at close.
type AccountMovement struct {
	AccountID               string          `json:"accountID"`
	Role                    AccountRole     `json:"role"`
	OpeningBalance          decimal.Decimal `json:"openingBalance"`
	TransactionTotal        decimal.Decimal `json:"transactionTotal"`
	Adjustments             decimal.Decimal `json:"adjustments"`
	ExpectedBalance         decimal.Decimal `json:"expectedBalance"`
	ActualBalance           decimal.Decimal `json:"actualBalance"`
	Discrepancy             decimal.Decimal `json:"discrepancy"`
	AdjustmentTransactionID string          `json:"adjustmentTransactionID,omitempty"`
}

// Expected recomputes the expected balance from the movement's parts.
func (m *AccountMovement) Expected() decimal.Decimal {
	return m.OpeningBalance.Add(m.TransactionTotal).Add(m.Adjustments)
}

// SessionMovement is one entry in a session's movement log. Amount is always
// positive; the movement type carries the direction.
type SessionMovement struct {
	MovementID    string          `json:"movementID"` // Primary key (UUID)
	SessionID     string          `json:"sessionID"`
	Type          MovementType    `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	AccountID     string          `json:"accountID"` // mapped account the movement hits
	Reference     string          `json:"reference,omitempty"`
	Note          string          `json:"note,omitempty"`
	RecordedBy    string          `json:"recordedBy"`
	RecordedAt    time.Time       `json:"recordedAt"`
}

// SignedAmount is the delta the movement applies to the account's
// transaction total.
func (m *SessionMovement) SignedAmount() decimal.Decimal {
	return m.Amount.Mul(m.Type.Sign())
}

// RegisterSession is one open-to-close cycle of a physical register.
// AccountMappings binds each role to a ledger account; Movements is keyed by
// account ID.
type RegisterSession struct {
	SessionID       string                     `json:"sessionID"` // Primary key (UUID)
	CompanyID       string                     `json:"companyID"`
	BranchID        string                     `json:"branchID"`
	RegisterID      string                     `json:"registerID"`
	Status          SessionStatus              `json:"status"`
	OpenedBy        string                     `json:"openedBy"`
	OpenedAt        time.Time                  `json:"openedAt"`
	ClosedBy        string                     `json:"closedBy,omitempty"`
	ClosedAt        *time.Time                 `json:"closedAt,omitempty"`
	AccountMappings map[AccountRole]string     `json:"accountMappings"`
	Movements       map[string]AccountMovement `json:"movements"`
	Log             []SessionMovement          `json:"log"`
	AuditFields
}

// IsOpen reports whether the session still accepts movements.
func (s *RegisterSession) IsOpen() bool {
	return s.Status == SessionOpen
}

// AccountForMethod resolves the mapped account for a payment method, falling
// back to the cash mapping when the method has no dedicated account.
func (s *RegisterSession) AccountForMethod(method PaymentMethod) (string, bool) {
	role := RoleCash
	switch method {
	case MethodCard:
		role = RoleCard
	case MethodBankTransfer:
		role = RoleBank
	case MethodDigitalWallet:
		role = RoleDigitalWallet
	}
	if id, ok := s.AccountMappings[role]; ok && id != "" {
		return id, true
	}
	id, ok := s.AccountMappings[RoleCash]
	return id, ok && id != ""
}

// ClosingLine is the per-account section of a closing summary.
type ClosingLine struct {
	AccountID               string          `json:"accountID"`
	AccountName             string          `json:"accountName"`
	Role                    AccountRole     `json:"role"`
	OpeningBalance          decimal.Decimal `json:"openingBalance"`
	TransactionTotal        decimal.Decimal `json:"transactionTotal"`
	Adjustments             decimal.Decimal `json:"adjustments"`
	ExpectedBalance         decimal.Decimal `json:"expectedBalance"`
	ActualBalance           decimal.Decimal `json:"actualBalance"`
	Discrepancy             decimal.Decimal `json:"discrepancy"`
	AdjustmentTransactionID string          `json:"adjustmentTransactionID,omitempty"`
}

// ClosingSummary is returned when a session closes.
type ClosingSummary struct {
	SessionID        string            `json:"sessionID"`
	TotalExpected    decimal.Decimal   `json:"totalExpected"`
	TotalActual      decimal.Decimal   `json:"totalActual"`
	TotalDiscrepancy decimal.Decimal   `json:"totalDiscrepancy"`
	HasDiscrepancies bool              `json:"hasDiscrepancies"`
	Accounts         []ClosingLine     `json:"accounts"`
	Log              []SessionMovement `json:"log"`
}
