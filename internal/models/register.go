package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterSession is the row shape of the register_sessions table.
type RegisterSession struct {
	SessionID  string     `db:"session_id"`
	CompanyID  string     `db:"company_id"`
	BranchID   string     `db:"branch_id"`
	RegisterID string     `db:"register_id"`
	Status     string     `db:"status"`
	OpenedBy   string     `db:"opened_by"`
	OpenedAt   time.Time  `db:"opened_at"`
	ClosedBy   *string    `db:"closed_by"`
	ClosedAt   *time.Time `db:"closed_at"`
	AuditFields
}

// SessionAccount is the row shape of the session_accounts table: one mapped
// account's movement figures for one session.
type SessionAccount struct {
	SessionID               string          `db:"session_id"`
	AccountID               string          `db:"account_id"`
	Role                    string          `db:"role"`
	OpeningBalance          decimal.Decimal `db:"opening_balance"`
	TransactionTotal        decimal.Decimal `db:"transaction_total"`
	Adjustments             decimal.Decimal `db:"adjustments"`
	ExpectedBalance         decimal.Decimal `db:"expected_balance"`
	ActualBalance           decimal.Decimal `db:"actual_balance"`
	Discrepancy             decimal.Decimal `db:"discrepancy"`
	AdjustmentTransactionID *string         `db:"adjustment_transaction_id"`
}

// SessionMovement is the row shape of the session_movements table.
type SessionMovement struct {
	MovementID    string          `db:"movement_id"`
	SessionID     string          `db:"session_id"`
	Type          string          `db:"type"`
	Amount        decimal.Decimal `db:"amount"`
	PaymentMethod string          `db:"payment_method"`
	AccountID     string          `db:"account_id"`
	Reference     *string         `db:"reference"`
	Note          *string         `db:"note"`
	RecordedBy    string          `db:"recorded_by"`
	RecordedAt    time.Time       `db:"recorded_at"`
}
