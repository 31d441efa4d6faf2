package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates the direction of a ledger posting.
type TransactionType string

const (
	Income      TransactionType = "INCOME"
	Expense     TransactionType = "EXPENSE"
	TransferIn  TransactionType = "TRANSFER_IN"
	TransferOut TransactionType = "TRANSFER_OUT"
)

// Sign returns +1 for postings that increase the account balance and -1 for
// postings that decrease it.
func (t TransactionType) Sign() decimal.Decimal {
	switch t {
	case Income, TransferIn:
		return decimal.NewFromInt(1)
	default:
		return decimal.NewFromInt(-1)
	}
}

// PaymentMethod is how money physically moved.
type PaymentMethod string

const (
	MethodCash          PaymentMethod = "CASH"
	MethodCard          PaymentMethod = "CARD"
	MethodBankTransfer  PaymentMethod = "BANK_TRANSFER"
	MethodDigitalWallet PaymentMethod = "DIGITAL_WALLET"
)

// TransactionStatus is the lifecycle state of a posting. Only COMPLETED
// postings affect the persisted account balance.
type TransactionStatus string

const (
	TxnCompleted TransactionStatus = "COMPLETED"
	TxnPending   TransactionStatus = "PENDING"
	TxnCancelled TransactionStatus = "CANCELLED"
)

// Source type values for postings created by other modules.
const (
	SourceOpening           = "opening"
	SourceSale              = "sale"
	SourceSessionOpen       = "session_open"
	SourceSessionMovement   = "session_movement"
	SourceSessionAdjustment = "session_adjustment"
)

// Transaction is an immutable ledger posting against a single account.
// AccountName is a snapshot taken at posting time; renaming the account later
// does not rewrite history. Transfers come in linked pairs: the TRANSFER_OUT
// leg on the source and the TRANSFER_IN leg on the destination reference each
// other through LinkedTransactionID and TransferAccountID.
type Transaction struct {
	TransactionID       string            `json:"transactionID"` // Primary key (UUID)
	CompanyID           string            `json:"companyID"`
	BranchID            string            `json:"branchID"`
	AccountID           string            `json:"accountID"`
	AccountName         string            `json:"accountName"`
	Type                TransactionType   `json:"type"`
	Amount              decimal.Decimal   `json:"amount"`      // positive, before tax
	TaxAmount           decimal.Decimal   `json:"taxAmount"`   // positive or zero
	TotalAmount         decimal.Decimal   `json:"totalAmount"` // amount + tax; the magnitude applied to the balance
	PaymentMethod       PaymentMethod     `json:"paymentMethod"`
	Status              TransactionStatus `json:"status"`
	Category            string            `json:"category"`
	Description         string            `json:"description"`
	TransactionDate     time.Time         `json:"transactionDate"`
	RunningBalance      decimal.Decimal   `json:"runningBalance"` // account balance after this posting
	TransferAccountID   string            `json:"transferAccountID,omitempty"`
	LinkedTransactionID string            `json:"linkedTransactionID,omitempty"`
	SessionID           string            `json:"sessionID,omitempty"` // register session attribution
	SourceType          string            `json:"sourceType,omitempty"`
	SourceID            string            `json:"sourceID,omitempty"`
	AuditFields
}

// SignedTotal is the delta this posting applies to the account balance.
func (t *Transaction) SignedTotal() decimal.Decimal {
	return t.TotalAmount.Mul(t.Type.Sign())
}

// IsTransfer reports whether the posting is one leg of a transfer pair.
func (t *Transaction) IsTransfer() bool {
	return t.Type == TransferIn || t.Type == TransferOut
}
