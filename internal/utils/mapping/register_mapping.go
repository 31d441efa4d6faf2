package mapping

import (
	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
	"github.com/a7mdelbanna/clients_plus_backend/internal/models"
)

// ToModelRegisterSession converts a domain RegisterSession to its session row.
// Mapped accounts and the movement log live in their own tables and are
// mapped separately.
func ToModelRegisterSession(d domain.RegisterSession) models.RegisterSession {
	return models.RegisterSession{
		SessionID:   d.SessionID,
		CompanyID:   d.CompanyID,
		BranchID:    d.BranchID,
		RegisterID:  d.RegisterID,
		Status:      string(d.Status),
		OpenedBy:    d.OpenedBy,
		OpenedAt:    d.OpenedAt,
		ClosedBy:    strToPtr(d.ClosedBy),
		ClosedAt:    d.ClosedAt,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRegisterSession converts a session row back to the domain type.
// Movements and the log are attached by the repository.
func ToDomainRegisterSession(m models.RegisterSession) domain.RegisterSession {
	return domain.RegisterSession{
		SessionID:       m.SessionID,
		CompanyID:       m.CompanyID,
		BranchID:        m.BranchID,
		RegisterID:      m.RegisterID,
		Status:          domain.SessionStatus(m.Status),
		OpenedBy:        m.OpenedBy,
		OpenedAt:        m.OpenedAt,
		ClosedBy:        ptrToStr(m.ClosedBy),
		ClosedAt:        m.ClosedAt,
		AccountMappings: map[domain.AccountRole]string{},
		Movements:       map[string]domain.AccountMovement{},
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelSessionAccount converts one account movement to its row.
func ToModelSessionAccount(sessionID string, d domain.AccountMovement) models.SessionAccount {
	return models.SessionAccount{
		SessionID:               sessionID,
		AccountID:               d.AccountID,
		Role:                    string(d.Role),
		OpeningBalance:          d.OpeningBalance,
		TransactionTotal:        d.TransactionTotal,
		Adjustments:             d.Adjustments,
		ExpectedBalance:         d.ExpectedBalance,
		ActualBalance:           d.ActualBalance,
		Discrepancy:             d.Discrepancy,
		AdjustmentTransactionID: strToPtr(d.AdjustmentTransactionID),
	}
}

// ToDomainAccountMovement converts a session_accounts row to the domain type.
func ToDomainAccountMovement(m models.SessionAccount) domain.AccountMovement {
	return domain.AccountMovement{
		AccountID:               m.AccountID,
		Role:                    domain.AccountRole(m.Role),
		OpeningBalance:          m.OpeningBalance,
		TransactionTotal:        m.TransactionTotal,
		Adjustments:             m.Adjustments,
		ExpectedBalance:         m.ExpectedBalance,
		ActualBalance:           m.ActualBalance,
		Discrepancy:             m.Discrepancy,
		AdjustmentTransactionID: ptrToStr(m.AdjustmentTransactionID),
	}
}

// ToModelSessionMovement converts a log entry to its row.
func ToModelSessionMovement(d domain.SessionMovement) models.SessionMovement {
	return models.SessionMovement{
		MovementID:    d.MovementID,
		SessionID:     d.SessionID,
		Type:          string(d.Type),
		Amount:        d.Amount,
		PaymentMethod: string(d.PaymentMethod),
		AccountID:     d.AccountID,
		Reference:     strToPtr(d.Reference),
		Note:          strToPtr(d.Note),
		RecordedBy:    d.RecordedBy,
		RecordedAt:    d.RecordedAt,
	}
}

// ToDomainSessionMovement converts a session_movements row to the domain type.
func ToDomainSessionMovement(m models.SessionMovement) domain.SessionMovement {
	return domain.SessionMovement{
		MovementID:    m.MovementID,
		SessionID:     m.SessionID,
		Type:          domain.MovementType(m.Type),
		Amount:        m.Amount,
		PaymentMethod: domain.PaymentMethod(m.PaymentMethod),
		AccountID:     m.AccountID,
		Reference:     ptrToStr(m.Reference),
		Note:          ptrToStr(m.Note),
		RecordedBy:    m.RecordedBy,
		RecordedAt:    m.RecordedAt,
	}
}
