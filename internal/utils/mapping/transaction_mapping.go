package mapping

import (
	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
	"github.com/a7mdelbanna/clients_plus_backend/internal/models"
)

// strToPtr returns nil for an empty string so optional columns store NULL.
func strToPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func ptrToStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:       d.TransactionID,
		CompanyID:           d.CompanyID,
		BranchID:            d.BranchID,
		AccountID:           d.AccountID,
		AccountName:         d.AccountName,
		Type:                string(d.Type),
		Amount:              d.Amount,
		TaxAmount:           d.TaxAmount,
		TotalAmount:         d.TotalAmount,
		PaymentMethod:       string(d.PaymentMethod),
		Status:              string(d.Status),
		Category:            d.Category,
		Description:         d.Description,
		TransactionDate:     d.TransactionDate,
		RunningBalance:      d.RunningBalance,
		TransferAccountID:   strToPtr(d.TransferAccountID),
		LinkedTransactionID: strToPtr(d.LinkedTransactionID),
		SessionID:           strToPtr(d.SessionID),
		SourceType:          strToPtr(d.SourceType),
		SourceID:            strToPtr(d.SourceID),
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:       m.TransactionID,
		CompanyID:           m.CompanyID,
		BranchID:            m.BranchID,
		AccountID:           m.AccountID,
		AccountName:         m.AccountName,
		Type:                domain.TransactionType(m.Type),
		Amount:              m.Amount,
		TaxAmount:           m.TaxAmount,
		TotalAmount:         m.TotalAmount,
		PaymentMethod:       domain.PaymentMethod(m.PaymentMethod),
		Status:              domain.TransactionStatus(m.Status),
		Category:            m.Category,
		Description:         m.Description,
		TransactionDate:     m.TransactionDate,
		RunningBalance:      m.RunningBalance,
		TransferAccountID:   ptrToStr(m.TransferAccountID),
		LinkedTransactionID: ptrToStr(m.LinkedTransactionID),
		SessionID:           ptrToStr(m.SessionID),
		SourceType:          ptrToStr(m.SourceType),
		SourceID:            ptrToStr(m.SourceID),
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to a slice of domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
