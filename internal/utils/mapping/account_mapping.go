package mapping

import (
	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
	"github.com/a7mdelbanna/clients_plus_backend/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:           d.AccountID,
		CompanyID:           d.CompanyID,
		BranchID:            d.BranchID,
		Name:                d.Name,
		AccountType:         string(d.AccountType),
		Status:              string(d.Status),
		OpeningBalance:      d.OpeningBalance,
		OpeningDate:         d.OpeningDate,
		Balance:             d.Balance,
		AllowNegative:       d.AllowNegative,
		LowBalanceThreshold: d.LowBalanceThreshold,
		IsDefault:           d.IsDefault,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:           m.AccountID,
		CompanyID:           m.CompanyID,
		BranchID:            m.BranchID,
		Name:                m.Name,
		AccountType:         domain.AccountType(m.AccountType),
		Status:              domain.AccountStatus(m.Status),
		OpeningBalance:      m.OpeningBalance,
		OpeningDate:         m.OpeningDate,
		Balance:             m.Balance,
		AllowNegative:       m.AllowNegative,
		LowBalanceThreshold: m.LowBalanceThreshold,
		IsDefault:           m.IsDefault,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
