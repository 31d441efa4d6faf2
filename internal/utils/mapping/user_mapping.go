package mapping

import (
	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
	"github.com/a7mdelbanna/clients_plus_backend/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:             d.UserID,
		CompanyID:          d.CompanyID,
		Name:               d.Name,
		Email:              d.Email,
		PasswordHash:       d.PasswordHash,
		Role:               string(d.Role),
		RefreshTokenHash:   d.RefreshTokenHash,
		RefreshTokenExpiry: d.RefreshTokenExpiry,
		AuditFields:        ToModelAuditFields(d.AuditFields),
		DeletedAt:          d.DeletedAt,
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:             m.UserID,
		CompanyID:          m.CompanyID,
		Name:               m.Name,
		Email:              m.Email,
		PasswordHash:       m.PasswordHash,
		Role:               domain.UserRole(m.Role),
		RefreshTokenHash:   m.RefreshTokenHash,
		RefreshTokenExpiry: m.RefreshTokenExpiry,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
		DeletedAt:          m.DeletedAt,
	}
}
