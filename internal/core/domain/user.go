package domain

import "time"

// UserRole controls what a staff member may do.
type UserRole string

const (
	RoleOwner   UserRole = "OWNER"
	RoleManager UserRole = "MANAGER"
	RoleCashier UserRole = "CASHIER"
)

// User is a staff member of a company.
type User struct {
	UserID             string     `json:"userID"` // Primary key (UUID)
	CompanyID          string     `json:"companyID"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	PasswordHash       string     `json:"-"`
	Role               UserRole   `json:"role"`
	RefreshTokenHash   *string    `json:"-"`
	RefreshTokenExpiry *time.Time `json:"-"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}
