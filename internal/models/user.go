package models

import "time"

// User is the row shape of the users table.
type User struct {
	UserID             string     `db:"user_id"`
	CompanyID          string     `db:"company_id"`
	Name               string     `db:"name"`
	Email              string     `db:"email"`
	PasswordHash       string     `db:"password_hash"`
	Role               string     `db:"role"`
	RefreshTokenHash   *string    `db:"refresh_token_hash"`
	RefreshTokenExpiry *time.Time `db:"refresh_token_expiry"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
