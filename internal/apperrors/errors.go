package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the operation is not allowed in the resource's current state.
var ErrConflict = errors.New("operation conflicts with resource state")

// ErrForbidden indicates the caller is not allowed to act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInsufficientBalance indicates a posting would drive an account balance
// below zero while the account disallows negative balances. The authoritative
// check runs inside the storage transaction, against the locked row.
var ErrInsufficientBalance = errors.New("insufficient account balance")

// ErrInsufficientPayment indicates the payments on a sale do not cover its total.
var ErrInsufficientPayment = errors.New("payments do not cover sale total")

// ErrNonZeroBalance indicates an account cannot be closed while it still holds funds.
var ErrNonZeroBalance = errors.New("account balance is not zero")

// ErrLastAccountOfType indicates the last active account of its type in a
// branch cannot be closed.
var ErrLastAccountOfType = errors.New("last active account of its type")

// ErrSessionAlreadyOpen indicates the register already has an open session.
var ErrSessionAlreadyOpen = errors.New("register session already open")

// ErrSessionNotOpen indicates the operation requires an open register session.
var ErrSessionNotOpen = errors.New("register session is not open")

// AppError carries an HTTP-ish status code alongside a message and the
// underlying cause. Repositories use it to wrap infrastructure failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that satisfies errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}
