package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/a7mdelbanna/clients_plus_backend/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestStatusForError(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", apperrors.ErrValidation, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation), http.StatusBadRequest},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden},
		{"not found", apperrors.ErrNotFound, http.StatusNotFound},
		{"duplicate", apperrors.ErrDuplicate, http.StatusConflict},
		{"conflict", apperrors.ErrConflict, http.StatusConflict},
		{"non-zero balance", apperrors.ErrNonZeroBalance, http.StatusConflict},
		{"last account of type", apperrors.ErrLastAccountOfType, http.StatusConflict},
		{"session already open", apperrors.ErrSessionAlreadyOpen, http.StatusConflict},
		{"session not open", apperrors.ErrSessionNotOpen, http.StatusConflict},
		{"insufficient balance", apperrors.ErrInsufficientBalance, http.StatusUnprocessableEntity},
		{"insufficient payment", apperrors.ErrInsufficientPayment, http.StatusUnprocessableEntity},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, statusForError(tc.err))
		})
	}
}
