package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("LED_001", "Insufficient funds", http.StatusPaymentRequired),
			expected: "[LED_001] Insufficient funds",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_000", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_000] DB error: connection refused",
		},
		{
			name:     "with field",
			appErr:   ErrValidation("username", "Username must be between 3 and 20 characters"),
			expected: "[VAL_001] username: Username must be between 3 and 20 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_000", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("LED_001", "test", http.StatusBadRequest)
	assert.Nil(t, appErr.Unwrap())
}

func TestCodeOf_WrappedChain(t *testing.T) {
	err := fmt.Errorf("withdraw: %w", ErrInsufficientFunds())

	assert.Equal(t, CodeInsufficientFunds, CodeOf(err))
	assert.True(t, Is(err, CodeInsufficientFunds))
	assert.False(t, Is(err, CodeInvalidAmount))
}

func TestCodeOf_PlainError(t *testing.T) {
	assert.Equal(t, "", CodeOf(errors.New("boom")))
	assert.False(t, Is(nil, CodeInternal))
}

func TestValidationError_CarriesField(t *testing.T) {
	err := ErrValidation("initial_deposit", "Initial deposit must be at least 1000")
	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, "initial_deposit", err.Field)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
}

func TestLedgerErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InsufficientFunds", ErrInsufficientFunds(), "LED_001", 402},
		{"InvalidAmount", ErrInvalidAmount(), "LED_002", 400},
		{"AmountPrecision", ErrAmountPrecision(2), "LED_002", 400},
		{"RecipientNotFound", ErrRecipientNotFound(), "LED_003", 404},
		{"SelfTransfer", ErrSelfTransfer(), "LED_004", 400},
		{"AccountNotFound", ErrAccountNotFound(), "LED_005", 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestAuthErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InvalidCredentials", ErrInvalidCredentials(), "AUTH_001", 401},
		{"UsernameExists", ErrUsernameExists(), "AUTH_002", 409},
		{"InvalidToken", ErrInvalidToken(), "AUTH_003", 401},
		{"SessionExpired", ErrSessionExpired(), "AUTH_004", 401},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	storeErr := ErrStoreUnavailable(inner)
	assert.Equal(t, "SYS_001", storeErr.Code)
	assert.Equal(t, 503, storeErr.HTTPStatus)
	assert.True(t, errors.Is(storeErr, inner))

	conflictErr := ErrTransientConflict(inner)
	assert.Equal(t, "SYS_002", conflictErr.Code)
	assert.Equal(t, 503, conflictErr.HTTPStatus)

	internal := InternalError(inner)
	assert.Equal(t, "SYS_000", internal.Code)
	assert.Equal(t, 500, internal.HTTPStatus)
}
