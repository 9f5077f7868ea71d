package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to CLI messages and HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"` // Set for validation errors only
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// Error codes.
const (
	CodeValidation         = "VAL_001"
	CodeInvalidCredentials = "AUTH_001"
	CodeUsernameExists     = "AUTH_002"
	CodeInvalidToken       = "AUTH_003"
	CodeSessionExpired     = "AUTH_004"
	CodeInsufficientFunds  = "LED_001"
	CodeInvalidAmount      = "LED_002"
	CodeRecipientNotFound  = "LED_003"
	CodeSelfTransfer       = "LED_004"
	CodeAccountNotFound    = "LED_005"
	CodeInternal           = "SYS_000"
	CodeStoreUnavailable   = "SYS_001"
	CodeTransientConflict  = "SYS_002"
)

// CodeOf returns the code of the first AppError in err's chain, or "" if none.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

// ---- Validation (VAL) ----

// ErrValidation reports a rejected input field together with the reason.
func ErrValidation(field, reason string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    reason,
		Field:      field,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Validation returns a field-less validation error (malformed request bodies).
func Validation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New(CodeInvalidCredentials, "Invalid username or password", http.StatusUnauthorized)
}

func ErrUsernameExists() *AppError {
	return New(CodeUsernameExists, "Username already exists", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)
}

func ErrSessionExpired() *AppError {
	return New(CodeSessionExpired, "Session expired, please log in again", http.StatusUnauthorized)
}

// ---- Ledger (LED) ----

func ErrInsufficientFunds() *AppError {
	return New(CodeInsufficientFunds, "Insufficient funds", http.StatusPaymentRequired)
}

func ErrInvalidAmount() *AppError {
	return New(CodeInvalidAmount, "Amount must be positive", http.StatusBadRequest)
}

// ErrAmountPrecision is an InvalidAmount error for amounts finer than the ledger scale.
func ErrAmountPrecision(scale int32) *AppError {
	return New(CodeInvalidAmount, fmt.Sprintf("Amount must have at most %d decimal places", scale), http.StatusBadRequest)
}

// ErrAmountTooLarge is an InvalidAmount error for amounts above the ledger maximum.
func ErrAmountTooLarge(max string) *AppError {
	return New(CodeInvalidAmount, fmt.Sprintf("Amount must not exceed %s", max), http.StatusBadRequest)
}

func ErrRecipientNotFound() *AppError {
	return New(CodeRecipientNotFound, "Recipient account does not exist", http.StatusNotFound)
}

func ErrSelfTransfer() *AppError {
	return New(CodeSelfTransfer, "Cannot transfer money to your own account", http.StatusBadRequest)
}

func ErrAccountNotFound() *AppError {
	return New(CodeAccountNotFound, "Account not found", http.StatusNotFound)
}

// ---- System & Infrastructure (SYS) ----

func ErrStoreUnavailable(err error) *AppError {
	return Wrap(CodeStoreUnavailable, "Storage is unavailable", http.StatusServiceUnavailable, err)
}

func ErrTransientConflict(err error) *AppError {
	return Wrap(CodeTransientConflict, "Concurrent update conflict, please retry", http.StatusServiceUnavailable, err)
}

// InternalError wraps an unexpected internal error.
func InternalError(err error) *AppError {
	return Wrap(CodeInternal, "Internal server error", http.StatusInternalServerError, err)
}
