package postgres

import (
	"errors"
	"fmt"

	"simple-bank-ledger/internal/core/domain"
	"simple-bank-ledger/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the repositories react to.
const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeNumericOutOfRange    = "22003"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// Unique constraint names from schema.sql.
const (
	constraintUsername      = "accounts_username_key"
	constraintAccountNumber = "accounts_account_number_key"
	constraintBalance       = "accounts_balance_non_negative"
)

// translateError maps driver errors onto the apperror taxonomy:
// lock and serialization conflicts become SYS_002, connection failures
// SYS_001, and NUMERIC overflow LED_002. Anything else is wrapped with op for context.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
			return apperror.ErrTransientConflict(fmt.Errorf("%s: %w", op, err))
		case codeNumericOutOfRange:
			return apperror.ErrAmountTooLarge(domain.MaxBalance.String())
		case codeCheckViolation:
			if pgErr.ConstraintName == constraintBalance {
				return apperror.ErrInsufficientFunds()
			}
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) {
		return apperror.ErrStoreUnavailable(fmt.Errorf("%s: %w", op, err))
	}

	return fmt.Errorf("%s: %w", op, err)
}

// uniqueViolation returns the violated constraint name, or "" if err is not
// a unique violation.
func uniqueViolation(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
		return pgErr.ConstraintName
	}
	return ""
}
