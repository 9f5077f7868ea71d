package service

import (
	"fmt"

	"simple-bank-ledger/pkg/apperror"
)

// classify passes AppErrors through and wraps anything else as SYS_000.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if apperror.CodeOf(err) != "" {
		return err
	}
	return apperror.InternalError(fmt.Errorf("%s: %w", op, err))
}
