package redis

import (
	"errors"
	"fmt"
	"net"

	"simple-bank-ledger/pkg/apperror"

	goredis "github.com/redis/go-redis/v9"
)

// translateError maps client failures onto the apperror taxonomy: network,
// dial and pool errors become SYS_001. Anything else is wrapped with op.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, goredis.ErrClosed) ||
		errors.Is(err, goredis.ErrPoolTimeout) {
		return apperror.ErrStoreUnavailable(fmt.Errorf("%s: %w", op, err))
	}
	return fmt.Errorf("%s: %w", op, err)
}
