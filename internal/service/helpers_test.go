package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// mockTx implements pgx.Tx for testing
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

// commitFailTx fails at COMMIT.
type commitFailTx struct {
	pgx.Tx
	err error
}

func (m *commitFailTx) Rollback(_ context.Context) error { return nil }
func (m *commitFailTx) Commit(_ context.Context) error   { return m.err }

// decimalMatcher compares decimals by value.
type decimalMatcher struct {
	want decimal.Decimal
}

func decEq(s string) decimalMatcher {
	return decimalMatcher{want: decimal.RequireFromString(s)}
}

func (m decimalMatcher) Matches(x any) bool {
	got, ok := x.(decimal.Decimal)
	return ok && got.Equal(m.want)
}

func (m decimalMatcher) String() string {
	return fmt.Sprintf("is decimal %s", m.want)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
