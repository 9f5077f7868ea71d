package postgres

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// decimalArg matches a decimal argument by value rather than by representation.
type decimalArg struct {
	want decimal.Decimal
}

func decimalEq(s string) decimalArg {
	return decimalArg{want: decimal.RequireFromString(s)}
}

func (d decimalArg) Match(v any) bool {
	got, ok := v.(decimal.Decimal)
	return ok && got.Equal(d.want)
}

func (d decimalArg) String() string {
	return fmt.Sprintf("decimal(%s)", d.want)
}
