package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// EqualShare computes each sharer's portion of an amount split equally among n people.
// The division keeps decimal.DivisionPrecision digits; any remainder is not redistributed.
func EqualShare(amount decimal.Decimal, n int) (decimal.Decimal, error) {
	if n <= 0 {
		return decimal.Zero, fmt.Errorf("must have at least one participant")
	}
	return amount.Div(decimal.NewFromInt(int64(n))), nil
}
