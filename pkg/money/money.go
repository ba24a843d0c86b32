// Package money converts between display amounts and integer cents.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ToCents parses a decimal amount string ("250", "33.335") into integer cents,
// rounding half away from zero. Callers must treat an error as invalid input;
// there is no NaN escape hatch.
func ToCents(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return d.Mul(hundred).Round(0).IntPart(), nil
}

// Format renders cents as a display amount with the currency code appended,
// e.g. Format(333400, "MXN") == "3334.00 MXN".
func Format(cents int64, currency string) string {
	amount := decimal.NewFromInt(cents).Div(hundred).StringFixed(2)
	if currency == "" {
		return amount
	}
	return amount + " " + currency
}
