package payroll

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CoerceAmount turns user input into a non-negative amount with two decimal
// places. Anything that does not parse, and any negative number, becomes
// zero. Thousands separators are tolerated.
func CoerceAmount(input string) decimal.Decimal {
	s := strings.ReplaceAll(strings.TrimSpace(input), ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d.Round(2)
}
