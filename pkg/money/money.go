// Package money formats monetary amounts kept as int64 minor units
// (cents) elsewhere in the domain.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Format renders an amount in minor units as a user-facing currency string,
// e.g. Format(150000, "KES") == "KES 1500.00". Unknown currency codes fall
// back to two decimal places with the raw code.
func Format(minor int64, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%s %s", code, decimal.NewFromInt(minor).Shift(-2).StringFixed(2))
	}

	scale, _ := currency.Cash.Rounding(unit)
	amount := decimal.NewFromInt(minor).Shift(int32(-scale))
	return fmt.Sprintf("%v %s", unit, amount.StringFixed(int32(scale)))
}

// ToMajor converts minor units to a decimal in major units, e.g.
// ToMajor(2550, "KES") == 25.50. Used when a gateway expects whole amounts.
func ToMajor(minor int64, code string) decimal.Decimal {
	scale := 2
	if unit, err := currency.ParseISO(code); err == nil {
		scale, _ = currency.Cash.Rounding(unit)
	}
	return decimal.NewFromInt(minor).Shift(int32(-scale))
}
