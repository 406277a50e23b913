// Package format renders amounts, ratios and rates for human-readable output.
package format

import (
	"strings"

	"github.com/iwvelando/mortgage-affordability/pkg/constants"
	"github.com/shopspring/decimal"
)

// Currency returns a currency string with the symbol, thousands separators
// and cents (e.g., "-€ 1,234.56").
func Currency(symbol string, amount float64) string {
	return withSymbol(symbol, amount, 2)
}

// WholeCurrency returns a currency string rounded to whole units
// (e.g., "€ 316,253").
func WholeCurrency(symbol string, amount float64) string {
	return withSymbol(symbol, amount, 0)
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	d := decimal.NewFromFloat(amount)
	sign := ""
	if d.Round(2).IsNegative() {
		sign = "-"
	}
	return sign + group(d.Abs().StringFixed(2))
}

// Percent renders a fraction as a whole percentage (0.8 -> "80%").
func Percent(fraction float64) string {
	return decimal.NewFromFloat(fraction*constants.PercentageMultiplier).StringFixed(0) + "%"
}

// Rate renders an annual percentage rate with two decimals (3 -> "3.00%").
func Rate(percent float64) string {
	return decimal.NewFromFloat(percent).StringFixed(2) + "%"
}

func withSymbol(symbol string, amount float64, places int32) string {
	d := decimal.NewFromFloat(amount)
	formatted := group(d.Abs().StringFixed(places))
	if symbol == "" {
		symbol = constants.DefaultCurrencySymbol
	}
	if d.Round(places).IsNegative() {
		return "-" + symbol + " " + formatted
	}
	return symbol + " " + formatted
}

// group inserts thousands separators into a non-negative fixed-point string.
func group(formatted string) string {
	intPart, decPart, hasDec := strings.Cut(formatted, ".")

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	if !hasDec {
		return intPart
	}
	return intPart + "." + decPart
}
