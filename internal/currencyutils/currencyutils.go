// Package currencyutils provides amount parsing, currency code handling and
// unit scaling helpers built on shopspring/decimal.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	currencySymbols = regexp.MustCompile(`[€$£¥₣₤₹₺₽₩฿₫₴₸₪]`)
	currencyCodes   = regexp.MustCompile(`(?i)\b(USD|EUR|GBP|CHF|JPY|CAD|AUD)\b`)
	spaces          = regexp.MustCompile(`[\s\x{00A0}\x{202F}]`)
)

// ParseAmount parses an amount cell. Empty cells are zero. Accepted forms
// include "1,234.56", "1.234,56", "1'234.56", "$1,234.56", "USD 100",
// "(100.00)" and "100-" for negatives.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" || standardized == "-" {
		return decimal.Zero, nil
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}

	return amount, nil
}

// StandardizeAmount rewrites an amount string into a form accepted by
// decimal.NewFromString.
func StandardizeAmount(amountStr string) string {
	amountStr = currencySymbols.ReplaceAllString(amountStr, "")
	amountStr = currencyCodes.ReplaceAllString(amountStr, "")
	amountStr = spaces.ReplaceAllString(amountStr, "")

	negative := false
	if strings.HasPrefix(amountStr, "(") && strings.HasSuffix(amountStr, ")") {
		negative = true
		amountStr = strings.TrimSuffix(strings.TrimPrefix(amountStr, "("), ")")
	}
	if len(amountStr) > 1 && strings.HasSuffix(amountStr, "-") {
		negative = true
		amountStr = strings.TrimSuffix(amountStr, "-")
	}

	// Apostrophes as thousand separators (1'234.56)
	amountStr = strings.ReplaceAll(amountStr, "'", "")

	if strings.Contains(amountStr, ",") && strings.Contains(amountStr, ".") {
		if strings.LastIndex(amountStr, ".") < strings.LastIndex(amountStr, ",") {
			// European format (1.234,56)
			amountStr = strings.ReplaceAll(amountStr, ".", "")
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	} else if strings.Contains(amountStr, ",") {
		parts := strings.Split(amountStr, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			// Decimal comma (1234,56)
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			// Thousand separators (1,234 or 1,234,567)
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	}

	if negative && amountStr != "" && !strings.HasPrefix(amountStr, "-") {
		amountStr = "-" + amountStr
	}
	return amountStr
}

// NormalizeCode upper-cases and trims a currency code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// FormatAmount renders an amount for reports: two decimals, thousands
// separated by commas, negatives in parentheses.
func FormatAmount(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	fixed := rounded.Abs().StringFixed(2)
	whole, cents := fixed[:len(fixed)-3], fixed[len(fixed)-2:]

	var b strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteByte('.')
	b.WriteString(cents)

	if rounded.IsNegative() {
		return "(" + b.String() + ")"
	}
	return b.String()
}

// WithinTolerance reports whether |a - b| <= tolAbs or
// |a - b| <= tolRel * max(|a|, |b|).
func WithinTolerance(a, b, tolAbs, tolRel decimal.Decimal) bool {
	diff := a.Sub(b).Abs()
	if diff.LessThanOrEqual(tolAbs) {
		return true
	}
	return diff.LessThanOrEqual(tolRel.Mul(decimal.Max(a.Abs(), b.Abs())))
}

// Scale divides amount by divisor. A zero or negative divisor leaves the
// amount unchanged.
func Scale(amount, divisor decimal.Decimal) decimal.Decimal {
	if divisor.LessThanOrEqual(decimal.Zero) || divisor.Equal(decimal.NewFromInt(1)) {
		return amount
	}
	return amount.Div(divisor)
}

// UnitLabel describes a scale divisor, e.g. "thousands" for 1000.
func UnitLabel(divisor decimal.Decimal) string {
	switch {
	case divisor.Equal(decimal.NewFromInt(1)), divisor.LessThanOrEqual(decimal.Zero):
		return "units"
	case divisor.Equal(decimal.NewFromInt(1000)):
		return "thousands"
	case divisor.Equal(decimal.NewFromInt(1000000)):
		return "millions"
	case divisor.Equal(decimal.NewFromInt(1000000000)):
		return "billions"
	default:
		return "1/" + divisor.String()
	}
}
