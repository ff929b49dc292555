// Package moneyutils provides dollar-amount parsing and formatting shared by
// the tokenizer and the statement parsers.
package moneyutils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a dollar-amount string into a signed decimal.
//
// Sign rule: a value wrapped in parentheses, or carrying a leading or
// trailing minus, is negative. A bare dollar sign and grouping commas carry
// no sign information. Examples:
//
//	"$(1,234.56)" -> -1234.56
//	"-$1,010.29"  -> -1010.29
//	"250.00-"     -> -250.00
//	"$2,000.00"   -> 2000.00
//
// Normalization is idempotent: feeding the output string back in returns the
// same value.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized, negative := Standardize(amountStr)
	if standardized == "" {
		return decimal.Zero, fmt.Errorf("empty amount string %q", amountStr)
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount %q: %w", amountStr, err)
	}

	if negative && amount.IsPositive() {
		amount = amount.Neg()
	}
	return amount, nil
}

// Standardize strips currency symbols, grouping commas, and whitespace, and
// resolves the sign notation. It returns the bare digit string (possibly
// with a leading minus already embedded) and whether the notation marked the
// value negative.
func Standardize(amountStr string) (string, bool) {
	s := strings.TrimSpace(amountStr)
	negative := false

	// Parenthesized negative, with the dollar sign inside or outside.
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
		negative = true
	} else if strings.HasPrefix(s, "$(") && strings.HasSuffix(s, ")") {
		s = strings.TrimSuffix(strings.TrimPrefix(s, "$("), ")")
		negative = true
	}

	if strings.HasPrefix(s, "-") {
		s = strings.TrimPrefix(s, "-")
		negative = true
	}
	if strings.HasSuffix(s, "-") {
		s = strings.TrimSuffix(s, "-")
		negative = true
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if negative && s != "" {
		return "-" + s, true
	}
	return s, negative
}

// IsAmountLike reports whether a substring could plausibly be a dollar
// amount: after stripping notation it must be digits with at most one
// decimal point.
func IsAmountLike(s string) bool {
	bare, _ := Standardize(s)
	bare = strings.TrimPrefix(bare, "-")
	if bare == "" {
		return false
	}
	dots := 0
	for _, r := range bare {
		switch {
		case r >= '0' && r <= '9':
		case r == '.':
			dots++
			if dots > 1 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// FormatAmount renders a decimal as a dollar string with two decimal places.
func FormatAmount(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Abs().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}

// WithinTolerance reports whether two amounts agree within tol.
func WithinTolerance(a, b, tol decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tol)
}
