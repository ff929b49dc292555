// Package tokenizer turns raw statement lines into typed numeric tokens.
//
// Extraction works on whitespace-delimited fields, which matches the output
// of layout-preserving text extraction where amounts sit in their own
// columns. Malformed numeric-looking fields are skipped rather than raised:
// whether a missing number on an expected line is fatal is the caller's
// decision.
package tokenizer

import (
	"strings"

	"github.com/shopspring/decimal"

	"rentops/owner-ledger/internal/moneyutils"
)

// NumericToken is one candidate amount found on a line.
type NumericToken struct {
	// Raw is the untouched substring the value was parsed from.
	Raw string
	// Value is the parsed signed decimal.
	Value decimal.Decimal
	// Field is the whitespace-delimited field index on the line.
	Field int
}

// Tokenize extracts all candidate numeric tokens from a single line.
func Tokenize(line string) []NumericToken {
	var tokens []NumericToken
	for i, field := range strings.Fields(line) {
		if !looksNumeric(field) {
			continue
		}
		if !moneyutils.IsAmountLike(field) {
			continue
		}
		value, err := moneyutils.ParseAmount(field)
		if err != nil {
			continue
		}
		tokens = append(tokens, NumericToken{
			Raw:   field,
			Value: value,
			Field: i,
		})
	}
	return tokens
}

// LastAmount returns the right-most numeric token on a line, which is where
// column-formatted statements put the amount. The second return is false
// when the line has no parsable amount.
func LastAmount(line string) (decimal.Decimal, bool) {
	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return decimal.Zero, false
	}
	return tokens[len(tokens)-1].Value, true
}

// looksNumeric pre-filters fields so plain words are not run through the
// amount parser.
func looksNumeric(field string) bool {
	return strings.ContainsAny(field, "0123456789")
}
