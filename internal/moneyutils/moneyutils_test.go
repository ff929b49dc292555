package moneyutils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain dollars", "$2,000.00", "2000"},
		{"parenthesized negative", "$(1,234.56)", "-1234.56"},
		{"parens without dollar", "(500.00)", "-500"},
		{"leading minus", "-$1,010.29", "-1010.29"},
		{"trailing minus", "250.00-", "-250"},
		{"no symbols", "1234.56", "1234.56"},
		{"zero", "$0.00", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseAmount_Idempotent(t *testing.T) {
	// Feeding a formatted amount back in must yield the same value.
	first, err := ParseAmount("$(1,234.56)")
	require.NoError(t, err)

	second, err := ParseAmount(first.String())
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, input := range []string{"", "abc", "12.34.56", "$"} {
		_, err := ParseAmount(input)
		assert.Error(t, err, "input %q should not parse", input)
	}
}

func TestIsAmountLike(t *testing.T) {
	assert.True(t, IsAmountLike("$1,234.56"))
	assert.True(t, IsAmountLike("(500.00)"))
	assert.True(t, IsAmountLike("250.00-"))
	assert.False(t, IsAmountLike("Main"))
	assert.False(t, IsAmountLike("12.34.56"))
	assert.False(t, IsAmountLike(""))
}

func TestWithinTolerance(t *testing.T) {
	tol := decimal.New(1, -2) // one cent
	a := decimal.NewFromFloat(100.00)

	assert.True(t, WithinTolerance(a, decimal.NewFromFloat(100.01), tol))
	assert.True(t, WithinTolerance(a, decimal.NewFromFloat(99.99), tol))
	assert.False(t, WithinTolerance(a, decimal.NewFromFloat(100.02), tol))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$1234.56", FormatAmount(decimal.NewFromFloat(1234.56)))
	assert.Equal(t, "-$500.00", FormatAmount(decimal.NewFromInt(-500)))
}
