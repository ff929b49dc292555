package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	// The street number tokenizes too; column-formatted metric lines put
	// the amount last, which is why callers use LastAmount.
	tokens := Tokenize("Total Income for 123 Main St        $2,450.00")
	require.Len(t, tokens, 2)
	assert.Equal(t, "$2,450.00", tokens[1].Raw)
	assert.Equal(t, "2450", tokens[1].Value.String())
}

func TestTokenize_MultipleAmounts(t *testing.T) {
	tokens := Tokenize("Previous Balance  $1,000.00  Draws  $(250.00)")
	require.Len(t, tokens, 2)
	assert.Equal(t, "1000", tokens[0].Value.String())
	assert.Equal(t, "-250", tokens[1].Value.String())
}

func TestTokenize_SkipsNonAmounts(t *testing.T) {
	// Street numbers carry no decimal point or currency cue and must not be
	// mistaken for amounts when a real amount is present on the line.
	tokens := Tokenize("Bill 06/15/2025 Ajax Plumbing Water heater repair $485.00")
	require.Len(t, tokens, 1)
	assert.Equal(t, "485", tokens[0].Value.String())
}

func TestTokenize_Empty(t *testing.T) {
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("Portfolio Summary"))
}

func TestLastAmount(t *testing.T) {
	amount, ok := LastAmount("Net Operating Income        $1,835.50")
	require.True(t, ok)
	assert.Equal(t, "1835.5", amount.String())

	_, ok = LastAmount("no numbers here")
	assert.False(t, ok)
}
