package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"06/01/2025", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"6/1/2025", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"2025-06-01", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.True(t, got.Equal(tt.want), "input %q parsed to %v", tt.input, got)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("not a date")
	assert.Error(t, err)
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"hyphen", "Report Period: 06/01/2025 - 06/30/2025"},
		{"through", "Report Period 06/01/2025 through 06/30/2025"},
		{"to", "06/01/2025 to 06/30/2025"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := ParsePeriod(tt.line)
			require.NoError(t, err)
			assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), start)
			assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), end)
		})
	}
}

func TestParsePeriod_EndBeforeStart(t *testing.T) {
	_, _, err := ParsePeriod("Report Period: 06/30/2025 - 06/01/2025")
	assert.Error(t, err)
}

func TestParsePeriod_NoDates(t *testing.T) {
	_, _, err := ParsePeriod("Portfolio Summary")
	assert.Error(t, err)
}

func TestMonthBounds(t *testing.T) {
	mid := time.Date(2025, 6, 17, 13, 45, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), StartOfMonth(mid))
	assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), EndOfMonth(mid))
}
