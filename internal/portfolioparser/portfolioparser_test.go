package portfolioparser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentops/owner-ledger/internal/logging"
)

var statementLines = []string{
	"Acme Property Management",
	"Jane Smith OWNER STATEMENT",
	"Report Period: 06/01/2025 - 06/30/2025",
	"",
	"Portfolio Summary",
	"Previous Balance        $500.00",
	"Income                  $3,300.00",
	"Expenses                $1,085.00",
	"Mgmt Fees               $330.00",
	"Contributions           $0.00",
	"Draws                   $(2,000.00)",
	"Ending Balance          $385.00",
	"Due To Owner            $385.00",
	"",
	"123 Main St",
	"Rent: $1,500.00    Deposit: $1,500.00",
	"Total Income for 123 Main St        $1,500.00",
	"Expenses",
	"Bill 06/15/2025 Ajax Plumbing        Water heater repair        $485.00",
	"Bill 06/20/2025 GreenThumb LLC       Lawn mowing                $100.00",
	"Total Expenses for 123 Main St      $585.00",
	"Total Management Fees               $150.00",
	"Net Operating Income                $915.00",
	"",
	"456 Oak Ave",
	"Rent: $1,800.00    Deposit: $1,800.00",
	"Total Income for 456 Oak Ave        $1,800.00",
	"Expenses",
	"Bill 06/10/2025 Acme Management      Management fee             $180.00",
	"Bill 06/12/2025 Sparky Electric      Outlet replacement         $320.00",
	"Total Expenses for 456 Oak Ave      $500.00",
	"Net Operating Income                $1,300.00",
}

func TestParse_FullStatement(t *testing.T) {
	p := New(logging.NewMockLogger())
	stmt, err := p.Parse(statementLines)
	require.NoError(t, err)

	assert.Equal(t, "Jane Smith", stmt.OwnerName)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), stmt.Period.Start)
	assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), stmt.Period.End)
	assert.Empty(t, stmt.SectionWarnings)

	require.NotNil(t, stmt.Portfolio)
	assert.Equal(t, "3300", stmt.Portfolio.Income.String())
	assert.Equal(t, "1085", stmt.Portfolio.Expenses.String())
	assert.Equal(t, "500", stmt.Portfolio.PreviousBalance.String())
	assert.Equal(t, "330", stmt.Portfolio.ManagementFees.String())
	assert.True(t, stmt.Portfolio.Contributions.IsZero())
	assert.Equal(t, "-2000", stmt.Portfolio.Draws.String())
	assert.Equal(t, "385", stmt.Portfolio.EndingBalance.String())
	assert.Equal(t, "385", stmt.Portfolio.DueToOwner.String())

	require.Len(t, stmt.Properties, 2)

	main := stmt.Properties[0]
	assert.Equal(t, "123 Main St", main.Address)
	assert.Equal(t, "1500", main.Income.String())
	assert.Equal(t, "1500", main.Rent.String())
	assert.Equal(t, "1500", main.Deposit.String())
	require.True(t, main.StatedExpenses.Valid)
	assert.Equal(t, "585", main.StatedExpenses.Decimal.String())
	assert.Equal(t, "150", main.ManagementFees.String())
	require.True(t, main.StatedNOI.Valid)
	assert.Equal(t, "915", main.StatedNOI.Decimal.String())

	require.Len(t, main.Expenses, 2)
	assert.Equal(t, "Ajax Plumbing", main.Expenses[0].Vendor)
	assert.Equal(t, "Water heater repair", main.Expenses[0].Description)
	assert.Equal(t, "485", main.Expenses[0].Amount.String())
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), main.Expenses[0].Date)

	oak := stmt.Properties[1]
	assert.Equal(t, "456 Oak Ave", oak.Address)
	assert.Equal(t, "1800", oak.Income.String())
	require.Len(t, oak.Expenses, 2)
	require.True(t, oak.StatedNOI.Valid)
	assert.Equal(t, "1300", oak.StatedNOI.Decimal.String())
}

func TestParse_Idempotent(t *testing.T) {
	p := New(logging.NewMockLogger())
	first, err := p.Parse(statementLines)
	require.NoError(t, err)
	second, err := p.Parse(statementLines)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParse_NoPeriod(t *testing.T) {
	lines := []string{
		"Jane Smith OWNER STATEMENT",
		"123 Main St",
		"Total Income for 123 Main St  $1,500.00",
	}
	p := New(logging.NewMockLogger())
	_, err := p.Parse(lines)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no parsable report period")
}

func TestParse_NoProperties(t *testing.T) {
	lines := []string{
		"Jane Smith OWNER STATEMENT",
		"Report Period: 06/01/2025 - 06/30/2025",
		"Portfolio Summary",
		"Income   $3,300.00",
	}
	p := New(logging.NewMockLogger())
	_, err := p.Parse(lines)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no property sections found")
}

func TestParse_OrphanSectionSkippedWithWarning(t *testing.T) {
	// A section whose address line was lost in extraction cannot be
	// attributed. Its totals are skipped, the rest of the document
	// survives.
	lines := []string{
		"Jane Smith OWNER STATEMENT",
		"Report Period: 06/01/2025 - 06/30/2025",
		"Total Income for 999 Elm St         $800.00",
		"",
		"123 Main St",
		"Total Income for 123 Main St        $1,500.00",
	}
	p := New(logging.NewMockLogger())
	stmt, err := p.Parse(lines)
	require.NoError(t, err)

	require.Len(t, stmt.Properties, 1)
	assert.Equal(t, "123 Main St", stmt.Properties[0].Address)
	require.Len(t, stmt.SectionWarnings, 1)
	assert.Contains(t, stmt.SectionWarnings[0], "no property address")
}

func TestParse_DuplicateAddressMerged(t *testing.T) {
	// Multi-page sections repeat the address header; the figures belong
	// to one property.
	lines := []string{
		"Jane Smith OWNER STATEMENT",
		"Report Period: 06/01/2025 - 06/30/2025",
		"",
		"123 Main St",
		"Total Income for 123 Main St        $1,000.00",
		"Expenses",
		"Bill 06/15/2025 Ajax Plumbing        Water heater repair        $485.00",
		"",
		"123 Main St",
		"Total Income for 123 Main St        $500.00",
		"Expenses",
		"Bill 06/20/2025 GreenThumb LLC       Lawn mowing                $100.00",
	}
	p := New(logging.NewMockLogger())
	stmt, err := p.Parse(lines)
	require.NoError(t, err)

	require.Len(t, stmt.Properties, 1)
	assert.Equal(t, "1500", stmt.Properties[0].Income.String())
	assert.Len(t, stmt.Properties[0].Expenses, 2)
}

func TestParse_NoSummaryPage(t *testing.T) {
	// Statements without a summary page still parse; Portfolio stays nil
	// so reconciliation knows there is nothing to check against.
	lines := []string{
		"Jane Smith OWNER STATEMENT",
		"Report Period: 06/01/2025 - 06/30/2025",
		"123 Main St",
		"Total Income for 123 Main St        $1,500.00",
	}
	p := New(logging.NewMockLogger())
	stmt, err := p.Parse(lines)
	require.NoError(t, err)
	assert.Nil(t, stmt.Portfolio)
}

func TestParse_NegativeAmounts(t *testing.T) {
	lines := []string{
		"Jane Smith OWNER STATEMENT",
		"Report Period: 06/01/2025 - 06/30/2025",
		"123 Main St",
		"Total Income for 123 Main St        $(200.00)",
	}
	p := New(logging.NewMockLogger())
	stmt, err := p.Parse(lines)
	require.NoError(t, err)
	assert.Equal(t, "-200", stmt.Properties[0].Income.String())
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want event
	}{
		{"", evBlank},
		{"Jane Smith OWNER STATEMENT", evOwnerHeader},
		{"Report Period: 06/01/2025 - 06/30/2025", evPeriod},
		{"Portfolio Summary", evSummaryHeader},
		{"Income        $3,300.00", evSummaryMetric},
		{"123 Main St", evAddress},
		{"Rent: $1,500.00", evLeaseTerms},
		{"Total Income for 123 Main St  $1,500.00", evIncomeTotal},
		{"Expenses", evExpenseHeader},
		{"Bill 06/15/2025 Ajax Plumbing  repair  $485.00", evExpenseItem},
		{"Total Expenses for 123 Main St  $585.00", evExpenseTotal},
		{"Total Management Fees  $150.00", evSectionMetric},
		{"Net Operating Income  $915.00", evNOI},
		{"Page 2 of 3", evNoise},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyLine(tt.line), "line %q", tt.line)
	}
}
