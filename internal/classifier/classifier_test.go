package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rentops/owner-ledger/internal/logging"
	"rentops/owner-ledger/internal/models"
)

var portfolioLines = []string{
	"Acme Property Management",
	"Jane Smith OWNER STATEMENT",
	"Report Period: 06/01/2025 - 06/30/2025",
	"Portfolio Summary",
	"Total Income        $3,300.00",
	"Total Expenses      $1,200.00",
}

var propertyLines = []string{
	"PROPERTY STATEMENT",
	"Report Period: 06/01/2025 - 06/30/2025",
	"123 Main St",
	"Rent: $1,500.00",
	"Deposit: $1,500.00",
	"Total Income        $1,500.00",
	"Total Expenses      $300.00",
}

func TestClassify_PortfolioStatement(t *testing.T) {
	c := New(logging.NewMockLogger())
	got := c.Classify(portfolioLines, Metadata{})

	assert.Equal(t, models.KindPortfolioStatement, got.Kind)
	assert.GreaterOrEqual(t, got.Confidence, 0.6)
	assert.True(t, got.IsRecognized())
}

func TestClassify_PropertyStatement(t *testing.T) {
	c := New(logging.NewMockLogger())
	got := c.Classify(propertyLines, Metadata{})

	assert.Equal(t, models.KindPropertyStatement, got.Kind)
	assert.GreaterOrEqual(t, got.Confidence, 0.6)
}

func TestClassify_PortfolioSummaryDominates(t *testing.T) {
	// Detail pages of a portfolio statement contain the single-property
	// markers too. The summary page decides.
	lines := append(append([]string{}, portfolioLines...), propertyLines...)
	c := New(logging.NewMockLogger())
	got := c.Classify(lines, Metadata{})

	assert.Equal(t, models.KindPortfolioStatement, got.Kind)
}

func TestClassify_UnrecognizedDocument(t *testing.T) {
	lines := []string{
		"INVOICE",
		"Ajax Plumbing LLC",
		"Amount due: $485.00",
	}
	c := New(logging.NewMockLogger())
	got := c.Classify(lines, Metadata{})

	assert.Equal(t, models.KindUnrecognized, got.Kind)
	assert.Zero(t, got.Confidence)
	assert.False(t, got.IsRecognized())
}

func TestClassify_EmptyDocument(t *testing.T) {
	c := New(logging.NewMockLogger())
	got := c.Classify(nil, Metadata{})

	assert.Equal(t, models.KindUnrecognized, got.Kind)
}

func TestClassify_MetadataBoostsBorderline(t *testing.T) {
	// Content missing the low-weight markers sits just under the
	// threshold; statement-looking mail metadata pushes it over.
	lines := []string{
		"Jane Smith OWNER STATEMENT",
		"Report Period: 06/01/2025 - 06/30/2025",
	}
	c := New(logging.NewMockLogger())

	without := c.Classify(lines, Metadata{})
	assert.Equal(t, models.KindUnrecognized, without.Kind)

	with := c.Classify(lines, Metadata{
		Sender:  "statements@acmerentals.com",
		Subject: "Your monthly statement",
	})
	assert.Equal(t, models.KindPortfolioStatement, with.Kind)
}

func TestClassify_MetadataAloneNeverClassifies(t *testing.T) {
	c := New(logging.NewMockLogger())
	got := c.Classify([]string{"random text"}, Metadata{
		Sender:  "statements@acmerentals.com",
		Subject: "owner statement",
	})
	assert.Equal(t, models.KindUnrecognized, got.Kind)
}

func TestClassify_Deterministic(t *testing.T) {
	c := New(logging.NewMockLogger())
	first := c.Classify(portfolioLines, Metadata{})
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Classify(portfolioLines, Metadata{}))
	}
}
