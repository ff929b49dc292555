package portfolioparser

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"rentops/owner-ledger/internal/dateutils"
	"rentops/owner-ledger/internal/models"
	"rentops/owner-ledger/internal/tokenizer"
)

var (
	addressPattern = regexp.MustCompile(`^\d+\s+[A-Za-z]`)
	billPattern    = regexp.MustCompile(`^Bill\s+(\d{1,2}/\d{1,2}/\d{2,4})\s+(.+)$`)
	ownerPattern   = regexp.MustCompile(`^(.*?)\s*OWNER STATEMENT`)
	columnGap      = regexp.MustCompile(`\s{2,}`)
)

// summaryLabels maps the fixed portfolio summary row labels to setters on
// the summary being built. Sign markers ("+"/"-") on the row are layout, not
// value sign; the amount column carries its own sign.
var summaryLabels = []string{
	"Previous Balance",
	"Income",
	"Expenses",
	"Mgmt Fees",
	"Contributions",
	"Draws",
	"Ending Balance",
	"Due To Owner",
}

// classifyLine decides which event a raw line represents. Order matters:
// the most specific patterns are tested first so "Total Expenses for ..."
// never reads as a bare expense item.
func classifyLine(line string) event {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return evBlank
	case strings.Contains(trimmed, "OWNER STATEMENT"):
		return evOwnerHeader
	case strings.Contains(trimmed, "Report Period"):
		return evPeriod
	case strings.EqualFold(trimmed, "Portfolio Summary"):
		return evSummaryHeader
	case strings.HasPrefix(trimmed, "Total Income for"):
		return evIncomeTotal
	case strings.HasPrefix(trimmed, "Total Expenses for"):
		return evExpenseTotal
	case strings.HasPrefix(trimmed, "Total Management Fees"),
		strings.HasPrefix(trimmed, "Total Repairs"):
		return evSectionMetric
	case strings.HasPrefix(trimmed, "Net Operating Income"):
		return evNOI
	case strings.HasPrefix(trimmed, "Rent:") || strings.Contains(trimmed, "Deposit:"):
		return evLeaseTerms
	case strings.EqualFold(trimmed, "Expenses"):
		return evExpenseHeader
	case billPattern.MatchString(trimmed):
		return evExpenseItem
	case isSummaryMetric(trimmed):
		return evSummaryMetric
	case addressPattern.MatchString(trimmed):
		return evAddress
	default:
		return evNoise
	}
}

// isSummaryMetric reports whether the line starts with one of the fixed
// portfolio summary labels and carries an amount.
func isSummaryMetric(trimmed string) bool {
	for _, label := range summaryLabels {
		if strings.HasPrefix(trimmed, label) {
			_, ok := tokenizer.LastAmount(trimmed)
			return ok
		}
	}
	return false
}

// extractOwner pulls the owner name preceding the OWNER STATEMENT marker.
func extractOwner(line string) string {
	m := ownerPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// applySummaryMetric records one summary row value on the summary.
func applySummaryMetric(summary *models.PortfolioSummary, line string) {
	trimmed := strings.TrimSpace(line)
	amount, ok := tokenizer.LastAmount(trimmed)
	if !ok {
		return
	}

	// Longest label first so "Previous Balance" is never read as "Balance"
	// and "Expenses" never swallows "Total Expenses" rows.
	switch {
	case strings.HasPrefix(trimmed, "Previous Balance"):
		summary.PreviousBalance = amount
	case strings.HasPrefix(trimmed, "Ending Balance"):
		summary.EndingBalance = amount
	case strings.HasPrefix(trimmed, "Due To Owner"):
		summary.DueToOwner = amount
	case strings.HasPrefix(trimmed, "Mgmt Fees"):
		summary.ManagementFees = amount
	case strings.HasPrefix(trimmed, "Contributions"):
		summary.Contributions = amount
	case strings.HasPrefix(trimmed, "Draws"):
		summary.Draws = amount
	case strings.HasPrefix(trimmed, "Expenses"):
		summary.Expenses = amount
	case strings.HasPrefix(trimmed, "Income"):
		summary.Income = amount
	}
}

// parseLeaseTerms extracts "Rent: $x" and "Deposit: $y" values, which may
// share one line.
func parseLeaseTerms(line string, section *models.PropertySection) {
	if idx := strings.Index(line, "Rent:"); idx >= 0 {
		if amount, ok := firstAmount(line[idx:]); ok {
			section.Rent = amount
		}
	}
	if idx := strings.Index(line, "Deposit:"); idx >= 0 {
		if amount, ok := firstAmount(line[idx:]); ok {
			section.Deposit = amount
		}
	}
}

// firstAmount returns the left-most numeric token in the fragment.
func firstAmount(fragment string) (decimal.Decimal, bool) {
	tokens := tokenizer.Tokenize(fragment)
	if len(tokens) == 0 {
		return decimal.Zero, false
	}
	return tokens[0].Value, true
}

// parseExpenseItem turns a "Bill <date> <vendor> <description> <amount>"
// line into an expense entry. The date may be unparsable without losing the
// entry; the amount is mandatory.
func parseExpenseItem(line string) (models.ExpenseEntry, bool) {
	trimmed := strings.TrimSpace(line)
	m := billPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return models.ExpenseEntry{}, false
	}

	amount, ok := tokenizer.LastAmount(trimmed)
	if !ok {
		return models.ExpenseEntry{}, false
	}

	var billDate time.Time
	if d, err := dateutils.ParseDate(m[1]); err == nil {
		billDate = d
	}

	// Everything between the date and the amount column is vendor plus
	// free-text description, separated by runs of two or more spaces in
	// layout-preserved extraction.
	rest := m[2]
	if idx := strings.LastIndex(rest, "$"); idx > 0 {
		rest = rest[:idx]
	}
	vendor, description := splitVendorDescription(rest)

	return models.ExpenseEntry{
		Date:        billDate,
		Vendor:      vendor,
		Description: description,
		Amount:      amount,
	}, true
}

// splitVendorDescription separates vendor from description on column gaps.
func splitVendorDescription(rest string) (vendor, description string) {
	parts := columnGap.Split(strings.TrimSpace(rest), -1)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return "", strings.TrimSpace(parts[0])
	default:
		return strings.TrimSpace(parts[0]), strings.TrimSpace(strings.Join(parts[1:], " "))
	}
}
