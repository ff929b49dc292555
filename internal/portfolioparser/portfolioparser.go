// Package portfolioparser parses multi-property owner statements: a
// portfolio summary page followed by one detail section per property.
//
// The scan is a line-oriented finite-state machine over
// {Header, PortfolioSummary, PropertySection, ExpenseList, Done}; the
// transition table lives in states.go. Unexpected lines inside any state are
// ignored so minor formatting noise never aborts a parse, but a document
// that fails to reach the terminal state (no period, or no property
// sections) fails with a ParseError naming the last state reached.
//
// A property section whose address line is missing cannot be opened; its
// orphaned totals are skipped and recorded as section warnings on the
// result rather than failing the document.
package portfolioparser

import (
	"fmt"
	"strings"

	"rentops/owner-ledger/internal/dateutils"
	"rentops/owner-ledger/internal/logging"
	"rentops/owner-ledger/internal/models"
	"rentops/owner-ledger/internal/parsererror"
	"rentops/owner-ledger/internal/tokenizer"
)

const parserName = "portfolio"

// Parser parses portfolio owner statements.
type Parser struct {
	logger logging.Logger
}

// New creates a portfolio statement parser. A nil logger falls back to the
// default.
func New(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Parser{logger: logger}
}

// Parse scans the extracted lines and builds a ParsedStatement.
func (p *Parser) Parse(lines []string) (*models.ParsedStatement, error) {
	stmt := &models.ParsedStatement{Kind: models.KindPortfolioStatement}
	summary := models.PortfolioSummary{}
	sawSummary := false

	var current *models.PropertySection

	closeSection := func() {
		if current == nil {
			return
		}
		stmt.MergeSection(*current)
		current = nil
	}

	st := stateHeader
	for _, line := range lines {
		ev := classifyLine(line)
		trimmed := strings.TrimSpace(line)

		switch ev {
		case evOwnerHeader:
			if stmt.OwnerName == "" {
				stmt.OwnerName = extractOwner(line)
			}

		case evPeriod:
			if stmt.Period.IsZero() {
				start, end, err := dateutils.ParsePeriod(trimmed)
				if err == nil {
					stmt.Period = models.Period{Start: start, End: end}
				} else {
					p.logger.WithError(err).Debug("Unparsable report period line",
						logging.Field{Key: logging.FieldState, Value: string(st)})
				}
			}

		case evSummaryHeader:
			sawSummary = true

		case evSummaryMetric:
			if st == statePortfolioSummary || st == stateHeader {
				applySummaryMetric(&summary, line)
			}

		case evAddress:
			closeSection()
			current = &models.PropertySection{Address: trimmed}

		case evLeaseTerms:
			if current != nil {
				parseLeaseTerms(line, current)
			}

		case evIncomeTotal:
			if current == nil {
				stmt.SectionWarnings = append(stmt.SectionWarnings,
					fmt.Sprintf("income total with no property address, section skipped: %q", trimmed))
				continue
			}
			if amount, ok := tokenizer.LastAmount(trimmed); ok {
				current.Income = current.Income.Add(amount)
			}

		case evExpenseItem:
			if current != nil && st == stateExpenseList {
				if entry, ok := parseExpenseItem(line); ok {
					current.Expenses = append(current.Expenses, entry)
				}
			}

		case evExpenseTotal:
			if current != nil {
				if amount, ok := tokenizer.LastAmount(trimmed); ok {
					current.StatedExpenses.Decimal = amount
					current.StatedExpenses.Valid = true
				}
			}

		case evSectionMetric:
			if current != nil {
				applySectionMetric(current, trimmed)
			}

		case evNOI:
			if current != nil {
				if amount, ok := tokenizer.LastAmount(trimmed); ok {
					current.StatedNOI.Decimal = amount
					current.StatedNOI.Valid = true
				}
			}
		}

		st = next(st, ev)
	}
	closeSection()

	if stmt.Period.IsZero() {
		return nil, &parsererror.ParseError{
			Parser: parserName,
			State:  string(st),
			Reason: "no parsable report period found",
		}
	}
	if len(stmt.Properties) == 0 {
		return nil, &parsererror.ParseError{
			Parser: parserName,
			State:  string(st),
			Reason: "no property sections found",
		}
	}

	if sawSummary {
		stmt.Portfolio = &summary
	}

	p.logger.WithFields(
		logging.Field{Key: logging.FieldOwner, Value: stmt.OwnerName},
		logging.Field{Key: logging.FieldPeriod, Value: stmt.Period.String()},
		logging.Field{Key: logging.FieldCount, Value: len(stmt.Properties)},
	).Debug("Parsed portfolio statement")

	return stmt, nil
}

// applySectionMetric records the per-section rollup lines that appear after
// the expense list.
func applySectionMetric(section *models.PropertySection, trimmed string) {
	amount, ok := tokenizer.LastAmount(trimmed)
	if !ok {
		return
	}
	switch {
	case strings.HasPrefix(trimmed, "Total Management Fees"):
		section.ManagementFees = amount
	case strings.HasPrefix(trimmed, "Total Repairs"):
		section.Repairs = amount
	}
}
