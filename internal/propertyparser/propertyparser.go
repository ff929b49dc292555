// Package propertyparser parses single-property statements: one property's
// income and expense detail without a portfolio summary page.
//
// The layout is flat enough that the scan needs only three phases (header,
// detail, expense list), but it honors the same contract and policies as the
// portfolio parser: unexpected lines are ignored, a missing report period or
// address fails the parse with the last phase reached, and the result is a
// ParsedStatement with exactly one property section.
package propertyparser

import (
	"regexp"
	"strings"
	"time"

	"rentops/owner-ledger/internal/dateutils"
	"rentops/owner-ledger/internal/logging"
	"rentops/owner-ledger/internal/models"
	"rentops/owner-ledger/internal/parsererror"
	"rentops/owner-ledger/internal/tokenizer"
)

const parserName = "property"

var (
	addressPattern = regexp.MustCompile(`^\d+\s+[A-Za-z]`)
	billPattern    = regexp.MustCompile(`^Bill\s+(\d{1,2}/\d{1,2}/\d{2,4})\s+(.+)$`)
	columnGap      = regexp.MustCompile(`\s{2,}`)
)

// Parser parses single-property statements.
type Parser struct {
	logger logging.Logger
}

// New creates a property statement parser. A nil logger falls back to the
// default.
func New(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Parser{logger: logger}
}

// Parse scans the extracted lines and builds a ParsedStatement with one
// property section.
func (p *Parser) Parse(lines []string) (*models.ParsedStatement, error) {
	stmt := &models.ParsedStatement{Kind: models.KindPropertyStatement}
	section := models.PropertySection{}
	inExpenses := false
	phase := "header"

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			inExpenses = false

		case strings.Contains(trimmed, "Report Period"):
			if stmt.Period.IsZero() {
				if start, end, err := dateutils.ParsePeriod(trimmed); err == nil {
					stmt.Period = models.Period{Start: start, End: end}
				}
			}

		case section.Address == "" && addressPattern.MatchString(trimmed):
			section.Address = trimmed
			phase = "detail"

		case strings.HasPrefix(trimmed, "Rent:") || strings.Contains(trimmed, "Deposit:"):
			parseLeaseTerms(trimmed, &section)

		case strings.HasPrefix(trimmed, "Total Income"):
			if amount, ok := tokenizer.LastAmount(trimmed); ok {
				section.Income = section.Income.Add(amount)
			}

		case strings.HasPrefix(trimmed, "Total Expenses"):
			if amount, ok := tokenizer.LastAmount(trimmed); ok {
				section.StatedExpenses.Decimal = amount
				section.StatedExpenses.Valid = true
			}
			inExpenses = false

		case strings.HasPrefix(trimmed, "Net Operating Income"):
			if amount, ok := tokenizer.LastAmount(trimmed); ok {
				section.StatedNOI.Decimal = amount
				section.StatedNOI.Valid = true
			}

		case strings.EqualFold(trimmed, "Expenses"):
			inExpenses = true
			phase = "expenses"

		case inExpenses && billPattern.MatchString(trimmed):
			if entry, ok := parseExpenseItem(trimmed); ok {
				section.Expenses = append(section.Expenses, entry)
			}
		}
	}

	if stmt.Period.IsZero() {
		return nil, &parsererror.ParseError{
			Parser: parserName,
			State:  phase,
			Reason: "no parsable report period found",
		}
	}
	if section.Address == "" {
		return nil, &parsererror.ParseError{
			Parser: parserName,
			State:  phase,
			Reason: "no property address found",
		}
	}

	stmt.Properties = []models.PropertySection{section}

	p.logger.WithFields(
		logging.Field{Key: logging.FieldProperty, Value: section.Address},
		logging.Field{Key: logging.FieldPeriod, Value: stmt.Period.String()},
	).Debug("Parsed property statement")

	return stmt, nil
}

// parseLeaseTerms extracts "Rent: $x" and "Deposit: $y" values from a line.
func parseLeaseTerms(line string, section *models.PropertySection) {
	if idx := strings.Index(line, "Rent:"); idx >= 0 {
		if tokens := tokenizer.Tokenize(line[idx:]); len(tokens) > 0 {
			section.Rent = tokens[0].Value
		}
	}
	if idx := strings.Index(line, "Deposit:"); idx >= 0 {
		if tokens := tokenizer.Tokenize(line[idx:]); len(tokens) > 0 {
			section.Deposit = tokens[0].Value
		}
	}
}

// parseExpenseItem turns a "Bill <date> <vendor> <description> <amount>"
// line into an expense entry.
func parseExpenseItem(trimmed string) (models.ExpenseEntry, bool) {
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

	rest := m[2]
	if idx := strings.LastIndex(rest, "$"); idx > 0 {
		rest = rest[:idx]
	}
	parts := columnGap.Split(strings.TrimSpace(rest), -1)

	entry := models.ExpenseEntry{Date: billDate, Amount: amount}
	if len(parts) == 1 {
		entry.Description = strings.TrimSpace(parts[0])
	} else if len(parts) > 1 {
		entry.Vendor = strings.TrimSpace(parts[0])
		entry.Description = strings.TrimSpace(strings.Join(parts[1:], " "))
	}
	return entry, true
}
