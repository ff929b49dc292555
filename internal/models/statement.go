package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Period is a reporting period with inclusive start and end dates.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// String returns the period in the format "YYYY-MM-DD_YYYY-MM-DD".
func (p Period) String() string {
	if p.Start.IsZero() || p.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s",
		p.Start.Format("2006-01-02"),
		p.End.Format("2006-01-02"))
}

// IsZero reports whether the period has no bounds set.
func (p Period) IsZero() bool {
	return p.Start.IsZero() && p.End.IsZero()
}

// Equal reports whether two periods cover the same dates.
func (p Period) Equal(other Period) bool {
	return p.Start.Equal(other.Start) && p.End.Equal(other.End)
}

// Overlaps reports whether two periods share at least one day.
func (p Period) Overlaps(other Period) bool {
	if p.IsZero() || other.IsZero() {
		return false
	}
	return !p.End.Before(other.Start) && !other.End.Before(p.Start)
}

// ExpenseEntry is a single expense line item from a property section.
type ExpenseEntry struct {
	Date        time.Time       `json:"date,omitempty"`
	Vendor      string          `json:"vendor,omitempty"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// PropertySection is the parsed detail for one property in a statement.
// Negative income is legitimate (credit reversals) and preserved as-is.
type PropertySection struct {
	Address  string          `json:"address"`
	Income   decimal.Decimal `json:"income"`
	Expenses []ExpenseEntry  `json:"expenses"`

	// StatedExpenses is the subtotal printed in the statement, when
	// present. Reconciliation checks it against the summed entries.
	StatedExpenses decimal.NullDecimal `json:"stated_expenses,omitempty"`
	StatedNOI      decimal.NullDecimal `json:"stated_noi,omitempty"`

	// Current lease terms printed on the section header, zero when absent.
	Rent    decimal.Decimal `json:"rent"`
	Deposit decimal.Decimal `json:"deposit"`

	ManagementFees decimal.Decimal `json:"management_fees"`
	Repairs        decimal.Decimal `json:"repairs"`
}

// ExpenseTotal returns the sum of the itemized expense entries.
func (s PropertySection) ExpenseTotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.Expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// PortfolioSummary is the portfolio-level financials from a statement's
// summary page. Absent for single-property statements.
type PortfolioSummary struct {
	Income          decimal.Decimal `json:"income"`
	Expenses        decimal.Decimal `json:"expenses"`
	ManagementFees  decimal.Decimal `json:"management_fees"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	Contributions   decimal.Decimal `json:"contributions"`
	Draws           decimal.Decimal `json:"draws"`
	EndingBalance   decimal.Decimal `json:"ending_balance"`
	DueToOwner      decimal.Decimal `json:"due_to_owner"`
}

// ParsedStatement is the structured result of parsing one document.
type ParsedStatement struct {
	Kind      DocumentKind      `json:"kind"`
	OwnerName string            `json:"owner_name"`
	Period    Period            `json:"period"`
	Portfolio *PortfolioSummary `json:"portfolio,omitempty"`
	Properties []PropertySection `json:"properties"`

	// SectionWarnings records property sections that were skipped because
	// they were malformed (for example, no address line). Skipping keeps
	// the rest of the document usable.
	SectionWarnings []string `json:"section_warnings,omitempty"`
}

// PropertyIncomeTotal returns the summed income across all sections.
func (s *ParsedStatement) PropertyIncomeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Properties {
		total = total.Add(p.Income)
	}
	return total
}

// PropertyExpenseTotal returns the summed itemized expenses across all
// sections.
func (s *ParsedStatement) PropertyExpenseTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Properties {
		total = total.Add(p.ExpenseTotal())
	}
	return total
}

// MergeSection folds a section into the statement. A section whose address
// already exists merges into the existing one (amounts summed, expense
// entries appended) instead of creating a duplicate.
func (s *ParsedStatement) MergeSection(section PropertySection) {
	for i := range s.Properties {
		if s.Properties[i].Address != section.Address {
			continue
		}
		existing := &s.Properties[i]
		existing.Income = existing.Income.Add(section.Income)
		existing.Expenses = append(existing.Expenses, section.Expenses...)
		existing.ManagementFees = existing.ManagementFees.Add(section.ManagementFees)
		existing.Repairs = existing.Repairs.Add(section.Repairs)
		if section.StatedExpenses.Valid {
			if existing.StatedExpenses.Valid {
				existing.StatedExpenses.Decimal = existing.StatedExpenses.Decimal.Add(section.StatedExpenses.Decimal)
			} else {
				existing.StatedExpenses = section.StatedExpenses
			}
		}
		if section.Rent.IsPositive() {
			existing.Rent = section.Rent
		}
		if section.Deposit.IsPositive() {
			existing.Deposit = section.Deposit
		}
		return
	}
	s.Properties = append(s.Properties, section)
}
