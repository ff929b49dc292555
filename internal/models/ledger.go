package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Owner is a person or entity that owns one or more properties. Owners are
// created on first reference from a statement and never deleted.
type Owner struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Property is a rental unit. Address is the unique key; current rent and
// deposit are last-write-wins by statement period.
type Property struct {
	ID              int64           `json:"id"`
	OwnerID         int64           `json:"owner_id"`
	Address         string          `json:"address"`
	CurrentRent     decimal.Decimal `json:"current_rent"`
	SecurityDeposit decimal.Decimal `json:"security_deposit"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// MonthlyReport is the portfolio-level aggregate for one reporting period.
// NOI is always recomputed as income minus expenses, never stored
// independently.
type MonthlyReport struct {
	ID            int64           `json:"id"`
	OwnerID       int64           `json:"owner_id"`
	Period        Period          `json:"period"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	PropertyCount int             `json:"property_count"`

	PreviousBalance decimal.Decimal `json:"previous_balance"`
	ManagementFees  decimal.Decimal `json:"management_fees"`
	Contributions   decimal.Decimal `json:"contributions"`
	Draws           decimal.Decimal `json:"draws"`
	EndingBalance   decimal.Decimal `json:"ending_balance"`
	DueToOwner      decimal.Decimal `json:"due_to_owner"`

	SourceDocument string    `json:"source_document"`
	ImportedAt     time.Time `json:"imported_at"`
}

// NOI returns net operating income for the period.
func (r MonthlyReport) NOI() decimal.Decimal {
	return r.TotalIncome.Sub(r.TotalExpenses)
}

// PropertyMonth is one property's financials for one reporting period.
type PropertyMonth struct {
	ID         int64  `json:"id"`
	PropertyID int64  `json:"property_id"`
	Period     Period `json:"period"`

	TotalIncome    decimal.Decimal `json:"total_income"`
	TotalExpenses  decimal.Decimal `json:"total_expenses"`
	ManagementFees decimal.Decimal `json:"management_fees"`
	Repairs        decimal.Decimal `json:"repairs"`

	Expenses []Expense `json:"expenses"`
}

// NOI returns net operating income for the property-month.
func (m PropertyMonth) NOI() decimal.Decimal {
	return m.TotalIncome.Sub(m.TotalExpenses)
}

// ExpenseRatio returns expenses divided by income, or zero when income is
// not positive.
func (m PropertyMonth) ExpenseRatio() decimal.Decimal {
	if !m.TotalIncome.IsPositive() {
		return decimal.Zero
	}
	return m.TotalExpenses.Div(m.TotalIncome)
}

// NOIMargin returns NOI divided by income, or zero when income is not
// positive.
func (m PropertyMonth) NOIMargin() decimal.Decimal {
	if !m.TotalIncome.IsPositive() {
		return decimal.Zero
	}
	return m.NOI().Div(m.TotalIncome)
}

// Expense is one expense line item belonging to a PropertyMonth.
type Expense struct {
	ID              int64           `json:"id"`
	PropertyMonthID int64           `json:"property_month_id"`
	Date            time.Time       `json:"date,omitempty"`
	Vendor          string          `json:"vendor,omitempty"`
	Category        string          `json:"category"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
}

// ImportLog is the write-once audit record for one processed document.
type ImportLog struct {
	ID         string        `json:"id"`
	DocumentID string        `json:"document_id"`
	Kind       DocumentKind  `json:"kind"`
	Outcome    ImportOutcome `json:"outcome"`
	Detail     string        `json:"detail,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}
