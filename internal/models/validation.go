package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// WarningCheck names the reconciliation check that produced a warning.
type WarningCheck string

const (
	CheckPortfolioIncome  WarningCheck = "portfolio-income"
	CheckPortfolioExpense WarningCheck = "portfolio-expense"
	CheckExpenseSubtotal  WarningCheck = "expense-subtotal"
	CheckStatedNOI        WarningCheck = "stated-noi"
)

// Warning describes an arithmetic discrepancy found during reconciliation.
// Warnings never block persistence; they accompany the records for human
// review.
type Warning struct {
	Check     WarningCheck    `json:"check"`
	Subject   string          `json:"subject"`
	Expected  decimal.Decimal `json:"expected"`
	Observed  decimal.Decimal `json:"observed"`
	Deviation decimal.Decimal `json:"deviation"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s (%s): expected %s, observed %s, deviation %s",
		w.Check, w.Subject,
		w.Expected.StringFixed(2), w.Observed.StringFixed(2),
		w.Deviation.StringFixed(2))
}

// AlertKind names a business-threshold alert condition.
type AlertKind string

const (
	AlertHighExpenseRatio AlertKind = "high-expense-ratio"
	AlertLowNOIMargin     AlertKind = "low-noi-margin"
	AlertRepairAnomaly    AlertKind = "repair-anomaly"
)

// Alert flags a property-month that crossed a configured business threshold.
type Alert struct {
	Kind      AlertKind       `json:"kind"`
	Address   string          `json:"address"`
	Value     decimal.Decimal `json:"value"`
	Threshold decimal.Decimal `json:"threshold"`
}

func (a Alert) String() string {
	return fmt.Sprintf("%s at %s: %s (threshold %s)",
		a.Kind, a.Address, a.Value.StringFixed(4), a.Threshold.StringFixed(4))
}

// PropertyMonthRecord is a persistence-ready property-month keyed by address
// rather than database id. The ledger store resolves or creates the Property
// row when it writes the record.
type PropertyMonthRecord struct {
	Address string          `json:"address"`
	Rent    decimal.Decimal `json:"rent"`
	Deposit decimal.Decimal `json:"deposit"`
	Month   PropertyMonth   `json:"month"`
}

// ValidationResult carries the normalized records from one statement along
// with any reconciliation warnings and business alerts. Source amounts are
// never adjusted to force agreement; mismatches show up here instead.
type ValidationResult struct {
	OwnerName  string                `json:"owner_name"`
	Report     MonthlyReport         `json:"report"`
	Properties []PropertyMonthRecord `json:"properties"`

	Warnings []Warning `json:"warnings,omitempty"`
	Alerts   []Alert   `json:"alerts,omitempty"`
}

// HasWarnings reports whether reconciliation found any discrepancies.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}
