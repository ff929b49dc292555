// Package reconcile cross-checks a parsed statement's arithmetic and turns
// it into persistence-ready records.
//
// Reconciliation reports, it never repairs: a portfolio total that
// disagrees with the summed property figures becomes a Warning alongside
// the untouched amounts. Business alerts (expense ratio, NOI margin, repair
// concentration) come from configured thresholds, never hard-coded ones.
package reconcile

import (
	"time"

	"github.com/shopspring/decimal"

	"rentops/owner-ledger/internal/logging"
	"rentops/owner-ledger/internal/models"
	"rentops/owner-ledger/internal/moneyutils"
	"rentops/owner-ledger/internal/parsererror"
)

// Thresholds is the externally supplied alert configuration.
type Thresholds struct {
	// ExpenseRatio flags property-months whose expenses/income exceeds it.
	ExpenseRatio decimal.Decimal
	// NOIMargin flags property-months whose NOI/income falls below it.
	NOIMargin decimal.Decimal
	// RepairAnomalyFraction flags a repair category holding more than this
	// fraction of a property-month's total expenses.
	RepairAnomalyFraction decimal.Decimal
	// Tolerance is the per-comparison reconciliation tolerance; the
	// portfolio checks scale it by property count.
	Tolerance decimal.Decimal
}

// DefaultThresholds mirrors the configuration defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ExpenseRatio:          decimal.NewFromFloat(0.5),
		NOIMargin:             decimal.NewFromFloat(0.2),
		RepairAnomalyFraction: decimal.NewFromFloat(0.6),
		Tolerance:             decimal.New(1, -2),
	}
}

// repairCategories are the categories counted toward a property's repair
// spend and eligible for the repair anomaly alert.
var repairCategories = map[string]bool{
	models.CategoryHVAC:          true,
	models.CategoryPlumbing:      true,
	models.CategoryElectrical:    true,
	models.CategoryRoofing:       true,
	models.CategoryAppliance:     true,
	models.CategoryGeneralRepair: true,
}

// Reconciler validates parsed statements against the configured thresholds.
type Reconciler struct {
	thresholds Thresholds
	logger     logging.Logger
}

// New creates a Reconciler. A nil logger falls back to the default.
func New(thresholds Thresholds, logger logging.Logger) *Reconciler {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Reconciler{thresholds: thresholds, logger: logger}
}

// Validate checks a parsed statement's internal consistency and produces
// normalized records, warnings, and alerts. It fails only when the
// statement is structurally unusable (no property sections); arithmetic
// disagreement is a warning, not an error.
func (r *Reconciler) Validate(stmt *models.ParsedStatement, sourceDocument string) (*models.ValidationResult, error) {
	if len(stmt.Properties) == 0 {
		return nil, &parsererror.ValidationError{
			Subject: sourceDocument,
			Reason:  "statement has no property sections",
		}
	}

	result := &models.ValidationResult{OwnerName: stmt.OwnerName}

	for _, section := range stmt.Properties {
		record := r.buildRecord(section, stmt.Period)
		r.checkSection(section, record, result)
		r.checkAlerts(record, result)
		result.Properties = append(result.Properties, record)
	}

	r.checkPortfolio(stmt, result)
	result.Report = r.buildReport(stmt, result, sourceDocument)

	r.logger.WithFields(
		logging.Field{Key: logging.FieldOwner, Value: stmt.OwnerName},
		logging.Field{Key: logging.FieldPeriod, Value: stmt.Period.String()},
		logging.Field{Key: "warnings", Value: len(result.Warnings)},
		logging.Field{Key: "alerts", Value: len(result.Alerts)},
	).Debug("Statement reconciled")

	return result, nil
}

// buildRecord converts one section into a persistence-ready record. The
// stated expense subtotal, when printed, is authoritative for the
// property-month total; the itemized sum is checked against it separately.
func (r *Reconciler) buildRecord(section models.PropertySection, period models.Period) models.PropertyMonthRecord {
	itemized := section.ExpenseTotal()

	totalExpenses := itemized
	if section.StatedExpenses.Valid {
		totalExpenses = section.StatedExpenses.Decimal
	}

	mgmtFees := section.ManagementFees
	repairs := section.Repairs
	if mgmtFees.IsZero() || repairs.IsZero() {
		derivedMgmt, derivedRepairs := categoryRollups(section.Expenses)
		if mgmtFees.IsZero() {
			mgmtFees = derivedMgmt
		}
		if repairs.IsZero() {
			repairs = derivedRepairs
		}
	}

	month := models.PropertyMonth{
		Period:         period,
		TotalIncome:    section.Income,
		TotalExpenses:  totalExpenses,
		ManagementFees: mgmtFees,
		Repairs:        repairs,
	}
	for _, e := range section.Expenses {
		month.Expenses = append(month.Expenses, models.Expense{
			Date:        e.Date,
			Vendor:      e.Vendor,
			Category:    e.Category,
			Description: e.Description,
			Amount:      e.Amount,
		})
	}

	return models.PropertyMonthRecord{
		Address: section.Address,
		Rent:    section.Rent,
		Deposit: section.Deposit,
		Month:   month,
	}
}

// categoryRollups sums management fees and repair spend from the entries.
func categoryRollups(entries []models.ExpenseEntry) (mgmt, repairs decimal.Decimal) {
	for _, e := range entries {
		switch {
		case e.Category == models.CategoryManagementFee:
			mgmt = mgmt.Add(e.Amount)
		case repairCategories[e.Category]:
			repairs = repairs.Add(e.Amount)
		}
	}
	return mgmt, repairs
}

// checkSection verifies a section's stated totals against its itemized sum.
func (r *Reconciler) checkSection(section models.PropertySection, record models.PropertyMonthRecord, result *models.ValidationResult) {
	itemized := section.ExpenseTotal()

	if section.StatedExpenses.Valid && len(section.Expenses) > 0 &&
		!moneyutils.WithinTolerance(section.StatedExpenses.Decimal, itemized, r.thresholds.Tolerance) {
		result.Warnings = append(result.Warnings, models.Warning{
			Check:     models.CheckExpenseSubtotal,
			Subject:   section.Address,
			Expected:  section.StatedExpenses.Decimal,
			Observed:  itemized,
			Deviation: section.StatedExpenses.Decimal.Sub(itemized).Abs(),
		})
	}

	if section.StatedNOI.Valid {
		computed := record.Month.NOI()
		if !moneyutils.WithinTolerance(section.StatedNOI.Decimal, computed, r.thresholds.Tolerance) {
			result.Warnings = append(result.Warnings, models.Warning{
				Check:     models.CheckStatedNOI,
				Subject:   section.Address,
				Expected:  section.StatedNOI.Decimal,
				Observed:  computed,
				Deviation: section.StatedNOI.Decimal.Sub(computed).Abs(),
			})
		}
	}
}

// checkPortfolio verifies the portfolio summary against the summed property
// figures. The tolerance scales with property count so rounding in each
// section does not stack into false warnings.
func (r *Reconciler) checkPortfolio(stmt *models.ParsedStatement, result *models.ValidationResult) {
	if stmt.Portfolio == nil {
		return
	}

	scaledTol := r.thresholds.Tolerance.Mul(decimal.NewFromInt(int64(len(stmt.Properties))))

	incomeSum := stmt.PropertyIncomeTotal()
	if !moneyutils.WithinTolerance(stmt.Portfolio.Income, incomeSum, scaledTol) {
		result.Warnings = append(result.Warnings, models.Warning{
			Check:     models.CheckPortfolioIncome,
			Subject:   "portfolio",
			Expected:  stmt.Portfolio.Income,
			Observed:  incomeSum,
			Deviation: stmt.Portfolio.Income.Sub(incomeSum).Abs(),
		})
	}

	expenseSum := decimal.Zero
	for _, record := range result.Properties {
		expenseSum = expenseSum.Add(record.Month.TotalExpenses)
	}
	if !moneyutils.WithinTolerance(stmt.Portfolio.Expenses, expenseSum, scaledTol) {
		result.Warnings = append(result.Warnings, models.Warning{
			Check:     models.CheckPortfolioExpense,
			Subject:   "portfolio",
			Expected:  stmt.Portfolio.Expenses,
			Observed:  expenseSum,
			Deviation: stmt.Portfolio.Expenses.Sub(expenseSum).Abs(),
		})
	}
}

// checkAlerts derives business alerts for one property-month.
func (r *Reconciler) checkAlerts(record models.PropertyMonthRecord, result *models.ValidationResult) {
	month := record.Month

	if month.TotalIncome.IsPositive() {
		ratio := month.ExpenseRatio()
		if ratio.GreaterThan(r.thresholds.ExpenseRatio) {
			result.Alerts = append(result.Alerts, models.Alert{
				Kind:      models.AlertHighExpenseRatio,
				Address:   record.Address,
				Value:     ratio,
				Threshold: r.thresholds.ExpenseRatio,
			})
		}

		margin := month.NOIMargin()
		if margin.LessThan(r.thresholds.NOIMargin) {
			result.Alerts = append(result.Alerts, models.Alert{
				Kind:      models.AlertLowNOIMargin,
				Address:   record.Address,
				Value:     margin,
				Threshold: r.thresholds.NOIMargin,
			})
		}
	}

	if month.TotalExpenses.IsPositive() {
		byCategory := make(map[string]decimal.Decimal)
		for _, e := range month.Expenses {
			if repairCategories[e.Category] {
				byCategory[e.Category] = byCategory[e.Category].Add(e.Amount)
			}
		}
		for _, amount := range byCategory {
			fraction := amount.Div(month.TotalExpenses)
			if fraction.GreaterThan(r.thresholds.RepairAnomalyFraction) {
				result.Alerts = append(result.Alerts, models.Alert{
					Kind:      models.AlertRepairAnomaly,
					Address:   record.Address,
					Value:     fraction,
					Threshold: r.thresholds.RepairAnomalyFraction,
				})
				break
			}
		}
	}
}

// buildReport assembles the portfolio-level aggregate. Portfolio figures
// from the statement are authoritative when present; disagreement with the
// property sums has already been warned about, never corrected.
func (r *Reconciler) buildReport(stmt *models.ParsedStatement, result *models.ValidationResult, sourceDocument string) models.MonthlyReport {
	report := models.MonthlyReport{
		Period:         stmt.Period,
		PropertyCount:  len(stmt.Properties),
		SourceDocument: sourceDocument,
		ImportedAt:     time.Now().UTC(),
	}

	if stmt.Portfolio != nil {
		report.TotalIncome = stmt.Portfolio.Income
		report.TotalExpenses = stmt.Portfolio.Expenses
		report.ManagementFees = stmt.Portfolio.ManagementFees
		report.PreviousBalance = stmt.Portfolio.PreviousBalance
		report.Contributions = stmt.Portfolio.Contributions
		report.Draws = stmt.Portfolio.Draws
		report.EndingBalance = stmt.Portfolio.EndingBalance
		report.DueToOwner = stmt.Portfolio.DueToOwner
		return report
	}

	for _, record := range result.Properties {
		report.TotalIncome = report.TotalIncome.Add(record.Month.TotalIncome)
		report.TotalExpenses = report.TotalExpenses.Add(record.Month.TotalExpenses)
		report.ManagementFees = report.ManagementFees.Add(record.Month.ManagementFees)
	}
	return report
}
