// Package ledger is the persistence boundary for typed financial records.
//
// The pipeline depends only on the Store interface; the Postgres
// implementation and the in-memory implementation (used by dry runs and
// tests) are interchangeable. Writes for one document are a single logical
// unit: a PropertyMonth is never persisted without its Expense children.
package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"rentops/owner-ledger/internal/models"
)

// PropertyPerformance is a reporting rollup of one property across all its
// recorded months.
type PropertyPerformance struct {
	Address       string          `json:"address" csv:"address"`
	OwnerName     string          `json:"owner_name" csv:"owner"`
	CurrentRent   decimal.Decimal `json:"current_rent" csv:"current_rent"`
	TotalIncome   decimal.Decimal `json:"total_income" csv:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses" csv:"total_expenses"`
	TotalRepairs  decimal.Decimal `json:"total_repairs" csv:"total_repairs"`
	NOI           decimal.Decimal `json:"noi" csv:"noi"`
	MonthsTracked int             `json:"months_tracked" csv:"months_tracked"`
}

// NOIMargin returns lifetime NOI over lifetime income, zero when income is
// not positive.
func (p PropertyPerformance) NOIMargin() decimal.Decimal {
	if !p.TotalIncome.IsPositive() {
		return decimal.Zero
	}
	return p.NOI.Div(p.TotalIncome)
}

// Store persists and retrieves the typed financial records.
type Store interface {
	// SaveStatement upserts everything a validated statement produced:
	// the owner, each property (rent/deposit last-write-wins), the
	// monthly report, and each property-month with its expenses. The
	// write is atomic per document.
	SaveStatement(ctx context.Context, result *models.ValidationResult) error

	// InsertImportLog appends one audit row. Import logs are write-once;
	// there is deliberately no update or delete.
	InsertImportLog(ctx context.Context, entry models.ImportLog) error

	// ListMonthlyReports returns all portfolio-level reports ordered by
	// period start.
	ListMonthlyReports(ctx context.Context) ([]models.MonthlyReport, error)

	// ListImportLogs returns the audit trail ordered by timestamp.
	ListImportLogs(ctx context.Context) ([]models.ImportLog, error)

	// PropertyPerformance returns per-property lifetime rollups.
	PropertyPerformance(ctx context.Context) ([]PropertyPerformance, error)
}
