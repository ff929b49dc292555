package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentops/owner-ledger/internal/models"
)

func june() models.Period {
	return models.Period{
		Start: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	}
}

func validationResult(owner string, p models.Period) *models.ValidationResult {
	return &models.ValidationResult{
		OwnerName: owner,
		Report: models.MonthlyReport{
			Period:        p,
			TotalIncome:   decimal.NewFromInt(3300),
			TotalExpenses: decimal.NewFromInt(1085),
			PropertyCount: 1,
			ImportedAt:    time.Now().UTC(),
		},
		Properties: []models.PropertyMonthRecord{{
			Address: "123 Main St",
			Rent:    decimal.NewFromInt(1500),
			Deposit: decimal.NewFromInt(1500),
			Month: models.PropertyMonth{
				Period:        p,
				TotalIncome:   decimal.NewFromInt(1500),
				TotalExpenses: decimal.NewFromInt(585),
				Repairs:       decimal.NewFromInt(485),
				Expenses: []models.Expense{{
					Vendor:      "Ajax Plumbing",
					Category:    models.CategoryPlumbing,
					Description: "Water heater repair",
					Amount:      decimal.NewFromInt(485),
				}},
			},
		}},
	}
}

func TestMemoryStore_SaveAndList(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SaveStatement(ctx, validationResult("Jane Smith", june())))

	reports, err := store.ListMonthlyReports(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "3300", reports[0].TotalIncome.String())
	assert.Equal(t, june(), reports[0].Period)
}

func TestMemoryStore_ReimportUpserts(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SaveStatement(ctx, validationResult("Jane Smith", june())))

	// A corrected statement for the same owner and period replaces the
	// report instead of duplicating it.
	corrected := validationResult("Jane Smith", june())
	corrected.Report.TotalIncome = decimal.NewFromInt(3400)
	require.NoError(t, store.SaveStatement(ctx, corrected))

	reports, err := store.ListMonthlyReports(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "3400", reports[0].TotalIncome.String())
}

func TestMemoryStore_PropertyPerformance(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SaveStatement(ctx, validationResult("Jane Smith", june())))

	july := models.Period{
		Start: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.SaveStatement(ctx, validationResult("Jane Smith", july)))

	perf, err := store.PropertyPerformance(ctx)
	require.NoError(t, err)
	require.Len(t, perf, 1)

	p := perf[0]
	assert.Equal(t, "123 Main St", p.Address)
	assert.Equal(t, "Jane Smith", p.OwnerName)
	assert.Equal(t, 2, p.MonthsTracked)
	assert.Equal(t, "3000", p.TotalIncome.String())
	assert.Equal(t, "1170", p.TotalExpenses.String())
	assert.Equal(t, "970", p.TotalRepairs.String())
	assert.Equal(t, "1830", p.NOI.String())
	assert.Equal(t, "0.61", p.NOIMargin().String())
}

func TestMemoryStore_ImportLogsAppendOnly(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	entries := []models.ImportLog{
		{ID: "1", DocumentID: "june.pdf", Kind: models.KindPortfolioStatement, Outcome: models.OutcomeSuccess, Timestamp: time.Now()},
		{ID: "2", DocumentID: "bad.pdf", Kind: models.KindUnrecognized, Outcome: models.OutcomeUnrecognized, Timestamp: time.Now()},
	}
	for _, e := range entries {
		require.NoError(t, store.InsertImportLog(ctx, e))
	}

	logs, err := store.ListImportLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "june.pdf", logs[0].DocumentID)
	assert.Equal(t, models.OutcomeUnrecognized, logs[1].Outcome)
}

func TestMemoryStore_RentLastPositiveWins(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SaveStatement(ctx, validationResult("Jane Smith", june())))

	// A later statement without lease terms must not zero the rent.
	later := validationResult("Jane Smith", june())
	later.Properties[0].Rent = decimal.Zero
	later.Properties[0].Deposit = decimal.Zero
	require.NoError(t, store.SaveStatement(ctx, later))

	perf, err := store.PropertyPerformance(ctx)
	require.NoError(t, err)
	require.Len(t, perf, 1)
	assert.Equal(t, "1500", perf[0].CurrentRent.String())
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, store.SaveStatement(ctx, validationResult("Jane Smith", june())))
	_, err := store.ListMonthlyReports(ctx)
	assert.Error(t, err)
}
