// Package report renders ledger contents as portfolio and property summaries.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"rentops/owner-ledger/internal/ledger"
	"rentops/owner-ledger/internal/logging"
)

// Format selects the output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown report format %q (want csv or json)", s)
	}
}

// PortfolioRow is one monthly report flattened for export.
type PortfolioRow struct {
	PeriodStart   string          `json:"period_start" csv:"period_start"`
	PeriodEnd     string          `json:"period_end" csv:"period_end"`
	TotalIncome   decimal.Decimal `json:"total_income" csv:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses" csv:"total_expenses"`
	NOI           decimal.Decimal `json:"noi" csv:"noi"`
	PropertyCount int             `json:"property_count" csv:"property_count"`
	DueToOwner    decimal.Decimal `json:"due_to_owner" csv:"due_to_owner"`
	EndingBalance decimal.Decimal `json:"ending_balance" csv:"ending_balance"`
	Source        string          `json:"source_document" csv:"source_document"`
}

// Generator reads from the ledger store and writes summaries.
type Generator struct {
	store  ledger.Store
	logger logging.Logger
}

// NewGenerator returns a Generator backed by store.
func NewGenerator(store ledger.Store, logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Generator{store: store, logger: logger}
}

// Portfolio writes one row per monthly report, ordered by period.
func (g *Generator) Portfolio(ctx context.Context, w io.Writer, format Format) error {
	reports, err := g.store.ListMonthlyReports(ctx)
	if err != nil {
		return err
	}

	rows := make([]PortfolioRow, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, PortfolioRow{
			PeriodStart:   r.Period.Start.Format("2006-01-02"),
			PeriodEnd:     r.Period.End.Format("2006-01-02"),
			TotalIncome:   r.TotalIncome,
			TotalExpenses: r.TotalExpenses,
			NOI:           r.NOI(),
			PropertyCount: r.PropertyCount,
			DueToOwner:    r.DueToOwner,
			EndingBalance: r.EndingBalance,
			Source:        r.SourceDocument,
		})
	}
	g.logger.Debug("portfolio report generated", logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return g.write(w, format, rows)
}

// Properties writes one row per property with lifetime figures.
func (g *Generator) Properties(ctx context.Context, w io.Writer, format Format) error {
	perf, err := g.store.PropertyPerformance(ctx)
	if err != nil {
		return err
	}
	g.logger.Debug("property report generated", logging.Field{Key: logging.FieldCount, Value: len(perf)})
	return g.write(w, format, perf)
}

// ImportLog writes the audit trail.
func (g *Generator) ImportLog(ctx context.Context, w io.Writer, format Format) error {
	logs, err := g.store.ListImportLogs(ctx)
	if err != nil {
		return err
	}
	if format == FormatJSON {
		return writeJSON(w, logs)
	}
	type logRow struct {
		ID         string `csv:"id"`
		DocumentID string `csv:"document_id"`
		Kind       string `csv:"kind"`
		Outcome    string `csv:"outcome"`
		Detail     string `csv:"detail"`
		Timestamp  string `csv:"timestamp"`
	}
	rows := make([]logRow, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, logRow{
			ID:         l.ID,
			DocumentID: l.DocumentID,
			Kind:       string(l.Kind),
			Outcome:    string(l.Outcome),
			Detail:     l.Detail,
			Timestamp:  l.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return gocsv.Marshal(rows, w)
}

func (g *Generator) write(w io.Writer, format Format, rows any) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, rows)
	default:
		return gocsv.Marshal(rows, w)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
