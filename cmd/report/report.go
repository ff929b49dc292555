// Package report implements the ledger reporting command.
package report

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rentops/owner-ledger/cmd/root"
	"rentops/owner-ledger/internal/ledger"
	"rentops/owner-ledger/internal/report"
)

var (
	format     string
	outputFile string

	// Cmd represents the report command.
	Cmd = &cobra.Command{
		Use:   "report [portfolio|properties|imports]",
		Short: "Export ledger summaries as CSV or JSON",
		Long: `Report reads the ledger and writes a summary to stdout or a file.

  portfolio   one row per monthly report, ordered by period
  properties  one row per property with lifetime income, expenses and NOI
  imports     the document audit trail

Example:
  owner-ledger report properties --format json -o properties.json`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"portfolio", "properties", "imports"},
		RunE:      reportFunc,
	}
)

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", "csv", "Output format: csv or json")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default stdout)")
}

func reportFunc(cmd *cobra.Command, args []string) error {
	f, err := report.ParseFormat(format)
	if err != nil {
		return err
	}

	cfg := root.Cfg
	if cfg.Ledger.DatabaseURL == "" {
		return fmt.Errorf("no ledger database configured: set ledger.database_url")
	}
	pg, err := ledger.NewPostgresStore(cmd.Context(), cfg.Ledger.DatabaseURL, root.Log)
	if err != nil {
		return err
	}
	defer pg.Close()

	out := cmd.OutOrStdout()
	if outputFile != "" {
		file, err := os.Create(outputFile) // #nosec G304 -- CLI tool writes user-provided paths
		if err != nil {
			return fmt.Errorf("creating %s: %w", outputFile, err)
		}
		defer func() {
			if cerr := file.Close(); cerr != nil {
				root.Log.WithError(cerr).Warn("closing report file failed")
			}
		}()
		out = file
	}

	gen := report.NewGenerator(pg, root.Log)
	switch args[0] {
	case "portfolio":
		return gen.Portfolio(cmd.Context(), out, f)
	case "properties":
		return gen.Properties(cmd.Context(), out, f)
	case "imports":
		return gen.ImportLog(cmd.Context(), out, f)
	default:
		return fmt.Errorf("unknown report %q", args[0])
	}
}
