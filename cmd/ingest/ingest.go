// Package ingest implements the batch ingestion command.
package ingest

import (
	"fmt"

	"github.com/spf13/cobra"

	"rentops/owner-ledger/cmd/root"
	"rentops/owner-ledger/internal/extractor"
	"rentops/owner-ledger/internal/ledger"
	"rentops/owner-ledger/internal/llmparser"
	"rentops/owner-ledger/internal/logging"
	"rentops/owner-ledger/internal/mailsource"
	"rentops/owner-ledger/internal/parser"
	"rentops/owner-ledger/internal/pipeline"
)

var (
	inputDir string
	dryRun   bool
	workers  int

	// Cmd represents the ingest command.
	Cmd = &cobra.Command{
		Use:   "ingest",
		Short: "Process a directory of owner-statement PDFs into the ledger",
		Long: `Ingest fetches unprocessed PDF statements from the input directory,
runs each through extraction, classification, parsing, categorization and
reconciliation, and persists the results.

Documents fail independently. The command exits nonzero when any document
ends in a parse error. Unrecognized documents are left unacknowledged for
manual review and do not fail the run.

Example:
  owner-ledger ingest --input statements/ --workers 4`,
		RunE: ingestFunc,
	}
)

func init() {
	Cmd.Flags().StringVarP(&inputDir, "input", "i", "", "Directory of PDF statements (defaults to mail.input_dir)")
	Cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run every stage except persistence and acknowledgement")
	Cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent documents (defaults to pipeline.workers)")
}

func ingestFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := root.Cfg

	dir := inputDir
	if dir == "" {
		dir = cfg.Mail.InputDir
	}
	if dir == "" {
		return fmt.Errorf("no input directory: pass --input or set mail.input_dir")
	}

	source, err := mailsource.NewDirSource(dir, cfg.Mail.ProcessedFile, root.Log)
	if err != nil {
		return fmt.Errorf("opening statement directory: %w", err)
	}

	statementStore, cleanup, err := openStore(cmd, dryRun)
	if err != nil {
		return err
	}
	defer cleanup()

	n := workers
	if n == 0 {
		n = cfg.Pipeline.Workers
	}

	var fallback parser.StatementParser
	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		fallback = llmparser.New(cfg.AI.APIKey, cfg.AI.Model, root.Log)
		root.Log.Info("AI fallback parser enabled", logging.Field{Key: "model", Value: cfg.AI.Model})
	}

	p := pipeline.New(source, extractor.NewPdftotextExtractor(root.Log),
		root.NewClassifier(), root.NewCategorizer(), root.NewReconciler(),
		statementStore, pipeline.Options{DryRun: dryRun, Workers: n, Fallback: fallback}, root.Log)

	summary, err := p.ProcessBatch(ctx, cfg.Mail.Query)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"processed %d documents: %d imported, %d with warnings, %d unrecognized, %d failed\n",
		summary.Processed, summary.Succeeded, summary.Warned, summary.Unrecognized, summary.Failed)
	if summary.HasFailures() {
		return fmt.Errorf("%d documents failed to parse", summary.Failed)
	}
	return nil
}

// openStore returns the Postgres store when a database is configured, the
// in-memory store otherwise. Dry runs never touch the database.
func openStore(cmd *cobra.Command, dryRun bool) (ledger.Store, func(), error) {
	cfg := root.Cfg
	if dryRun || cfg.Ledger.DatabaseURL == "" {
		if !dryRun {
			root.Log.Warn("no ledger database configured, results will not be persisted")
		}
		return ledger.NewMemoryStore(), func() {}, nil
	}

	pg, err := ledger.NewPostgresStore(cmd.Context(), cfg.Ledger.DatabaseURL, root.Log)
	if err != nil {
		return nil, nil, err
	}
	if err := pg.Migrate(cmd.Context()); err != nil {
		pg.Close()
		return nil, nil, err
	}
	return pg, pg.Close, nil
}
