// Package root contains the root command and the shared wiring the
// subcommands build on.
package root

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"rentops/owner-ledger/internal/categorizer"
	"rentops/owner-ledger/internal/classifier"
	"rentops/owner-ledger/internal/config"
	"rentops/owner-ledger/internal/logging"
	"rentops/owner-ledger/internal/reconcile"
	"rentops/owner-ledger/internal/store"
)

var (
	// Cfg is the loaded configuration, populated before any subcommand
	// runs.
	Cfg *config.Config

	// Log is the shared logger for commands.
	Log logging.Logger = logging.GetLogger()

	// Verbose forces debug logging regardless of configured level.
	Verbose bool

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "owner-ledger",
		Short: "Ingest property-owner statements into a financial ledger.",
		Long: `owner-ledger turns PDF owner statements from a property manager into
typed ledger records. It extracts text, classifies the document layout,
parses portfolio and property figures, categorizes expenses, reconciles
the stated totals against computed ones, and persists the result.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()
			cfg, err := config.InitializeConfig()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			if Verbose {
				cfg.Log.Level = "debug"
			}
			Cfg = cfg
			Log = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
			logging.SetDefaultLogger(Log)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Init registers the persistent flags.
func Init() {
	Cmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "Enable debug logging")
}

// Thresholds converts configured threshold values for the reconciler.
func Thresholds() reconcile.Thresholds {
	return reconcile.Thresholds{
		ExpenseRatio:          decimal.NewFromFloat(Cfg.Thresholds.ExpenseRatio),
		NOIMargin:             decimal.NewFromFloat(Cfg.Thresholds.NOIMargin),
		RepairAnomalyFraction: decimal.NewFromFloat(Cfg.Thresholds.RepairAnomalyFraction),
		Tolerance:             Cfg.Tolerance(),
	}
}

// NewClassifier builds the document classifier with the shared logger.
func NewClassifier() *classifier.Classifier {
	return classifier.New(Log)
}

// NewCategorizer builds the expense categorizer from the configured
// category file.
func NewCategorizer() *categorizer.Categorizer {
	loader := store.NewCategoryStore(Cfg.Categories.File, Log)
	return categorizer.New(loader, Log)
}

// NewReconciler builds the reconciler from configured thresholds.
func NewReconciler() *reconcile.Reconciler {
	return reconcile.New(Thresholds(), Log)
}
