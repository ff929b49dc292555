package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfig_Defaults(t *testing.T) {
	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 0.5, cfg.Thresholds.ExpenseRatio)
	assert.Equal(t, 0.2, cfg.Thresholds.NOIMargin)
	assert.Equal(t, 0.6, cfg.Thresholds.RepairAnomalyFraction)
	assert.Equal(t, "0.01", cfg.Thresholds.ReconciliationTolerance)
	assert.Equal(t, "inbox", cfg.Mail.InputDir)
	assert.Equal(t, "categories.yaml", cfg.Categories.File)
	assert.False(t, cfg.AI.Enabled)
	assert.Equal(t, 1, cfg.Pipeline.Workers)
}

func TestInitializeConfig_EnvOverride(t *testing.T) {
	t.Setenv("OWNER_LEDGER_PIPELINE_WORKERS", "4")
	t.Setenv("DATABASE_URL", "postgres://localhost/ledger")

	cfg, err := InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
	assert.Equal(t, "postgres://localhost/ledger", cfg.Ledger.DatabaseURL)
}

func TestTolerance(t *testing.T) {
	var cfg Config
	cfg.Thresholds.ReconciliationTolerance = "0.05"
	assert.Equal(t, "0.05", cfg.Tolerance().String())

	// Unparsable tolerance falls back to one cent instead of silencing
	// every reconciliation check.
	cfg.Thresholds.ReconciliationTolerance = "loose"
	assert.Equal(t, "0.01", cfg.Tolerance().String())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		var cfg Config
		cfg.Thresholds.ExpenseRatio = 0.5
		cfg.Thresholds.RepairAnomalyFraction = 0.6
		cfg.Thresholds.ReconciliationTolerance = "0.01"
		cfg.Pipeline.Workers = 1
		return &cfg
	}

	assert.NoError(t, validate(valid()))

	cfg := valid()
	cfg.Thresholds.ExpenseRatio = 0
	assert.Error(t, validate(cfg))

	cfg = valid()
	cfg.Thresholds.RepairAnomalyFraction = 1.5
	assert.Error(t, validate(cfg))

	cfg = valid()
	cfg.Thresholds.ReconciliationTolerance = "not-a-number"
	assert.Error(t, validate(cfg))

	cfg = valid()
	cfg.Pipeline.Workers = 0
	assert.Error(t, validate(cfg))
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	var cfg Config
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"

	logger := ConfigureLoggingFromConfig(&cfg)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}

func TestConfigureLoggingFromConfig_BadLevel(t *testing.T) {
	var cfg Config
	cfg.Log.Level = "shouty"

	logger := ConfigureLoggingFromConfig(&cfg)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}
