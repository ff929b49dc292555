// Package config provides Viper-based hierarchical configuration management.
package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	// Thresholds drive reconciliation warnings and business alerts.
	// They are never hard-coded downstream; the reconciler receives them
	// from here.
	Thresholds struct {
		ExpenseRatio            float64 `mapstructure:"expense_ratio" yaml:"expense_ratio"`
		NOIMargin               float64 `mapstructure:"noi_margin" yaml:"noi_margin"`
		RepairAnomalyFraction   float64 `mapstructure:"repair_anomaly_fraction" yaml:"repair_anomaly_fraction"`
		ReconciliationTolerance string  `mapstructure:"reconciliation_tolerance" yaml:"reconciliation_tolerance"`
	} `mapstructure:"thresholds" yaml:"thresholds"`

	Mail struct {
		Query         string `mapstructure:"query" yaml:"query"`
		InputDir      string `mapstructure:"input_dir" yaml:"input_dir"`
		ProcessedFile string `mapstructure:"processed_file" yaml:"processed_file"`
	} `mapstructure:"mail" yaml:"mail"`

	Ledger struct {
		DatabaseURL string `mapstructure:"database_url" yaml:"database_url"`
	} `mapstructure:"ledger" yaml:"ledger"`

	Categories struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"categories" yaml:"categories"`

	AI struct {
		Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
		Model   string `mapstructure:"model" yaml:"model"`
		APIKey  string `mapstructure:"api_key" yaml:"api_key"`
	} `mapstructure:"ai" yaml:"ai"`

	Pipeline struct {
		Workers int `mapstructure:"workers" yaml:"workers"`
	} `mapstructure:"pipeline" yaml:"pipeline"`
}

// Tolerance returns the reconciliation tolerance as a decimal. Falls back to
// one cent when the configured string does not parse.
func (c *Config) Tolerance() decimal.Decimal {
	tol, err := decimal.NewFromString(c.Thresholds.ReconciliationTolerance)
	if err != nil {
		return decimal.New(1, -2)
	}
	return tol
}

// setDefaults configures the default values for all settings.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("thresholds.expense_ratio", 0.5)
	v.SetDefault("thresholds.noi_margin", 0.2)
	v.SetDefault("thresholds.repair_anomaly_fraction", 0.6)
	v.SetDefault("thresholds.reconciliation_tolerance", "0.01")

	v.SetDefault("mail.query", "has:attachment filename:pdf")
	v.SetDefault("mail.input_dir", "inbox")
	v.SetDefault("mail.processed_file", ".processed")

	v.SetDefault("ledger.database_url", "")

	v.SetDefault("categories.file", "categories.yaml")

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-1.5-flash")
	v.SetDefault("ai.api_key", "")

	v.SetDefault("pipeline.workers", 1)
}

// InitializeConfig loads the configuration from file, environment, and
// defaults, in ascending precedence of defaults < file < environment.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("owner-ledger")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.config/owner-ledger")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; anything else is a real error.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("OWNER_LEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Legacy flat environment variables still honored.
	_ = v.BindEnv("ledger.database_url", "DATABASE_URL")
	_ = v.BindEnv("ai.api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
	_ = v.BindEnv("log.format", "LOG_FORMAT")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate rejects configurations that would silently misbehave downstream.
func validate(cfg *Config) error {
	if cfg.Thresholds.ExpenseRatio <= 0 {
		return fmt.Errorf("thresholds.expense_ratio must be positive, got %v", cfg.Thresholds.ExpenseRatio)
	}
	if cfg.Thresholds.RepairAnomalyFraction <= 0 || cfg.Thresholds.RepairAnomalyFraction > 1 {
		return fmt.Errorf("thresholds.repair_anomaly_fraction must be in (0,1], got %v", cfg.Thresholds.RepairAnomalyFraction)
	}
	if _, err := decimal.NewFromString(cfg.Thresholds.ReconciliationTolerance); err != nil {
		return fmt.Errorf("thresholds.reconciliation_tolerance %q is not a decimal: %w", cfg.Thresholds.ReconciliationTolerance, err)
	}
	if cfg.Pipeline.Workers < 1 {
		return fmt.Errorf("pipeline.workers must be at least 1, got %d", cfg.Pipeline.Workers)
	}
	return nil
}

// ConfigureLoggingFromConfig builds a logrus logger from the Log section.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
