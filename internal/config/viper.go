// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"fjacquet/fin-statements/internal/dateutils"
	"fjacquet/fin-statements/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. FINSTMT_LOG_LEVEL.
const EnvPrefix = "FINSTMT"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Input struct {
		Sheet string `mapstructure:"sheet" yaml:"sheet"`
	} `mapstructure:"input" yaml:"input"`

	Reporting struct {
		Currency   string  `mapstructure:"currency" yaml:"currency"`
		UnitScale  float64 `mapstructure:"unit_scale" yaml:"unit_scale"`
		Period     string  `mapstructure:"period" yaml:"period"`
		MaxPeriods int     `mapstructure:"max_periods" yaml:"max_periods"`
	} `mapstructure:"reporting" yaml:"reporting"`

	Validation struct {
		ToleranceAbs         float64 `mapstructure:"tolerance_abs" yaml:"tolerance_abs"`
		ToleranceRel         float64 `mapstructure:"tolerance_rel" yaml:"tolerance_rel"`
		TxnCoverageThreshold float64 `mapstructure:"txn_coverage_threshold" yaml:"txn_coverage_threshold"`
		OutlierSigma         float64 `mapstructure:"outlier_sigma" yaml:"outlier_sigma"`
		SampleSize           int     `mapstructure:"sample_size" yaml:"sample_size"`
	} `mapstructure:"validation" yaml:"validation"`

	Classification struct {
		RulesFile    string   `mapstructure:"rules_file" yaml:"rules_file"`
		Precedence   []string `mapstructure:"precedence" yaml:"precedence"`
		WarnUnmapped bool     `mapstructure:"warn_unmapped" yaml:"warn_unmapped"`
	} `mapstructure:"classification" yaml:"classification"`

	Autofix struct {
		Remedies []string `mapstructure:"remedies" yaml:"remedies"`
	} `mapstructure:"autofix" yaml:"autofix"`

	Server struct {
		Address        string `mapstructure:"address" yaml:"address"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	} `mapstructure:"server" yaml:"server"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return LoadConfig("")
}

// LoadConfig loads configuration from defaults, the given file (or the
// standard search path when file is empty) and FINSTMT_ environment
// variables, in increasing order of precedence.
func LoadConfig(file string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.fin-statements")
		v.AddConfigPath(".fin-statements")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.Autofix.Remedies = splitList(config.Autofix.Remedies)
	config.Classification.Precedence = splitList(config.Classification.Precedence)

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Input defaults
	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("input.sheet", "")

	// Reporting defaults
	v.SetDefault("reporting.currency", models.DefaultReportingCurrency)
	v.SetDefault("reporting.unit_scale", 1)
	v.SetDefault("reporting.period", string(dateutils.GranularityYear))
	v.SetDefault("reporting.max_periods", models.DefaultMaxPeriods)

	// Validation defaults
	v.SetDefault("validation.tolerance_abs", 0.01)
	v.SetDefault("validation.tolerance_rel", 0.0001)
	v.SetDefault("validation.txn_coverage_threshold", 0.5)
	v.SetDefault("validation.outlier_sigma", 3.0)
	v.SetDefault("validation.sample_size", 10)

	// Classification defaults
	v.SetDefault("classification.rules_file", "")
	v.SetDefault("classification.precedence", models.DefaultPrecedence)
	v.SetDefault("classification.warn_unmapped", true)

	v.SetDefault("autofix.remedies", []string{})

	// Server defaults
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.timeout_seconds", 30)
}

// splitList accepts both YAML lists and comma separated environment values.
func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	// Validate CSV delimiter
	if utf8.RuneCountInString(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if len(strings.TrimSpace(config.Reporting.Currency)) != 3 {
		return fmt.Errorf("reporting.currency must be a three-letter code, got: %s", config.Reporting.Currency)
	}
	if config.Reporting.UnitScale <= 0 {
		return fmt.Errorf("reporting.unit_scale must be positive, got: %v", config.Reporting.UnitScale)
	}
	if _, err := dateutils.ParseGranularity(config.Reporting.Period); err != nil {
		return fmt.Errorf("reporting.period: %w", err)
	}
	if config.Reporting.MaxPeriods < 1 {
		return fmt.Errorf("reporting.max_periods must be at least 1, got: %d", config.Reporting.MaxPeriods)
	}

	if config.Validation.ToleranceAbs < 0 || config.Validation.ToleranceRel < 0 {
		return fmt.Errorf("validation tolerances must be non-negative")
	}
	if config.Validation.TxnCoverageThreshold < 0.0 || config.Validation.TxnCoverageThreshold > 1.0 {
		return fmt.Errorf("validation.txn_coverage_threshold must be between 0.0 and 1.0, got: %f", config.Validation.TxnCoverageThreshold)
	}
	if config.Validation.OutlierSigma <= 0 {
		return fmt.Errorf("validation.outlier_sigma must be positive, got: %v", config.Validation.OutlierSigma)
	}
	if config.Validation.SampleSize < 1 {
		return fmt.Errorf("validation.sample_size must be at least 1, got: %d", config.Validation.SampleSize)
	}

	for _, name := range config.Classification.Precedence {
		switch strings.ToLower(name) {
		case models.StrategyDetector, models.StrategyAlias, models.StrategyRange:
		default:
			return fmt.Errorf("classification.precedence: unknown strategy %q", name)
		}
	}

	if _, err := models.ParseRemedySet(config.Autofix.Remedies); err != nil {
		return fmt.Errorf("autofix.remedies: %w", err)
	}

	if config.Server.TimeoutSeconds < 1 || config.Server.TimeoutSeconds > 3600 {
		return fmt.Errorf("server.timeout_seconds must be between 1 and 3600, got: %d", config.Server.TimeoutSeconds)
	}

	return nil
}

// Validate re-checks the configuration, e.g. after command-line overrides.
func (c *Config) Validate() error {
	return validateConfig(c)
}

// Delimiter returns the CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.CSV.Delimiter)
	return r
}

// UnitScale returns the reporting divisor.
func (c *Config) UnitScale() decimal.Decimal {
	return decimal.NewFromFloat(c.Reporting.UnitScale)
}

// Granularity returns the reporting period granularity.
func (c *Config) Granularity() dateutils.Granularity {
	g, _ := dateutils.ParseGranularity(c.Reporting.Period)
	return g
}

// Remedies returns the configured default remedy selection.
func (c *Config) Remedies() models.RemedySet {
	s, _ := models.ParseRemedySet(c.Autofix.Remedies)
	return s
}
