// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/fin-statements/internal/config"
	"fjacquet/fin-statements/internal/container"
	"fjacquet/fin-statements/internal/logging"

	"github.com/spf13/cobra"
)

// GlobalFlags are the persistent flags shared by every command. Empty values
// leave the loaded configuration untouched.
type GlobalFlags struct {
	ConfigFile   string
	LogLevel     string
	LogFormat    string
	CSVDelimiter string
}

var (
	// Log is the shared logger instance for commands
	Log = logging.NewLogrusAdapter("info", "text")

	// AppConfig is the configuration of the current invocation
	AppConfig *config.Config

	// AppContainer holds the wired pipeline of the current invocation
	AppContainer *container.Container

	// Settings holds the persistent flag values
	Settings = GlobalFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "fin-statements",
		Short: "A CLI tool to validate ledger exports and derive financial statements.",
		Long: `fin-statements validates trial balance and general ledger exports, applies
opt-in corrections, classifies accounts into statement line items and derives
the income statement, balance sheet and cash flow statement.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to fin-statements!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Initialize()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer != nil {
				if err := AppContainer.Close(); err != nil {
					Log.WithError(err).Warn("Failed to close container")
				}
			}
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	flags := Cmd.PersistentFlags()
	if flags.Lookup("config") != nil {
		return
	}
	flags.StringVar(&Settings.ConfigFile, "config", "", "Config file (default searches ./config.yaml and ~/.fin-statements)")
	flags.StringVar(&Settings.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&Settings.LogFormat, "log-format", "", "Log format (text, json)")
	flags.StringVar(&Settings.CSVDelimiter, "csv-delimiter", "", "Delimiter for CSV input and output")
}

// Initialize loads .env, the configuration and the flag overrides, then
// wires the container.
func Initialize() error {
	if _, err := config.LoadEnv(); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.LoadConfig(Settings.ConfigFile)
	if err != nil {
		return err
	}
	if err := applyOverrides(cfg, Settings); err != nil {
		return err
	}

	Log = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	c, err := container.NewContainerWithLogger(cfg, Log)
	if err != nil {
		return err
	}

	AppConfig = cfg
	AppContainer = c
	return nil
}

func applyOverrides(cfg *config.Config, flags GlobalFlags) error {
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
	if flags.LogFormat != "" {
		cfg.Log.Format = flags.LogFormat
	}
	if flags.CSVDelimiter != "" {
		cfg.CSV.Delimiter = flags.CSVDelimiter
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetLogrusAdapter returns the shared logger.
func GetLogrusAdapter() logging.Logger {
	return Log
}

// GetContainer returns the container of the current invocation, or nil before
// initialization.
func GetContainer() *container.Container {
	return AppContainer
}

// GetConfig returns the configuration of the current invocation, or nil before
// initialization.
func GetConfig() *config.Config {
	return AppConfig
}
