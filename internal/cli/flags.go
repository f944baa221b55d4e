// Package cli implements the sitediff commands.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sitediff/internal/config"
	"sitediff/internal/domain"
	"sitediff/internal/logger"
)

// GlobalFlags holds global flag values
type GlobalFlags struct {
	ConfigFile string
	LogLevel   string
	LogFile    string
	Quiet      bool
}

var globalFlags GlobalFlags

// AddGlobalFlags adds global flags to the root command
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&globalFlags.ConfigFile,
		"config",
		"",
		"config file (default is $HOME/.config/sitediff/config.yaml)",
	)
	cmd.PersistentFlags().StringVar(
		&globalFlags.LogLevel,
		"log-level",
		"",
		"log level: debug, info, warn, error",
	)
	cmd.PersistentFlags().StringVar(
		&globalFlags.LogFile,
		"log-file",
		"",
		"write logs to a rotating file at this path",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Quiet,
		"quiet",
		"q",
		false,
		"suppress progress output",
	)
}

// loadConfig loads configuration and initializes the logger from it,
// letting command-line flags win over file settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(globalFlags.ConfigFile)
	if err != nil {
		if errors.Is(err, domain.ErrConfigNotFound) && globalFlags.ConfigFile == "" {
			cfg = &config.Config{}
		} else {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	level := cfg.Log.Level
	if globalFlags.LogLevel != "" {
		level = globalFlags.LogLevel
	}
	logFile := cfg.Log.File
	if globalFlags.LogFile != "" {
		logFile = globalFlags.LogFile
	}

	logCfg := logger.Config{
		Level:  logger.ParseLevel(level),
		Format: logger.ParseFormat(cfg.Log.Format),
	}
	if logFile != "" {
		logCfg.File = logger.FileConfig{
			Enabled: true,
			Path:    logFile,
		}
	}
	if err := logger.Init(logCfg); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, nil
}
