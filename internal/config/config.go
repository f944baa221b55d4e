// Package config defines and loads the sitediff configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"sitediff/internal/domain"
)

// Config is the complete configuration for sitediff.
type Config struct {
	// Endpoints define the source sites available for comparison
	Endpoints []domain.Endpoint `mapstructure:"endpoints"`

	// Output controls where reports and exports are written
	Output OutputConfig `mapstructure:"output"`

	// Log controls the structured logger
	Log LogConfig `mapstructure:"log"`

	// DataDir holds the run-history database; defaults to the user
	// config directory
	DataDir string `mapstructure:"data_dir"`

	// LockDir holds the run lock file; defaults to DataDir
	LockDir string `mapstructure:"lock_dir"`
}

// OutputConfig controls report and export destinations.
type OutputConfig struct {
	// Dir is the directory for combined exports and HTML reports
	Dir string `mapstructure:"dir"`

	// OpenReport launches the browser on the rendered report
	OpenReport bool `mapstructure:"open_report"`
}

// LogConfig mirrors logger.Config in mapstructure form.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Validate checks if the configuration is complete and consistent.
func (c *Config) Validate() error {
	names := make(map[string]bool)
	for _, e := range c.Endpoints {
		if e.Name == "" {
			return fmt.Errorf("%w: endpoint name cannot be empty", domain.ErrConfigInvalid)
		}
		if names[e.Name] {
			return fmt.Errorf("%w: duplicate endpoint name: %s", domain.ErrConfigInvalid, e.Name)
		}
		if !e.Type.IsValid() {
			return fmt.Errorf("%w: endpoint %s has invalid type: %s", domain.ErrConfigInvalid, e.Name, e.Type)
		}
		if err := e.Validate(); err != nil {
			return fmt.Errorf("endpoint %s: %w", e.Name, err)
		}
		names[e.Name] = true
	}
	return nil
}

// GetEndpoint returns an endpoint by name.
func (c *Config) GetEndpoint(name string) (*domain.Endpoint, error) {
	for i := range c.Endpoints {
		if c.Endpoints[i].Name == name {
			return &c.Endpoints[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrEndpointNotFound, name)
}

// GetDataDir returns the data directory, falling back to the user
// config directory.
func (c *Config) GetDataDir() string {
	if c.DataDir != "" {
		return ExpandPath(c.DataDir)
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "sitediff")
	}
	return ".sitediff"
}

// GetLockDir returns the lock directory, falling back to the data dir.
func (c *Config) GetLockDir() string {
	if c.LockDir != "" {
		return ExpandPath(c.LockDir)
	}
	return c.GetDataDir()
}

// GetOutputDir returns the output directory, defaulting to ./reports.
func (c *Config) GetOutputDir() string {
	if c.Output.Dir != "" {
		return ExpandPath(c.Output.Dir)
	}
	return "reports"
}

// ExpandPath expands ~ and environment variables in a path.
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			if len(path) > 1 && (path[1] == '/' || path[1] == filepath.Separator) {
				path = filepath.Join(home, path[2:])
			} else if len(path) == 1 {
				path = home
			}
		}
	}
	path = os.ExpandEnv(path)
	return filepath.Clean(path)
}
