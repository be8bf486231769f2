// Package config provides unified configuration loading for wg.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// StoreDirName is the directory under the data dir that holds the store.
const StoreDirName = "graph"

// Config contains all wg configuration settings.
type Config struct {
	// Store locates the on-disk key-value store.
	Store StoreConfig `json:"store" yaml:"store"`

	// Logging contains settings for operational logging and the mutation journal.
	Logging LoggingConfig `json:"logging" yaml:"logging"`

	// Display controls table output.
	Display DisplayConfig `json:"display" yaml:"display"`
}

// StoreConfig configures where graphs are persisted.
type StoreConfig struct {
	// DataDir is the parent of the store directory. Supports ${VAR} and a
	// leading ~. Defaults to the user's home directory.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// LoggingConfig configures wg's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables the mutation journal under the store directory.
	Level string `json:"level" yaml:"level"`
}

// DisplayConfig configures table rendering.
type DisplayConfig struct {
	// MaxContentWidth clips free-text columns to this many display
	// columns. 0 disables clipping.
	MaxContentWidth int `json:"max_content_width" yaml:"max_content_width"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	dataDir, err := os.UserHomeDir()
	if err != nil {
		dataDir = "."
	}
	return &Config{
		Store: StoreConfig{
			DataDir: dataDir,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Display: DisplayConfig{
			MaxContentWidth: 0,
		},
	}
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.workgraph/config.yaml -> environment variables
func Load() (*Config, error) {
	config := Default()

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".workgraph", "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	config.Store.DataDir = expandPath(config.Store.DataDir)

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Store.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}

	if c.Display.MaxContentWidth < 0 {
		return fmt.Errorf("max_content_width must be non-negative, got %d", c.Display.MaxContentWidth)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// StoreDir returns the directory holding the store and the journal.
func (c *Config) StoreDir() string {
	return filepath.Join(c.Store.DataDir, StoreDirName)
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("WG_DATA_DIR"); v != "" {
		config.Store.DataDir = expandPath(v)
	}

	if v := os.Getenv("WG_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}

	if v := os.Getenv("WG_MAX_CONTENT_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Display.MaxContentWidth = n
		}
	}
}

// expandPath expands ${VAR} patterns and a leading ~ in a path.
func expandPath(s string) string {
	if strings.Contains(s, "${") {
		s = os.Expand(s, os.Getenv)
	}
	if s == "~" || strings.HasPrefix(s, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			s = filepath.Join(home, strings.TrimPrefix(s, "~"))
		}
	}
	return s
}
