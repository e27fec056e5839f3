// Package config loads the logvet configuration.
//
// A Config is loaded once per process and never mutated afterwards; every
// component receives the values it needs from it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	vetErrors "github.com/Aman-CERP/logvet/internal/errors"
	"github.com/Aman-CERP/logvet/internal/validate"
)

// DefaultFileName is the configuration file looked up in the working directory.
const DefaultFileName = "config.yaml"

// Config represents the complete logvet configuration.
type Config struct {
	System     SystemConfig     `yaml:"system" json:"system"`
	Validation ValidationConfig `yaml:"validation" json:"validation"`
	Logging    LoggingConfig    `yaml:"logging" json:"logging"`
	Network    NetworkConfig    `yaml:"network" json:"network"`
}

// SystemConfig configures the batch pipeline.
type SystemConfig struct {
	// MaxWorkers bounds the worker pool. Zero means host parallelism.
	MaxWorkers int `yaml:"max_workers" json:"max_workers" validate:"min=0"`
	// LogDirectory is the directory scanned for log files.
	LogDirectory string `yaml:"log_directory" json:"log_directory"`
	// Patterns are the glob patterns a file name must match to be discovered.
	Patterns []string `yaml:"patterns" json:"patterns" validate:"min=1,dive,required"`
}

// ValidationConfig configures the format validators.
type ValidationConfig struct {
	RequiredColumns []string `yaml:"required_columns" json:"required_columns" validate:"min=1,dive,required"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level" validate:"oneof=debug info warn warning error critical DEBUG INFO WARN WARNING ERROR CRITICAL"`
	// Format is "json" or "text".
	Format string `yaml:"format" json:"format" validate:"oneof=json text"`
	// MaxLogSize is the rotation threshold for the log file in bytes.
	MaxLogSize int64 `yaml:"max_log_size" json:"max_log_size" validate:"min=0"`
	// MaxFiles is the number of rotated files kept.
	MaxFiles int `yaml:"max_files" json:"max_files" validate:"min=0"`
	// File is an optional log file path. Empty means stderr only.
	File string `yaml:"file" json:"file"`
}

// NetworkConfig configures the task server.
type NetworkConfig struct {
	Host           string `yaml:"host" json:"host" validate:"required"`
	Port           int    `yaml:"port" json:"port" validate:"min=0,max=65535"`
	MaxConnections int    `yaml:"max_connections" json:"max_connections" validate:"min=1"`
	// Timeout is the per-connection deadline (e.g. "30s").
	Timeout string `yaml:"timeout" json:"timeout"`
}

var structValidator = validator.New()

// NewConfig creates a new Config with defaults.
func NewConfig() *Config {
	return &Config{
		System: SystemConfig{
			MaxWorkers: runtime.NumCPU(),
			Patterns:   []string{"*.log"},
		},
		Validation: ValidationConfig{
			RequiredColumns: append([]string(nil), validate.DefaultRequiredColumns...),
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxLogSize: 10 * 1024 * 1024,
			MaxFiles:   3,
		},
		Network: NetworkConfig{
			Host:           "127.0.0.1",
			Port:           9400,
			MaxConnections: 16,
			Timeout:        "30s",
		},
	}
}

// GetUserConfigPath returns the path to the user configuration file.
// It follows XDG Base Directory specification:
//   - $XDG_CONFIG_HOME/logvet/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/logvet/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "logvet", DefaultFileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "logvet", DefaultFileName)
	}
	return filepath.Join(home, ".config", "logvet", DefaultFileName)
}

// Load loads configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. The config file: path if given, otherwise ./config.yaml, otherwise
//     the user config file
//  3. Environment variables (LOGVET_*)
//
// An explicit path that does not exist is an error; a missing default file is not.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	file, err := resolveFile(path)
	if err != nil {
		return nil, err
	}
	if file != "" {
		if err := cfg.loadYAML(file); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveFile picks the configuration file to read, or "" for defaults only.
func resolveFile(path string) (string, error) {
	if path != "" {
		if !fileExists(path) {
			return "", vetErrors.New(vetErrors.ErrCodeConfigNotFound,
				fmt.Sprintf("config file not found: %s", path), nil).
				WithSuggestion("Run 'logvet config init' to create one")
		}
		return path, nil
	}
	if fileExists(DefaultFileName) {
		return DefaultFileName, nil
	}
	if user := GetUserConfigPath(); fileExists(user) {
		return user, nil
	}
	return "", nil
}

// loadYAML decodes a YAML file over the current values.
// Keys absent from the file keep their defaults.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		code := vetErrors.ErrCodeConfigNotFound
		if os.IsPermission(err) {
			code = vetErrors.ErrCodeConfigPermission
		}
		return vetErrors.New(code, fmt.Sprintf("failed to read config file %s", path), err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return vetErrors.ConfigError(fmt.Sprintf("failed to parse config file %s", path), err)
	}
	return nil
}

// applyEnvOverrides applies LOGVET_* environment variable overrides.
// Unparseable numeric values are ignored.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LOGVET_MAX_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.System.MaxWorkers = n
		}
	}
	if v := os.Getenv("LOGVET_LOG_DIRECTORY"); v != "" {
		c.System.LogDirectory = v
	}
	if v := os.Getenv("LOGVET_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LOGVET_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("LOGVET_HOST"); v != "" {
		c.Network.Host = v
	}
	if v := os.Getenv("LOGVET_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Network.Port = n
		}
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		return vetErrors.ConfigError(fmt.Sprintf("invalid configuration: %v", err), err)
	}

	for _, p := range c.System.Patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return vetErrors.ConfigError(fmt.Sprintf("system.patterns: bad pattern %q", p), err)
		}
	}

	if _, err := c.NetworkTimeout(); err != nil {
		return vetErrors.ConfigError(fmt.Sprintf("network.timeout: %v", err), err)
	}

	return nil
}

// RequireLogDirectory returns an error unless system.log_directory is set.
// Commands that scan a directory call it; single-file commands do not.
func (c *Config) RequireLogDirectory() error {
	if strings.TrimSpace(c.System.LogDirectory) == "" {
		return vetErrors.ConfigError("system.log_directory is required", nil).
			WithSuggestion("Set system.log_directory in config.yaml or LOGVET_LOG_DIRECTORY")
	}
	return nil
}

// Workers returns the effective worker count: MaxWorkers, or host
// parallelism when MaxWorkers is zero.
func (c *Config) Workers() int {
	if c.System.MaxWorkers > 0 {
		return c.System.MaxWorkers
	}
	return runtime.NumCPU()
}

// NetworkTimeout parses network.timeout. An empty value means 30s.
func (c *Config) NetworkTimeout() (time.Duration, error) {
	if c.Network.Timeout == "" {
		return 30 * time.Second, nil
	}
	d, err := time.ParseDuration(c.Network.Timeout)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", c.Network.Timeout)
	}
	return d, nil
}

// Address returns host:port for the task server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Network.Host, c.Network.Port)
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
