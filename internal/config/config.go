// Package config loads and persists actioncore configuration.
// Configuration lives at .actioncore/config.json in the workspace; missing
// files fall back to defaults so the CLI works with zero setup.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds all actioncore configuration.
type Config struct {
	// Logging configuration. The logging package reads this same section
	// directly from disk at initialization.
	Logging LoggingConfig `json:"logging"`

	// Executor boundary settings.
	Executor ExecutorConfig `json:"executor"`

	// Conversation memory settings.
	Memory MemoryConfig `json:"memory"`
}

// LoggingConfig configures the categorized file logger.
type LoggingConfig struct {
	DebugMode  bool            `json:"debug_mode"`
	Categories map[string]bool `json:"categories,omitempty"`
	Level      string          `json:"level"` // debug, info, warn, error
	JSONFormat bool            `json:"json_format"`
}

// ExecutorConfig configures tool dispatch.
type ExecutorConfig struct {
	// Timeout bounds a single tool call. Empty or "0" disables the bound.
	Timeout string `json:"timeout"`
}

// MemoryConfig configures conversation persistence.
type MemoryConfig struct {
	// DatabasePath is the SQLite file for conversation runs, relative to
	// the workspace unless absolute.
	DatabasePath string `json:"database_path"`

	// LastRuns caps how many prior runs are rendered into prompt context.
	LastRuns int `json:"last_runs"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
		Executor: ExecutorConfig{
			Timeout: "30s",
		},
		Memory: MemoryConfig{
			DatabasePath: filepath.Join(".actioncore", "conversation.db"),
			LastRuns:     10,
		},
	}
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	return filepath.Join(workspace, ".actioncore", "config.json")
}

// Load reads the workspace configuration, falling back to defaults when the
// file does not exist.
func Load(workspace string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to the workspace config file.
func (c *Config) Save(workspace string) error {
	path := Path(workspace)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ACTIONCORE_DEBUG"); v == "1" || v == "true" {
		c.Logging.DebugMode = true
		c.Logging.Level = "debug"
	}
	if v := os.Getenv("ACTIONCORE_TIMEOUT"); v != "" {
		c.Executor.Timeout = v
	}
	if v := os.Getenv("ACTIONCORE_DB"); v != "" {
		c.Memory.DatabasePath = v
	}
}

// GetExecutorTimeout returns the executor timeout as a duration.
// Unparseable values fall back to the 30 second default.
func (c *Config) GetExecutorTimeout() time.Duration {
	if c.Executor.Timeout == "" || c.Executor.Timeout == "0" {
		return 0
	}
	d, err := time.ParseDuration(c.Executor.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// DatabasePath resolves the conversation database path against the workspace.
func (c *Config) DatabasePath(workspace string) string {
	if filepath.IsAbs(c.Memory.DatabasePath) {
		return c.Memory.DatabasePath
	}
	return filepath.Join(workspace, c.Memory.DatabasePath)
}
