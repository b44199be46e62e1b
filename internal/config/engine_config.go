/**
 * CONTEXT:   Process-level configuration for the scheduler CLI and HTTP surface
 * INPUT:     Configuration files, environment variables, and default settings
 * OUTPUT:    Validated EngineConfig with all operational parameters
 * BUSINESS:  Centralized configuration management for scheduler startup; the
 *            engine itself stays config-free (domain.ScoringConfig is loaded
 *            separately and passed straight into scheduling.NewEngine)
 * CHANGE:    Replaced the daemon/work-tracking configuration surface with the
 *            scheduling engine's own: server, audit store, logging, the scoring
 *            config path, and the range scheduler's default caps
 * RISK:      Low - Configuration management with comprehensive validation and defaults
 */

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// EngineConfig holds every process-level setting the CLI and HTTP surface
// need beyond domain.ScoringConfig, which is loaded and passed separately.
// Config is read once at process start and is immutable thereafter.
type EngineConfig struct {
	Server  ServerConfig  `json:"server"`
	Store   StoreConfig   `json:"store"`
	Logging LoggingConfig `json:"logging"`

	// ScoringConfigPath points at the JSON file domain.LoadScoringConfig reads.
	// Empty means "use domain.DefaultScoringConfig()".
	ScoringConfigPath string `json:"scoring_config_path"`

	// WeeklyLimit and MaxSameTaskType are the range scheduler's default caps:
	// the run command always uses them, and the HTTP surface uses them when a
	// request leaves its own caps unset.
	WeeklyLimit     int `json:"weekly_limit"`
	MaxSameTaskType int `json:"max_same_task_type"`
}

type ServerConfig struct {
	ListenAddr      string        `json:"listen_addr"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

// StoreConfig configures the optional audit store a completed run is
// persisted to. Path empty means "do not persist."
type StoreConfig struct {
	Path string `json:"path"`
}

type LoggingConfig struct {
	Level string `json:"level"`
}

// NewDefaultConfig returns sensible defaults for standalone CLI/HTTP use.
func NewDefaultConfig() *EngineConfig {
	return &EngineConfig{
		Server: ServerConfig{
			ListenAddr:      DefaultListenAddr,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Store: StoreConfig{
			Path: "",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		WeeklyLimit:     2,
		MaxSameTaskType: 2,
	}
}

// LoadEngineConfig reads JSON overrides from configPath on top of the
// defaults. A missing file is not an error: the defaults are returned
// unchanged, matching domain.LoadScoringConfig's behavior.
func LoadEngineConfig(configPath string) (*EngineConfig, error) {
	cfg := NewDefaultConfig()
	if configPath == "" {
		return cfg, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", configPath, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for internal consistency.
func (c *EngineConfig) Validate() error {
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive, got %v", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive, got %v", c.Server.WriteTimeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server shutdown timeout must be positive, got %v", c.Server.ShutdownTimeout)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level %s, must be one of: debug, info, warn, error", c.Logging.Level)
	}

	if c.WeeklyLimit <= 0 {
		return fmt.Errorf("weekly limit must be positive, got %d", c.WeeklyLimit)
	}
	if c.MaxSameTaskType <= 0 {
		return fmt.Errorf("max same task type must be positive, got %d", c.MaxSameTaskType)
	}

	if c.Store.Path != "" {
		dir := filepath.Dir(c.Store.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create store directory %s: %w", dir, err)
		}
	}

	return nil
}

// SaveToFile persists the configuration as JSON, for operators to capture a
// working setup.
func (c *EngineConfig) SaveToFile(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", configPath, err)
	}

	return nil
}
