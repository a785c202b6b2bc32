// Package config handles inbox configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/poller"
	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/styles"
)

// Config is the root configuration structure for inbox.
type Config struct {
	// Endpoint is the backend conversations URL.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`

	// Token is sent as a bearer token when set.
	Token string `yaml:"token" mapstructure:"token"`

	// UserID is the viewing user; the counterpart is derived relative to it.
	UserID string `yaml:"user_id" mapstructure:"user_id"`

	// PollIntervalMs trades refresh latency against request volume.
	PollIntervalMs int `yaml:"poll_interval_ms" mapstructure:"poll_interval_ms"`

	// RequestTimeout bounds a single fetch. Zero leaves it to the transport.
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`

	// StalePolicy is discard-stale or last-write-wins.
	StalePolicy string `yaml:"stale_policy" mapstructure:"stale_policy"`

	// File reads snapshots from disk instead of Endpoint.
	File string `yaml:"file" mapstructure:"file"`

	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	TUI     TUIConfig     `yaml:"tui" mapstructure:"tui"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level" mapstructure:"level"`

	// Format is the output format (json, console).
	Format string `yaml:"format" mapstructure:"format"`

	// File is an optional log file path. The TUI logs nowhere without one.
	File string `yaml:"file" mapstructure:"file"`
}

// TUIConfig contains TUI settings.
type TUIConfig struct {
	// Theme is the color theme (default, high-contrast).
	Theme string `yaml:"theme" mapstructure:"theme"`

	// SessionFile remembers the open conversation and search between runs.
	SessionFile string `yaml:"session_file" mapstructure:"session_file"`
}

// MetricsConfig contains the Prometheus listener settings.
type MetricsConfig struct {
	// Addr serves /metrics when set, e.g. "127.0.0.1:9464".
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		PollIntervalMs: int(poller.DefaultInterval / time.Millisecond),
		StalePolicy:    string(poller.DiscardStale),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		TUI: TUIConfig{
			Theme:       "default",
			SessionFile: filepath.Join(defaultConfigDir(), "session.yaml"),
		},
	}
}

func defaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "inbox")
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "inbox")
}

// PollInterval returns the configured interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// Policy returns the parsed stale policy. Validate has already rejected bad values.
func (c *Config) Policy() poller.StalePolicy {
	policy, err := poller.ParseStalePolicy(c.StalePolicy)
	if err != nil {
		return poller.DiscardStale
	}
	return policy
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.PollInterval() < poller.MinInterval {
		return fmt.Errorf("poll_interval_ms must be at least %d", poller.MinInterval/time.Millisecond)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	if _, err := poller.ParseStalePolicy(c.StalePolicy); err != nil {
		return fmt.Errorf("stale_policy: %w", err)
	}
	if _, err := styles.ThemeByName(c.TUI.Theme); err != nil {
		return fmt.Errorf("tui.theme: %w", err)
	}
	if strings.TrimSpace(c.Endpoint) == "" && strings.TrimSpace(c.File) == "" {
		return fmt.Errorf("endpoint or file is required")
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json")
	}
	return nil
}
