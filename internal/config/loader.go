package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "INBOX"

// configKeys lists every key that can be set from a file, env var, or flag.
var configKeys = []string{
	"endpoint",
	"token",
	"user_id",
	"poll_interval_ms",
	"request_timeout",
	"stale_policy",
	"file",
	"logging.level",
	"logging.format",
	"logging.file",
	"tui.theme",
	"tui.session_file",
	"metrics.addr",
}

// Loader handles configuration loading with Viper.
type Loader struct {
	v          *viper.Viper
	configFile string
	envFiles   []string
	flags      map[string]*pflag.Flag
}

// NewLoader creates a new configuration loader. It reads ./.env by default.
func NewLoader() *Loader {
	return &Loader{
		v:        viper.New(),
		envFiles: []string{".env"},
		flags:    make(map[string]*pflag.Flag),
	}
}

// SetConfigFile sets an explicit config file path.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = path
}

// SetEnvFiles replaces the dotenv files read before env lookup.
func (l *Loader) SetEnvFiles(paths ...string) {
	l.envFiles = append([]string(nil), paths...)
}

// BindFlag makes a command-line flag the highest-precedence source for key.
// Unchanged flags never override lower layers.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	l.flags[key] = flag
}

// Load loads configuration with proper precedence:
// defaults < config file < env vars (.env included) < CLI flags
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if err := l.loadEnvFiles(); err != nil {
		return nil, err
	}

	if err := l.setupViper(cfg); err != nil {
		return nil, err
	}

	if err := l.loadConfigFile(); err != nil {
		// Config file is optional, only error if explicitly specified
		if l.configFile != "" {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Unmarshal misses env values on nested keys once a file is present.
	l.applyOverrides(cfg)

	expandPaths(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (l *Loader) loadEnvFiles() error {
	for _, path := range l.envFiles {
		if strings.TrimSpace(path) == "" {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// setupViper configures Viper with defaults, env bindings and flags.
func (l *Loader) setupViper(cfg *Config) error {
	v := l.v

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(defaultConfigDir())
	v.AddConfigPath(".")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	l.setDefaults(cfg)
	bindEnvVars(v)
	v.AutomaticEnv()

	for key, flag := range l.flags {
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag.Name, err)
		}
	}
	return nil
}

// setDefaults sets all default values in Viper.
func (l *Loader) setDefaults(cfg *Config) {
	v := l.v

	v.SetDefault("endpoint", cfg.Endpoint)
	v.SetDefault("token", cfg.Token)
	v.SetDefault("user_id", cfg.UserID)
	v.SetDefault("poll_interval_ms", cfg.PollIntervalMs)
	v.SetDefault("request_timeout", cfg.RequestTimeout)
	v.SetDefault("stale_policy", cfg.StalePolicy)
	v.SetDefault("file", cfg.File)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.file", cfg.Logging.File)

	v.SetDefault("tui.theme", cfg.TUI.Theme)
	v.SetDefault("tui.session_file", cfg.TUI.SessionFile)

	v.SetDefault("metrics.addr", cfg.Metrics.Addr)
}

// loadConfigFile attempts to load the configuration file.
func (l *Loader) loadConfigFile() error {
	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// ConfigFileUsed returns the config file that was loaded.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// bindEnvVars binds INBOX_* variables, e.g. logging.level -> INBOX_LOGGING_LEVEL.
func bindEnvVars(v *viper.Viper) {
	for _, key := range configKeys {
		envVar := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, envVar)
	}
}

func (l *Loader) applyOverrides(cfg *Config) {
	v := l.v

	cfg.Endpoint = v.GetString("endpoint")
	cfg.Token = v.GetString("token")
	cfg.UserID = v.GetString("user_id")
	cfg.PollIntervalMs = v.GetInt("poll_interval_ms")
	cfg.RequestTimeout = v.GetDuration("request_timeout")
	cfg.StalePolicy = v.GetString("stale_policy")
	cfg.File = v.GetString("file")

	cfg.Logging.Level = v.GetString("logging.level")
	cfg.Logging.Format = v.GetString("logging.format")
	cfg.Logging.File = v.GetString("logging.file")

	cfg.TUI.Theme = v.GetString("tui.theme")
	cfg.TUI.SessionFile = v.GetString("tui.session_file")

	cfg.Metrics.Addr = v.GetString("metrics.addr")
}

// expandTilde expands ~ to the user's home directory.
func expandTilde(path string) string {
	if path == "" {
		return path
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// expandPaths expands ~ in all path-related config fields.
func expandPaths(cfg *Config) {
	cfg.File = expandTilde(cfg.File)
	cfg.Logging.File = expandTilde(cfg.Logging.File)
	cfg.TUI.SessionFile = expandTilde(cfg.TUI.SessionFile)
}
