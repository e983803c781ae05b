package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// TASKDESK_API_BASE_URL for api.base_url.
const EnvPrefix = "TASKDESK"

// Environment names for app.environment.
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// Config represents the complete taskdesk configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	App     AppConfig     `mapstructure:"app"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig controls how the task API is reached
type APIConfig struct {
	// BaseURL is the API root including the version prefix
	BaseURL string `mapstructure:"base_url"`
	// Timeout bounds each request. Zero disables the per-request timeout.
	Timeout time.Duration `mapstructure:"timeout"`
}

// AppConfig holds application-wide settings
type AppConfig struct {
	// Environment is "production" or "development". Development shows
	// panic details in the error screen.
	Environment string `mapstructure:"environment"`
}

// IsDevelopment reports whether the app runs in development mode.
func (a AppConfig) IsDevelopment() bool {
	return a.Environment == EnvDevelopment
}

// TUIConfig controls the terminal UI
type TUIConfig struct {
	// Theme is a built-in or custom theme name (default: "default")
	Theme string `mapstructure:"theme"`
	// ShowIDs adds a task id column to the table
	ShowIDs bool `mapstructure:"show_ids"`
}

// LoggingConfig controls file logging
type LoggingConfig struct {
	// Enabled controls whether logs are written (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is "debug", "info", "warn" or "error" (default: "info")
	Level string `mapstructure:"level"`
	// MaxSizeMB is the log size that triggers rotation (default: 5)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is how many rotated files are kept (default: 2)
	MaxBackups int `mapstructure:"max_backups"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000/api/v1",
			Timeout: 0,
		},
		App: AppConfig{
			Environment: EnvProduction,
		},
		TUI: TUIConfig{
			Theme:   "default",
			ShowIDs: false,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 2,
		},
	}
}

// SetDefaults registers the defaults with the global viper instance
func SetDefaults() {
	SetDefaultsOn(viper.GetViper())
}

// SetDefaultsOn registers the defaults with v
func SetDefaultsOn(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("api.base_url", defaults.API.BaseURL)
	v.SetDefault("api.timeout", defaults.API.Timeout)

	v.SetDefault("app.environment", defaults.App.Environment)

	v.SetDefault("tui.theme", defaults.TUI.Theme)
	v.SetDefault("tui.show_ids", defaults.TUI.ShowIDs)

	v.SetDefault("logging.enabled", defaults.Logging.Enabled)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

// Keys returns every known configuration key.
func Keys() []string {
	return []string{
		"api.base_url",
		"api.timeout",
		"app.environment",
		"tui.theme",
		"tui.show_ids",
		"logging.enabled",
		"logging.level",
		"logging.max_size_mb",
		"logging.max_backups",
	}
}

var envReplacer = strings.NewReplacer(".", "_")

// Configure prepares v the way every command expects: defaults, the config
// file (cfgFile when set, otherwise config.yaml in ConfigDir or the working
// directory) and TASKDESK_* environment overrides. A missing config file is
// not an error.
func Configure(v *viper.Viper, cfgFile string) error {
	SetDefaultsOn(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	// api.base_url is read from TASKDESK_API_BASE_URL
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// Load reads the configuration from the global viper into a Config and validates it
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates the configuration held by v
func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults when it
// cannot be loaded
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskdesk")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskdesk"
	}
	return filepath.Join(home, ".config", "taskdesk")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// StateDir returns the directory for logs and other runtime state
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskdesk")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "taskdesk")
	}
	return filepath.Join(home, ".local", "state", "taskdesk")
}

// LogFile returns the path of the log file
func LogFile() string {
	return filepath.Join(StateDir(), "taskdesk.log")
}
