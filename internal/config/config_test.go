package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.API.BaseURL != "http://localhost:8000/api/v1" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 0 {
		t.Errorf("API.Timeout = %v, want 0", cfg.API.Timeout)
	}
	if cfg.App.Environment != EnvProduction || cfg.App.IsDevelopment() {
		t.Errorf("App.Environment = %q", cfg.App.Environment)
	}
	if cfg.TUI.Theme != "default" {
		t.Errorf("TUI.Theme = %q", cfg.TUI.Theme)
	}
	if !cfg.Logging.Enabled || cfg.Logging.Level != "info" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("default config should validate, got %v", errs)
	}
}

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	if err := Configure(v, filepath.Join(t.TempDir(), "none.yaml")); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	return v
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "api:\n  base_url: https://tasks.example.test/api/v1\n  timeout: 5s\ntui:\n  show_ids: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TASKDESK_APP_ENVIRONMENT", "development")

	v := newViper(t)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}

	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.API.BaseURL != "https://tasks.example.test/api/v1" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", cfg.API.Timeout)
	}
	if !cfg.TUI.ShowIDs {
		t.Error("ShowIDs should come from the file")
	}
	if !cfg.App.IsDevelopment() {
		t.Errorf("Environment = %q, want env override", cfg.App.Environment)
	}
	if cfg.Logging.MaxBackups != 2 {
		t.Errorf("MaxBackups = %d, want default", cfg.Logging.MaxBackups)
	}
}

func TestLoadFromInvalid(t *testing.T) {
	v := newViper(t)
	v.Set("api.base_url", "localhost:8000")
	v.Set("app.environment", "staging")

	_, err := LoadFrom(v)
	errs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T (%v)", err, err)
	}
	if len(errs) != 2 {
		t.Errorf("got %d errors, want 2: %v", len(errs), errs)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "TASKDESK_API_BASE_URL=http://dotenv.test/api/v1\nTASKDESK_TUI_THEME=nord\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TASKDESK_TUI_THEME", "dracula")
	t.Setenv("TASKDESK_API_BASE_URL", "")
	_ = os.Unsetenv("TASKDESK_API_BASE_URL")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("TASKDESK_API_BASE_URL"); got != "http://dotenv.test/api/v1" {
		t.Errorf("TASKDESK_API_BASE_URL = %q", got)
	}
	if got := os.Getenv("TASKDESK_TUI_THEME"); got != "dracula" {
		t.Errorf("real env var was overridden: %q", got)
	}

	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing file should be ignored, got %v", err)
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		if got := ConfigDir(); got != "/custom/config/taskdesk" {
			t.Errorf("ConfigDir() = %q", got)
		}
		if got := ConfigFile(); got != "/custom/config/taskdesk/config.yaml" {
			t.Errorf("ConfigFile() = %q", got)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, _ := os.UserHomeDir()
		if got := ConfigDir(); got != filepath.Join(home, ".config", "taskdesk") {
			t.Errorf("ConfigDir() = %q", got)
		}
	})
}

func TestLogFile(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/custom/state")
	if got := LogFile(); got != "/custom/state/taskdesk/taskdesk.log" {
		t.Errorf("LogFile() = %q", got)
	}
}

func TestKeysHaveDefaults(t *testing.T) {
	v := viper.New()
	SetDefaultsOn(v)
	for _, k := range Keys() {
		if v.Get(k) == nil {
			t.Errorf("key %s has no default", k)
		}
	}
}

func TestWatchWithoutFile(t *testing.T) {
	if Watch(viper.New(), func(*Config, error) {}) {
		t.Error("Watch should report false without a config file")
	}
}
