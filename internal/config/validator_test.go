package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{Field: "api.timeout", Value: -1, Message: "must be non-negative"}
	want := "api.timeout: must be non-negative (got: -1)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	if got := ValidationErrors(nil).Error(); got != "" {
		t.Errorf("empty Error() = %q", got)
	}

	errs := ValidationErrors{
		{Field: "a", Value: 1, Message: "bad"},
		{Field: "b", Value: 2, Message: "worse"},
	}
	got := errs.Error()
	if !strings.HasPrefix(got, "2 validation errors:") {
		t.Errorf("Error() = %q", got)
	}
	if !strings.Contains(got, "1. a: bad") || !strings.Contains(got, "2. b: worse") {
		t.Errorf("Error() missing entries: %q", got)
	}
}

func fieldsOf(errs []ValidationError) map[string]bool {
	out := make(map[string]bool, len(errs))
	for _, e := range errs {
		out[e.Field] = true
	}
	return out
}

func TestConfig_Validate_API(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		timeout time.Duration
		invalid []string
	}{
		{"default", "http://localhost:8000/api/v1", 0, nil},
		{"https", "https://tasks.example.test/api/v1", time.Second, nil},
		{"empty", "", 0, []string{"api.base_url"}},
		{"no scheme", "localhost:8000/api/v1", 0, []string{"api.base_url"}},
		{"ftp", "ftp://example.test", 0, []string{"api.base_url"}},
		{"relative", "/api/v1", 0, []string{"api.base_url"}},
		{"negative timeout", "http://x.test", -time.Second, []string{"api.timeout"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.API.BaseURL = tt.baseURL
			cfg.API.Timeout = tt.timeout

			got := fieldsOf(cfg.Validate())
			if len(got) != len(tt.invalid) {
				t.Errorf("invalid fields = %v, want %v", got, tt.invalid)
			}
			for _, f := range tt.invalid {
				if !got[f] {
					t.Errorf("expected error for %s", f)
				}
			}
		})
	}
}

func TestConfig_Validate_App(t *testing.T) {
	for _, env := range ValidEnvironments() {
		cfg := Default()
		cfg.App.Environment = env
		if fieldsOf(cfg.Validate())["app.environment"] {
			t.Errorf("environment %q should be valid", env)
		}
	}

	cfg := Default()
	cfg.App.Environment = "staging"
	if !fieldsOf(cfg.Validate())["app.environment"] {
		t.Error("expected error for unknown environment")
	}
}

func TestConfig_Validate_TUI(t *testing.T) {
	cfg := Default()
	cfg.TUI.Theme = "  "
	if !fieldsOf(cfg.Validate())["tui.theme"] {
		t.Error("expected error for blank theme")
	}
}

func TestConfig_Validate_Logging(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", ""} {
			cfg := Default()
			cfg.Logging.Level = level
			if fieldsOf(cfg.Validate())["logging.level"] {
				t.Errorf("level %q should be valid", level)
			}
		}
	})

	t.Run("invalid log level", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.Level = "verbose"
		if !fieldsOf(cfg.Validate())["logging.level"] {
			t.Error("expected error for invalid log level")
		}
	})

	t.Run("size bounds", func(t *testing.T) {
		for _, size := range []int{0, -1, 501} {
			cfg := Default()
			cfg.Logging.MaxSizeMB = size
			if !fieldsOf(cfg.Validate())["logging.max_size_mb"] {
				t.Errorf("expected error for max_size_mb=%d", size)
			}
		}
	})

	t.Run("negative backups", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.MaxBackups = -1
		if !fieldsOf(cfg.Validate())["logging.max_backups"] {
			t.Error("expected error for negative max_backups")
		}
	})
}
