package cmd

import (
	"fmt"
	"os"

	"github.com/Iron-Ham/taskdesk/internal/api"
	"github.com/Iron-Ham/taskdesk/internal/config"
	"github.com/Iron-Ham/taskdesk/internal/errors"
	"github.com/Iron-Ham/taskdesk/internal/logging"
	"github.com/Iron-Ham/taskdesk/internal/tui/styles"
)

// runtime is what every API command needs: the validated configuration, a
// logger and a client.
type runtime struct {
	cfg    *config.Config
	logger *logging.Logger
	client *api.Client
}

func newRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrapf(err, "invalid configuration")
	}

	logger := openLogger(cfg)
	applyTheme(cfg, logger)

	client := api.NewClient(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(logger.WithComponent("api")),
	)
	return &runtime{cfg: cfg, logger: logger, client: client}, nil
}

// Close flushes and closes the log file.
func (r *runtime) Close() {
	_ = r.logger.Close()
}

// openLogger returns the file logger, or a no-op logger when logging is
// disabled or the log file cannot be opened.
func openLogger(cfg *config.Config) *logging.Logger {
	if !cfg.Logging.Enabled {
		return logging.NopLogger()
	}
	logger, err := logging.NewLogger(config.LogFile(), cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		return logging.NopLogger()
	}
	return logger
}

// applyTheme registers custom themes and activates the configured one.
func applyTheme(cfg *config.Config, logger *logging.Logger) {
	log := logger.WithComponent("theme")

	loaded, errs := styles.DiscoverCustomThemes()
	for _, err := range errs {
		log.Warn("custom theme skipped", "error", err)
	}
	if len(loaded) > 0 {
		log.Debug("custom themes loaded", "themes", loaded)
	}

	if !styles.IsValidTheme(cfg.TUI.Theme) {
		log.Warn("unknown theme, using default", "theme", cfg.TUI.Theme)
	}
	styles.SetActiveTheme(styles.ThemeName(cfg.TUI.Theme))
}
