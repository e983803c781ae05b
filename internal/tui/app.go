package tui

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/taskdesk/internal/config"
	"github.com/Iron-Ham/taskdesk/internal/logging"
)

// App wraps the Bubbletea program
type App struct {
	svc    TaskService
	cfg    *config.Config
	logger *logging.Logger

	mu      sync.Mutex
	program *tea.Program
}

// New creates a new TUI application
func New(svc TaskService, cfg *config.Config, logger *logging.Logger) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &App{svc: svc, cfg: cfg, logger: logger}
}

// Run starts the TUI and blocks until the user quits or ctx is canceled.
// In-flight requests are canceled on return.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewModel(ctx, a.svc, Options{
		ShowIDs: a.cfg.TUI.ShowIDs,
		Logger:  a.logger,
	})

	program := tea.NewProgram(
		newBoundary(model, a.cfg.App.IsDevelopment(), a.logger),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	a.mu.Lock()
	a.program = program
	a.mu.Unlock()

	// Quit cleanly on termination signals so the terminal is restored
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		select {
		case <-sigChan:
			program.Send(tea.Quit())
		case <-ctx.Done():
		}
	}()
	defer signal.Stop(sigChan)

	a.logger.Info("tui started", "base_url", a.cfg.API.BaseURL)
	_, err := program.Run()

	a.mu.Lock()
	a.program = nil
	a.mu.Unlock()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// ApplyConfig forwards a reloaded configuration to the running program.
// It matches the callback signature of config.Watch.
func (a *App) ApplyConfig(cfg *config.Config, err error) {
	a.mu.Lock()
	program := a.program
	a.mu.Unlock()
	if program == nil {
		return
	}

	if err != nil {
		a.logger.Warn("config reload rejected", "error", err)
		program.Send(configErrorMsg{err: err})
		return
	}
	a.logger.Info("config reloaded", "theme", cfg.TUI.Theme)
	program.Send(themeChangedMsg{theme: cfg.TUI.Theme})
}
