package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Log levels accepted by the logger and the logging.level config key.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// Logger is a structured JSON logger with persistent attributes.
// It is safe for concurrent use.
type Logger struct {
	logger *slog.Logger
	out    *RotatingWriter
	mu     *sync.Mutex
	attrs  []any
}

// NewLogger opens path through a RotatingWriter and returns a logger that
// writes JSON lines at or above level. Unknown levels fall back to INFO.
func NewLogger(path, level string, rotation RotationConfig) (*Logger, error) {
	rw, err := NewRotatingWriter(path, rotation)
	if err != nil {
		return nil, err
	}
	l := newLogger(rw, level)
	l.out = rw
	return l, nil
}

// NewWriterLogger returns a logger that writes to w. Close is a no-op.
func NewWriterLogger(w io.Writer, level string) *Logger {
	return newLogger(w, level)
}

func newLogger(w io.Writer, level string) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slogLevel(level)})
	return &Logger{
		logger: slog.New(handler),
		mu:     &sync.Mutex{},
	}
}

func slogLevel(level string) slog.Level {
	switch ParseLevel(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a child logger that adds the given key-value pairs to every
// entry. Non-string keys are skipped.
func (l *Logger) With(args ...any) *Logger {
	if len(args) < 2 {
		return l
	}
	attrs := make([]any, 0, len(l.attrs)+len(args))
	attrs = append(attrs, l.attrs...)
	for i := 0; i+1 < len(args); i += 2 {
		if _, ok := args[i].(string); !ok {
			continue
		}
		attrs = append(attrs, args[i], args[i+1])
	}
	return &Logger{logger: l.logger, out: l.out, mu: l.mu, attrs: attrs}
}

// WithComponent tags entries with the emitting component, e.g. "api" or "tui".
func (l *Logger) WithComponent(name string) *Logger {
	return l.With("component", name)
}

// WithTask tags entries with a task id.
func (l *Logger) WithTask(id int) *Logger {
	return l.With("task_id", id)
}

// Debug logs at DEBUG level.
func (l *Logger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args) }

// Info logs at INFO level.
func (l *Logger) Info(msg string, args ...any) { l.log(slog.LevelInfo, msg, args) }

// Warn logs at WARN level.
func (l *Logger) Warn(msg string, args ...any) { l.log(slog.LevelWarn, msg, args) }

// Error logs at ERROR level.
func (l *Logger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args) }

func (l *Logger) log(level slog.Level, msg string, args []any) {
	if len(l.attrs) == 0 {
		l.logger.Log(context.Background(), level, msg, args...)
		return
	}
	all := make([]any, 0, len(l.attrs)+len(args))
	all = append(all, l.attrs...)
	all = append(all, args...)
	l.logger.Log(context.Background(), level, msg, all...)
}

// Path returns the log file path, or "" for writer-backed loggers.
func (l *Logger) Path() string {
	if l.out == nil {
		return ""
	}
	return l.out.FilePath()
}

// Close closes the underlying file. Child loggers share the file, so only
// the root logger should be closed.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.out == nil {
		return nil
	}
	return l.out.Close()
}

// NopLogger returns a logger that discards everything.
func NopLogger() *Logger {
	return newLogger(io.Discard, LevelError)
}

// ParseLevel normalises a level name. Unknown names map to LevelInfo.
func ParseLevel(level string) string {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case LevelDebug:
		return LevelDebug
	case LevelWarn, "WARNING":
		return LevelWarn
	case LevelError:
		return LevelError
	default:
		return LevelInfo
	}
}

// ValidLevels returns the accepted level names, lowest first.
func ValidLevels() []string {
	return []string{LevelDebug, LevelInfo, LevelWarn, LevelError}
}

// levelRank orders levels for filtering; unknown levels rank as -1.
func levelRank(level string) int {
	for i, l := range ValidLevels() {
		if strings.EqualFold(l, level) {
			return i
		}
	}
	return -1
}
