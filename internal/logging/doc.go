// Package logging provides structured logging for taskdesk.
//
// Logs are JSON lines written through log/slog to a size-rotated file under
// the user's state directory. The terminal UI owns the screen, so nothing in
// this package writes to stdout or stderr once a file logger is open.
//
// # Usage
//
//	logger, err := logging.NewLogger(path, "INFO", logging.DefaultRotationConfig())
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	log := logger.WithComponent("api")
//	log.Info("request finished", "method", "GET", "status", 200)
//
// Child loggers created with [Logger.With], [Logger.WithComponent] and
// [Logger.WithTask] share the underlying writer and are safe for concurrent
// use.
//
// # Reading logs
//
// [ReadEntries] parses a log file back into [Entry] values and
// [Filter.Apply] narrows them by level, time, component or message pattern.
// The logs command uses these to show recent activity.
package logging
