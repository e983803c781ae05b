package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/taskdesk/internal/config"
	"github.com/Iron-Ham/taskdesk/internal/errors"
	"github.com/Iron-Ham/taskdesk/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View the taskdesk log",
	Long: `View and filter the taskdesk log file.

Examples:
  # Show the last 50 entries
  taskdesk logs

  # Show everything from the API client in the last hour
  taskdesk logs -n 0 --component api --since 1h

  # Follow new entries as they are written
  taskdesk logs -f --level warn

  # Search messages
  taskdesk logs --grep "failed|error"`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

var (
	logsTail      int
	logsFollow    bool
	logsLevel     string
	logsSince     time.Duration
	logsGrep      string
	logsComponent string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of entries to show (0 for all)")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output (like tail -f)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().DurationVar(&logsSince, "since", 0, "Show entries newer than this (e.g. 1h, 30m)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Filter messages matching pattern (regex)")
	logsCmd.Flags().StringVar(&logsComponent, "component", "", "Filter by component (api, tui, theme)")
}

func logsFilter() (logging.Filter, error) {
	f := logging.Filter{
		Level:     logsLevel,
		Component: logsComponent,
		Tail:      logsTail,
	}
	if logsLevel != "" && !validLevel(logsLevel) {
		return f, errors.Wrapf(errors.ErrInvalidInput, "unknown level %q (valid: debug, info, warn, error)", logsLevel)
	}
	if logsSince > 0 {
		f.Since = time.Now().Add(-logsSince)
	}
	if logsGrep != "" {
		re, err := regexp.Compile(logsGrep)
		if err != nil {
			return f, errors.Wrapf(errors.ErrInvalidInput, "invalid --grep pattern: %v", err)
		}
		f.Pattern = re
	}
	return f, nil
}

func validLevel(level string) bool {
	upper := strings.ToUpper(level)
	for _, l := range logging.ValidLevels() {
		if l == upper {
			return true
		}
	}
	return upper == "WARNING"
}

func runLogs(cmd *cobra.Command, _ []string) error {
	filter, err := logsFilter()
	if err != nil {
		return err
	}

	path := config.LogFile()
	out := cmd.OutOrStdout()

	if logsFollow {
		return followLogs(cmd.Context(), out, path, filter)
	}

	entries, err := logging.ReadEntries(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			_, err := fmt.Fprintf(out, "No log file at %s\n", path)
			return err
		}
		return err
	}

	for _, e := range filter.Apply(entries) {
		fmt.Fprintln(out, e.Format())
	}
	return nil
}

// followLogs prints entries appended to path until ctx is done. The tail
// filter does not apply to followed entries.
func followLogs(ctx context.Context, out io.Writer, path string, filter logging.Filter) error {
	if ctx == nil {
		ctx = context.Background()
	}
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to watch log file: %w", err)
	}
	defer func() { _ = watcher.Close() }()
	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("failed to watch log file: %w", err)
	}

	fmt.Fprintf(out, "Following %s... (Ctrl+C to stop)\n\n", path)

	filter.Tail = 0
	reader := bufio.NewReader(file)
	drain := func() error {
		for {
			line, err := reader.ReadString('\n')
			if err == io.EOF {
				// keep the partial line for the next write
				if line != "" {
					reader = bufio.NewReader(io.MultiReader(strings.NewReader(line), file))
				}
				return nil
			}
			if err != nil {
				return fmt.Errorf("error reading log file: %w", err)
			}
			entries, _ := logging.ParseEntries(strings.NewReader(line))
			for _, e := range filter.Apply(entries) {
				fmt.Fprintln(out, e.Format())
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Write) {
				if err := drain(); err != nil {
					return err
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching log file: %w", err)
		}
	}
}
