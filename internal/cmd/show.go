package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Iron-Ham/taskdesk/internal/errors"
	"github.com/Iron-Ham/taskdesk/internal/task"
	"github.com/Iron-Ham/taskdesk/internal/tui/markdown"
	"github.com/Iron-Ham/taskdesk/internal/tui/styles"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one task",
	Long: `Show one task with its description.

The description is rendered as Markdown when stdout is a terminal and as
plain text otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

var showOutput string

// isTerminal is swapped in tests.
var isTerminal = term.IsTerminal

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVarP(&showOutput, "output", "o", formatTable, "Output format (table/json/yaml)")
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, errors.Wrapf(errors.ErrInvalidInput, "task id must be a positive integer, got %q", s)
	}
	return id, nil
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := validFormat(showOutput); err != nil {
		return err
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	t, err := rt.client.GetTask(cmd.Context(), id)
	if err != nil {
		return errors.WrapTask(errors.OpGet, id, err)
	}

	out := cmd.OutOrStdout()
	if showOutput != formatTable {
		return writeStructured(out, showOutput, t)
	}

	tty := isTerminal(int(os.Stdout.Fd()))
	width := 80
	if tty {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
	}

	fmt.Fprintf(out, "#%d %s\n", t.ID, t.Title)
	fmt.Fprintf(out, "Status: %s\n", styles.StatusBadge(t.Status))
	fmt.Fprintf(out, "Due:    %s\n", task.FormatDue(t.DueDate))

	desc := t.DescriptionText()
	if desc == "" {
		return nil
	}
	fmt.Fprintln(out)
	if tty {
		fmt.Fprintln(out, markdown.Render(desc, width))
	} else {
		fmt.Fprintln(out, markdown.PlainText(desc, width))
	}
	return nil
}
