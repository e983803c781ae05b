package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/taskdesk/internal/errors"
	"github.com/Iron-Ham/taskdesk/internal/form"
	"github.com/Iron-Ham/taskdesk/internal/tui/styles"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a task",
	Long: `Create a task with a title, an optional description and a due date.

The due date is given either with --due or with the individual date and time
flags, which mirror the fields of the creation form in the TUI.

Examples:
  taskdesk add --title "Write docs" --due "2024-12-25 09:00"
  taskdesk add --title "Ship it" --day 2 --month 1 --year 2025 --hour 17 --minute 30`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

var (
	addTitle       string
	addDescription string
	addDue         string
	addDay         string
	addMonth       string
	addYear        string
	addHour        string
	addMinute      string
	addOutput      string
)

func init() {
	rootCmd.AddCommand(addCmd)

	f := addCmd.Flags()
	f.StringVarP(&addTitle, "title", "t", "", "Task title (required)")
	f.StringVarP(&addDescription, "description", "d", "", "Task description (Markdown)")
	f.StringVar(&addDue, "due", "", `Due date as "YYYY-MM-DD HH:MM"`)
	f.StringVar(&addDay, "day", "", "Due day (DD)")
	f.StringVar(&addMonth, "month", "", "Due month (MM)")
	f.StringVar(&addYear, "year", "", "Due year (YYYY)")
	f.StringVar(&addHour, "hour", "", "Due hour (HH)")
	f.StringVar(&addMinute, "minute", "", "Due minute (MM)")
	f.StringVarP(&addOutput, "output", "o", formatTable, "Output format (table/json/yaml)")

	addCmd.MarkFlagsMutuallyExclusive("due", "day")
	addCmd.MarkFlagsMutuallyExclusive("due", "hour")
}

// splitDue breaks "YYYY-MM-DD HH:MM" (or a T separator) into form parts.
func splitDue(s string) (form.Input, error) {
	s = strings.TrimSpace(s)
	date, clock, ok := strings.Cut(s, " ")
	if !ok {
		date, clock, ok = strings.Cut(s, "T")
	}
	if !ok {
		return form.Input{}, errors.Wrapf(errors.ErrInvalidInput, `due date %q must look like "YYYY-MM-DD HH:MM"`, s)
	}
	dateParts := strings.Split(date, "-")
	clockParts := strings.Split(strings.TrimSpace(clock), ":")
	if len(dateParts) != 3 || len(clockParts) < 2 {
		return form.Input{}, errors.Wrapf(errors.ErrInvalidInput, `due date %q must look like "YYYY-MM-DD HH:MM"`, s)
	}
	return form.Input{
		Year:   dateParts[0],
		Month:  dateParts[1],
		Day:    dateParts[2],
		Hour:   clockParts[0],
		Minute: clockParts[1],
	}, nil
}

func addInput() (form.Input, error) {
	in := form.Input{
		Day:    addDay,
		Month:  addMonth,
		Year:   addYear,
		Hour:   addHour,
		Minute: addMinute,
	}
	if addDue != "" {
		parts, err := splitDue(addDue)
		if err != nil {
			return form.Input{}, err
		}
		in = parts
	}
	in.Title = addTitle
	in.Description = addDescription
	return in, nil
}

func printFieldErrors(cmd *cobra.Command, msgs []string) {
	w := cmd.ErrOrStderr()
	for _, m := range msgs {
		fmt.Fprintln(w, styles.ErrorMsg.Render("  • "+m))
	}
}

func runAdd(cmd *cobra.Command, _ []string) error {
	if err := validFormat(addOutput); err != nil {
		return err
	}
	in, err := addInput()
	if err != nil {
		return err
	}

	payload, errs, ok := form.Validate(in)
	if !ok {
		printFieldErrors(cmd, errs.List())
		return errors.Wrapf(errors.ErrInvalidInput, "task not created")
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	created, err := rt.client.CreateTask(cmd.Context(), payload)
	if err != nil {
		server := form.ServerErrorsFromAPI(err)
		if fields := (form.Errors{}).Merge(server); !fields.Empty() {
			printFieldErrors(cmd, fields.List())
		}
		return errors.Wrap(errors.OpCreate, err)
	}
	rt.logger.Info("task created", "task_id", created.ID)

	out := cmd.OutOrStdout()
	if addOutput != formatTable {
		return writeStructured(out, addOutput, created)
	}
	_, err = fmt.Fprintln(out, styles.SuccessMsg.Render(fmt.Sprintf("Created task #%d: %s", created.ID, created.Title)))
	return err
}
