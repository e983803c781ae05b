package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/taskdesk/internal/errors"
	"github.com/Iron-Ham/taskdesk/internal/task"
	"github.com/Iron-Ham/taskdesk/internal/tui/styles"
)

var statusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Change the status of a task",
	Long: `Change the status of a task.

Status is one of PENDING, IN_PROGRESS or COMPLETED (case-insensitive).

Examples:
  taskdesk status 3 completed
  taskdesk status 3 in-progress`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"PENDING", "IN_PROGRESS", "COMPLETED"},
	RunE:      runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	st, err := task.ParseStatus(args[1])
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "%v", err)
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	updated, err := rt.client.UpdateTaskStatus(cmd.Context(), id, st)
	if err != nil {
		return errors.WrapTask(errors.OpUpdate, id, err)
	}
	rt.logger.WithTask(id).Info("status updated", "status", string(updated.Status))

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Task #%d is now %s\n", updated.ID, styles.StatusBadge(updated.Status))
	return err
}
