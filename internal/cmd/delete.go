package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/taskdesk/internal/errors"
	"github.com/Iron-Ham/taskdesk/internal/tui/styles"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Delete a task.

Asks for confirmation unless --yes is given. Without a terminal the
confirmation cannot be shown, so --yes is required.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

var deleteYes bool

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete without asking for confirmation")
}

// confirm asks a yes/no question on the command's input.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	if !deleteYes {
		if !isTerminal(int(os.Stdin.Fd())) {
			return errors.Wrapf(errors.ErrNotTerminal, "refusing to delete task %d without --yes", id)
		}
		ok, err := confirm(cmd, fmt.Sprintf("Delete task %d?", id))
		if err != nil {
			return err
		}
		if !ok {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return err
		}
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.client.DeleteTask(cmd.Context(), id); err != nil {
		return errors.WrapTask(errors.OpDelete, id, err)
	}
	rt.logger.WithTask(id).Info("task deleted")

	_, err = fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessMsg.Render(fmt.Sprintf("Deleted task #%d", id)))
	return err
}
