package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/taskdesk/internal/errors"
	"github.com/Iron-Ham/taskdesk/internal/task"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List every task held by the API.

Examples:
  taskdesk list
  taskdesk list --status in_progress
  taskdesk list -o json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listOutput string
	listStatus string
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listOutput, "output", "o", formatTable, "Output format (table/json/yaml)")
	listCmd.Flags().StringVar(&listStatus, "status", "", "Only show tasks with this status")
}

func runList(cmd *cobra.Command, _ []string) error {
	if err := validFormat(listOutput); err != nil {
		return err
	}
	var want task.Status
	if listStatus != "" {
		st, err := task.ParseStatus(listStatus)
		if err != nil {
			return err
		}
		want = st
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	tasks, err := rt.client.ListTasks(cmd.Context())
	if err != nil {
		return errors.Wrap(errors.OpFetch, err)
	}

	if want != "" {
		filtered := tasks[:0]
		for _, t := range tasks {
			if t.Status == want {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}

	out := cmd.OutOrStdout()
	if listOutput != formatTable {
		return writeStructured(out, listOutput, tasks)
	}
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(out, "No tasks found.")
		return err
	}
	return writeTaskTable(out, tasks)
}
