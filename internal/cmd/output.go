package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/taskdesk/internal/task"
	"github.com/Iron-Ham/taskdesk/internal/tui/styles"
)

// Output formats accepted by -o.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func validFormat(f string) error {
	switch f {
	case formatTable, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (valid: table, json, yaml)", f)
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return validFormat(format)
}

const descriptionColumnWidth = 40

// writeTaskTable prints tasks as a bordered table.
func writeTaskTable(w io.Writer, tasks []task.Task) error {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		desc := strings.SplitN(t.DescriptionText(), "\n", 2)[0]
		rows = append(rows, []string{
			strconv.Itoa(t.ID),
			t.Title,
			styles.StatusBadge(t.Status),
			task.FormatDue(t.DueDate),
			ansi.Truncate(desc, descriptionColumnWidth, "…"),
		})
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.TableBorder).
		Headers("ID", "Title", "Status", "Due", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.TableHeader
			}
			return styles.TableCell
		})

	_, err := fmt.Fprintln(w, tbl.Render())
	return err
}
