package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/taskdesk/internal/errors"
	"github.com/Iron-Ham/taskdesk/internal/task"
	"github.com/Iron-Ham/taskdesk/internal/tui/markdown"
	"github.com/Iron-Ham/taskdesk/internal/tui/styles"
)

// detailModel shows one task fetched with GET /tasks/{id}.
type detailModel struct {
	id      int
	loading bool
	task    task.Task
	err     error

	viewport viewport.Model
	width    int
	height   int
}

func newDetailModel(id, width, height int) *detailModel {
	d := &detailModel{id: id, loading: true, viewport: viewport.New(0, 0)}
	d.setSize(width, height)
	return d
}

// detailFrame is the border plus padding of styles.DetailBox on each axis.
const detailFrame = 6

func (d *detailModel) setSize(width, height int) {
	d.width, d.height = width, height
	d.viewport.Width = max(width-detailFrame, 20)
	d.viewport.Height = max(height-detailFrame-6, 3)
	d.render()
}

// loaded applies a detailLoadedMsg. Results for another task are ignored.
func (d *detailModel) loaded(msg detailLoadedMsg) {
	if msg.id != d.id {
		return
	}
	d.loading = false
	d.err = msg.err
	if msg.err == nil {
		d.task = msg.task
	}
	d.render()
}

func (d *detailModel) render() {
	if d.loading || d.err != nil {
		d.viewport.SetContent("")
		return
	}
	body := markdown.Render(d.task.DescriptionText(), d.viewport.Width)
	if body == "" {
		body = styles.Muted.Render("No description.")
	}
	d.viewport.SetContent(body)
	d.viewport.GotoTop()
}

func (d *detailModel) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return cmd
}

func (d *detailModel) view() string {
	var b strings.Builder

	switch {
	case d.loading:
		b.WriteString(styles.Muted.Render("Loading task..."))
	case d.err != nil:
		b.WriteString(styles.ErrorMsg.Render(errors.Message(d.err)))
	default:
		b.WriteString(styles.Title.Render(d.task.Title))
		b.WriteString("\n")
		b.WriteString(styles.StatusBadge(d.task.Status))
		b.WriteString("\n")
		b.WriteString(styles.Muted.Render("Due " + task.FormatDue(d.task.DueDate)))
		b.WriteString("\n\n")
		b.WriteString(d.viewport.View())
	}

	return styles.DetailBox.Width(max(d.width-2, 20)).Render(b.String())
}
