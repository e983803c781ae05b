package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/taskdesk/internal/task"
	"github.com/Iron-Ham/taskdesk/internal/tui/styles"
)

// itemState is the provisional UI state of one row. Editing and delete
// confirmation are independent toggles.
type itemState struct {
	editing    bool
	draft      task.Status
	confirming bool
}

func (s itemState) idle() bool {
	return !s.editing && !s.confirming
}

// listActionKind is what a key press on the table asks the root to do.
type listActionKind int

const (
	actionNone listActionKind = iota
	actionSaveStatus
	actionDelete
	actionOpen
)

type listAction struct {
	kind   listActionKind
	id     int
	status task.Status
}

// listModel renders the task table and tracks per-row state by task id.
type listModel struct {
	cursor  int
	items   map[int]itemState
	showIDs bool
}

func newListModel(showIDs bool) listModel {
	return listModel{items: make(map[int]itemState), showIDs: showIDs}
}

func (l listModel) state(id int) itemState {
	return l.items[id]
}

func (l *listModel) set(id int, s itemState) {
	if s.idle() {
		delete(l.items, id)
		return
	}
	l.items[id] = s
}

// sync clamps the cursor and forgets state for rows that no longer exist.
func (l *listModel) sync(tasks []task.Task) {
	if l.cursor >= len(tasks) {
		l.cursor = len(tasks) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}

	present := make(map[int]bool, len(tasks))
	for _, t := range tasks {
		present[t.ID] = true
	}
	for id := range l.items {
		if !present[id] {
			delete(l.items, id)
		}
	}
}

func (l listModel) selected(tasks []task.Task) (task.Task, bool) {
	if l.cursor < 0 || l.cursor >= len(tasks) {
		return task.Task{}, false
	}
	return tasks[l.cursor], true
}

// handleKey applies msg to the selected row. Saving and confirming reset
// the row before the mutation is dispatched.
func (l listModel) handleKey(msg tea.KeyMsg, keys KeyMap, tasks []task.Task) (listModel, listAction) {
	t, ok := l.selected(tasks)
	if !ok {
		return l, listAction{}
	}
	s := l.state(t.ID)

	if s.confirming {
		switch {
		case key.Matches(msg, keys.Confirm):
			l.set(t.ID, itemState{})
			return l, listAction{kind: actionDelete, id: t.ID}
		case key.Matches(msg, keys.Deny):
			s.confirming = false
			l.set(t.ID, s)
		}
		return l, listAction{}
	}

	if s.editing {
		switch {
		case key.Matches(msg, keys.PrevStatus):
			s.draft = s.draft.Prev()
		case key.Matches(msg, keys.NextStatus):
			s.draft = s.draft.Next()
		case key.Matches(msg, keys.Save):
			status := s.draft
			l.set(t.ID, itemState{})
			return l, listAction{kind: actionSaveStatus, id: t.ID, status: status}
		case key.Matches(msg, keys.Cancel):
			s.editing = false
			s.draft = ""
		case key.Matches(msg, keys.Delete):
			s.confirming = true
		}
		l.set(t.ID, s)
		return l, listAction{}
	}

	switch {
	case key.Matches(msg, keys.Up):
		if l.cursor > 0 {
			l.cursor--
		}
	case key.Matches(msg, keys.Down):
		if l.cursor < len(tasks)-1 {
			l.cursor++
		}
	case key.Matches(msg, keys.Edit):
		l.set(t.ID, itemState{editing: true, draft: t.Status})
	case key.Matches(msg, keys.Delete):
		l.set(t.ID, itemState{confirming: true})
	case key.Matches(msg, keys.Open):
		return l, listAction{kind: actionOpen, id: t.ID}
	}
	return l, listAction{}
}

// busy reports whether the selected row is mid-edit or mid-confirm, so
// that screen-level keys should not fire.
func (l listModel) busy(tasks []task.Task) bool {
	t, ok := l.selected(tasks)
	return ok && !l.state(t.ID).idle()
}

// view renders tasks as a table fitted to width.
func (l listModel) view(tasks []task.Task, width int) string {
	headers := []string{"Title", "Description", "Due", "Status", ""}
	if l.showIDs {
		headers = append([]string{"ID"}, headers...)
	}

	titleWidth, descWidth := l.columnWidths(width)

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		s := l.state(t.ID)
		row := []string{
			ansi.Truncate(t.Title, titleWidth, "…"),
			ansi.Truncate(firstLine(t.DescriptionText()), descWidth, "…"),
			task.FormatDue(t.DueDate),
			l.statusCell(t, s),
			l.actionCell(s),
		}
		if l.showIDs {
			row = append([]string{strconv.Itoa(t.ID)}, row...)
		}
		rows = append(rows, row)
	}

	statusCol := 3
	if l.showIDs {
		statusCol = 4
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.TableBorder).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styles.TableHeader
			case row == l.cursor:
				st := styles.TableSelected
				if col == statusCol && row < len(tasks) {
					st = st.Foreground(styles.StatusColor(tasks[row].Status))
				}
				return st
			case col == statusCol && row < len(tasks):
				return styles.TableCell.Foreground(styles.StatusColor(tasks[row].Status))
			default:
				return styles.TableCell
			}
		})

	return tbl.Render()
}

func (l listModel) statusCell(t task.Task, s itemState) string {
	if s.editing {
		return "◀ " + s.draft.Label() + " ▶"
	}
	return styles.StatusIcon(t.Status) + " " + t.Status.Label()
}

func (l listModel) actionCell(s itemState) string {
	switch {
	case s.confirming:
		return "Delete? y/n"
	case s.editing:
		return "enter save · esc cancel"
	default:
		return ""
	}
}

// columnWidths splits the width left over by the fixed columns between
// title and description.
func (l listModel) columnWidths(width int) (title, desc int) {
	// borders and cell padding: 3 per column plus the outer edge
	cols := 5
	fixed := styles.DueColumnWidth + styles.StatusColumnWidth + len("enter save · esc cancel")
	if l.showIDs {
		cols++
		fixed += styles.IDColumnWidth
	}
	free := width - fixed - cols*3 - 1
	if free < 2*styles.MinTitleWidth {
		return styles.MinTitleWidth, styles.MinTitleWidth
	}
	title = free / 2
	return title, free - title
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}

// summary is the status count line shown under the table.
func summary(tasks []task.Task) string {
	counts := make(map[task.Status]int)
	for _, t := range tasks {
		counts[t.Status]++
	}
	out := fmt.Sprintf("%d tasks", len(tasks))
	for _, st := range task.Statuses() {
		out += fmt.Sprintf(" · %s %d", styles.StatusStyle(st).Render(st.Label()), counts[st])
	}
	return out
}
