package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/taskdesk/internal/task"
	"github.com/Iron-Ham/taskdesk/internal/tui/styles"
)

func listKey(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return keyRune(k)
}

func TestListModel_HandleKey(t *testing.T) {
	tasks := seedTasks()

	tests := []struct {
		name   string
		keys   []string
		want   listAction
		state  itemState
		cursor int
	}{
		{
			name:  "edit selects the current status",
			keys:  []string{"e"},
			state: itemState{editing: true, draft: task.StatusPending},
		},
		{
			name:  "next status wraps",
			keys:  []string{"e", "l", "l", "l"},
			state: itemState{editing: true, draft: task.StatusPending},
		},
		{
			name:  "prev status wraps",
			keys:  []string{"e", "h"},
			state: itemState{editing: true, draft: task.StatusCompleted},
		},
		{
			name: "save returns the draft",
			keys: []string{"e", "l", "enter"},
			want: listAction{kind: actionSaveStatus, id: 1, status: task.StatusInProgress},
		},
		{
			name: "cancel edit",
			keys: []string{"e", "l", "esc"},
		},
		{
			name:  "delete asks first",
			keys:  []string{"d"},
			state: itemState{confirming: true},
		},
		{
			name: "confirm delete",
			keys: []string{"d", "y"},
			want: listAction{kind: actionDelete, id: 1},
		},
		{
			name:  "deny from edit keeps editing",
			keys:  []string{"e", "d", "n"},
			state: itemState{editing: true, draft: task.StatusPending},
		},
		{
			name: "open",
			keys: []string{"enter"},
			want: listAction{kind: actionOpen, id: 1},
		},
		{
			name:   "down then open",
			keys:   []string{"j", "enter"},
			want:   listAction{kind: actionOpen, id: 2},
			cursor: 1,
		},
		{
			name: "cursor stops at the top",
			keys: []string{"k", "k"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newListModel(false)
			var got listAction
			for _, k := range tt.keys {
				l, got = l.handleKey(listKey(k), DefaultKeyMap, tasks)
			}
			if got != tt.want {
				t.Errorf("action = %+v, want %+v", got, tt.want)
			}
			if l.cursor != tt.cursor {
				t.Errorf("cursor = %d, want %d", l.cursor, tt.cursor)
			}
			selected, _ := l.selected(tasks)
			if s := l.state(selected.ID); s != tt.state {
				t.Errorf("state = %+v, want %+v", s, tt.state)
			}
		})
	}
}

func TestListModel_RowsAreIndependent(t *testing.T) {
	tasks := seedTasks()
	l := newListModel(false)
	l, _ = l.handleKey(listKey("e"), DefaultKeyMap, tasks)
	l.cursor = 1
	l, _ = l.handleKey(listKey("d"), DefaultKeyMap, tasks)

	if !l.state(1).editing || l.state(1).confirming {
		t.Errorf("row 1 = %+v", l.state(1))
	}
	if !l.state(2).confirming || l.state(2).editing {
		t.Errorf("row 2 = %+v", l.state(2))
	}
}

func TestListModel_Sync(t *testing.T) {
	tasks := seedTasks()
	l := newListModel(false)
	l.cursor = 1
	l, _ = l.handleKey(listKey("e"), DefaultKeyMap, tasks)

	l.sync(tasks[:1])
	if l.cursor != 0 {
		t.Errorf("cursor = %d, want 0", l.cursor)
	}
	if !l.state(2).idle() {
		t.Error("state of a removed row should be dropped")
	}

	l.sync(nil)
	if l.cursor != 0 {
		t.Errorf("cursor = %d on empty list", l.cursor)
	}
	if _, ok := l.selected(nil); ok {
		t.Error("nothing should be selected")
	}
	if l.busy(nil) {
		t.Error("empty list cannot be busy")
	}
}

func TestListModel_View(t *testing.T) {
	tasks := seedTasks()

	t.Run("columns", func(t *testing.T) {
		view := ansi.Strip(newListModel(false).view(tasks, 160))
		for _, want := range []string{"Title", "Description", "Due", "Status", "Write docs", "Cover the **API**", "2 January 2025 at 17:30", "◐ IN PROGRESS"} {
			if !strings.Contains(view, want) {
				t.Errorf("view missing %q:\n%s", want, view)
			}
		}
		if strings.Contains(view, "ID") {
			t.Error("id column should be hidden by default")
		}
	})

	t.Run("id column", func(t *testing.T) {
		view := ansi.Strip(newListModel(true).view(tasks, 160))
		if !strings.Contains(view, "ID") {
			t.Errorf("id column missing:\n%s", view)
		}
	})

	t.Run("row states", func(t *testing.T) {
		l := newListModel(false)
		l.set(1, itemState{editing: true, draft: task.StatusCompleted})
		l.set(2, itemState{confirming: true})
		view := ansi.Strip(l.view(tasks, 160))
		for _, want := range []string{"◀ COMPLETED ▶", "enter save · esc cancel", "Delete? y/n"} {
			if !strings.Contains(view, want) {
				t.Errorf("view missing %q:\n%s", want, view)
			}
		}
	})
}

func TestListModel_ColumnWidths(t *testing.T) {
	l := newListModel(false)
	title, desc := l.columnWidths(40)
	if title != styles.MinTitleWidth || desc != styles.MinTitleWidth {
		t.Errorf("narrow widths = %d, %d", title, desc)
	}

	title, desc = l.columnWidths(200)
	if title < styles.MinTitleWidth || desc < title {
		t.Errorf("wide widths = %d, %d", title, desc)
	}
	idTitle, idDesc := newListModel(true).columnWidths(200)
	if idTitle+idDesc >= title+desc {
		t.Error("id column should take width from title and description")
	}
}

func TestFirstLine(t *testing.T) {
	tests := map[string]string{
		"":             "",
		"one":          "one",
		"one\ntwo":     "one",
		"\nleading":    "",
		"héllo\nworld": "héllo",
	}
	for in, want := range tests {
		if got := firstLine(in); got != want {
			t.Errorf("firstLine(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSummary(t *testing.T) {
	got := ansi.Strip(summary(seedTasks()))
	want := "2 tasks · PENDING 1 · IN PROGRESS 1 · COMPLETED 0"
	if got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}
}
