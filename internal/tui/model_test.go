package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/taskdesk/internal/api"
	"github.com/Iron-Ham/taskdesk/internal/form"
	"github.com/Iron-Ham/taskdesk/internal/task"
	"github.com/Iron-Ham/taskdesk/internal/testutil"
	"github.com/Iron-Ham/taskdesk/internal/tui/styles"
)

func strPtr(s string) *string { return &s }

func seedTasks() []task.Task {
	return []task.Task{
		{ID: 1, Title: "Write docs", Description: strPtr("Cover the **API**"), DueDate: "2024-12-25T09:00:00", Status: task.StatusPending},
		{ID: 2, Title: "Ship it", DueDate: "2025-01-02T17:30:00", Status: task.StatusInProgress},
	}
}

// testModel returns a sized model backed by a fake API seeded with tasks.
// The initial fetch has not run yet.
func testModel(t *testing.T, tasks ...task.Task) (Model, *testutil.FakeAPI) {
	t.Helper()
	fake := testutil.NewFakeAPI(t)
	fake.Seed(tasks...)
	m := NewModel(context.Background(), api.NewClient(fake.BaseURL()), Options{})
	m = step(t, m, tea.WindowSizeMsg{Width: 160, Height: 40})
	return m, fake
}

// loadedModel is testModel after the initial fetch.
func loadedModel(t *testing.T, tasks ...task.Task) (Model, *testutil.FakeAPI) {
	t.Helper()
	m, fake := testModel(t, tasks...)
	return run(t, m, m.Init()), fake
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// press sends a key and runs the command it returns.
func press(t *testing.T, m Model, k string) Model {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		msg = tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, cmd := m.Update(msg)
	return run(t, next.(Model), cmd)
}

// run executes cmd synchronously and feeds the request results back into
// m. Spinner ticks and input cursor messages are dropped.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range collect(cmd) {
		var next tea.Cmd
		var nm tea.Model
		nm, next = m.Update(msg)
		m = nm.(Model)
		m = run(t, m, next)
	}
	return m
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	case fetchedMsg, createdMsg, statusUpdatedMsg, deletedMsg, detailLoadedMsg:
		return []tea.Msg{msg}
	case spinner.TickMsg:
		return nil
	default:
		return nil
	}
}

func fillForm(m Model, in form.Input) Model {
	m.form.title.SetValue(in.Title)
	m.form.description.SetValue(in.Description)
	for i, v := range []string{in.Day, in.Month, in.Year, in.Hour, in.Minute} {
		m.form.parts[i].SetValue(v)
	}
	return m
}

func plain(m Model) string {
	return ansi.Strip(m.View())
}

func TestModel_InitialFetch(t *testing.T) {
	t.Run("shows loading before the first response", func(t *testing.T) {
		m, _ := testModel(t, seedTasks()...)
		if !strings.Contains(plain(m), msgLoading) {
			t.Errorf("expected %q in view:\n%s", msgLoading, plain(m))
		}
	})

	t.Run("renders the table", func(t *testing.T) {
		m, fake := loadedModel(t, seedTasks()...)
		view := plain(m)
		for _, want := range []string{"Write docs", "Ship it", "25 December 2024 at 09:00", "IN PROGRESS", "2 tasks"} {
			if !strings.Contains(view, want) {
				t.Errorf("view missing %q:\n%s", want, view)
			}
		}
		if strings.Contains(view, msgLoading) {
			t.Error("loading text should be gone")
		}
		if got := fake.Calls(testutil.RouteList); got != 1 {
			t.Errorf("list calls = %d, want 1", got)
		}
	})

	t.Run("empty collection", func(t *testing.T) {
		m, _ := loadedModel(t)
		if !strings.Contains(plain(m), msgEmpty) {
			t.Errorf("expected empty message:\n%s", plain(m))
		}
	})

	t.Run("fetch failure", func(t *testing.T) {
		m, fake := testModel(t, seedTasks()...)
		fake.FailDetail(testutil.RouteList, http.StatusInternalServerError, "database down")
		m = run(t, m, m.Init())

		view := plain(m)
		if !strings.Contains(view, "Error fetching tasks: API Error (500): database down") {
			t.Errorf("view missing fetch error:\n%s", view)
		}
		if strings.Contains(view, msgLoading) || strings.Contains(view, msgEmpty) {
			t.Errorf("failed fetch should show neither loading nor empty:\n%s", view)
		}

		fake.Recover(testutil.RouteList)
		m = press(t, m, "r")
		if view := plain(m); !strings.Contains(view, "Write docs") || strings.Contains(view, "Error fetching") {
			t.Errorf("refresh should recover:\n%s", view)
		}
	})
}

func TestModel_CreateTask(t *testing.T) {
	valid := form.Input{Title: "  Buy milk  ", Description: "semi-skimmed", Day: "1", Month: "2", Year: "2030", Hour: "8", Minute: "5"}

	t.Run("toggle shows and hides the form", func(t *testing.T) {
		m, _ := loadedModel(t)
		m = press(t, m, "a")
		if !m.showForm || !strings.Contains(plain(m), labelCancelAdd) {
			t.Fatal("form should be shown")
		}
		m = press(t, m, "esc")
		if m.showForm || !strings.Contains(plain(m), labelAddTask) {
			t.Error("esc should hide the form")
		}
	})

	t.Run("valid submit creates and refetches", func(t *testing.T) {
		m, fake := loadedModel(t, seedTasks()...)
		m = press(t, m, "a")
		m = fillForm(m, valid)
		m = press(t, m, "enter")

		if got := fake.Calls(testutil.RouteCreate); got != 1 {
			t.Fatalf("create calls = %d, want 1", got)
		}
		if got := fake.Calls(testutil.RouteList); got != 2 {
			t.Errorf("list calls = %d, want 2", got)
		}

		var body map[string]any
		if err := json.Unmarshal(fake.LastBody(testutil.RouteCreate), &body); err != nil {
			t.Fatalf("create body: %v", err)
		}
		if body["title"] != "Buy milk" || body["due_date"] != "2030-02-01T08:05:00" || body["description"] != "semi-skimmed" {
			t.Errorf("create body = %v", body)
		}
		if _, ok := body["status"]; ok {
			t.Error("status should be left to the server")
		}

		if m.showForm {
			t.Error("form should close after a successful create")
		}
		if m.form.input().Title != "" {
			t.Error("form should be reset")
		}
		if !strings.Contains(plain(m), "Buy milk") {
			t.Errorf("new task missing from table:\n%s", plain(m))
		}
	})

	t.Run("client validation blocks the request", func(t *testing.T) {
		m, fake := loadedModel(t)
		m = press(t, m, "a")
		m = fillForm(m, form.Input{Day: "31", Month: "2", Year: "2030", Hour: "25", Minute: "00"})
		m = press(t, m, "enter")

		if got := fake.Calls(testutil.RouteCreate); got != 0 {
			t.Errorf("create calls = %d, want 0", got)
		}
		view := plain(m)
		for _, want := range []string{"There is a problem", form.MsgTitleRequired, form.MsgDateInvalid, form.MsgTimeInvalid} {
			if !strings.Contains(view, want) {
				t.Errorf("view missing %q:\n%s", want, view)
			}
		}
		if !m.showForm {
			t.Error("form should stay open")
		}
	})

	t.Run("server field errors are shown on the form", func(t *testing.T) {
		m, fake := loadedModel(t)
		fake.Fail(testutil.RouteCreate, http.StatusUnprocessableEntity,
			`{"detail":[{"loc":["body","title"],"msg":"Title already used","type":"value_error"}]}`)
		m = press(t, m, "a")
		m = fillForm(m, valid)
		m = press(t, m, "enter")

		if !m.showForm {
			t.Fatal("form should stay open after a failed create")
		}
		if got := m.form.errors().Title; got != "Title already used" {
			t.Errorf("title error = %q", got)
		}
		if view := plain(m); !strings.Contains(view, "Error: Title already used") || !strings.Contains(view, "Error creating task:") {
			t.Errorf("view missing server error:\n%s", view)
		}
		if got := fake.Calls(testutil.RouteList); got != 1 {
			t.Errorf("failed create should not refetch, list calls = %d", got)
		}
	})

	t.Run("cancel clears the create error", func(t *testing.T) {
		m, fake := loadedModel(t)
		fake.FailDetail(testutil.RouteCreate, http.StatusInternalServerError, "boom")
		m = press(t, m, "a")
		m = fillForm(m, valid)
		m = press(t, m, "enter")
		m = press(t, m, "esc")
		m = press(t, m, "a")
		if strings.Contains(plain(m), "Error creating task") {
			t.Error("reopened form should not show the old error")
		}
	})
}

func TestModel_UpdateStatus(t *testing.T) {
	t.Run("edit and save", func(t *testing.T) {
		m, fake := loadedModel(t, seedTasks()...)
		m = press(t, m, "e")
		if view := plain(m); !strings.Contains(view, "◀ PENDING ▶") {
			t.Fatalf("status selector missing:\n%s", view)
		}
		m = press(t, m, "l")
		m = press(t, m, "enter")

		if got := fake.Calls(testutil.RouteStatus); got != 1 {
			t.Fatalf("status calls = %d, want 1", got)
		}
		if got := fake.Tasks()[0].Status; got != task.StatusInProgress {
			t.Errorf("status = %s, want IN_PROGRESS", got)
		}
		if got := fake.Calls(testutil.RouteList); got != 2 {
			t.Errorf("list calls = %d, want 2", got)
		}
		if !m.list.state(1).idle() {
			t.Error("row should leave edit mode")
		}
	})

	t.Run("cancel sends nothing", func(t *testing.T) {
		m, fake := loadedModel(t, seedTasks()...)
		m = press(t, m, "e")
		m = press(t, m, "l")
		m = press(t, m, "esc")
		if got := fake.Calls(testutil.RouteStatus); got != 0 {
			t.Errorf("status calls = %d, want 0", got)
		}
		if strings.Contains(plain(m), "◀") {
			t.Error("selector should be gone")
		}
	})

	t.Run("failure is shown and dismissed", func(t *testing.T) {
		m, fake := loadedModel(t, seedTasks()...)
		fake.FailDetail(testutil.RouteStatus, http.StatusInternalServerError, "boom")
		m = press(t, m, "e")
		m = press(t, m, "enter")

		const want = "Error updating status: API Error (500): boom"
		if !strings.Contains(plain(m), want) {
			t.Fatalf("view missing %q:\n%s", want, plain(m))
		}
		if got := fake.Calls(testutil.RouteList); got != 1 {
			t.Errorf("failed update should not refetch, list calls = %d", got)
		}

		m = press(t, m, "x")
		if strings.Contains(plain(m), want) {
			t.Error("x should dismiss the error")
		}
	})
}

func TestModel_DeleteTask(t *testing.T) {
	tests := []struct {
		name    string
		keys    []string
		deletes int
		remain  int
	}{
		{"confirm", []string{"d", "y"}, 1, 1},
		{"deny", []string{"d", "n"}, 0, 2},
		{"escape", []string{"d", "esc"}, 0, 2},
		{"from edit mode", []string{"e", "d", "y"}, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, fake := loadedModel(t, seedTasks()...)
			for _, k := range tt.keys {
				m = press(t, m, k)
			}
			if got := fake.Calls(testutil.RouteDelete); got != tt.deletes {
				t.Errorf("delete calls = %d, want %d", got, tt.deletes)
			}
			if got := len(m.tasks()); got != tt.remain {
				t.Errorf("tasks = %d, want %d", got, tt.remain)
			}
			if !m.list.state(1).idle() {
				t.Error("row should be idle afterwards")
			}
		})
	}

	t.Run("confirm prompt", func(t *testing.T) {
		m, _ := loadedModel(t, seedTasks()...)
		m = press(t, m, "d")
		if !strings.Contains(plain(m), "Delete? y/n") {
			t.Errorf("confirm prompt missing:\n%s", plain(m))
		}
		if next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd != nil || next.(Model).list.state(1).idle() {
			t.Error("q should not quit while confirming")
		}
	})

	t.Run("not found", func(t *testing.T) {
		m, fake := loadedModel(t, seedTasks()...)
		fake.FailDetail(testutil.RouteDelete, http.StatusNotFound, "Task not found")
		m = press(t, m, "d")
		m = press(t, m, "y")
		if !strings.Contains(plain(m), "Error deleting task: API Error (404): Task not found") {
			t.Errorf("view missing delete error:\n%s", plain(m))
		}
	})
}

func TestModel_Navigation(t *testing.T) {
	m, fake := loadedModel(t, seedTasks()...)
	m = press(t, m, "j")
	m = press(t, m, "j")
	if m.list.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.list.cursor)
	}
	m = press(t, m, "e")
	m = press(t, m, "l")
	m = press(t, m, "enter")
	if got := fake.Tasks()[1].Status; got != task.StatusCompleted {
		t.Errorf("second task status = %s, want COMPLETED", got)
	}
	m = press(t, m, "k")
	if m.list.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.list.cursor)
	}
}

// startsTick reports whether cmd, or a command in its batch, yields a
// spinner tick.
func startsTick(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			if startsTick(c) {
				return true
			}
		}
	case spinner.TickMsg:
		return true
	}
	return false
}

func TestModel_Spinner(t *testing.T) {
	t.Run("ticks while the first fetch is in flight", func(t *testing.T) {
		m, _ := testModel(t, seedTasks()...)
		if _, cmd := m.Update(m.spinner.Tick()); cmd == nil {
			t.Error("spinner should keep ticking while loading")
		}
	})

	t.Run("stops when idle", func(t *testing.T) {
		m, _ := loadedModel(t, seedTasks()...)
		if m.inflight != 0 {
			t.Fatalf("inflight = %d, want 0", m.inflight)
		}
		if _, cmd := m.Update(m.spinner.Tick()); cmd != nil {
			t.Error("spinner should stop once nothing is pending")
		}
	})

	t.Run("restarts on dispatch", func(t *testing.T) {
		m, _ := loadedModel(t, seedTasks()...)
		next, cmd := m.Update(keyRune("r"))
		m = next.(Model)
		if m.inflight != 1 {
			t.Errorf("inflight = %d, want 1", m.inflight)
		}
		if !startsTick(cmd) {
			t.Error("refetch should restart the spinner")
		}

		m = press(t, m, "e")
		m = press(t, m, "l")
		next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = next.(Model)
		if m.inflight != 2 {
			t.Errorf("inflight = %d, want 2", m.inflight)
		}
		msg := cmd()
		if _, ok := msg.(statusUpdatedMsg); !ok {
			t.Fatalf("got %T, want statusUpdatedMsg without a new tick", msg)
		}

		m = step(t, m, msg)
		m = step(t, m, fetchedMsg{})
		if m.inflight != 0 {
			t.Errorf("inflight = %d after results, want 0", m.inflight)
		}
	})
}

func TestModel_Detail(t *testing.T) {
	m, fake := loadedModel(t, seedTasks()...)
	m = press(t, m, "enter")

	if m.detail == nil {
		t.Fatal("enter should open the detail pane")
	}
	if got := fake.Calls(testutil.RouteGet); got != 1 {
		t.Errorf("get calls = %d, want 1", got)
	}
	view := plain(m)
	for _, want := range []string{"Write docs", "○ PENDING", "Due 25 December 2024 at 09:00", "Cover the API"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail missing %q:\n%s", want, view)
		}
	}

	m = press(t, m, "esc")
	if m.detail != nil {
		t.Error("esc should close the detail pane")
	}

	t.Run("missing task", func(t *testing.T) {
		m, fake := loadedModel(t, seedTasks()...)
		fake.FailDetail(testutil.RouteGet, http.StatusNotFound, "Task not found")
		m = press(t, m, "enter")
		if !strings.Contains(plain(m), "Error loading task: API Error (404): Task not found") {
			t.Errorf("detail error missing:\n%s", plain(m))
		}
	})
}

func TestModel_Quit(t *testing.T) {
	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	} {
		m, _ := loadedModel(t)
		_, cmd := m.Update(k)
		if cmd == nil {
			t.Fatalf("%s: expected a command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", k)
		}
	}
}

func TestModel_ConfigMessages(t *testing.T) {
	t.Cleanup(func() { styles.SetActiveTheme(styles.ThemeDefault) })

	m, _ := loadedModel(t)
	m = step(t, m, configErrorMsg{err: errString("tui.theme: must not be empty")})
	if !strings.Contains(plain(m), "Config not reloaded") {
		t.Error("config error should be shown")
	}

	m = step(t, m, themeChangedMsg{theme: string(styles.ThemeNord)})
	if styles.PrimaryColor != styles.NordPalette().Primary {
		t.Errorf("PrimaryColor = %q, want nord", styles.PrimaryColor)
	}
	if strings.Contains(plain(m), "Config not reloaded") {
		t.Error("notice should clear after a good reload")
	}
}

type errString string

func (e errString) Error() string { return string(e) }
