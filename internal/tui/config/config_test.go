package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/taskdesk/internal/config"
)

func testModel(t *testing.T) (Model, *viper.Viper, string) {
	t.Helper()
	v := viper.New()
	config.SetDefaultsOn(v)
	path := filepath.Join(t.TempDir(), "taskdesk", "config.yaml")
	m := New(v, path)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model), v, path
}

func send(m Model, keys ...string) Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "shift+tab":
			msg = tea.KeyMsg{Type: tea.KeyShiftTab}
		case "ctrl+u":
			msg = tea.KeyMsg{Type: tea.KeyCtrlU}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

// selectKey moves the cursor to key.
func selectKey(t *testing.T, m Model, key string) Model {
	t.Helper()
	for ci, cat := range m.categories {
		for ii, item := range cat.Items {
			if item.Key == key {
				m.categoryIndex, m.itemIndex = ci, ii
				return m
			}
		}
	}
	t.Fatalf("no item %s", key)
	return m
}

func TestCategoriesCoverEveryKey(t *testing.T) {
	seen := make(map[string]bool)
	for _, cat := range Categories() {
		for _, item := range cat.Items {
			seen[item.Key] = true
			if item.Type == TypeSelect && len(item.Options) == 0 {
				t.Errorf("%s has no options", item.Key)
			}
		}
	}
	for _, k := range config.Keys() {
		if !seen[k] {
			t.Errorf("key %s is not editable", k)
		}
	}
}

func TestNavigation(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		category int
		item     int
	}{
		{"down within category", []string{"j"}, 0, 1},
		{"down into next category", []string{"j", "j"}, 1, 0},
		{"up wraps to last item", []string{"k"}, 3, 3},
		{"tab jumps category", []string{"tab", "tab"}, 2, 0},
		{"shift+tab wraps", []string{"shift+tab"}, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _ := testModel(t)
			m = send(m, tt.keys...)
			if m.categoryIndex != tt.category || m.itemIndex != tt.item {
				t.Errorf("position = (%d, %d), want (%d, %d)", m.categoryIndex, m.itemIndex, tt.category, tt.item)
			}
		})
	}
}

func TestToggleBoolSaves(t *testing.T) {
	m, v, path := testModel(t)
	m = selectKey(t, m, "tui.show_ids")
	m = send(m, "enter")

	if !v.GetBool("tui.show_ids") {
		t.Error("show_ids should be toggled on")
	}
	if !m.Modified() {
		t.Error("model should report a modification")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if !strings.Contains(string(data), "show_ids: true") {
		t.Errorf("saved config:\n%s", data)
	}
}

func TestSelectTheme(t *testing.T) {
	m, v, _ := testModel(t)
	m = selectKey(t, m, "tui.theme")
	m = send(m, "enter")
	if !m.editing {
		t.Fatal("enter should open the selector")
	}
	if !strings.Contains(ansi.Strip(m.View()), "Select Theme") {
		t.Error("selector overlay missing")
	}

	m = send(m, "j", "enter")
	if m.editing {
		t.Error("selector should close")
	}
	if got := v.GetString("tui.theme"); got != m.currentItem().Options[1] {
		t.Errorf("theme = %q", got)
	}
}

func TestEditText(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		input   string
		wantErr string
		check   func(*viper.Viper) bool
	}{
		{
			name:  "base url",
			key:   "api.base_url",
			input: "https://tasks.example.test/api/v1",
			check: func(v *viper.Viper) bool { return v.GetString("api.base_url") == "https://tasks.example.test/api/v1" },
		},
		{
			name:    "base url rejected by validation",
			key:     "api.base_url",
			input:   "localhost",
			wantErr: "api.base_url",
			check:   func(v *viper.Viper) bool { return v.GetString("api.base_url") == "http://localhost:8000/api/v1" },
		},
		{
			name:  "timeout",
			key:   "api.timeout",
			input: "1m30s",
			check: func(v *viper.Viper) bool { return v.GetDuration("api.timeout") == 90*time.Second },
		},
		{
			name:    "timeout not a duration",
			key:     "api.timeout",
			input:   "soon",
			wantErr: "expected a duration",
			check:   func(v *viper.Viper) bool { return v.GetDuration("api.timeout") == 0 },
		},
		{
			name:    "size not a number",
			key:     "logging.max_size_mb",
			input:   "big",
			wantErr: "expected integer value",
			check:   func(v *viper.Viper) bool { return v.GetInt("logging.max_size_mb") == 5 },
		},
		{
			name:    "size out of range",
			key:     "logging.max_size_mb",
			input:   "900",
			wantErr: "exceeds maximum",
			check:   func(v *viper.Viper) bool { return v.GetInt("logging.max_size_mb") == 5 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, v, _ := testModel(t)
			m = selectKey(t, m, tt.key)
			m = send(m, "enter", "ctrl+u", tt.input, "enter")

			if tt.wantErr == "" {
				if m.editing || m.errorMsg != "" {
					t.Errorf("editing = %v, error = %q", m.editing, m.errorMsg)
				}
			} else {
				if !m.editing {
					t.Error("editor should stay open on error")
				}
				if !strings.Contains(m.errorMsg, tt.wantErr) {
					t.Errorf("error = %q, want %q", m.errorMsg, tt.wantErr)
				}
			}
			if !tt.check(v) {
				t.Errorf("unexpected value for %s: %v", tt.key, v.Get(tt.key))
			}
		})
	}
}

func TestEscapeCancelsEdit(t *testing.T) {
	m, v, path := testModel(t)
	m = selectKey(t, m, "api.base_url")
	m = send(m, "enter", "ctrl+u", "http://other.test", "esc")

	if m.editing {
		t.Error("esc should close the editor")
	}
	if got := v.GetString("api.base_url"); got != "http://localhost:8000/api/v1" {
		t.Errorf("base_url = %q", got)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("nothing should be written")
	}
}

func TestResetToDefault(t *testing.T) {
	m, v, _ := testModel(t)
	v.Set("logging.level", "debug")
	m = selectKey(t, m, "logging.level")
	m = send(m, "r")

	if got := v.GetString("logging.level"); got != "info" {
		t.Errorf("level = %q, want info", got)
	}
	if !strings.Contains(m.infoMsg, "Reset Level") {
		t.Errorf("info = %q", m.infoMsg)
	}
}

func TestQuit(t *testing.T) {
	m, _, _ := testModel(t)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if next.View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestViewShowsValues(t *testing.T) {
	m, _, path := testModel(t)
	view := ansi.Strip(m.View())
	for _, want := range []string{"[ API ]", "[ Logging ]", "http://localhost:8000/api/v1", "0s", path + " (not created)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
