// Package config implements the interactive configuration editor behind
// "taskdesk config edit".
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/taskdesk/internal/config"
	"github.com/Iron-Ham/taskdesk/internal/tui/styles"
)

// Item types
const (
	TypeString   = "string"
	TypeBool     = "bool"
	TypeInt      = "int"
	TypeDuration = "duration"
	TypeSelect   = "select"
)

// ConfigItem represents a single configuration item
type ConfigItem struct {
	Key         string
	Label       string
	Description string
	Type        string
	Options     []string // For select type
}

// Category represents a group of config items
type Category struct {
	Name  string
	Items []ConfigItem
}

// Categories returns the editable settings grouped for display.
func Categories() []Category {
	return []Category{
		{
			Name: "API",
			Items: []ConfigItem{
				{
					Key:         "api.base_url",
					Label:       "Base URL",
					Description: "API root including the version prefix",
					Type:        TypeString,
				},
				{
					Key:         "api.timeout",
					Label:       "Request Timeout",
					Description: "Per-request timeout such as 10s (0s = none)",
					Type:        TypeDuration,
				},
			},
		},
		{
			Name: "App",
			Items: []ConfigItem{
				{
					Key:         "app.environment",
					Label:       "Environment",
					Description: "development shows panic details on the error screen",
					Type:        TypeSelect,
					Options:     config.ValidEnvironments(),
				},
			},
		},
		{
			Name: "TUI",
			Items: []ConfigItem{
				{
					Key:         "tui.theme",
					Label:       "Theme",
					Description: "Color theme; a running TUI picks up changes immediately",
					Type:        TypeSelect,
					Options:     styles.ValidThemes(),
				},
				{
					Key:         "tui.show_ids",
					Label:       "Show IDs",
					Description: "Add a task id column to the table",
					Type:        TypeBool,
				},
			},
		},
		{
			Name: "Logging",
			Items: []ConfigItem{
				{
					Key:         "logging.enabled",
					Label:       "Enabled",
					Description: "Write logs to " + config.LogFile(),
					Type:        TypeBool,
				},
				{
					Key:         "logging.level",
					Label:       "Level",
					Description: "Minimum level written to the log file",
					Type:        TypeSelect,
					Options:     config.ValidLogLevels(),
				},
				{
					Key:         "logging.max_size_mb",
					Label:       "Max Size (MB)",
					Description: "Log size that triggers rotation",
					Type:        TypeInt,
				},
				{
					Key:         "logging.max_backups",
					Label:       "Max Backups",
					Description: "Number of rotated log files to keep",
					Type:        TypeInt,
				},
			},
		},
	}
}

// Model is the Bubbletea model for the interactive config UI
type Model struct {
	v    *viper.Viper
	path string

	categories    []Category
	categoryIndex int
	itemIndex     int
	width         int
	height        int
	editing       bool
	textInput     textinput.Model
	selectIndex   int // For select-type options
	errorMsg      string
	infoMsg       string
	quitting      bool
	modified      bool
}

// New creates an editor over v that saves to path.
func New(v *viper.Viper, path string) Model {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 40

	return Model{
		v:          v,
		path:       path,
		categories: Categories(),
		textInput:  ti,
	}
}

// Modified reports whether any setting was saved.
func (m Model) Modified() bool {
	return m.modified
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Clear messages on any key
		m.errorMsg = ""
		m.infoMsg = ""

		if m.editing {
			return m.handleEditingKeypress(msg)
		}

		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			m.itemIndex--
			if m.itemIndex < 0 {
				m.categoryIndex--
				if m.categoryIndex < 0 {
					m.categoryIndex = len(m.categories) - 1
				}
				m.itemIndex = len(m.categories[m.categoryIndex].Items) - 1
			}

		case "down", "j":
			m.itemIndex++
			if m.itemIndex >= len(m.categories[m.categoryIndex].Items) {
				m.categoryIndex++
				if m.categoryIndex >= len(m.categories) {
					m.categoryIndex = 0
				}
				m.itemIndex = 0
			}

		case "tab":
			m.categoryIndex = (m.categoryIndex + 1) % len(m.categories)
			m.itemIndex = 0

		case "shift+tab":
			m.categoryIndex = (m.categoryIndex - 1 + len(m.categories)) % len(m.categories)
			m.itemIndex = 0

		case "enter", " ":
			item := m.currentItem()
			switch item.Type {
			case TypeBool:
				m.apply(item, !m.v.GetBool(item.Key))
			case TypeSelect:
				m.editing = true
				m.selectIndex = m.currentSelectIndex()
			default:
				m.editing = true
				m.textInput.SetValue(m.displayValue(item))
				m.textInput.Focus()
			}

		case "r":
			m.resetCurrentToDefault()
		}
	}

	return m, nil
}

func (m Model) handleEditingKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	item := m.currentItem()

	switch msg.String() {
	case "esc":
		m.editing = false
		m.textInput.SetValue("")
		return m, nil

	case "enter":
		if item.Type == TypeSelect {
			if len(item.Options) > 0 {
				m.apply(item, item.Options[m.selectIndex])
			}
			m.editing = false
			return m, nil
		}
		value, err := ParseValue(item, m.textInput.Value())
		if err != nil {
			m.errorMsg = err.Error()
			return m, nil
		}
		if !m.apply(item, value) {
			return m, nil
		}
		m.editing = false
		m.textInput.SetValue("")
		return m, nil

	case "up", "k":
		if item.Type == TypeSelect && len(item.Options) > 0 {
			m.selectIndex = (m.selectIndex - 1 + len(item.Options)) % len(item.Options)
			return m, nil
		}

	case "down", "j":
		if item.Type == TypeSelect && len(item.Options) > 0 {
			m.selectIndex = (m.selectIndex + 1) % len(item.Options)
			return m, nil
		}
	}

	if item.Type != TypeSelect {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// apply sets item to value, validates the whole configuration and saves it.
// An invalid value is rolled back and reported.
func (m *Model) apply(item ConfigItem, value any) bool {
	previous := m.v.Get(item.Key)
	m.v.Set(item.Key, value)

	if _, err := config.LoadFrom(m.v); err != nil {
		m.v.Set(item.Key, previous)
		m.errorMsg = err.Error()
		return false
	}
	return m.save()
}

func (m *Model) save() bool {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		m.errorMsg = fmt.Sprintf("Failed to create config directory: %v", err)
		return false
	}
	if err := m.v.WriteConfigAs(m.path); err != nil {
		m.errorMsg = fmt.Sprintf("Failed to save config: %v", err)
		return false
	}
	m.infoMsg = "Saved!"
	m.modified = true
	return true
}

func (m *Model) resetCurrentToDefault() {
	item := m.currentItem()
	defaults := viper.New()
	config.SetDefaultsOn(defaults)
	if m.apply(item, defaults.Get(item.Key)) {
		m.infoMsg = fmt.Sprintf("Reset %s to default", item.Label)
	}
}

// Lookup returns the item for key.
func Lookup(key string) (ConfigItem, bool) {
	for _, cat := range Categories() {
		for _, item := range cat.Items {
			if item.Key == key {
				return item, true
			}
		}
	}
	return ConfigItem{}, false
}

// ParseValue converts text typed for item into the value stored in viper.
func ParseValue(item ConfigItem, text string) (any, error) {
	text = strings.TrimSpace(text)
	switch item.Type {
	case TypeInt:
		n, err := strconv.Atoi(text)
		if err != nil {
			return nil, fmt.Errorf("expected integer value")
		}
		return n, nil
	case TypeDuration:
		d, err := time.ParseDuration(text)
		if err != nil {
			return nil, fmt.Errorf("expected a duration such as 10s or 1m30s")
		}
		return d.String(), nil
	case TypeBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, fmt.Errorf("expected true or false")
		}
		return b, nil
	case TypeSelect:
		if !slices.Contains(item.Options, text) {
			return nil, fmt.Errorf("invalid option: %s", text)
		}
		return text, nil
	default:
		return text, nil
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(styles.Title.Render("taskdesk configuration"))
	b.WriteString("\n\n")

	path := m.v.ConfigFileUsed()
	if path == "" {
		path = m.path
		if _, err := os.Stat(path); err != nil {
			path += " (not created)"
		}
	}
	b.WriteString(styles.Muted.Render("Config file: " + path))
	b.WriteString("\n\n")

	for ci, cat := range m.categories {
		active := ci == m.categoryIndex

		catStyle := styles.Muted.Bold(true)
		if active {
			catStyle = styles.Primary.Bold(true)
		}
		b.WriteString(catStyle.Render(fmt.Sprintf("[ %s ]", cat.Name)))
		b.WriteString("\n")

		for ii, item := range cat.Items {
			b.WriteString(m.renderItem(item, active && ii == m.itemIndex))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.editing {
		b.WriteString(m.renderEditOverlay())
	} else {
		b.WriteString(styles.Muted.Render(m.currentItem().Description))
		b.WriteString("\n")
	}

	if m.errorMsg != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorMsg.Render("Error: " + m.errorMsg))
	}
	if m.infoMsg != "" {
		b.WriteString("\n")
		b.WriteString(styles.SuccessMsg.Render(m.infoMsg))
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) renderItem(item ConfigItem, selected bool) string {
	value := m.displayValue(item)
	label := fmt.Sprintf("%-20s", item.Label)

	if selected {
		cursor := styles.Secondary.Render(">")
		return fmt.Sprintf("  %s %s  %s", cursor, styles.Text.Bold(true).Render(label), styles.Primary.Render(value))
	}
	return fmt.Sprintf("    %s  %s", styles.Muted.Render(label), styles.Text.Render(value))
}

func (m Model) renderEditOverlay() string {
	item := m.currentItem()

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.PrimaryColor).
		Padding(1, 2).
		Width(50)

	var content strings.Builder
	if item.Type == TypeSelect {
		fmt.Fprintf(&content, "Select %s:\n\n", item.Label)
		for i, opt := range item.Options {
			if i == m.selectIndex {
				content.WriteString(styles.TableSelected.Render(" > "+opt+" ") + "\n")
			} else {
				content.WriteString(styles.Text.Render("   "+opt+" ") + "\n")
			}
		}
		content.WriteString("\n" + styles.Muted.Render("j/k or arrows to select, enter to confirm, esc to cancel"))
	} else {
		fmt.Fprintf(&content, "Edit %s:\n\n", item.Label)
		content.WriteString(m.textInput.View())
		content.WriteString("\n\n" + styles.Muted.Render("enter to save, esc to cancel"))
	}

	return "\n" + box.Render(content.String())
}

func (m Model) renderHelp() string {
	k := styles.HelpKey

	if m.editing {
		return styles.HelpBar.Render(k.Render("enter") + " save  " + k.Render("esc") + " cancel")
	}
	return styles.HelpBar.Render(
		k.Render("j/k") + " navigate  " +
			k.Render("tab") + " next category  " +
			k.Render("enter/space") + " edit  " +
			k.Render("r") + " reset  " +
			k.Render("q") + " quit",
	)
}

func (m Model) currentItem() ConfigItem {
	return m.categories[m.categoryIndex].Items[m.itemIndex]
}

func (m Model) displayValue(item ConfigItem) string {
	switch item.Type {
	case TypeBool:
		return strconv.FormatBool(m.v.GetBool(item.Key))
	case TypeInt:
		return strconv.Itoa(m.v.GetInt(item.Key))
	case TypeDuration:
		return m.v.GetDuration(item.Key).String()
	default:
		return m.v.GetString(item.Key)
	}
}

func (m Model) currentSelectIndex() int {
	current := m.v.GetString(m.currentItem().Key)
	if i := slices.Index(m.currentItem().Options, current); i >= 0 {
		return i
	}
	return 0
}

// Run starts the interactive config editor over v, saving to path.
func Run(v *viper.Viper, path string) (bool, error) {
	final, err := tea.NewProgram(New(v, path), tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, _ := final.(Model)
	return m.Modified(), nil
}
