package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/taskdesk/internal/task"
)

// Package-level styles mirror the active theme. They are reassigned by
// SetActiveTheme.
var (
	PrimaryColor   lipgloss.Color
	SecondaryColor lipgloss.Color
	WarningColor   lipgloss.Color
	ErrorColor     lipgloss.Color
	MutedColor     lipgloss.Color
	SurfaceColor   lipgloss.Color
	TextColor      lipgloss.Color
	BorderColor    lipgloss.Color

	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	Text      lipgloss.Style

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	HelpBar  lipgloss.Style
	HelpKey  lipgloss.Style

	ErrorMsg   lipgloss.Style
	WarningMsg lipgloss.Style
	SuccessMsg lipgloss.Style

	TableHeader   lipgloss.Style
	TableCell     lipgloss.Style
	TableSelected lipgloss.Style
	TableBorder   lipgloss.Style

	Button         lipgloss.Style
	FormBox        lipgloss.Style
	FormLabel      lipgloss.Style
	FormLabelFocus lipgloss.Style
	FormHint       lipgloss.Style
	FieldError     lipgloss.Style

	DetailBox   lipgloss.Style
	BoundaryBox lipgloss.Style
)

// Layout constants
const (
	// MinTitleWidth is the narrowest the title column is allowed to shrink to.
	MinTitleWidth = 12
	// DueColumnWidth fits "25 December 2024 at 09:00".
	DueColumnWidth = 25
	// StatusColumnWidth fits the widest status label plus its icon.
	StatusColumnWidth = 14
	// IDColumnWidth is used when tui.show_ids is on.
	IDColumnWidth = 6
)

// StatusColor returns the active theme's color for a task status.
func StatusColor(status task.Status) lipgloss.Color {
	return activeTheme.StatusColor(status)
}

// StatusStyle returns the active theme's style for a task status.
func StatusStyle(status task.Status) lipgloss.Style {
	return activeTheme.StatusStyle(status)
}

// StatusIcon returns an icon for a task status
func StatusIcon(status task.Status) string {
	switch status {
	case task.StatusPending:
		return "○"
	case task.StatusInProgress:
		return "◐"
	case task.StatusCompleted:
		return "✓"
	default:
		return "?"
	}
}

// StatusBadge renders the icon and label of a status in its color.
func StatusBadge(status task.Status) string {
	return StatusStyle(status).Render(StatusIcon(status) + " " + status.Label())
}
