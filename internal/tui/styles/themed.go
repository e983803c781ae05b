package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/taskdesk/internal/task"
)

// ThemedStyles contains all the lipgloss styles built from a color palette.
// Styles are regenerated when the theme changes.
type ThemedStyles struct {
	// Colors from the palette
	PrimaryColor   lipgloss.Color
	SecondaryColor lipgloss.Color
	WarningColor   lipgloss.Color
	ErrorColor     lipgloss.Color
	MutedColor     lipgloss.Color
	SurfaceColor   lipgloss.Color
	TextColor      lipgloss.Color
	BorderColor    lipgloss.Color

	// Status colors
	StatusPending    lipgloss.Color
	StatusInProgress lipgloss.Color
	StatusCompleted  lipgloss.Color

	// Markdown colors
	HeadingColor lipgloss.Color
	CodeColor    lipgloss.Color
	LinkColor    lipgloss.Color

	// Convenience styles for colors
	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	Text      lipgloss.Style

	Title    lipgloss.Style
	Subtitle lipgloss.Style

	// Help bar
	HelpBar lipgloss.Style
	HelpKey lipgloss.Style

	// Messages
	ErrorMsg   lipgloss.Style
	WarningMsg lipgloss.Style
	SuccessMsg lipgloss.Style

	// Task table
	TableHeader   lipgloss.Style
	TableCell     lipgloss.Style
	TableSelected lipgloss.Style
	TableBorder   lipgloss.Style

	// Creation form
	Button         lipgloss.Style
	FormBox        lipgloss.Style
	FormLabel      lipgloss.Style
	FormLabelFocus lipgloss.Style
	FormHint       lipgloss.Style
	FieldError     lipgloss.Style

	// Detail pane
	DetailBox lipgloss.Style

	// Error boundary
	BoundaryBox lipgloss.Style

	// Markdown
	MarkdownHeading lipgloss.Style
	MarkdownCode    lipgloss.Style
	MarkdownLink    lipgloss.Style
	MarkdownQuote   lipgloss.Style
	MarkdownEmph    lipgloss.Style
	MarkdownStrong  lipgloss.Style
}

// NewThemedStyles creates a new ThemedStyles from a color palette.
func NewThemedStyles(p *ColorPalette) *ThemedStyles {
	s := &ThemedStyles{
		PrimaryColor:   p.Primary,
		SecondaryColor: p.Secondary,
		WarningColor:   p.Warning,
		ErrorColor:     p.Error,
		MutedColor:     p.Muted,
		SurfaceColor:   p.Surface,
		TextColor:      p.Text,
		BorderColor:    p.Border,

		StatusPending:    p.StatusPending,
		StatusInProgress: p.StatusInProgress,
		StatusCompleted:  p.StatusCompleted,

		HeadingColor: p.Heading,
		CodeColor:    p.Code,
		LinkColor:    p.Link,
	}

	s.Primary = lipgloss.NewStyle().Foreground(p.Primary)
	s.Secondary = lipgloss.NewStyle().Foreground(p.Secondary)
	s.Warning = lipgloss.NewStyle().Foreground(p.Warning)
	s.Error = lipgloss.NewStyle().Foreground(p.Error)
	s.Muted = lipgloss.NewStyle().Foreground(p.Muted)
	s.Text = lipgloss.NewStyle().Foreground(p.Text)

	s.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary).
		MarginBottom(1)

	s.Subtitle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Italic(true)

	s.HelpBar = lipgloss.NewStyle().
		Foreground(p.Muted).
		MarginTop(1)

	s.HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Secondary)

	s.ErrorMsg = lipgloss.NewStyle().
		Foreground(p.Error).
		Bold(true)

	s.WarningMsg = lipgloss.NewStyle().
		Foreground(p.Warning).
		Bold(true)

	s.SuccessMsg = lipgloss.NewStyle().
		Foreground(p.Secondary).
		Bold(true)

	s.TableHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary).
		Padding(0, 1)

	s.TableCell = lipgloss.NewStyle().
		Foreground(p.Text).
		Padding(0, 1)

	s.TableSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Text).
		Background(p.Surface).
		Padding(0, 1)

	s.TableBorder = lipgloss.NewStyle().
		Foreground(p.Border)

	s.Button = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Text).
		Background(p.Secondary).
		Padding(0, 2)

	s.FormBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(1, 2)

	s.FormLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Text)

	s.FormLabelFocus = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary)

	s.FormHint = lipgloss.NewStyle().
		Foreground(p.Muted).
		Italic(true)

	s.FieldError = lipgloss.NewStyle().
		Foreground(p.Error).
		Bold(true)

	s.DetailBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary).
		Padding(1, 2)

	s.BoundaryBox = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(p.Error).
		Padding(1, 2)

	s.MarkdownHeading = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Heading)

	s.MarkdownCode = lipgloss.NewStyle().
		Foreground(p.Code)

	s.MarkdownLink = lipgloss.NewStyle().
		Underline(true).
		Foreground(p.Link)

	s.MarkdownQuote = lipgloss.NewStyle().
		Foreground(p.Muted).
		Italic(true)

	s.MarkdownEmph = lipgloss.NewStyle().Italic(true)
	s.MarkdownStrong = lipgloss.NewStyle().Bold(true)

	return s
}

// StatusColor returns the color for a task status using the themed palette.
func (s *ThemedStyles) StatusColor(status task.Status) lipgloss.Color {
	switch status {
	case task.StatusPending:
		return s.StatusPending
	case task.StatusInProgress:
		return s.StatusInProgress
	case task.StatusCompleted:
		return s.StatusCompleted
	default:
		return s.MutedColor
	}
}

// StatusStyle returns a bold foreground style for a task status.
func (s *ThemedStyles) StatusStyle(status task.Status) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(s.StatusColor(status))
}

var activeTheme *ThemedStyles

func init() {
	activeTheme = NewThemedStyles(DefaultPalette())
	syncGlobalStyles()
}

// SetActiveTheme updates the active theme and the package-level styles.
//
// Note: This function is not thread-safe. It is designed to be called only
// from the Bubble Tea event loop, which runs on a single goroutine.
func SetActiveTheme(name ThemeName) {
	activeTheme = NewThemedStyles(GetPalette(name))
	syncGlobalStyles()
}

// GetActiveTheme returns the currently active themed styles.
func GetActiveTheme() *ThemedStyles {
	return activeTheme
}

func syncGlobalStyles() {
	PrimaryColor = activeTheme.PrimaryColor
	SecondaryColor = activeTheme.SecondaryColor
	WarningColor = activeTheme.WarningColor
	ErrorColor = activeTheme.ErrorColor
	MutedColor = activeTheme.MutedColor
	SurfaceColor = activeTheme.SurfaceColor
	TextColor = activeTheme.TextColor
	BorderColor = activeTheme.BorderColor

	Primary = activeTheme.Primary
	Secondary = activeTheme.Secondary
	Warning = activeTheme.Warning
	Error = activeTheme.Error
	Muted = activeTheme.Muted
	Text = activeTheme.Text

	Title = activeTheme.Title
	Subtitle = activeTheme.Subtitle
	HelpBar = activeTheme.HelpBar
	HelpKey = activeTheme.HelpKey

	ErrorMsg = activeTheme.ErrorMsg
	WarningMsg = activeTheme.WarningMsg
	SuccessMsg = activeTheme.SuccessMsg

	TableHeader = activeTheme.TableHeader
	TableCell = activeTheme.TableCell
	TableSelected = activeTheme.TableSelected
	TableBorder = activeTheme.TableBorder

	Button = activeTheme.Button
	FormBox = activeTheme.FormBox
	FormLabel = activeTheme.FormLabel
	FormLabelFocus = activeTheme.FormLabelFocus
	FormHint = activeTheme.FormHint
	FieldError = activeTheme.FieldError

	DetailBox = activeTheme.DetailBox
	BoundaryBox = activeTheme.BoundaryBox
}
