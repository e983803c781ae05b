package styles

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// ThemeName represents a named color theme.
type ThemeName string

// Available theme names.
const (
	ThemeDefault        ThemeName = "default"         // Purple/green dark theme
	ThemeMonokai        ThemeName = "monokai"         // Classic Monokai editor colors
	ThemeDracula        ThemeName = "dracula"         // Dracula theme colors
	ThemeNord           ThemeName = "nord"            // Nord theme - cool blue-gray
	ThemeGruvbox        ThemeName = "gruvbox"         // Gruvbox retro groove
	ThemeSolarizedLight ThemeName = "solarized-light" // Solarized Light for bright terminals
)

// BuiltinThemes returns all built-in theme names.
func BuiltinThemes() []string {
	return []string{
		string(ThemeDefault),
		string(ThemeMonokai),
		string(ThemeDracula),
		string(ThemeNord),
		string(ThemeGruvbox),
		string(ThemeSolarizedLight),
	}
}

// ValidThemes returns all valid theme names (built-in + custom).
func ValidThemes() []string {
	themes := BuiltinThemes()
	themes = append(themes, CustomThemeNames()...)
	return themes
}

// IsValidTheme checks if a theme name is valid (built-in or custom).
func IsValidTheme(name string) bool {
	if slices.Contains(BuiltinThemes(), name) {
		return true
	}
	return IsCustomTheme(name)
}

// ColorPalette defines the color scheme for a theme.
type ColorPalette struct {
	// Primary accent color (titles, selection)
	Primary lipgloss.Color
	// Secondary accent color (key hints, success)
	Secondary lipgloss.Color
	// Warning color (pending mutations, confirmation prompts)
	Warning lipgloss.Color
	// Error color (error list, field errors)
	Error lipgloss.Color
	// Muted color (de-emphasized text)
	Muted lipgloss.Color
	// Surface color (panel backgrounds)
	Surface lipgloss.Color
	// Text color (primary text)
	Text lipgloss.Color
	// Border color (panel and table borders)
	Border lipgloss.Color

	// Task status colors
	StatusPending    lipgloss.Color
	StatusInProgress lipgloss.Color
	StatusCompleted  lipgloss.Color

	// Markdown accents used in the detail pane
	Heading lipgloss.Color
	Code    lipgloss.Color
	Link    lipgloss.Color
}

// DefaultPalette returns the default purple/green dark theme palette.
func DefaultPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#A78BFA"), // Purple (violet-400)
		Secondary: lipgloss.Color("#10B981"), // Green
		Warning:   lipgloss.Color("#F59E0B"), // Amber
		Error:     lipgloss.Color("#F87171"), // Red (red-400)
		Muted:     lipgloss.Color("#9CA3AF"), // Gray
		Surface:   lipgloss.Color("#1F2937"), // Dark surface
		Text:      lipgloss.Color("#F9FAFB"), // Light text
		Border:    lipgloss.Color("#6B7280"), // Gray-500

		StatusPending:    lipgloss.Color("#9CA3AF"),
		StatusInProgress: lipgloss.Color("#60A5FA"),
		StatusCompleted:  lipgloss.Color("#10B981"),

		Heading: lipgloss.Color("#A78BFA"),
		Code:    lipgloss.Color("#FBBF24"),
		Link:    lipgloss.Color("#60A5FA"),
	}
}

// MonokaiPalette returns the classic Monokai editor theme palette.
func MonokaiPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#F92672"),
		Secondary: lipgloss.Color("#A6E22E"),
		Warning:   lipgloss.Color("#E6DB74"),
		Error:     lipgloss.Color("#F92672"),
		Muted:     lipgloss.Color("#75715E"),
		Surface:   lipgloss.Color("#272822"),
		Text:      lipgloss.Color("#F8F8F2"),
		Border:    lipgloss.Color("#49483E"),

		StatusPending:    lipgloss.Color("#75715E"),
		StatusInProgress: lipgloss.Color("#66D9EF"),
		StatusCompleted:  lipgloss.Color("#A6E22E"),

		Heading: lipgloss.Color("#F92672"),
		Code:    lipgloss.Color("#E6DB74"),
		Link:    lipgloss.Color("#66D9EF"),
	}
}

// DraculaPalette returns the Dracula theme palette.
func DraculaPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#BD93F9"),
		Secondary: lipgloss.Color("#50FA7B"),
		Warning:   lipgloss.Color("#F1FA8C"),
		Error:     lipgloss.Color("#FF5555"),
		Muted:     lipgloss.Color("#6272A4"),
		Surface:   lipgloss.Color("#282A36"),
		Text:      lipgloss.Color("#F8F8F2"),
		Border:    lipgloss.Color("#44475A"),

		StatusPending:    lipgloss.Color("#6272A4"),
		StatusInProgress: lipgloss.Color("#8BE9FD"),
		StatusCompleted:  lipgloss.Color("#50FA7B"),

		Heading: lipgloss.Color("#FF79C6"),
		Code:    lipgloss.Color("#FFB86C"),
		Link:    lipgloss.Color("#8BE9FD"),
	}
}

// NordPalette returns the Nord theme palette.
func NordPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#88C0D0"),
		Secondary: lipgloss.Color("#A3BE8C"),
		Warning:   lipgloss.Color("#EBCB8B"),
		Error:     lipgloss.Color("#BF616A"),
		Muted:     lipgloss.Color("#4C566A"),
		Surface:   lipgloss.Color("#2E3440"),
		Text:      lipgloss.Color("#ECEFF4"),
		Border:    lipgloss.Color("#3B4252"),

		StatusPending:    lipgloss.Color("#4C566A"),
		StatusInProgress: lipgloss.Color("#81A1C1"),
		StatusCompleted:  lipgloss.Color("#A3BE8C"),

		Heading: lipgloss.Color("#88C0D0"),
		Code:    lipgloss.Color("#D08770"),
		Link:    lipgloss.Color("#81A1C1"),
	}
}

// GruvboxPalette returns the Gruvbox dark palette.
func GruvboxPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#FE8019"),
		Secondary: lipgloss.Color("#B8BB26"),
		Warning:   lipgloss.Color("#FABD2F"),
		Error:     lipgloss.Color("#FB4934"),
		Muted:     lipgloss.Color("#928374"),
		Surface:   lipgloss.Color("#282828"),
		Text:      lipgloss.Color("#EBDBB2"),
		Border:    lipgloss.Color("#504945"),

		StatusPending:    lipgloss.Color("#928374"),
		StatusInProgress: lipgloss.Color("#83A598"),
		StatusCompleted:  lipgloss.Color("#B8BB26"),

		Heading: lipgloss.Color("#FE8019"),
		Code:    lipgloss.Color("#FABD2F"),
		Link:    lipgloss.Color("#83A598"),
	}
}

// SolarizedLightPalette returns the Solarized Light palette.
func SolarizedLightPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#6C71C4"),
		Secondary: lipgloss.Color("#859900"),
		Warning:   lipgloss.Color("#B58900"),
		Error:     lipgloss.Color("#DC322F"),
		Muted:     lipgloss.Color("#657B83"),
		Surface:   lipgloss.Color("#EEE8D5"),
		Text:      lipgloss.Color("#073642"),
		Border:    lipgloss.Color("#93A1A1"),

		StatusPending:    lipgloss.Color("#657B83"),
		StatusInProgress: lipgloss.Color("#268BD2"),
		StatusCompleted:  lipgloss.Color("#859900"),

		Heading: lipgloss.Color("#6C71C4"),
		Code:    lipgloss.Color("#CB4B16"),
		Link:    lipgloss.Color("#268BD2"),
	}
}

// GetPalette returns the color palette for the given theme name.
// Registered custom themes are checked first; unknown names fall back to
// the default palette.
func GetPalette(name ThemeName) *ColorPalette {
	if custom := GetCustomTheme(name); custom != nil {
		return custom.ToPalette()
	}

	switch name {
	case ThemeMonokai:
		return MonokaiPalette()
	case ThemeDracula:
		return DraculaPalette()
	case ThemeNord:
		return NordPalette()
	case ThemeGruvbox:
		return GruvboxPalette()
	case ThemeSolarizedLight:
		return SolarizedLightPalette()
	default:
		return DefaultPalette()
	}
}
