package styles

import (
	"strings"
	"testing"

	"github.com/Iron-Ham/taskdesk/internal/task"
)

func TestNewThemedStyles(t *testing.T) {
	p := DraculaPalette()
	s := NewThemedStyles(p)

	if s.PrimaryColor != p.Primary {
		t.Errorf("PrimaryColor = %q, want %q", s.PrimaryColor, p.Primary)
	}
	if s.StatusInProgress != p.StatusInProgress {
		t.Errorf("StatusInProgress = %q, want %q", s.StatusInProgress, p.StatusInProgress)
	}
	if s.LinkColor != p.Link {
		t.Errorf("LinkColor = %q, want %q", s.LinkColor, p.Link)
	}
}

func TestThemedStyles_StatusColor(t *testing.T) {
	s := NewThemedStyles(DefaultPalette())

	tests := []struct {
		status task.Status
		want   string
	}{
		{task.StatusPending, "#9CA3AF"},
		{task.StatusInProgress, "#60A5FA"},
		{task.StatusCompleted, "#10B981"},
		{task.Status("ARCHIVED"), "#9CA3AF"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := string(s.StatusColor(tt.status)); got != tt.want {
				t.Errorf("StatusColor(%q) = %q, want %q", tt.status, got, tt.want)
			}
		})
	}
}

func TestThemedStyles_StylesCanRender(t *testing.T) {
	for _, name := range BuiltinThemes() {
		t.Run(name, func(t *testing.T) {
			s := NewThemedStyles(GetPalette(ThemeName(name)))
			for label, style := range map[string]string{
				"Title":         s.Title.Render("Tasks"),
				"HelpKey":       s.HelpKey.Render("q"),
				"ErrorMsg":      s.ErrorMsg.Render("boom"),
				"TableSelected": s.TableSelected.Render("row"),
				"FormBox":       s.FormBox.Render("form"),
				"DetailBox":     s.DetailBox.Render("detail"),
				"BoundaryBox":   s.BoundaryBox.Render("oops"),
			} {
				if style == "" {
					t.Errorf("%s rendered empty", label)
				}
			}
		})
	}
}

func TestSetActiveTheme(t *testing.T) {
	t.Cleanup(func() { SetActiveTheme(ThemeDefault) })

	SetActiveTheme(ThemeNord)
	if GetActiveTheme().PrimaryColor != NordPalette().Primary {
		t.Errorf("active primary = %q, want nord", GetActiveTheme().PrimaryColor)
	}
	if PrimaryColor != NordPalette().Primary {
		t.Errorf("PrimaryColor global = %q, want nord", PrimaryColor)
	}
	if StatusColor(task.StatusCompleted) != NordPalette().StatusCompleted {
		t.Errorf("StatusColor(COMPLETED) = %q", StatusColor(task.StatusCompleted))
	}

	SetActiveTheme(ThemeDefault)
	if PrimaryColor != DefaultPalette().Primary {
		t.Errorf("PrimaryColor global = %q after reset", PrimaryColor)
	}
}

func TestSetActiveThemeCustom(t *testing.T) {
	ClearCustomThemes()
	t.Cleanup(func() {
		ClearCustomThemes()
		SetActiveTheme(ThemeDefault)
	})

	RegisterCustomTheme("ocean", &ThemeFile{
		Name:    "Ocean",
		Version: "1",
		Colors:  minimalColors(),
	})
	SetActiveTheme("ocean")

	if PrimaryColor != "#0077BE" {
		t.Errorf("PrimaryColor = %q, want custom primary", PrimaryColor)
	}
}

func TestStatusBadge(t *testing.T) {
	tests := []struct {
		status task.Status
		icon   string
		label  string
	}{
		{task.StatusPending, "○", "PENDING"},
		{task.StatusInProgress, "◐", "IN PROGRESS"},
		{task.StatusCompleted, "✓", "COMPLETED"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := StatusIcon(tt.status); got != tt.icon {
				t.Errorf("StatusIcon = %q, want %q", got, tt.icon)
			}
			badge := StatusBadge(tt.status)
			if !strings.Contains(badge, tt.icon) || !strings.Contains(badge, tt.label) {
				t.Errorf("StatusBadge = %q, want icon %q and label %q", badge, tt.icon, tt.label)
			}
		})
	}

	if got := StatusIcon(task.Status("ARCHIVED")); got != "?" {
		t.Errorf("StatusIcon(unknown) = %q, want ?", got)
	}
}
