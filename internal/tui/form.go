package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/taskdesk/internal/form"
	"github.com/Iron-Ham/taskdesk/internal/task"
	"github.com/Iron-Ham/taskdesk/internal/tui/styles"
)

// formField indexes the focusable inputs of the creation form in tab order.
type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldDay
	fieldMonth
	fieldYear
	fieldHour
	fieldMinute
	fieldCount
)

// formModel is the task creation form. It owns the raw text only; the
// create mutation lives in the store.
type formModel struct {
	title       textinput.Model
	description textarea.Model
	// day, month, year, hour, minute
	parts [5]textinput.Model

	focus formField

	clientErrs form.Errors
	serverErrs []form.ServerError
}

func newFormModel() formModel {
	f := formModel{}

	f.title = textinput.New()
	f.title.Placeholder = "What needs doing?"
	f.title.CharLimit = 255
	f.title.Width = 40

	f.description = textarea.New()
	f.description.Placeholder = "Optional. Markdown is supported."
	f.description.ShowLineNumbers = false
	f.description.SetWidth(44)
	f.description.SetHeight(3)

	placeholders := [5]string{"DD", "MM", "YYYY", "HH", "MM"}
	for i := range f.parts {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = len(placeholders[i])
		ti.Width = len(placeholders[i]) + 1
		ti.Prompt = ""
		f.parts[i] = ti
	}

	f.setFocus(fieldTitle)
	return f
}

// input returns the raw text of every field.
func (f formModel) input() form.Input {
	return form.Input{
		Title:       f.title.Value(),
		Description: f.description.Value(),
		Day:         f.parts[0].Value(),
		Month:       f.parts[1].Value(),
		Year:        f.parts[2].Value(),
		Hour:        f.parts[3].Value(),
		Minute:      f.parts[4].Value(),
	}
}

// setFocus focuses field and blurs the rest.
func (f *formModel) setFocus(field formField) {
	f.focus = field
	f.title.Blur()
	f.description.Blur()
	for i := range f.parts {
		f.parts[i].Blur()
	}

	switch field {
	case fieldTitle:
		f.title.Focus()
	case fieldDescription:
		f.description.Focus()
	default:
		f.parts[field-fieldDay].Focus()
	}
}

func (f *formModel) cycle(delta int) {
	next := (int(f.focus) + delta + int(fieldCount)) % int(fieldCount)
	f.setFocus(formField(next))
}

// validate runs client-side validation. Server errors from the previous
// attempt are cleared so that only the new attempt's errors show.
func (f *formModel) validate() (task.Create, bool) {
	payload, errs, ok := form.Validate(f.input())
	f.clientErrs = errs
	f.serverErrs = nil
	return payload, ok
}

// setServerErrors records the field errors of a failed create.
func (f *formModel) setServerErrors(errs []form.ServerError) {
	f.serverErrs = errs
}

// errors is the per-field view of client and server errors, server first.
func (f formModel) errors() form.Errors {
	return f.clientErrs.Merge(f.serverErrs)
}

// submitKey reports whether msg submits the form from the focused field.
// Enter inserts a newline in the description instead.
func (f formModel) submitKey(msg tea.KeyMsg, keys KeyMap) bool {
	if key.Matches(msg, keys.Submit) {
		return true
	}
	return msg.Type == tea.KeyEnter && f.focus != fieldDescription
}

// update routes navigation and text editing to the focused input.
func (f formModel) update(msg tea.Msg, keys KeyMap) (formModel, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.NextField):
			f.cycle(1)
			return f, nil
		case key.Matches(km, keys.PrevField):
			f.cycle(-1)
			return f, nil
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDescription:
		f.description, cmd = f.description.Update(msg)
	default:
		i := f.focus - fieldDay
		f.parts[i], cmd = f.parts[i].Update(msg)
	}
	return f, cmd
}

func (f formModel) label(text string, field ...formField) string {
	for _, fl := range field {
		if fl == f.focus {
			return styles.FormLabelFocus.Render(text)
		}
	}
	return styles.FormLabel.Render(text)
}

func fieldError(msg string) string {
	if msg == "" {
		return ""
	}
	return "\n" + styles.FieldError.Render("Error: "+msg)
}

// view renders the form. createErr is the create mutation's message and
// pending is true while a create is in flight.
func (f formModel) view(createErr string, pending bool) string {
	errs := f.errors()
	var b strings.Builder

	b.WriteString(styles.Title.Render("Add New Task"))
	b.WriteString("\n")

	if n := errs.Count(); n > 0 {
		b.WriteString(styles.ErrorMsg.Render("There is a problem"))
		b.WriteString("\n")
		for _, m := range errs.List() {
			b.WriteString(styles.Error.Render("  • " + m))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(f.label("Title", fieldTitle))
	b.WriteString(fieldError(errs.For(form.FieldTitle)))
	b.WriteString("\n")
	b.WriteString(f.title.View())
	b.WriteString("\n\n")

	b.WriteString(f.label("Description (optional)", fieldDescription))
	b.WriteString(fieldError(errs.For(form.FieldDescription)))
	b.WriteString("\n")
	b.WriteString(f.description.View())
	b.WriteString("\n\n")

	b.WriteString(f.label("Due date", fieldDay, fieldMonth, fieldYear))
	b.WriteString("\n")
	b.WriteString(styles.FormHint.Render("For example, 25 12 2024"))
	b.WriteString(fieldError(errs.For(form.FieldDate)))
	b.WriteString("\n")
	b.WriteString(f.partsRow([]string{"Day", "Month", "Year"}, 0))
	b.WriteString("\n\n")

	b.WriteString(f.label("Due time", fieldHour, fieldMinute))
	b.WriteString("\n")
	b.WriteString(styles.FormHint.Render("24-hour clock, for example 09 30"))
	b.WriteString(fieldError(errs.For(form.FieldTime)))
	b.WriteString("\n")
	b.WriteString(f.partsRow([]string{"Hour", "Minute"}, 3))
	b.WriteString("\n\n")

	if pending {
		b.WriteString(styles.WarningMsg.Render("Adding Task..."))
	} else {
		b.WriteString(styles.Button.Render("Create Task"))
	}

	if createErr != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.ErrorMsg.Render(createErr))
	}

	return styles.FormBox.Render(b.String())
}

func (f formModel) partsRow(labels []string, offset int) string {
	cols := make([]string, 0, len(labels))
	for i, l := range labels {
		input := lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(styles.BorderColor).
			Render(f.parts[offset+i].View())
		cols = append(cols, lipgloss.JoinVertical(lipgloss.Left, styles.Muted.Render(l), input))
		if i < len(labels)-1 {
			cols = append(cols, "  ")
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}
