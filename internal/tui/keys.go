package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the task screen.
type KeyMap struct {
	Up   key.Binding
	Down key.Binding

	// Row actions
	Edit       key.Binding
	PrevStatus key.Binding
	NextStatus key.Binding
	Save       key.Binding
	Cancel     key.Binding
	Delete     key.Binding
	Confirm    key.Binding
	Deny       key.Binding
	Open       key.Binding

	// Screen actions
	ToggleForm key.Binding
	Dismiss    key.Binding
	Refresh    key.Binding
	Help       key.Binding
	Quit       key.Binding

	// Form
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit status"),
	),
	PrevStatus: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "prev status"),
	),
	NextStatus: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "next status"),
	),
	Save: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "save"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Deny: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n", "keep"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "details"),
	),
	ToggleForm: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add task"),
	),
	Dismiss: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "dismiss errors"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("enter/ctrl+s", "create"),
	),
}

// listHelp implements help.KeyMap for the task table.
type listHelp struct{ k KeyMap }

func (h listHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.ToggleForm, h.k.Edit, h.k.Delete, h.k.Open, h.k.Refresh, h.k.Help, h.k.Quit}
}

func (h listHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.k.Up, h.k.Down, h.k.Open},
		{h.k.Edit, h.k.PrevStatus, h.k.NextStatus, h.k.Save, h.k.Cancel},
		{h.k.Delete, h.k.Confirm, h.k.Deny},
		{h.k.ToggleForm, h.k.Dismiss, h.k.Refresh, h.k.Quit},
	}
}

// editHelp is shown while a row's status is being edited.
type editHelp struct{ k KeyMap }

func (h editHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.PrevStatus, h.k.NextStatus, h.k.Save, h.k.Cancel}
}

func (h editHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h.ShortHelp()} }

// confirmHelp is shown while a delete awaits confirmation.
type confirmHelp struct{ k KeyMap }

func (h confirmHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Confirm, h.k.Deny}
}

func (h confirmHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h.ShortHelp()} }

// formHelp is shown while the creation form has focus.
type formHelp struct{ k KeyMap }

func (h formHelp) ShortHelp() []key.Binding {
	cancel := key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel add task"))
	return []key.Binding{h.k.NextField, h.k.PrevField, h.k.Submit, cancel}
}

func (h formHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h.ShortHelp()} }

// detailHelp is shown in the detail pane.
type detailHelp struct{ k KeyMap }

func (h detailHelp) ShortHelp() []key.Binding {
	back := key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back"))
	return []key.Binding{h.k.Up, h.k.Down, back, h.k.Quit}
}

func (h detailHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h.ShortHelp()} }
