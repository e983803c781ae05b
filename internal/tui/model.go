package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/taskdesk/internal/errors"
	"github.com/Iron-Ham/taskdesk/internal/form"
	"github.com/Iron-Ham/taskdesk/internal/logging"
	"github.com/Iron-Ham/taskdesk/internal/task"
	"github.com/Iron-Ham/taskdesk/internal/tui/styles"
)

// UI text
const (
	msgLoading     = "Loading tasks..."
	msgEmpty       = "No tasks exist yet. Add one above!"
	msgUpdating    = "Updating..."
	labelAddTask   = "Add New Task"
	labelCancelAdd = "Cancel Add Task"
)

// Options configures a Model.
type Options struct {
	// ShowIDs adds an id column to the table.
	ShowIDs bool
	Logger  *logging.Logger
	Keys    *KeyMap
}

// Model is the root Bubble Tea model: the creation form above the task
// table, with an optional detail pane replacing both.
type Model struct {
	ctx    context.Context
	store  *store
	keys   KeyMap
	logger *logging.Logger

	form     formModel
	showForm bool
	list     listModel
	detail   *detailModel

	spinner spinner.Model
	help    help.Model

	// inflight counts dispatched fetches and mutations whose result message
	// has not arrived. The spinner only ticks while it is non-zero.
	inflight int

	// notice is a non-fatal message such as a rejected config reload
	notice string

	width  int
	height int
}

// NewModel creates the root model. Every request it issues uses ctx, so
// canceling ctx aborts in-flight work.
func NewModel(ctx context.Context, svc TaskService, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	keys := DefaultKeyMap
	if opts.Keys != nil {
		keys = *opts.Keys
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Primary

	return Model{
		ctx:      ctx,
		store:    newStore(svc, logger),
		keys:     keys,
		logger:   logger.WithComponent("tui"),
		form:     newFormModel(),
		list:     newListModel(opts.ShowIDs),
		spinner:  sp,
		help:     help.New(),
		inflight: 1, // the fetch started by Init
		width:    80,
		height:   24,
	}
}

// Init starts the first fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(fetchCmd(m.ctx, m.store), m.spinner.Tick)
}

// dispatch records a request command as in flight and restarts the spinner
// when it was idle. A duplicate tick chain is dropped by the spinner's tag
// check.
func (m *Model) dispatch(cmd tea.Cmd) tea.Cmd {
	m.inflight++
	if m.inflight == 1 {
		return tea.Batch(cmd, m.spinner.Tick)
	}
	return cmd
}

// settle marks one dispatched request as finished.
func (m *Model) settle() {
	if m.inflight > 0 {
		m.inflight--
	}
}

func (m Model) tasks() []task.Task {
	return m.store.tasks.Snapshot().Data
}

// Update handles messages and keypresses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if m.detail != nil {
			m.detail.setSize(msg.Width, msg.Height)
		}
		return m, nil

	case spinner.TickMsg:
		if m.inflight == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case fetchedMsg:
		m.settle()
		m.list.sync(m.tasks())
		return m, nil

	case createdMsg:
		m.settle()
		m.list.sync(m.tasks())
		if msg.err == nil {
			m.showForm = false
			m.form = newFormModel()
		} else if !errors.IsCanceled(msg.err) {
			m.form.setServerErrors(form.ServerErrorsFromAPI(msg.err))
		}
		return m, nil

	case statusUpdatedMsg:
		m.settle()
		m.list.sync(m.tasks())
		return m, nil

	case deletedMsg:
		m.settle()
		m.list.sync(m.tasks())
		if msg.err == nil && m.detail != nil && m.detail.id == msg.id {
			m.detail = nil
		}
		return m, nil

	case detailLoadedMsg:
		if m.detail != nil {
			m.detail.loaded(msg)
		}
		return m, nil

	case themeChangedMsg:
		styles.SetActiveTheme(styles.ThemeName(msg.theme))
		m.notice = ""
		if m.detail != nil {
			m.detail.render()
		}
		return m, nil

	case configErrorMsg:
		m.notice = "Config not reloaded: " + msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.showForm {
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg, m.keys)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.detail != nil {
		switch {
		case msg.Type == tea.KeyEsc:
			m.detail = nil
			return m, nil
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		return m, m.detail.update(msg)
	}

	if m.showForm {
		return m.handleFormKey(msg)
	}

	tasks := m.tasks()
	if !m.list.busy(tasks) {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.ToggleForm):
			m.showForm = true
			m.form.setFocus(fieldTitle)
			return m, nil
		case key.Matches(msg, m.keys.Dismiss):
			m.store.dismiss()
			m.notice = ""
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m, m.dispatch(fetchCmd(m.ctx, m.store))
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var action listAction
	m.list, action = m.list.handleKey(msg, m.keys, tasks)

	switch action.kind {
	case actionSaveStatus:
		return m, m.dispatch(updateStatusCmd(m.ctx, m.store, action.id, action.status))
	case actionDelete:
		return m, m.dispatch(deleteCmd(m.ctx, m.store, action.id))
	case actionOpen:
		m.detail = newDetailModel(action.id, m.width, m.height)
		return m, loadDetailCmd(m.ctx, m.store, action.id)
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.showForm = false
		m.form = newFormModel()
		m.store.create.Reset()
		return m, nil
	}

	if m.form.submitKey(msg, m.keys) {
		if m.store.create.Snapshot().Pending {
			return m, nil
		}
		payload, ok := m.form.validate()
		if !ok {
			m.logger.Debug("form rejected", "errors", m.form.errors().Count())
			return m, nil
		}
		return m, m.dispatch(createCmd(m.ctx, m.store, payload))
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg, m.keys)
	return m, cmd
}

// View renders the screen.
func (m Model) View() string {
	if m.detail != nil {
		return m.detail.view() + "\n" + m.helpView(detailHelp{m.keys})
	}

	var b strings.Builder

	b.WriteString(styles.Title.Render("Tasks"))
	b.WriteString("\n")

	label := labelAddTask
	if m.showForm {
		label = labelCancelAdd
	}
	b.WriteString(styles.Button.Render(label))
	b.WriteString("  ")
	b.WriteString(styles.Muted.Render("(" + m.keys.ToggleForm.Help().Key + ")"))
	b.WriteString("\n\n")

	if m.showForm {
		create := m.store.create.Snapshot()
		createErr := ""
		if create.Err != nil && !errors.IsCanceled(create.Err) {
			createErr = errors.Message(create.Err)
		}
		b.WriteString(m.form.view(createErr, create.Pending))
		b.WriteString("\n\n")
	}

	if lines := m.store.errorLines(); len(lines) > 0 {
		for _, l := range lines {
			b.WriteString(styles.ErrorMsg.Render(l))
			b.WriteString("\n")
		}
		b.WriteString(styles.Muted.Render("press x to dismiss"))
		b.WriteString("\n\n")
	}

	state := m.store.tasks.Snapshot()
	switch {
	case state.Loading() || (!state.HasData && state.Err == nil):
		b.WriteString(m.spinner.View() + " " + msgLoading)
	case state.HasData && len(state.Data) == 0:
		b.WriteString(styles.Muted.Render(msgEmpty))
	case state.HasData:
		b.WriteString(m.list.view(state.Data, m.width))
		b.WriteString("\n")
		b.WriteString(styles.Muted.Render(summary(state.Data)))
	}

	if m.store.updating() {
		b.WriteString("\n")
		b.WriteString(m.spinner.View() + " " + styles.WarningMsg.Render(msgUpdating))
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(styles.WarningMsg.Render(m.notice))
	}

	b.WriteString("\n")
	b.WriteString(m.helpView(m.activeHelp()))
	return b.String()
}

func (m Model) activeHelp() help.KeyMap {
	if m.showForm {
		return formHelp{m.keys}
	}
	tasks := m.tasks()
	if t, ok := m.list.selected(tasks); ok {
		s := m.list.state(t.ID)
		switch {
		case s.confirming:
			return confirmHelp{m.keys}
		case s.editing:
			return editHelp{m.keys}
		}
	}
	return listHelp{m.keys}
}

func (m Model) helpView(k help.KeyMap) string {
	return styles.HelpBar.Render(m.help.View(k))
}
