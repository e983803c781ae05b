package tui

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/taskdesk/internal/logging"
	"github.com/Iron-Ham/taskdesk/internal/tui/styles"
)

// Fallback screen text
const (
	boundaryTitle = "Sorry, there is a problem with the service"
	boundaryHint  = "Try again later."
)

// crash records a recovered panic.
type crash struct {
	value any
	stack string
}

// boundary wraps a model and replaces it with a fallback screen if it
// panics. In development mode the fallback also shows the panic value and
// stack. The crash slot is shared by every copy so a panic in Init, whose
// receiver copy is discarded, still reaches View.
type boundary struct {
	inner  tea.Model
	dev    bool
	keys   KeyMap
	logger *logging.Logger
	state  *boundaryState
}

type boundaryState struct {
	crash *crash
}

func newBoundary(inner tea.Model, dev bool, logger *logging.Logger) boundary {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return boundary{
		inner:  inner,
		dev:    dev,
		keys:   DefaultKeyMap,
		logger: logger.WithComponent("boundary"),
		state:  &boundaryState{},
	}
}

func (b boundary) capture(r any) *crash {
	c := &crash{value: r, stack: string(debug.Stack())}
	b.logger.Error("recovered panic", "panic", fmt.Sprint(r), "stack", c.stack)
	return c
}

func (b boundary) Init() (cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			b.state.crash = b.capture(r)
			cmd = nil
		}
	}()
	return b.inner.Init()
}

func (b boundary) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	if b.state.crash != nil {
		if k, ok := msg.(tea.KeyMsg); ok && (k.Type == tea.KeyCtrlC || key.Matches(k, b.keys.Quit)) {
			return b, tea.Quit
		}
		return b, nil
	}

	defer func() {
		if r := recover(); r != nil {
			b.state.crash = b.capture(r)
			model, cmd = b, nil
		}
	}()

	inner, cmd := b.inner.Update(msg)
	b.inner = inner
	return b, cmd
}

func (b boundary) View() (view string) {
	if b.state.crash != nil {
		return b.fallback(b.state.crash)
	}

	defer func() {
		if r := recover(); r != nil {
			view = b.fallback(b.capture(r))
		}
	}()
	return b.inner.View()
}

func (b boundary) fallback(c *crash) string {
	var sb strings.Builder
	sb.WriteString(styles.Error.Bold(true).Render(boundaryTitle))
	sb.WriteString("\n\n")
	sb.WriteString(boundaryHint)
	if b.dev {
		sb.WriteString("\n\n")
		sb.WriteString(styles.ErrorMsg.Render(fmt.Sprintf("panic: %v", c.value)))
		sb.WriteString("\n")
		sb.WriteString(styles.Muted.Render(strings.TrimSpace(c.stack)))
	}
	sb.WriteString("\n\n")
	sb.WriteString(styles.Muted.Render("press q to quit"))
	return styles.BoundaryBox.Render(sb.String())
}
