package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/taskdesk/internal/errors"
	"github.com/Iron-Ham/taskdesk/internal/task"
)

// fetchedMsg is sent when a collection fetch finishes
type fetchedMsg struct {
	err error
}

// createdMsg is sent when a create mutation (and its refetch) finishes
type createdMsg struct {
	task task.Task
	err  error
}

// statusUpdatedMsg is sent when an update-status mutation finishes
type statusUpdatedMsg struct {
	id  int
	err error
}

// deletedMsg is sent when a delete mutation finishes
type deletedMsg struct {
	id  int
	err error
}

// detailLoadedMsg carries the result of GET /tasks/{id}
type detailLoadedMsg struct {
	id   int
	task task.Task
	err  error
}

// themeChangedMsg is sent when the config file names a new theme
type themeChangedMsg struct {
	theme string
}

// configErrorMsg is sent when a reloaded config file fails validation
type configErrorMsg struct {
	err error
}

// Commands

func fetchCmd(ctx context.Context, s *store) tea.Cmd {
	return func() tea.Msg {
		return fetchedMsg{err: s.tasks.Refetch(ctx)}
	}
}

func createCmd(ctx context.Context, s *store, in task.Create) tea.Cmd {
	return func() tea.Msg {
		created, err := s.create.Mutate(ctx, in)
		return createdMsg{task: created, err: err}
	}
}

func updateStatusCmd(ctx context.Context, s *store, id int, status task.Status) tea.Cmd {
	return func() tea.Msg {
		_, err := s.update.Mutate(ctx, statusChange{ID: id, Status: status})
		return statusUpdatedMsg{id: id, err: err}
	}
}

func deleteCmd(ctx context.Context, s *store, id int) tea.Cmd {
	return func() tea.Msg {
		_, err := s.remove.Mutate(ctx, id)
		return deletedMsg{id: id, err: err}
	}
}

func loadDetailCmd(ctx context.Context, s *store, id int) tea.Cmd {
	return func() tea.Msg {
		t, err := s.svc.GetTask(ctx, id)
		return detailLoadedMsg{id: id, task: t, err: errors.WrapTask(errors.OpGet, id, err)}
	}
}
