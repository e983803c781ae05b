package tui

import (
	"context"

	"github.com/Iron-Ham/taskdesk/internal/errors"
	"github.com/Iron-Ham/taskdesk/internal/logging"
	"github.com/Iron-Ham/taskdesk/internal/query"
	"github.com/Iron-Ham/taskdesk/internal/task"
)

// TaskService is the subset of the API client the TUI needs.
type TaskService interface {
	ListTasks(ctx context.Context) ([]task.Task, error)
	GetTask(ctx context.Context, id int) (task.Task, error)
	CreateTask(ctx context.Context, in task.Create) (task.Task, error)
	UpdateTaskStatus(ctx context.Context, id int, status task.Status) (task.Task, error)
	DeleteTask(ctx context.Context, id int) error
}

// statusChange is the variables of an update-status mutation.
type statusChange struct {
	ID     int
	Status task.Status
}

// store holds the task collection query and the three mutations that
// invalidate it. Every error it records is an *errors.OperationError.
type store struct {
	svc    TaskService
	tasks  *query.Query[[]task.Task]
	create *query.Mutation[task.Create, task.Task]
	update *query.Mutation[statusChange, task.Task]
	remove *query.Mutation[int, struct{}]
}

func newStore(svc TaskService, logger *logging.Logger) *store {
	log := logger.WithComponent("store")
	s := &store{svc: svc}

	s.tasks = query.New[[]task.Task](func(ctx context.Context) ([]task.Task, error) {
		tasks, err := svc.ListTasks(ctx)
		if err != nil {
			log.Warn("fetch failed", "error", err)
			return nil, errors.Wrap(errors.OpFetch, err)
		}
		log.Debug("tasks fetched", "count", len(tasks))
		return tasks, nil
	})

	s.create = query.NewMutation[task.Create, task.Task](func(ctx context.Context, in task.Create) (task.Task, error) {
		created, err := svc.CreateTask(ctx, in)
		if err != nil {
			log.Warn("create failed", "error", err)
			return task.Task{}, errors.Wrap(errors.OpCreate, err)
		}
		log.WithTask(created.ID).Info("task created")
		return created, nil
	}, s.tasks)

	s.update = query.NewMutation[statusChange, task.Task](func(ctx context.Context, c statusChange) (task.Task, error) {
		updated, err := svc.UpdateTaskStatus(ctx, c.ID, c.Status)
		if err != nil {
			log.WithTask(c.ID).Warn("status update failed", "error", err)
			return task.Task{}, errors.WrapTask(errors.OpUpdate, c.ID, err)
		}
		log.WithTask(c.ID).Info("status updated", "status", string(c.Status))
		return updated, nil
	}, s.tasks)

	s.remove = query.NewMutation[int, struct{}](func(ctx context.Context, id int) (struct{}, error) {
		if err := svc.DeleteTask(ctx, id); err != nil {
			log.WithTask(id).Warn("delete failed", "error", err)
			return struct{}{}, errors.WrapTask(errors.OpDelete, id, err)
		}
		log.WithTask(id).Info("task deleted")
		return struct{}{}, nil
	}, s.tasks)

	return s
}

// errorLines returns the displayable list-level errors: fetch, delete and
// update failures, in that order. Create failures belong to the form.
func (s *store) errorLines() []string {
	var lines []string
	for _, err := range []error{
		s.tasks.Snapshot().Err,
		s.remove.Snapshot().Err,
		s.update.Snapshot().Err,
	} {
		if err != nil && !errors.IsCanceled(err) {
			lines = append(lines, errors.Message(err))
		}
	}
	return lines
}

// dismiss clears the error state of every mutation.
func (s *store) dismiss() {
	s.create.Reset()
	s.update.Reset()
	s.remove.Reset()
}

// updating reports whether any mutation is in flight.
func (s *store) updating() bool {
	return s.create.Snapshot().Pending || s.update.Snapshot().Pending || s.remove.Snapshot().Pending
}
