// Package errors provides the error types and classification helpers used
// across taskdesk.
//
// Every failure that reaches the user is tied to the operation that caused
// it. An [OperationError] records the [Operation] (fetch, get, create,
// update, delete), the task involved, and the underlying cause, and renders
// the one-line message shown in the UI:
//
//	err := errors.Wrap(errors.OpDelete, cause)
//	fmt.Println(err.Message()) // "Error deleting task: API Error (404): Task not found"
//
// Classification helpers work on any error in the chain that reports an HTTP
// status through [StatusCoder], so this package never imports the API client:
//
//	if errors.IsNotFound(err) { ... }
//	if errors.IsValidation(err) { ... }
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions so callers only import this package.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Sentinel errors.
var (
	// ErrNotFound indicates the requested task does not exist.
	ErrNotFound = New("task not found")
	// ErrInvalidInput indicates local validation rejected the input.
	ErrInvalidInput = New("invalid input")
	// ErrNotTerminal indicates an interactive prompt was needed without a TTY.
	ErrNotTerminal = New("not a terminal")
)

// Operation identifies the user action an error belongs to.
type Operation int

const (
	OpFetch Operation = iota
	OpGet
	OpCreate
	OpUpdate
	OpDelete
)

// String returns the short operation name used in logs.
func (o Operation) String() string {
	switch o {
	case OpFetch:
		return "fetch"
	case OpGet:
		return "get"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Prefix returns the display prefix for messages about o.
func (o Operation) Prefix() string {
	switch o {
	case OpFetch:
		return "Error fetching tasks: "
	case OpGet:
		return "Error loading task: "
	case OpCreate:
		return "Error creating task: "
	case OpUpdate:
		return "Error updating status: "
	case OpDelete:
		return "Error deleting task: "
	default:
		return "Error: "
	}
}

// OperationError is a failure of one user action.
type OperationError struct {
	Op Operation
	// TaskID is the affected task, or 0 for collection operations.
	TaskID int
	Err    error
}

// Wrap attaches op to err. A nil err returns nil.
func Wrap(op Operation, err error) error {
	if err == nil {
		return nil
	}
	return &OperationError{Op: op, Err: err}
}

// WrapTask is Wrap for operations on a single task.
func WrapTask(op Operation, id int, err error) error {
	if err == nil {
		return nil
	}
	return &OperationError{Op: op, TaskID: id, Err: err}
}

// Error returns the same text as Message.
func (e *OperationError) Error() string {
	return e.Message()
}

// Message is the user-facing line, e.g. "Error updating status: API Error (500): boom".
func (e *OperationError) Message() string {
	return e.Op.Prefix() + causeText(e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func causeText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

// Message returns the user-facing text for err: the OperationError message
// when present, err.Error() otherwise, and "" for nil.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var opErr *OperationError
	if As(err, &opErr) {
		return opErr.Message()
	}
	return err.Error()
}

// OperationOf reports the operation recorded in err's chain.
func OperationOf(err error) (Operation, bool) {
	var opErr *OperationError
	if As(err, &opErr) {
		return opErr.Op, true
	}
	return 0, false
}

// StatusCoder is implemented by errors that carry an HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// StatusCode returns the HTTP status carried by err's chain, or 0.
func StatusCode(err error) int {
	var sc StatusCoder
	if As(err, &sc) {
		return sc.StatusCode()
	}
	return 0
}

// IsNotFound reports whether err means the task does not exist.
func IsNotFound(err error) bool {
	return Is(err, ErrNotFound) || StatusCode(err) == http.StatusNotFound
}

// IsValidation reports whether err is a rejected-input error, local or remote.
func IsValidation(err error) bool {
	if Is(err, ErrInvalidInput) {
		return true
	}
	switch StatusCode(err) {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return true
	}
	return false
}

// IsCanceled reports whether err comes from a canceled or expired context.
func IsCanceled(err error) bool {
	return Is(err, context.Canceled) || Is(err, context.DeadlineExceeded)
}

// Wrapf wraps err with a formatted message. A nil err returns nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
