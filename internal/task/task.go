// Package task defines the task types exchanged with the task API.
package task

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a task. The string value is the wire
// representation used by the API.
type Status string

// Task statuses accepted by the API.
const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Statuses returns every status in display order.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// Label returns the human readable form, e.g. "IN PROGRESS".
func (s Status) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// Next returns the status after s in display order, wrapping around.
func (s Status) Next() Status {
	all := Statuses()
	for i, st := range all {
		if st == s {
			return all[(i+1)%len(all)]
		}
	}
	return StatusPending
}

// Prev returns the status before s in display order, wrapping around.
func (s Status) Prev() Status {
	all := Statuses()
	for i, st := range all {
		if st == s {
			return all[(i+len(all)-1)%len(all)]
		}
	}
	return StatusPending
}

// ParseStatus parses a status name. Matching is case-insensitive and
// accepts spaces or hyphens in place of underscores.
func ParseStatus(s string) (Status, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	st := Status(normalized)
	if !st.Valid() {
		return "", fmt.Errorf("invalid status %q (valid: PENDING, IN_PROGRESS, COMPLETED)", s)
	}
	return st, nil
}

// Task is a task as returned by the API.
type Task struct {
	ID          int     `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description *string `json:"description" yaml:"description"`
	DueDate     string  `json:"due_date" yaml:"due_date"`
	Status      Status  `json:"status" yaml:"status"`
}

// DescriptionText returns the description or "" when it is unset.
func (t Task) DescriptionText() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

// Create is the payload for creating a task. Status is left empty so the
// server applies its default.
type Create struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	DueDate     string  `json:"due_date"`
	Status      Status  `json:"status,omitempty"`
}

// UpdateStatus is the payload for changing a task's status.
type UpdateStatus struct {
	Status Status `json:"status"`
}

// DueLayout is the local timestamp layout produced by the creation form.
const DueLayout = "2006-01-02T15:04:05"

var dueLayouts = []string{
	DueLayout,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseDue parses a due date as sent by the API.
func ParseDue(s string) (time.Time, error) {
	for _, layout := range dueLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised due date %q", s)
}

// FormatDue renders a due date in long UK form, e.g. "25 December 2024 at 09:00".
// Unparseable input renders as "Invalid Date".
func FormatDue(s string) string {
	t, err := ParseDue(s)
	if err != nil {
		return "Invalid Date"
	}
	return t.Format("2 January 2006 at 15:04")
}
