// Package form validates task creation input and merges server-side field
// errors with client-side ones.
package form

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Iron-Ham/taskdesk/internal/task"
)

// Field IDs that server errors can be keyed to.
const (
	FieldTitle       = "#title"
	FieldDescription = "#description"
	FieldDate        = "#due-date-day"
	FieldTime        = "#due-time-hour"
)

// Validation messages.
const (
	MsgTitleRequired = "Enter a title"
	MsgDateRequired  = "Enter a due date"
	MsgDateInvalid   = "Enter a real date"
	MsgTimeRequired  = "Enter a due time"
	MsgTimeInvalid   = "Enter a real time (HH: 00-23, MM: 00-59)"
)

// Input is the raw text of the creation form.
type Input struct {
	Title       string
	Description string
	Day         string
	Month       string
	Year        string
	Hour        string
	Minute      string
}

// Errors holds at most one message per field group. Empty strings mean the
// group is valid.
type Errors struct {
	Title       string
	Description string
	Date        string
	Time        string
}

// Empty reports whether no field has a message.
func (e Errors) Empty() bool {
	return e == Errors{}
}

// Count returns the number of fields with a message.
func (e Errors) Count() int {
	n := 0
	for _, m := range []string{e.Title, e.Description, e.Date, e.Time} {
		if m != "" {
			n++
		}
	}
	return n
}

// For returns the message for a field ID.
func (e Errors) For(fieldID string) string {
	switch fieldID {
	case FieldTitle:
		return e.Title
	case FieldDescription:
		return e.Description
	case FieldDate:
		return e.Date
	case FieldTime:
		return e.Time
	default:
		return ""
	}
}

// List returns the messages in form order.
func (e Errors) List() []string {
	var out []string
	for _, m := range []string{e.Title, e.Description, e.Date, e.Time} {
		if m != "" {
			out = append(out, m)
		}
	}
	return out
}

// Validate checks in and, when every group is valid, returns the payload to
// send. The due date is formatted as YYYY-MM-DDTHH:MM:00 and an empty
// description becomes nil.
func Validate(in Input) (task.Create, Errors, bool) {
	var errs Errors

	title := strings.TrimSpace(in.Title)
	if title == "" {
		errs.Title = MsgTitleRequired
	}

	date, dateMsg := parseDate(in.Day, in.Month, in.Year)
	errs.Date = dateMsg

	hour, minute, timeMsg := parseTime(in.Hour, in.Minute)
	errs.Time = timeMsg

	if !errs.Empty() {
		return task.Create{}, errs, false
	}

	due := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.UTC)
	out := task.Create{
		Title:   title,
		DueDate: fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:00", due.Year(), int(due.Month()), due.Day(), due.Hour(), due.Minute()),
	}
	// only an empty description is sent as null; whitespace is kept as typed
	if in.Description != "" {
		d := in.Description
		out.Description = &d
	}
	return out, Errors{}, true
}

// minYear is the smallest accepted four-digit year.
const minYear = 100

func parseDate(day, month, year string) (time.Time, string) {
	day, month, year = strings.TrimSpace(day), strings.TrimSpace(month), strings.TrimSpace(year)
	if day == "" || month == "" || year == "" {
		return time.Time{}, MsgDateRequired
	}
	d, okD := number(day)
	m, okM := number(month)
	y, okY := number(year)
	if !okD || !okM || !okY || len(year) != 4 || y < minYear {
		return time.Time{}, MsgDateInvalid
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalises overflow, so 31 April comes back as 1 May
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, MsgDateInvalid
	}
	return t, ""
}

func parseTime(hour, minute string) (int, int, string) {
	hour, minute = strings.TrimSpace(hour), strings.TrimSpace(minute)
	if hour == "" || minute == "" {
		return 0, 0, MsgTimeRequired
	}
	h, okH := number(hour)
	m, okM := number(minute)
	if !okH || !okM || h > 23 || m > 59 {
		return 0, 0, MsgTimeInvalid
	}
	return h, m, ""
}

// number parses s as a non-negative decimal made only of ASCII digits.
func number(s string) (int, bool) {
	if s == "" || len(s) > 9 {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}
