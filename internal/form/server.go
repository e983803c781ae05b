package form

import (
	"errors"

	"github.com/Iron-Ham/taskdesk/internal/api"
)

// ServerError is an error reported by the server, optionally tied to a form
// field through FieldID.
type ServerError struct {
	Message string
	FieldID string
}

// Merge overlays server messages on e. A server message for a field wins
// over the client one; errors without a known FieldID are ignored here and
// should be shown elsewhere (see Unkeyed).
func (e Errors) Merge(server []ServerError) Errors {
	out := e
	for _, se := range server {
		if se.Message == "" {
			continue
		}
		switch se.FieldID {
		case FieldTitle:
			out.Title = se.Message
		case FieldDescription:
			out.Description = se.Message
		case FieldDate:
			out.Date = se.Message
		case FieldTime:
			out.Time = se.Message
		}
	}
	return out
}

// Unkeyed returns the server errors that do not belong to a form field.
func Unkeyed(server []ServerError) []ServerError {
	var out []ServerError
	for _, se := range server {
		if !knownField(se.FieldID) {
			out = append(out, se)
		}
	}
	return out
}

func knownField(id string) bool {
	switch id {
	case FieldTitle, FieldDescription, FieldDate, FieldTime:
		return true
	}
	return false
}

var apiFields = map[string]string{
	"title":       FieldTitle,
	"description": FieldDescription,
	"due_date":    FieldDate,
}

// ServerErrorsFromAPI converts a failed create into ServerErrors. Validation
// responses yield one error per field; any other error yields a single
// unkeyed error carrying its message. A nil err returns nil.
func ServerErrorsFromAPI(err error) []ServerError {
	if err == nil {
		return nil
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || len(apiErr.Fields) == 0 {
		return []ServerError{{Message: err.Error()}}
	}
	out := make([]ServerError, 0, len(apiErr.Fields))
	for _, f := range apiErr.Fields {
		out = append(out, ServerError{Message: f.Msg, FieldID: apiFields[f.Field()]})
	}
	return out
}
