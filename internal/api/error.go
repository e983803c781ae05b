package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Error is a non-2xx response from the API.
type Error struct {
	Status int
	// Detail is the server's detail text, the HTTP status text when the body
	// is not JSON, or "Unknown error".
	Detail string
	// Fields holds per-field validation failures from a 422 response.
	Fields []FieldError
}

// FieldError is one entry of a list-valued detail.
type FieldError struct {
	Loc []string
	Msg string
}

// Field returns the name of the offending body field, or "" when the error
// is not tied to one.
func (f FieldError) Field() string {
	for i := len(f.Loc) - 1; i >= 0; i-- {
		switch f.Loc[i] {
		case "body", "query", "path", "":
			continue
		}
		return f.Loc[i]
	}
	return ""
}

func (f FieldError) String() string {
	if name := f.Field(); name != "" {
		return name + ": " + f.Msg
	}
	return f.Msg
}

func (e *Error) Error() string {
	return fmt.Sprintf("API Error (%d): %s", e.Status, e.Detail)
}

// StatusCode returns the HTTP status.
func (e *Error) StatusCode() int {
	return e.Status
}

const unknownDetail = "Unknown error"

func errorFromResponse(resp *http.Response) *Error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	return parseError(resp.StatusCode, data)
}

func parseError(status int, data []byte) *Error {
	e := &Error{Status: status}

	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		e.Detail = http.StatusText(status)
		if e.Detail == "" {
			e.Detail = unknownDetail
		}
		return e
	}

	e.Detail, e.Fields = decodeDetail(body.Detail)
	if e.Detail == "" {
		e.Detail = unknownDetail
	}
	return e
}

func decodeDetail(raw json.RawMessage) (string, []FieldError) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		fields := make([]FieldError, 0, len(items))
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			fe := FieldError{Msg: it.Msg}
			for _, l := range it.Loc {
				fe.Loc = append(fe.Loc, fmt.Sprint(l))
			}
			fields = append(fields, fe)
			msgs = append(msgs, fe.String())
		}
		return strings.Join(msgs, "; "), fields
	}

	return trimmed, nil
}
