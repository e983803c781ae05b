package logging

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Entry is one parsed log line.
type Entry struct {
	Time      time.Time      `json:"time"`
	Level     string         `json:"level"`
	Message   string         `json:"msg"`
	Component string         `json:"component,omitempty"`
	Attrs     map[string]any `json:"attrs,omitempty"`
}

var reservedKeys = map[string]bool{"time": true, "level": true, "msg": true, "component": true}

// ReadEntries parses the JSON log at path, sorted oldest first. Lines that
// are not valid JSON are skipped.
func ReadEntries(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParseEntries(f)
}

// ParseEntries reads JSON log lines from r.
func ParseEntries(r io.Reader) ([]Entry, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)

	var entries []Entry
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		e, ok := parseEntry(line)
		if ok {
			entries = append(entries, e)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Time.Before(entries[j].Time) })
	return entries, nil
}

func parseEntry(line string) (Entry, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, false
	}
	var e Entry
	if s, ok := raw["time"].(string); ok {
		e.Time, _ = time.Parse(time.RFC3339Nano, s)
	}
	e.Level, _ = raw["level"].(string)
	e.Message, _ = raw["msg"].(string)
	e.Component, _ = raw["component"].(string)
	for k, v := range raw {
		if reservedKeys[k] {
			continue
		}
		if e.Attrs == nil {
			e.Attrs = make(map[string]any)
		}
		e.Attrs[k] = v
	}
	return e, true
}

// Filter selects entries. Zero-valued fields match everything.
type Filter struct {
	// Level keeps entries at or above this level.
	Level     string
	Since     time.Time
	Component string
	// Pattern is matched against the message.
	Pattern *regexp.Regexp
	// Tail keeps only the last N matching entries when positive.
	Tail int
}

// Apply returns the entries matching f, preserving order.
func (f Filter) Apply(entries []Entry) []Entry {
	min := -1
	if f.Level != "" {
		min = levelRank(ParseLevel(f.Level))
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if min >= 0 && levelRank(e.Level) < min {
			continue
		}
		if !f.Since.IsZero() && e.Time.Before(f.Since) {
			continue
		}
		if f.Component != "" && e.Component != f.Component {
			continue
		}
		if f.Pattern != nil && !f.Pattern.MatchString(e.Message) {
			continue
		}
		out = append(out, e)
	}
	if f.Tail > 0 && len(out) > f.Tail {
		out = out[len(out)-f.Tail:]
	}
	return out
}

// Format renders an entry as a single human-readable line:
//
//	2024-12-25 09:00:00 INFO  [api] request finished method=GET status=200
func (e Entry) Format() string {
	var b strings.Builder
	b.WriteString(e.Time.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, " %-5s", e.Level)
	if e.Component != "" {
		fmt.Fprintf(&b, " [%s]", e.Component)
	}
	b.WriteString(" ")
	b.WriteString(e.Message)

	keys := make([]string, 0, len(e.Attrs))
	for k := range e.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Attrs[k])
	}
	return b.String()
}
