// Package testutil provides an in-process task API for package tests.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/Iron-Ham/taskdesk/internal/task"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Route names accepted by Calls, Fail and LastBody.
const (
	RouteList   = "list"
	RouteGet    = "get"
	RouteCreate = "create"
	RouteStatus = "status"
	RouteDelete = "delete"
)

// BasePath is the path prefix the fake serves under.
const BasePath = "/api/v1"

type failure struct {
	status int
	body   string
}

// FakeAPI is a gorilla/mux router over an in-memory task store, served by
// httptest. It mirrors the real API's status codes and error bodies.
type FakeAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	tasks    map[int]task.Task
	nextID   int
	calls    map[string]int
	bodies   map[string][]byte
	failures map[string]failure
	hooks    map[string]func()
}

// NewFakeAPI starts a fake API that is shut down when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		tasks:    make(map[int]task.Task),
		nextID:   1,
		calls:    make(map[string]int),
		bodies:   make(map[string][]byte),
		failures: make(map[string]failure),
		hooks:    make(map[string]func()),
	}
	f.Server = httptest.NewServer(f.Handler())
	t.Cleanup(f.Server.Close)
	return f
}

// Handler returns the fake's routes. JSON bodies are required on writes.
func (f *FakeAPI) Handler() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix(BasePath).Subrouter()
	api.Use(f.record)

	api.HandleFunc("/tasks", f.list).Methods(http.MethodGet).Name(RouteList)
	api.HandleFunc("/tasks", f.create).Methods(http.MethodPost).Name(RouteCreate)
	api.HandleFunc("/tasks/{id:[0-9]+}", f.get).Methods(http.MethodGet).Name(RouteGet)
	api.HandleFunc("/tasks/{id:[0-9]+}", f.remove).Methods(http.MethodDelete).Name(RouteDelete)
	api.HandleFunc("/tasks/{id:[0-9]+}/status", f.updateStatus).Methods(http.MethodPatch).Name(RouteStatus)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})

	h := handlers.ContentTypeHandler(r, "application/json")
	return handlers.RecoveryHandler()(h)
}

// BaseURL is the URL to configure the client with.
func (f *FakeAPI) BaseURL() string {
	return f.Server.URL + BasePath
}

// record counts calls per route, keeps the last request body, and serves
// injected failures instead of the real handler.
func (f *FakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := ""
		if route := mux.CurrentRoute(r); route != nil {
			name = route.GetName()
		}

		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		f.mu.Lock()
		f.calls[name]++
		f.bodies[name] = body
		fail, failing := f.failures[name]
		hook := f.hooks[name]
		f.mu.Unlock()

		if hook != nil {
			hook()
		}
		if failing {
			if fail.body == "" {
				w.WriteHeader(fail.status)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(fail.status)
			_, _ = io.WriteString(w, fail.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Seed replaces the store with tasks. IDs of zero are assigned.
func (f *FakeAPI) Seed(tasks ...task.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = make(map[int]task.Task, len(tasks))
	for _, t := range tasks {
		if t.ID == 0 {
			t.ID = f.nextID
		}
		if t.Status == "" {
			t.Status = task.StatusPending
		}
		f.tasks[t.ID] = t
		if t.ID >= f.nextID {
			f.nextID = t.ID + 1
		}
	}
}

// Tasks returns the stored tasks ordered by id.
func (f *FakeAPI) Tasks() []task.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sortedLocked()
}

func (f *FakeAPI) sortedLocked() []task.Task {
	out := make([]task.Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Calls returns how many requests hit the named route.
func (f *FakeAPI) Calls(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[route]
}

// LastBody returns the body of the most recent request to route.
func (f *FakeAPI) LastBody(route string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[route]
}

// Fail makes route answer with status and raw body until Recover is called.
// An empty body sends no content.
func (f *FakeAPI) Fail(route string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[route] = failure{status: status, body: body}
}

// FailDetail is Fail with a {"detail": msg} body.
func (f *FakeAPI) FailDetail(route string, status int, msg string) {
	data, _ := json.Marshal(map[string]string{"detail": msg})
	f.Fail(route, status, string(data))
}

// Recover clears injected failures for route.
func (f *FakeAPI) Recover(route string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, route)
}

// OnRequest runs fn before each request to route is served. Tests use it
// to block or sequence concurrent requests.
func (f *FakeAPI) OnRequest(route string, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hooks[route] = fn
}

func (f *FakeAPI) list(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	tasks := f.sortedLocked()
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, tasks)
}

func (f *FakeAPI) get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	f.mu.Lock()
	t, ok := f.tasks[id]
	f.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// fieldError mirrors one entry of a FastAPI 422 detail list.
type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func (f *FakeAPI) create(w http.ResponseWriter, r *http.Request) {
	var in task.Create
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []fieldError{{Loc: []string{"body"}, Msg: "JSON decode error", Type: "json_invalid"}},
		})
		return
	}

	var problems []fieldError
	if strings.TrimSpace(in.Title) == "" {
		problems = append(problems, fieldError{Loc: []string{"body", "title"}, Msg: "Field required", Type: "missing"})
	} else if len(in.Title) > 255 {
		problems = append(problems, fieldError{Loc: []string{"body", "title"}, Msg: "String should have at most 255 characters", Type: "string_too_long"})
	}
	if _, err := task.ParseDue(in.DueDate); err != nil {
		problems = append(problems, fieldError{Loc: []string{"body", "due_date"}, Msg: "Input should be a valid datetime", Type: "datetime_parsing"})
	}
	if in.Status != "" && !in.Status.Valid() {
		problems = append(problems, fieldError{Loc: []string{"body", "status"}, Msg: "Input should be 'PENDING', 'IN_PROGRESS' or 'COMPLETED'", Type: "enum"})
	}
	if len(problems) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": problems})
		return
	}

	if in.Status == "" {
		in.Status = task.StatusPending
	}

	f.mu.Lock()
	t := task.Task{
		ID:          f.nextID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Status:      in.Status,
	}
	f.nextID++
	f.tasks[t.ID] = t
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, t)
}

func (f *FakeAPI) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var in task.UpdateStatus
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || !in.Status.Valid() {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []fieldError{{Loc: []string{"body", "status"}, Msg: "Input should be 'PENDING', 'IN_PROGRESS' or 'COMPLETED'", Type: "enum"}},
		})
		return
	}

	f.mu.Lock()
	t, ok := f.tasks[id]
	if ok {
		t.Status = in.Status
		f.tasks[id] = t
	}
	f.mu.Unlock()

	if !ok {
		writeDetail(w, http.StatusNotFound, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (f *FakeAPI) remove(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	f.mu.Lock()
	t, ok := f.tasks[id]
	delete(f.tasks, id)
	f.mu.Unlock()

	if !ok {
		writeDetail(w, http.StatusNotFound, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
