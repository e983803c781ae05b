// Package query caches the result of a fetch and refreshes it after writes.
//
// A [Query] holds the latest fetched value together with loading and error
// flags. A [Mutation] runs a write and, when it succeeds, refetches every
// query it invalidates exactly once. Both are safe for concurrent use; UI
// code reads them through Snapshot.
package query

import (
	"context"
	"sync"
	"time"
)

// State is a point-in-time view of a Query.
type State[T any] struct {
	Data T
	// HasData is true once any fetch has succeeded.
	HasData bool
	Err     error
	// Fetching is true while any fetch is in flight.
	Fetching  bool
	UpdatedAt time.Time
}

// Loading reports a first fetch that has not produced data yet.
func (s State[T]) Loading() bool {
	return s.Fetching && !s.HasData && s.Err == nil
}

// FetchFunc loads the value for a Query.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Query caches the result of fetch. When fetches overlap, the result of the
// most recently started one wins and earlier results arriving later are
// dropped.
type Query[T any] struct {
	fetch FetchFunc[T]
	now   func() time.Time

	mu       sync.Mutex
	state    State[T]
	started  uint64
	applied  uint64
	inflight int
	fetches  int
}

// New returns a Query that has not fetched yet.
func New[T any](fetch FetchFunc[T]) *Query[T] {
	return &Query[T]{fetch: fetch, now: time.Now}
}

// Snapshot returns a copy of the current state.
func (q *Query[T]) Snapshot() State[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Fetches returns how many fetches have been started.
func (q *Query[T]) Fetches() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.fetches
}

// Refetch runs the fetch function and stores its result unless a newer fetch
// has already been applied. The returned error is the fetch's own error even
// when its result was discarded.
func (q *Query[T]) Refetch(ctx context.Context) error {
	ticket := q.begin()
	data, err := q.fetch(ctx)
	q.resolve(ticket, data, err)
	return err
}

// Invalidate marks the cached value stale by refetching it.
func (q *Query[T]) Invalidate(ctx context.Context) error {
	return q.Refetch(ctx)
}

func (q *Query[T]) begin() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.started++
	q.fetches++
	q.inflight++
	q.state.Fetching = true
	return q.started
}

func (q *Query[T]) resolve(ticket uint64, data T, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.inflight--
	q.state.Fetching = q.inflight > 0

	if ticket < q.applied {
		return
	}
	q.applied = ticket

	if err != nil {
		// keep the last good data visible alongside the error
		q.state.Err = err
		return
	}
	q.state.Data = data
	q.state.HasData = true
	q.state.Err = nil
	q.state.UpdatedAt = q.now()
}

// Set replaces the cached value without fetching.
func (q *Query[T]) Set(data T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.state.Data = data
	q.state.HasData = true
	q.state.Err = nil
	q.state.UpdatedAt = q.now()
}
