package query

import (
	"context"
	"sync"
)

// Invalidator is a cached value that can be refreshed.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// MutationState is a point-in-time view of a Mutation.
type MutationState[R any] struct {
	Pending bool
	Err     error
	Data    R
	// Succeeded is true when the latest call finished without error.
	Succeeded bool
}

// MutateFunc performs a write with variables v.
type MutateFunc[V, R any] func(ctx context.Context, v V) (R, error)

// Mutation runs a write and refreshes invalidated queries after it succeeds.
// Its state reflects the most recently started call.
type Mutation[V, R any] struct {
	fn          MutateFunc[V, R]
	invalidates []Invalidator

	mu       sync.Mutex
	state    MutationState[R]
	started  uint64
	inflight int
}

// NewMutation returns a Mutation that refetches each of invalidates once
// after every successful call.
func NewMutation[V, R any](fn MutateFunc[V, R], invalidates ...Invalidator) *Mutation[V, R] {
	return &Mutation[V, R]{fn: fn, invalidates: invalidates}
}

// Snapshot returns a copy of the current state.
func (m *Mutation[V, R]) Snapshot() MutationState[R] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Mutate runs the write. On success every invalidated query is refetched
// before Mutate returns; refetch failures are recorded on the query, not
// returned here.
func (m *Mutation[V, R]) Mutate(ctx context.Context, v V) (R, error) {
	m.mu.Lock()
	m.started++
	ticket := m.started
	m.inflight++
	m.state.Pending = true
	m.mu.Unlock()

	res, err := m.fn(ctx, v)

	m.mu.Lock()
	m.inflight--
	if ticket == m.started {
		m.state = MutationState[R]{Err: err, Succeeded: err == nil}
		if err == nil {
			m.state.Data = res
		}
	}
	m.state.Pending = m.inflight > 0
	m.mu.Unlock()

	if err != nil {
		return res, err
	}
	for _, inv := range m.invalidates {
		_ = inv.Invalidate(ctx)
	}
	return res, nil
}

// Reset clears the error and result of the last call. A call in flight
// keeps Pending set.
func (m *Mutation[V, R]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	pending := m.state.Pending
	m.state = MutationState[R]{Pending: pending}
}
