// Package mailbox implements a coalescing mailbox: a single-slot buffer that
// holds payloads produced before a consumer exists, merges them while
// nobody is listening, and flushes the merged payload exactly once when a
// consumer registers.
package mailbox

import "sync"

// State is the lifecycle position of a mailbox.
type State int

const (
	// StateEmpty: no consumer, nothing pending.
	StateEmpty State = iota
	// StatePending: no consumer, one merged payload waiting.
	StatePending
	// StateRegistered: a consumer receives deliveries live.
	StateRegistered
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePending:
		return "pending"
	case StateRegistered:
		return "registered"
	default:
		return "unknown"
	}
}

// MergeFunc combines the pending payload with a newly delivered one.
type MergeFunc[T any] func(pending, incoming T) T

// Replace is the merge policy for payloads that are complete snapshots:
// the incoming value wins.
func Replace[T any](_, incoming T) T { return incoming }

// Mailbox is a single-slot coalescing buffer for one payload kind. The zero
// value is not usable; create one with New.
type Mailbox[T any] struct {
	mu       sync.Mutex
	merge    MergeFunc[T]
	pending  T
	has      bool
	consumer func(T)
}

// New returns an empty mailbox that combines buffered payloads with merge.
// A nil merge behaves like Replace.
func New[T any](merge MergeFunc[T]) *Mailbox[T] {
	if merge == nil {
		merge = Replace[T]
	}
	return &Mailbox[T]{merge: merge}
}

// Deliver hands v to the registered consumer, or buffers it when there is
// none. It reports whether v was forwarded live.
//
// The consumer runs on the caller's goroutine with the mailbox locked, so
// it must not call back into the same mailbox.
func (m *Mailbox[T]) Deliver(v T) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.consumer != nil {
		m.consumer(v)
		return true
	}
	if m.has {
		m.pending = m.merge(m.pending, v)
		return false
	}
	m.pending = v
	m.has = true
	return false
}

// Register installs fn as the consumer. Any pending payload is passed to fn
// before Register returns and the buffer is cleared. A second Register
// replaces the previous consumer.
func (m *Mailbox[T]) Register(fn func(T)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.consumer = fn
	if fn == nil || !m.has {
		return
	}
	v := m.pending
	var zero T
	m.pending = zero
	m.has = false
	fn(v)
}

// Unregister drops the consumer. Deliveries made afterwards are buffered
// and merged until the next Register.
func (m *Mailbox[T]) Unregister() {
	m.mu.Lock()
	m.consumer = nil
	m.mu.Unlock()
}

// Requeue puts back a payload that a departed consumer received but never
// handled. It is ordered before anything buffered since, so merging keeps
// the newer data. With a consumer registered it is forwarded like Deliver.
func (m *Mailbox[T]) Requeue(v T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.consumer != nil {
		m.consumer(v)
		return
	}
	if m.has {
		m.pending = m.merge(v, m.pending)
		return
	}
	m.pending = v
	m.has = true
}

// Pending returns the buffered payload, if any, without clearing it.
func (m *Mailbox[T]) Pending() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending, m.has
}

// Registered reports whether a consumer is installed.
func (m *Mailbox[T]) Registered() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.consumer != nil
}

// State reports the mailbox's current lifecycle position.
func (m *Mailbox[T]) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.consumer != nil:
		return StateRegistered
	case m.has:
		return StatePending
	default:
		return StateEmpty
	}
}
