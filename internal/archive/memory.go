package archive

import (
	"sync"

	"github.com/fonny-io/fonny/internal/event"
)

// Memory is an in-memory event sink. The TUI uses one to render the
// session; tests use it to assert on dispatched events. Safe for
// concurrent use.
type Memory struct {
	mu     sync.RWMutex
	events []event.Event
}

// NewMemory creates an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

// Record appends the event. Implements event.Sink. Never fails.
func (m *Memory) Record(e event.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

// Events returns a copy of all recorded events in order.
func (m *Memory) Events() []event.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]event.Event(nil), m.events...)
}

// Len returns the number of recorded events.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events)
}

// Reset discards all recorded events.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}
