package event

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fonny-io/fonny/internal/errors"
)

// registration pairs a sink with the token handed back by Add.
type registration struct {
	id   string
	sink Sink
}

// Router fans a single event out to every registered sink in
// registration order. It is safe for concurrent use.
//
// A sink that fails while recording an ordinary event is isolated:
// the failure is converted into a SystemError event that is dispatched
// to all sinks, and delivery to the remaining sinks continues. Failures
// raised while recording a SystemError are not re-looped; they are
// returned to the caller.
type Router struct {
	mu     sync.RWMutex
	sinks  []registration
	nextID atomic.Uint64
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{}
}

// Add registers a sink and returns a token for Remove.
// Registering the same sink twice yields two deliveries per event.
func (r *Router) Add(sink Sink) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := fmt.Sprintf("sink-%d", r.nextID.Add(1))
	r.sinks = append(r.sinks, registration{id: id, sink: sink})
	return id
}

// Remove unregisters the sink identified by id.
// Removing an unknown id is a no-op and returns false.
func (r *Router) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, reg := range r.sinks {
		if reg.id == id {
			r.sinks = append(r.sinks[:i], r.sinks[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of registered sinks.
func (r *Router) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sinks)
}

// Dispatch delivers the event to every registered sink in registration
// order. The returned error is non-nil only when a sink fails while
// recording a SystemError event; failures on ordinary events are
// absorbed into SystemError redispatches.
func (r *Router) Dispatch(e Event) error {
	r.mu.RLock()
	snapshot := make([]registration, len(r.sinks))
	copy(snapshot, r.sinks)
	r.mu.RUnlock()

	var failed []error
	for _, reg := range snapshot {
		if err := safeRecord(reg.sink, e); err != nil {
			failed = append(failed, errors.NewSinkError(fmt.Sprintf("%T", reg.sink), err))
		}
	}

	// Recursion guard: failures while recording a SystemError are
	// surfaced to the caller instead of being dispatched again.
	if e.Kind == KindSystemError {
		return errors.Join(failed...)
	}

	for _, ferr := range failed {
		if err := r.Dispatch(NewSystemError(ferr.Error())); err != nil {
			return err
		}
	}
	return nil
}

// safeRecord invokes Record and converts a panic into an error so one
// misbehaving sink cannot take down the dispatch loop.
func safeRecord(sink Sink, e Event) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic recording %s event: %v", e.Kind, rec)
		}
	}()
	return sink.Record(e)
}
