package event

// Sink receives events dispatched by the router. Implementations may
// persist them (SQLite archive), buffer them (in-memory), or forward
// them elsewhere (structured log, TUI).
//
// Record is called synchronously from the dispatching goroutine and
// should return quickly. A non-nil error is isolated by the router:
// it never prevents delivery to other sinks.
type Sink interface {
	Record(e Event) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(e Event) error

// Record calls f(e).
func (f SinkFunc) Record(e Event) error { return f(e) }
