// Package repl contains the core engine of the bridge: it serializes
// user commands out to the transport, reframes the incoming character
// stream into response lines, and fans lifecycle, command, response,
// and error events out to the registered sinks.
package repl

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fonny-io/fonny/internal/errors"
	"github.com/fonny-io/fonny/internal/event"
	"github.com/fonny-io/fonny/internal/framing"
	"github.com/fonny-io/fonny/internal/logging"
	"github.com/fonny-io/fonny/internal/transport"
)

// charBufferSize is the capacity of the raw passthrough channel.
// Characters beyond a lagging consumer are dropped, not queued forever.
const charBufferSize = 4096

// exitSentinel is recognized by the engine itself and never forwarded.
const exitSentinel = "exit"

// Engine orchestrates one REPL session. Two flows drive it
// concurrently: the application goroutine calling Start, Stop, and
// SendCommand, and the transport's reader goroutine calling HandleChar.
// State transitions are guarded by mu; the ingestion path runs under
// its own finer lock so a slow sink cannot stall character delivery.
type Engine struct {
	mu        sync.Mutex
	transport transport.Port

	ingestMu sync.Mutex
	framer   *framing.Framer

	router *event.Router
	chars  chan rune
	log    *logging.Logger
}

// New creates an Engine with no transport configured. A transport must
// be set with SetTransport before Start, Stop, or SendCommand succeed.
func New(log *logging.Logger) *Engine {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Engine{
		framer: framing.NewFramer(),
		router: event.NewRouter(),
		chars:  make(chan rune, charBufferSize),
		log:    log.WithComponent("repl"),
	}
}

// SetTransport configures the transport the engine talks through.
// It is expected to be called once, before Start, and not while
// connected.
func (e *Engine) SetTransport(t transport.Port) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.transport = t
}

// Start connects the transport. On success a ConnectionOpened event is
// dispatched and true is returned. Connect failures are not propagated:
// they are converted into a SystemError event and a false return.
func (e *Engine) Start() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.transport == nil {
		e.dispatch(event.NewSystemError(errors.ErrNotConfigured.Error()))
		return false
	}

	if err := e.transport.Connect(); err != nil {
		e.log.Warn("connect failed", "error", err.Error())
		e.dispatch(event.NewSystemError(err.Error()))
		return false
	}

	e.dispatch(event.NewConnectionOpened())
	return true
}

// Stop disconnects the transport if it is currently connected, as
// reported live by the transport. The ConnectionClosed event is
// dispatched before the transport disconnects, so sinks see the
// session end while the wire is still authoritative. Calling Stop
// while disconnected is a no-op.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.transport == nil || !e.transport.Connected() {
		return
	}

	e.dispatch(event.NewConnectionClosed())
	if err := e.transport.Disconnect(); err != nil {
		e.log.Error("disconnect failed", "error", err.Error())
	}
}

// SendCommand transmits a command to the device. The recorded
// UserCommand event carries the exact bytes sent, trailing terminator
// included. The "exit" sentinel (any letter case, surrounding
// whitespace ignored) is consumed silently. Unlike connect failures,
// send failures are both recorded as a SystemError event and returned
// to the caller.
func (e *Engine) SendCommand(command string) error {
	if strings.EqualFold(strings.TrimSpace(command), exitSentinel) {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.transport == nil {
		err := errors.ErrNotConfigured
		e.dispatch(event.NewSystemError(err.Error()))
		return err
	}

	if !strings.HasSuffix(command, "\n") {
		command += "\n"
	}

	e.dispatch(event.NewUserCommand(command))

	if err := e.transport.Send(command); err != nil {
		e.log.Warn("send failed", "error", err.Error())
		e.dispatch(event.NewSystemError(err.Error()))
		return fmt.Errorf("sending command: %w", err)
	}
	return nil
}

// HandleChar ingests one character received from the transport. It is
// the sole path by which transport bytes become events, and is safe to
// call from the transport's reader goroutine while the application
// goroutine drives Start, Stop, and SendCommand.
func (e *Engine) HandleChar(r rune) {
	// Best-effort passthrough for raw display; drop when the consumer lags.
	select {
	case e.chars <- r:
	default:
	}

	e.ingestMu.Lock()
	line, ok := e.framer.Consume(r)
	e.ingestMu.Unlock()

	if ok {
		e.dispatch(event.NewSystemResponse(line))
	}
}

// AddSink registers a sink for all events and returns a token for
// RemoveSink. Registering the same sink twice yields two notifications.
func (e *Engine) AddSink(sink event.Sink) string {
	return e.router.Add(sink)
}

// RemoveSink unregisters a previously added sink. Removing an unknown
// token is a no-op.
func (e *Engine) RemoveSink(id string) bool {
	return e.router.Remove(id)
}

// Chars exposes the raw character passthrough channel. Delivery is
// best-effort relative to the event path but preserves character order
// within itself.
func (e *Engine) Chars() <-chan rune {
	return e.chars
}

// Connected reports the live transport state. The engine never caches
// it.
func (e *Engine) Connected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.transport != nil && e.transport.Connected()
}

// dispatch routes an event and logs the rare failure of the
// error-reporting path itself.
func (e *Engine) dispatch(ev event.Event) {
	if err := e.router.Dispatch(ev); err != nil {
		e.log.Error("event dispatch failed", "kind", ev.Kind.String(), "error", err.Error())
	}
}
