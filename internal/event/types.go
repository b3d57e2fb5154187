// Package event defines the event model for the Fonny REPL bridge.
// Every notable occurrence on the wire or in the session lifecycle is
// captured as an Event and fanned out to registered sinks, so that
// recording, display, and logging stay decoupled from the core.
package event

import "time"

// Kind identifies the category of an event.
// There are exactly five kinds; the set is closed.
type Kind string

const (
	// KindUserCommand is recorded when a command is transmitted to the device.
	KindUserCommand Kind = "user.command"
	// KindSystemResponse is recorded for each complete response line received.
	KindSystemResponse Kind = "system.response"
	// KindSystemError is recorded when the transport or a sink fails.
	KindSystemError Kind = "system.error"
	// KindConnectionOpened is recorded when the transport connects.
	KindConnectionOpened Kind = "connection.opened"
	// KindConnectionClosed is recorded when the transport disconnects.
	KindConnectionClosed Kind = "connection.closed"
)

// String returns the string identifier for the kind.
func (k Kind) String() string { return string(k) }

// Valid reports whether k is one of the five defined kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindUserCommand, KindSystemResponse, KindSystemError,
		KindConnectionOpened, KindConnectionClosed:
		return true
	}
	return false
}

// Event is a single recorded occurrence. It is immutable once constructed:
// sinks must not modify the payload map.
type Event struct {
	Kind      Kind
	Payload   map[string]string
	Timestamp time.Time
}

// newEvent creates an Event stamped with the current time.
func newEvent(kind Kind, payload map[string]string) Event {
	return Event{
		Kind:      kind,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewUserCommand creates a UserCommand event. The command string is the
// exact text transmitted to the device, trailing terminator included.
func NewUserCommand(command string) Event {
	return newEvent(KindUserCommand, map[string]string{"command": command})
}

// NewSystemResponse creates a SystemResponse event for a completed line.
func NewSystemResponse(response string) Event {
	return newEvent(KindSystemResponse, map[string]string{"response": response})
}

// NewSystemError creates a SystemError event carrying an error message.
func NewSystemError(message string) Event {
	return newEvent(KindSystemError, map[string]string{"error": message})
}

// NewConnectionOpened creates a ConnectionOpened event.
func NewConnectionOpened() Event {
	return newEvent(KindConnectionOpened, map[string]string{})
}

// NewConnectionClosed creates a ConnectionClosed event.
func NewConnectionClosed() Event {
	return newEvent(KindConnectionClosed, map[string]string{})
}

// Command returns the command payload, or "" for other kinds.
func (e Event) Command() string { return e.Payload["command"] }

// Response returns the response payload, or "" for other kinds.
func (e Event) Response() string { return e.Payload["response"] }

// Err returns the error payload, or "" for other kinds.
func (e Event) Err() string { return e.Payload["error"] }
