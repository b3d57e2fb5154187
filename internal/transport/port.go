// Package transport defines the byte-stream boundary of the REPL bridge
// and provides the concrete adapters behind it: a serial port for real
// hardware and a pty-wrapped subprocess for local interpreters.
//
// Each adapter owns exactly one reader goroutine. Received bytes are
// decoded leniently as UTF-8 and pushed into the registered character
// handler one rune at a time; the core never touches transport
// internals directly.
package transport

// Port is the contract the REPL engine consumes. Implementations are
// exclusively owned by a single engine for their lifetime.
type Port interface {
	// Connect establishes the connection and starts the reader
	// goroutine. It never reports an intermediate "connecting" state.
	Connect() error

	// Disconnect closes the connection and stops the reader goroutine.
	// It is idempotent.
	Disconnect() error

	// Send transmits text to the device verbatim.
	Send(text string) error

	// Connected reports the live connection state.
	Connected() bool
}

// CharacterHandler receives decoded characters from a transport's
// reader goroutine, one rune per call. HandleChar must be cheap: it is
// invoked once per received character, potentially at high frequency,
// and from a different goroutine than the one driving the Port.
type CharacterHandler interface {
	HandleChar(r rune)
}
