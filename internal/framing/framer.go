// Package framing reassembles the raw character stream coming off the
// transport into discrete logical lines. Devices terminate lines with
// "\n", "\r", or "\r\n"; all three are tolerated and blank lines are
// suppressed, which also absorbs the second half of a "\r\n" pair.
package framing

import "strings"

// Framer is a streaming line-reassembly state machine. It is a pure
// accumulator: deterministic, no side effects beyond its own buffer,
// restartable via Reset. It is not safe for concurrent use; callers
// serialize access (the engine feeds it from a single ingestion path).
type Framer struct {
	pending strings.Builder
}

// NewFramer creates a Framer with an empty pending buffer.
func NewFramer() *Framer {
	return &Framer{}
}

// Consume feeds one character into the framer. When the character
// completes a line, the line is returned with terminators stripped and
// ok is true. Terminators arriving on an empty buffer produce nothing.
//
// No maximum line length is enforced; a device that never sends a
// terminator grows the buffer without bound.
func (f *Framer) Consume(r rune) (line string, ok bool) {
	if r != '\n' && r != '\r' {
		f.pending.WriteRune(r)
		return "", false
	}

	if f.pending.Len() == 0 {
		return "", false
	}

	line = f.pending.String()
	f.pending.Reset()
	return line, true
}

// Pending returns the current partial line, useful for display of a
// prompt that arrives without a terminator.
func (f *Framer) Pending() string {
	return f.pending.String()
}

// Reset discards any partial line.
func (f *Framer) Reset() {
	f.pending.Reset()
}
