package framing

import "unicode/utf8"

// Decoder converts a raw byte stream into runes, holding back incomplete
// multi-byte sequences until the remaining bytes arrive. Invalid bytes
// are replaced with utf8.RuneError rather than reported; a serial line
// glitch must never take the session down.
type Decoder struct {
	buf []byte
}

// NewDecoder creates an empty Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode appends p to the internal buffer and returns every rune that
// can be decoded so far. A trailing partial sequence is kept for the
// next call; a sequence that can never complete is consumed one byte
// at a time as utf8.RuneError.
func (d *Decoder) Decode(p []byte) []rune {
	d.buf = append(d.buf, p...)

	var runes []rune
	for len(d.buf) > 0 {
		r, size := utf8.DecodeRune(d.buf)
		if r == utf8.RuneError && size == 1 {
			if !utf8.FullRune(d.buf) && len(d.buf) < utf8.UTFMax {
				// Possibly an incomplete sequence; wait for more bytes.
				break
			}
			// Genuinely invalid byte: emit the replacement and move on.
			runes = append(runes, utf8.RuneError)
			d.buf = d.buf[1:]
			continue
		}
		runes = append(runes, r)
		d.buf = d.buf[size:]
	}
	return runes
}

// Flush returns replacement runes for any bytes still held back, one
// per byte, and clears the buffer. Called when the stream ends.
func (d *Decoder) Flush() []rune {
	runes := make([]rune, len(d.buf))
	for i := range d.buf {
		runes[i] = utf8.RuneError
	}
	d.buf = nil
	return runes
}
