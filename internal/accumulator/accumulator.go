// Package accumulator implements the byte accumulator shared by the frame
// parser and the chunked body decoder: a growable buffer that knows how to
// scan for CRLF-terminated lines and how to consume a fixed-size prefix.
package accumulator

import "bytes"

// Accumulator is a growable sequence of bytes. Every protocol decision made
// by the frame parser or the chunked decoder is made at line granularity,
// and lines routinely arrive split across transport chunk boundaries; this
// type centralizes the CRLF scan so that partial-match bookkeeping isn't
// duplicated between the two parsers.
type Accumulator struct {
	buf []byte
}

// New returns an empty accumulator, optionally seeded with initial bytes.
// Passing the leftover baton's payload here is how the frame parser resumes
// head parsing immediately after a body completes.
func New(seed []byte) *Accumulator {
	a := new(Accumulator)
	if len(seed) > 0 {
		a.buf = append(a.buf, seed...)
	}
	return a
}

// Append adds data to the end of the accumulator.
func (a *Accumulator) Append(data []byte) {
	a.buf = append(a.buf, data...)
}

// Size returns the number of bytes currently held.
func (a *Accumulator) Size() int {
	return len(a.buf)
}

// TryConsumeCRLFLine scans from the beginning for the first exact 0x0D 0x0A
// sequence. If found, it returns the bytes before it (decoded as
// ISO-8859-1, i.e. byte-for-byte as a string) and removes that prefix,
// including the CRLF, from the accumulator. If no CRLF is present yet, it
// returns ok=false without mutating the accumulator. A bare CRLF at the
// front yields an empty line with ok=true.
func (a *Accumulator) TryConsumeCRLFLine() (line string, ok bool) {
	idx := bytes.Index(a.buf, crlf)
	if idx == -1 {
		return "", false
	}

	line = latin1String(a.buf[:idx])
	a.buf = a.buf[idx+2:]
	return line, true
}

// ConsumePrefix removes and returns the first n bytes. It panics if n
// exceeds the current size — callers (body decoders) only ever call this
// after checking Size(), since feeding past a completed decoder is already
// undefined behavior per the body-decoder contract.
func (a *Accumulator) ConsumePrefix(n int) []byte {
	if n > len(a.buf) {
		panic("accumulator: ConsumePrefix: n exceeds size")
	}

	prefix := a.buf[:n]
	a.buf = a.buf[n:]
	return prefix
}

// Bytes returns the accumulator's current remaining bytes without
// consuming them.
func (a *Accumulator) Bytes() []byte {
	return a.buf
}

// Drain consumes and returns every remaining byte, leaving the accumulator
// empty. Used when handing the accumulator's tail off as leftover bytes.
func (a *Accumulator) Drain() []byte {
	rest := a.buf
	a.buf = nil
	return rest
}

var crlf = []byte{'\r', '\n'}

// latin1String decodes a byte slice as ISO-8859-1: every byte maps to the
// identically-numbered code point, so this never fails and never needs a
// decoding table beyond Go's own rune-per-byte widening.
func latin1String(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
