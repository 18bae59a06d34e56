// Package body implements the two body-decoder variants (fixed-length and
// chunked) and the async body stream they produce onto.
//
// Stream delivers a body's events to its consumer over an unbounded-queue
// pump: a decoder can already hold a message's entire body in hand before
// any consumer has even seen the Message that carries it, and a bounded
// channel would deadlock in that case waiting for a drain that cannot
// start yet. A single per-stream pump goroutine owns the queue exclusively;
// the decoder only ever touches the inbound side and the consumer only
// ever touches the outbound side, so each side of the queue still has
// exactly one owner.
package body

// Event is one item on a body stream: either a byte chunk (Data != nil) or,
// for a chunked body with non-empty trailers, the trailer mapping (Trailer
// != nil) emitted as the final item before completion.
type Event struct {
	Data    []byte
	Trailer TrailerBlock
}

// TrailerBlock is the minimal view the body stream needs of a header
// block: ordered name/value pairs. The chunked decoder fills it from its
// own trailerBlock; kept as its own tiny interface here so internal/body
// does not depend on the headers package.
type TrailerBlock interface {
	Each(fn func(name, value string))
	Len() int
}

// Stream is the asynchronous, ordered body byte/trailer stream attached to
// a Message. It is produced by exactly one body decoder and drained by
// exactly one consumer.
type Stream struct {
	in  chan Event
	out chan Event
	err error
}

// NewStream returns an open, empty body stream.
func NewStream() *Stream {
	s := &Stream{
		in:  make(chan Event),
		out: make(chan Event),
	}
	go s.pump()
	return s
}

// pump is the stream's sole queue owner: it buffers events arriving on in
// without bound, forwarding them to out as the consumer drains it. This is
// what lets a decoder push an entire already-buffered body in one call
// without waiting for a consumer to have even seen the Message yet.
func (s *Stream) pump() {
	defer close(s.out)

	var queue []Event
	for {
		if len(queue) == 0 {
			ev, ok := <-s.in
			if !ok {
				return
			}
			queue = append(queue, ev)
			continue
		}

		select {
		case ev, ok := <-s.in:
			if !ok {
				for _, e := range queue {
					s.out <- e
				}
				return
			}
			queue = append(queue, ev)
		case s.out <- queue[0]:
			queue = queue[1:]
		}
	}
}

// Events returns the channel of body events. It is closed once the stream
// completes or fails; callers should check Err after it closes.
func (s *Stream) Events() <-chan Event {
	return s.out
}

// Err returns the terminal error, if the stream failed. Valid only after
// Events() has been drained to closure.
func (s *Stream) Err() error {
	return s.err
}

// push enqueues a data chunk. Never blocks on the consumer's pace.
func (s *Stream) push(data []byte) {
	s.in <- Event{Data: data}
}

// pushTrailer enqueues the trailer mapping as the final data-bearing event.
func (s *Stream) pushTrailer(trailer TrailerBlock) {
	s.in <- Event{Trailer: trailer}
}

// complete closes the stream with no error: normal end of body.
func (s *Stream) complete() {
	close(s.in)
}

// fail closes the stream, recording err as the terminal error. err must be
// set before the close, since the happens-before edge it establishes is
// what lets the consumer safely read Err() after observing Events() close.
func (s *Stream) fail(err error) {
	s.err = err
	close(s.in)
}

// Completed returns an already-completed empty stream, used for messages
// with no body.
func Completed() *Stream {
	s := NewStream()
	s.complete()
	return s
}
