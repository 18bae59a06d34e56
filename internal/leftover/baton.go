// Package leftover implements the single-assignment carrier used to hand
// bytes received past the end of a message's body back to the frame
// parser, so it can seed the next message's head parsing without copying.
//
// A channel closed exactly once carries the payload, which lets Await be
// a plain channel receive and Fulfilled be a non-blocking select.
package leftover

import (
	"context"
	"sync"
)

// Baton is a single-assignment, awaitable container of bytes. It is
// created when a body decoder is attached to a message, fulfilled exactly
// once when that decoder's body finishes, and consumed exactly once by the
// frame parser when it reinitializes for the next message.
type Baton struct {
	once  sync.Once
	done  chan struct{}
	bytes []byte
}

// New returns an unfulfilled baton.
func New() *Baton {
	return &Baton{done: make(chan struct{})}
}

// Fulfill assigns the baton's value and wakes any waiter. Calling it a
// second time panics: fulfilling a baton twice indicates a body decoder
// bug, not a condition callers should need to handle.
func (b *Baton) Fulfill(data []byte) {
	fulfilled := false
	b.once.Do(func() {
		b.bytes = data
		close(b.done)
		fulfilled = true
	})

	if !fulfilled {
		panic("leftover: baton fulfilled more than once")
	}
}

// Fulfilled reports whether Fulfill has already been called, without
// blocking. The frame parser polls this right after feeding a chunk to the
// active body decoder to decide whether it can reinitialize immediately.
func (b *Baton) Fulfilled() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

// Await blocks until the baton is fulfilled, returning its bytes, or
// returns ctx.Err() if the context is canceled first.
func (b *Baton) Await(ctx context.Context) ([]byte, error) {
	select {
	case <-b.done:
		return b.bytes, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
