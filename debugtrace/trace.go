// Package debugtrace implements an opt-in side channel that emits
// internal state transitions as a structured trace without affecting
// parsing semantics.
//
// HTTP-parser-shaped code elsewhere carries a *zap.Logger field for
// exactly this purpose (connectrpc-vanguard-go's cmd/extproc/main.go, the
// scalpel-cli HTTP parser files); this module follows that precedent.
package debugtrace

import "go.uber.org/zap"

// Tracer emits state-transition trace events. It is a thin, per-parser
// field -- never process-global state.
type Tracer struct {
	log *zap.Logger
}

// New returns a Tracer. When debug is false, it wraps a no-op logger so
// every call site can unconditionally trace without branching or paying
// for allocation.
func New(debug bool) *Tracer {
	if !debug {
		return &Tracer{log: zap.NewNop()}
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		// zap.NewDevelopment only fails on invalid static config; this
		// can't happen with the zero-value options used here.
		logger = zap.NewNop()
	}

	return &Tracer{log: logger}
}

// Transition logs a frame-parser or body-decoder state transition.
func (t *Tracer) Transition(component, from, to string) {
	t.log.Debug("state transition",
		zap.String("component", component),
		zap.String("from", from),
		zap.String("to", to),
	)
}

// LeftoverFulfilled logs a leftover baton being fulfilled, with the number
// of bytes handed back to the frame parser.
func (t *Tracer) LeftoverFulfilled(n int) {
	t.log.Debug("leftover baton fulfilled", zap.Int("bytes", n))
}

// MessageEmitted logs a completed head being emitted downstream.
func (t *Tracer) MessageEmitted(kind string) {
	t.log.Debug("message emitted", zap.String("kind", kind))
}

// Error logs a fatal parsing error before it terminates the output stream.
func (t *Tracer) Error(err error) {
	t.log.Debug("parse error", zap.Error(err))
}
