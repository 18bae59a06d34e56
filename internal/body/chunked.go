package body

import (
	"strconv"
	"strings"

	"github.com/httpframe/httpframe/debugtrace"
	"github.com/httpframe/httpframe/internal/accumulator"
	"github.com/httpframe/httpframe/internal/leftover"
	"github.com/httpframe/httpframe/status"
)

// chunkedState is the decoder's internal state, renamed from the
// teacher's per-byte eChunkLength*/eFooter* sub-states (see
// other_examples/indigo-web-chunkedbody__states.go) now that the line scan
// lives in the shared accumulator instead of per-byte dispatch.
type chunkedState int

const (
	expectSize chunkedState = iota
	expectChunkData
	expectLastCRLF
	expectTrailer
)

func (s chunkedState) String() string {
	switch s {
	case expectSize:
		return "ExpectSize"
	case expectChunkData:
		return "ExpectChunkData"
	case expectLastCRLF:
		return "ExpectLastCRLF"
	case expectTrailer:
		return "ExpectTrailer"
	default:
		return "Unknown"
	}
}

// normalizeFunc normalizes a trailer header name. Trailers are always
// normalized by the environment rule, regardless of whether the
// enclosing message is a request or a response.
type normalizeFunc func(string) string

// Chunked decodes a chunked-transfer-coded body, including optional
// trailers. Its state shape follows an existing chunked-body-parser
// precedent, collapsed from per-byte CR/LF sub-states onto the shared
// line-scanning accumulator.
type Chunked struct {
	stream *Stream
	baton  *leftover.Baton
	acc    *accumulator.Accumulator

	state     chunkedState
	remaining uint64

	trailerExpected bool
	trailer         *trailerBlock
	normalize       normalizeFunc

	maxChunkSize uint64
	done         bool

	trace *debugtrace.Tracer
}

// NewChunked constructs a chunked decoder. trailerExpected must reflect
// whether the message's header block announced a Trailer header.
// maxChunkSize of 0 means unbounded.
func NewChunked(stream *Stream, baton *leftover.Baton, trailerExpected bool, normalize normalizeFunc, maxChunkSize uint64) *Chunked {
	return &Chunked{
		stream:          stream,
		baton:           baton,
		acc:             accumulator.New(nil),
		trailerExpected: trailerExpected,
		normalize:       normalize,
		maxChunkSize:    maxChunkSize,
		trace:           debugtrace.New(false),
	}
}

// WithTrace attaches a tracer that logs every sub-state transition. It
// returns the receiver so it can be chained onto NewChunked.
func (c *Chunked) WithTrace(trace *debugtrace.Tracer) *Chunked {
	c.trace = trace
	return c
}

func (c *Chunked) setState(s chunkedState) {
	c.trace.Transition("chunked", c.state.String(), s.String())
	c.state = s
}

// Feed appends data to the decoder's own accumulator and runs the state
// machine until it either blocks for more data or completes. Feeding after
// completion is undefined, matching the fixed-length decoder's contract.
func (c *Chunked) Feed(data []byte) error {
	if c.done {
		panic("body: Chunked: Feed called after completion")
	}

	c.acc.Append(data)

	for {
		switch c.state {
		case expectSize:
			progressed, err := c.stepExpectSize()
			if err != nil {
				return c.fail(err)
			}
			if !progressed {
				return nil
			}

		case expectChunkData:
			progressed, err := c.stepExpectChunkData()
			if err != nil {
				return c.fail(err)
			}
			if !progressed {
				return nil
			}

		case expectLastCRLF:
			if !c.stepExpectLastCRLF() {
				return nil
			}

		case expectTrailer:
			progressed, done, err := c.stepExpectTrailer()
			if err != nil {
				return c.fail(err)
			}
			if done {
				return nil
			}
			if !progressed {
				return nil
			}
		}
	}
}

func (c *Chunked) fail(err error) error {
	c.done = true
	c.stream.fail(err)
	return err
}

// stepExpectSize consumes one chunk-size line, if a full one is buffered.
func (c *Chunked) stepExpectSize() (progressed bool, err error) {
	if c.acc.Size() <= 2 {
		// need at least one non-terminator byte plus CRLF
		return false, nil
	}

	line, ok := c.acc.TryConsumeCRLFLine()
	if !ok {
		return false, nil
	}

	if semi := strings.IndexByte(line, ';'); semi != -1 {
		line = line[:semi]
	}

	size, parseErr := strconv.ParseUint(line, 16, 64)
	if parseErr != nil {
		return false, status.NewBadRequest("non-hex chunk size")
	}

	if c.maxChunkSize > 0 && size > c.maxChunkSize {
		return false, status.NewBadRequest("chunk size exceeds maximum")
	}

	if size == 0 {
		if c.trailerExpected {
			c.trailer = newTrailerBlock()
			c.setState(expectTrailer)
			return true, nil
		}

		c.setState(expectLastCRLF)
		return true, nil
	}

	c.remaining = size
	c.setState(expectChunkData)
	return true, nil
}

// stepExpectChunkData emits the current chunk's payload once it has fully
// arrived, then discards its trailing CRLF without validating it.
func (c *Chunked) stepExpectChunkData() (progressed bool, err error) {
	need := int(c.remaining) + 2
	if c.acc.Size() < need {
		return false, nil
	}

	payload := c.acc.ConsumePrefix(int(c.remaining))
	c.acc.ConsumePrefix(2)

	c.stream.push(payload)

	c.setState(expectSize)
	return true, nil
}

// stepExpectLastCRLF consumes the CRLF that terminates an empty
// trailer-part when no Trailer header announced one. Without this step the
// terminator would leak into the leftover baton as a stray blank line ahead
// of the next message's head.
func (c *Chunked) stepExpectLastCRLF() (progressed bool) {
	if _, ok := c.acc.TryConsumeCRLFLine(); !ok {
		return false
	}

	c.finish()
	return false
}

// stepExpectTrailer consumes trailer lines until the block-ending empty
// line, folding continuation lines onto the most recent trailer.
func (c *Chunked) stepExpectTrailer() (progressed, streamDone bool, err error) {
	line, ok := c.acc.TryConsumeCRLFLine()
	if !ok {
		return false, false, nil
	}

	if line == "" {
		if c.trailer.Len() > 0 {
			c.stream.pushTrailer(c.trailer)
		}

		c.finish()
		return false, true, nil
	}

	if line[0] == ' ' || line[0] == '\t' {
		if !c.trailer.fold(strings.TrimLeft(line, " \t")) {
			return false, false, status.NewBadRequest("folded trailer line with no preceding trailer")
		}
		return true, false, nil
	}

	name, value, ok := splitHeaderLine(line)
	if !ok {
		return false, false, status.NewBadRequest("malformed trailer line")
	}

	c.trailer.insert(c.normalize(name), value)
	return true, false, nil
}

// finish completes the body stream and fulfills the leftover baton with
// whatever remains buffered past the terminating chunk/trailer block.
func (c *Chunked) finish() {
	c.done = true
	c.stream.complete()
	c.baton.Fulfill(c.acc.Drain())
}

// splitHeaderLine splits "name: value" on the first colon, relaxed to
// allow any amount of whitespace after it rather than exactly one space,
// trimming surrounding whitespace from the name.
func splitHeaderLine(line string) (name, value string, ok bool) {
	colon := strings.IndexByte(line, ':')
	if colon == -1 {
		return "", "", false
	}

	name = strings.TrimSpace(line[:colon])
	value = strings.TrimLeft(line[colon+1:], " \t")
	if name == "" {
		return "", "", false
	}

	return name, value, true
}

// trailerBlock is a minimal ordered name/value map, reusing the same
// duplicate-combination and folding rules as headers.Block without
// importing the headers package.
type trailerBlock struct {
	names  []string
	values []string
	index  map[string]int
}

func newTrailerBlock() *trailerBlock {
	return &trailerBlock{index: make(map[string]int)}
}

func (t *trailerBlock) insert(name, value string) {
	if i, ok := t.index[name]; ok {
		t.values[i] += "," + value
		return
	}

	t.index[name] = len(t.names)
	t.names = append(t.names, name)
	t.values = append(t.values, value)
}

func (t *trailerBlock) fold(continuation string) bool {
	if len(t.names) == 0 {
		return false
	}
	t.values[len(t.values)-1] += continuation
	return true
}

func (t *trailerBlock) Len() int {
	return len(t.names)
}

func (t *trailerBlock) Each(fn func(name, value string)) {
	for i, name := range t.names {
		fn(name, t.values[i])
	}
}
