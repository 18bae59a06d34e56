// Package frame implements the top-level reactive parser: it consumes a
// stream of arbitrarily-chunked transport reads and emits a stream of
// complete message heads, each carrying a handle to its own asynchronous
// body stream. One Parser handles exactly one connection's traffic in one
// direction (server or client) across any number of keep-alive messages.
package frame

import (
	"context"
	"strings"

	"github.com/httpframe/httpframe/config"
	"github.com/httpframe/httpframe/debugtrace"
	"github.com/httpframe/httpframe/headers"
	"github.com/httpframe/httpframe/internal/accumulator"
	"github.com/httpframe/httpframe/internal/body"
	"github.com/httpframe/httpframe/internal/leftover"
	"github.com/httpframe/httpframe/message"
	"github.com/httpframe/httpframe/status"
)

// bodyDecoder is the common shape of the two body-decoder variants. The
// frame parser drives whichever one a message's headers selected without
// caring which.
type bodyDecoder interface {
	Feed(data []byte) error
}

// Result is one item of a Parser's output stream: either a fully-parsed
// message head, or a terminal error that ends the stream.
type Result struct {
	Msg *message.Message
	Err error
}

// Parser turns a raw chunk stream into a stream of Results. It is not
// safe for concurrent use by multiple goroutines; Parse must be called
// exactly once.
type Parser struct {
	role      Role
	cfg       *config.Config
	trace     *debugtrace.Tracer
	normalize func(string) string

	ctx context.Context
	out chan Result

	state ParserState
	acc   *accumulator.Accumulator

	headerBlock *headers.Block
	reqHead     *message.RequestHead
	respHead    *message.ResponseHead

	haveContentLength bool
	contentLength     uint64
	chunked           bool
	trailerAnnounced  bool

	decoder bodyDecoder
	baton   *leftover.Baton
	stream  *body.Stream
}

// New returns a Parser for the given role. A nil cfg uses config.Default();
// a nil trace is built from cfg.Debug, so tracing stays off unless Debug is
// set.
func New(role Role, cfg *config.Config, trace *debugtrace.Tracer) *Parser {
	if cfg == nil {
		cfg = config.Default()
	}
	if trace == nil {
		trace = debugtrace.New(cfg.Debug)
	}

	normalize := headers.NormalizeServer
	if role == RoleClient {
		normalize = headers.NormalizeClient
	}

	return &Parser{
		role:      role,
		cfg:       cfg,
		trace:     trace,
		normalize: normalize,
	}
}

// Parse starts the parser against chunks and returns the Result stream.
// The returned channel is closed when chunks is closed, when ctx is
// canceled, or after a single terminal error has been delivered.
func (p *Parser) Parse(ctx context.Context, chunks <-chan []byte) <-chan Result {
	p.ctx = ctx
	p.out = make(chan Result)
	go p.run(chunks)
	return p.out
}

func (p *Parser) run(chunks <-chan []byte) {
	defer close(p.out)

	p.resetForNextMessage(nil)

	for {
		select {
		case <-p.ctx.Done():
			return
		case data, ok := <-chunks:
			if !ok {
				return
			}

			if err := p.feed(data); err != nil {
				p.trace.Error(err)
				select {
				case p.out <- Result{Err: err}:
				case <-p.ctx.Done():
				}
				return
			}
		}
	}
}

// feed routes one transport chunk to whichever half of the state machine
// is active: the active body decoder, or the head accumulator.
func (p *Parser) feed(data []byte) error {
	if p.state == ExpectBody {
		if err := p.decoder.Feed(data); err != nil {
			return err
		}

		if p.baton.Fulfilled() {
			leftover, err := p.baton.Await(p.ctx)
			if err != nil {
				return err
			}
			return p.startHead(leftover)
		}

		return nil
	}

	p.acc.Append(data)
	return p.drainHead()
}

// startHead reinitializes the parser for the next message, seeding its
// accumulator with bytes the previous body decoder handed back, and then
// immediately tries to drain a head out of them — the pipelining case
// where a peer's next request/response arrived in the same transport read
// as the tail of the previous message's body.
func (p *Parser) startHead(leftover []byte) error {
	p.trace.LeftoverFulfilled(len(leftover))
	p.resetForNextMessage(leftover)
	return p.drainHead()
}

// setState records a top-level state transition on the trace before
// applying it.
func (p *Parser) setState(s ParserState) {
	p.trace.Transition("frame", p.state.String(), s.String())
	p.state = s
}

func (p *Parser) resetForNextMessage(seed []byte) {
	p.setState(ExpectHead)
	p.acc = accumulator.New(seed)
	p.headerBlock = headers.NewBlock(p.cfg.Headers.Number.Default)
	p.reqHead = nil
	p.respHead = nil
	p.haveContentLength = false
	p.contentLength = 0
	p.chunked = false
	p.trailerAnnounced = false
	p.decoder = nil
	p.baton = nil
	p.stream = nil
}

// drainHead consumes whatever complete lines are currently buffered: the
// start line, then header lines (plain, folded, or the empty line ending
// the block), stopping to wait for more transport data whenever a line is
// only partially buffered.
func (p *Parser) drainHead() error {
	for {
		if p.reqHead == nil && p.respHead == nil {
			line, ok, err := p.nextHeadLine()
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			if err := p.parseStartLine(line); err != nil {
				return err
			}
			continue
		}

		line, ok, err := p.nextHeadLine()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		if line == "" {
			return p.setupBody()
		}

		if line[0] == ' ' || line[0] == '\t' {
			if !p.headerBlock.Fold(strings.TrimLeft(line, " \t")) {
				return p.bad("folded header line with no preceding header")
			}
			continue
		}

		if err := p.observeHeader(line); err != nil {
			return err
		}
	}
}

// nextHeadLine consumes one CRLF-terminated line from the head
// accumulator, if a full one is already buffered, enforcing the configured
// maximum line length both against a line that has arrived in full and
// against one that's still accumulating with no CRLF in sight yet — a
// single feed can hand drainHead several complete lines at once, so the
// bound has to apply per line rather than to the whole buffered head.
func (p *Parser) nextHeadLine() (line string, ok bool, err error) {
	line, ok = p.acc.TryConsumeCRLFLine()
	if !ok {
		if p.acc.Size() > p.cfg.Headers.LineLength.Maximal {
			return "", false, p.bad("head line exceeds maximum length")
		}
		return "", false, nil
	}

	if len(line) > p.cfg.Headers.LineLength.Maximal {
		return "", false, p.bad("head line exceeds maximum length")
	}

	return line, true, nil
}

// observeHeader inserts one header line into the head's header block,
// tracking the three fields that decide body framing: Content-Length,
// Transfer-Encoding, and Trailer.
func (p *Parser) observeHeader(line string) error {
	name, value, ok := splitHeaderLine(line)
	if !ok {
		return p.bad("malformed header line")
	}

	switch {
	case strings.EqualFold(name, "Content-Length"):
		n, err := parseContentLength(value)
		if err != nil {
			return p.bad("malformed content-length")
		}
		if p.haveContentLength && n != p.contentLength {
			return p.bad("conflicting content-length values")
		}
		p.haveContentLength = true
		p.contentLength = n

	case strings.EqualFold(name, "Transfer-Encoding"):
		if strings.Contains(strings.ToLower(value), "chunked") {
			p.chunked = true
		}

	case strings.EqualFold(name, "Trailer"):
		p.trailerAnnounced = true
	}

	p.headerBlock.Insert(p.normalize(name), value)

	if p.headerBlock.Len() > p.cfg.Headers.Number.Maximal {
		return p.bad("too many headers")
	}

	return nil
}

// setupBody picks the body decoder once the header block is complete.
// Transfer-Encoding: chunked wins outright over any Content-Length also
// present, per the framing precedence every HTTP/1.x implementation in
// the pack follows.
func (p *Parser) setupBody() error {
	if p.chunked {
		return p.startChunkedBody()
	}

	if p.haveContentLength && p.contentLength > 0 {
		return p.startFixedLengthBody()
	}

	if err := p.emitMessage(body.Completed()); err != nil {
		return err
	}

	// No body: whatever is still buffered belongs to the next message's
	// head, so reinitialize and keep draining.
	p.resetForNextMessage(p.acc.Drain())
	return p.drainHead()
}

func (p *Parser) startChunkedBody() error {
	p.stream = body.NewStream()
	p.baton = leftover.New()
	// Trailers are always normalized by the environment rule, regardless
	// of role: a trailer block is conceptually a second header block, and
	// the server-side naming is the only one a FastCGI-style relay
	// downstream would expect it under.
	p.decoder = body.NewChunked(p.stream, p.baton, p.trailerAnnounced, headers.NormalizeServer, uint64(p.cfg.Body.MaxChunkSize)).WithTrace(p.trace)

	if err := p.emitMessage(p.stream); err != nil {
		return err
	}
	p.setState(ExpectBody)

	return p.feedLeftoverIntoDecoder()
}

func (p *Parser) startFixedLengthBody() error {
	p.stream = body.NewStream()
	p.baton = leftover.New()
	p.decoder = body.NewFixedLength(p.stream, p.baton, p.contentLength)

	if err := p.emitMessage(p.stream); err != nil {
		return err
	}
	p.setState(ExpectBody)

	return p.feedLeftoverIntoDecoder()
}

// feedLeftoverIntoDecoder hands the bytes already buffered past the head's
// terminating blank line to the freshly attached decoder, and continues
// the pipelining chain if that alone was enough to complete the body.
func (p *Parser) feedLeftoverIntoDecoder() error {
	seed := p.acc.Drain()
	if len(seed) > 0 {
		if err := p.decoder.Feed(seed); err != nil {
			return err
		}
	}

	if p.baton.Fulfilled() {
		leftover, err := p.baton.Await(p.ctx)
		if err != nil {
			return err
		}
		return p.startHead(leftover)
	}

	return nil
}

func (p *Parser) emitMessage(stream *body.Stream) error {
	msg := &message.Message{
		Request:  p.reqHead,
		Response: p.respHead,
		Headers:  p.headerBlock,
		Body:     stream,
	}

	p.trace.MessageEmitted(p.role.String())

	select {
	case p.out <- Result{Msg: msg}:
		return nil
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

func (p *Parser) parseStartLine(line string) error {
	if p.role == RoleServer {
		return p.parseRequestLine(line)
	}
	return p.parseStatusLine(line)
}

// bad builds the role-appropriate malformed-framing error: BadRequest for
// a server parser, BadResponse for a client one.
func (p *Parser) bad(reason string) error {
	if p.role == RoleServer {
		return status.NewBadRequest(reason)
	}
	return status.NewBadResponse(reason)
}
