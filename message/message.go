// Package message defines the output of the frame parser: the parsed head
// (request or response), its normalized header block, and the handle to
// its lazily produced body stream.
package message

import (
	"github.com/httpframe/httpframe/headers"
	"github.com/httpframe/httpframe/internal/body"
	"github.com/httpframe/httpframe/proto"
)

// RequestHead is the parsed request line of a server-side message.
type RequestHead struct {
	Method     string
	RequestURI string
	Protocol   proto.Proto
}

// ResponseHead is the parsed status line of a client-side message.
type ResponseHead struct {
	StatusCode   int
	ReasonPhrase string
	Protocol     proto.Proto
}

// Message is one complete HTTP message: its head, its normalized headers,
// and a handle to its body stream. Request is non-nil for server-mode
// messages, Response for client-mode messages — exactly one is set.
type Message struct {
	Request  *RequestHead
	Response *ResponseHead
	Headers  *headers.Block
	Body     *body.Stream
}
