// Package status implements the three-kind error taxonomy that terminates
// a connection's output stream. Shape follows an HTTPError{Code, Message}
// precedent, narrowed to exactly the three kinds this module raises.
package status

// Kind is one of the three error kinds the core can raise. It is never
// extended; ServerError exists for future body-coding extensions the core
// itself doesn't currently trigger.
type Kind uint8

const (
	KindUnsupportedProtocol Kind = iota
	KindBadRequest
	KindBadResponse
	KindServerError
)

// Error is the error type surfaced on a connection's output stream. All
// instances are fatal for that connection: none are recovered locally.
type Error struct {
	Kind Kind
	// Reason is a human-readable description of the malformed framing,
	// set for BadRequest/BadResponse/ServerError.
	Reason string
	// LooksHTTPISH distinguishes, for UnsupportedProtocol, a token that
	// resembles HTTP/x.y (true — e.g. an HTTP/2 preface) from garbage
	// that isn't HTTP at all (false).
	LooksHTTPISH bool
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnsupportedProtocol:
		return "unsupported protocol"
	case KindBadRequest:
		return "bad request: " + e.Reason
	case KindBadResponse:
		return "bad response: " + e.Reason
	default:
		return "server error: " + e.Reason
	}
}

// NewUnsupportedProtocol builds the UnsupportedProtocol error, carrying the
// looks-http-ish flag external collaborators use to decide whether to fall
// back to an alternative protocol handler on the same bytes.
func NewUnsupportedProtocol(looksHTTPish bool) *Error {
	return &Error{Kind: KindUnsupportedProtocol, LooksHTTPISH: looksHTTPish}
}

// NewBadRequest builds a BadRequest error (server-side malformed framing).
func NewBadRequest(reason string) *Error {
	return &Error{Kind: KindBadRequest, Reason: reason}
}

// NewBadResponse builds a BadResponse error (client-side malformed framing).
func NewBadResponse(reason string) *Error {
	return &Error{Kind: KindBadResponse, Reason: reason}
}

// NewServerError builds a ServerError — reserved for known-but-unimplemented
// features (e.g. multipart/byteranges), not currently raised by either body
// decoder in this module.
func NewServerError(reason string) *Error {
	return &Error{Kind: KindServerError, Reason: reason}
}
