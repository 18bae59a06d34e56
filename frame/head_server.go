package frame

import (
	"github.com/httpframe/httpframe/message"
	"github.com/httpframe/httpframe/proto"
	"github.com/httpframe/httpframe/status"
)

// parseRequestLine parses a server-mode start line: method, request-uri,
// protocol. The line arrives already cut off at its CRLF by this module's
// line-oriented accumulator; the three-field split happens here.
func (p *Parser) parseRequestLine(line string) error {
	parts, ok := splitN3(line)
	if !ok {
		return p.bad("malformed request line")
	}

	method, requestURI, token := parts[0], parts[1], parts[2]
	if method == "" || requestURI == "" {
		return p.bad("malformed request line")
	}

	version, looksHTTPish := proto.Parse(token)
	if version == proto.Unknown {
		if looksHTTPish {
			return status.NewUnsupportedProtocol(true)
		}
		return p.bad("malformed request line")
	}

	p.reqHead = &message.RequestHead{
		Method:     method,
		RequestURI: requestURI,
		Protocol:   version,
	}
	return nil
}
