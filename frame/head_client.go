package frame

import (
	"strconv"

	"github.com/httpframe/httpframe/headers"
	"github.com/httpframe/httpframe/message"
	"github.com/httpframe/httpframe/proto"
	"github.com/httpframe/httpframe/status"
)

// parseStatusLine parses a client-mode start line: protocol, status-code,
// reason-phrase.
//
// Once the line parses, the two synthetic entries are inserted into the
// header block immediately, ahead of any real header line, so that a
// caller iterating the block in arrival order sees them first.
func (p *Parser) parseStatusLine(line string) error {
	parts, ok := splitN3(line)
	if !ok {
		return p.bad("malformed status line")
	}

	token, codeToken, reason := parts[0], parts[1], parts[2]

	version, looksHTTPish := proto.Parse(token)
	if version == proto.Unknown {
		if looksHTTPish {
			return status.NewUnsupportedProtocol(true)
		}
		return p.bad("malformed status line")
	}

	code, err := strconv.Atoi(codeToken)
	if err != nil {
		return p.bad("malformed status code")
	}

	p.respHead = &message.ResponseHead{
		StatusCode:   code,
		ReasonPhrase: reason,
		Protocol:     version,
	}

	p.headerBlock.Insert(headers.XServerProtocol, version.String())
	p.headerBlock.Insert(headers.XServerStatusMessage, reason)
	return nil
}
