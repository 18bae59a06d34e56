package body

import (
	"github.com/httpframe/httpframe/internal/leftover"
)

// FixedLength decodes a Content-Length-framed body. Grounded on the
// teacher's internal/parser/http1/body.go plainBodyReader: the same
// remaining-bytes bookkeeping, with the "unread the suffix" step replaced
// by fulfilling the leftover baton.
type FixedLength struct {
	stream        *Stream
	baton         *leftover.Baton
	bytesRead     uint64
	contentLength uint64
	done          bool
}

// NewFixedLength constructs a fixed-length decoder targeting exactly
// contentLength bytes of body.
func NewFixedLength(stream *Stream, baton *leftover.Baton, contentLength uint64) *FixedLength {
	return &FixedLength{
		stream:        stream,
		baton:         baton,
		contentLength: contentLength,
	}
}

// Feed pushes data into the body stream until exactly ContentLength bytes
// have passed, then fulfills the leftover baton with whatever is left
// over. Feeding after completion is undefined -- callers (the frame
// parser) must not call it once done.
func (d *FixedLength) Feed(data []byte) error {
	if d.done {
		panic("body: FixedLength: Feed called after completion")
	}

	total := d.bytesRead + uint64(len(data))
	if total < d.contentLength {
		d.bytesRead = total
		d.stream.push(data)
		return nil
	}

	remaining := int(d.contentLength - d.bytesRead)
	d.bytesRead = d.contentLength
	d.done = true

	if remaining > 0 {
		d.stream.push(data[:remaining])
	}

	d.stream.complete()
	d.baton.Fulfill(data[remaining:])
	return nil
}
