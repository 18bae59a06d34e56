package body

import (
	"context"
	"strings"
	"testing"

	"github.com/httpframe/httpframe/internal/leftover"
	"github.com/stretchr/testify/require"
)

func upper(name string) string {
	return strings.ToUpper(name)
}

func feedInParts(t *testing.T, d *Chunked, data []byte, partSize int) {
	t.Helper()

	for len(data) > 0 {
		n := partSize
		if n > len(data) {
			n = len(data)
		}
		require.NoError(t, d.Feed(data[:n]))
		data = data[n:]
	}
}

func testChunkedAcrossPartSizes(t *testing.T, raw []byte, wantBody string, trailerExpected bool) {
	for partSize := 1; partSize <= len(raw); partSize++ {
		stream := NewStream()
		baton := leftover.New()
		d := NewChunked(stream, baton, trailerExpected, upper, 0)

		feedInParts(t, d, raw, partSize)

		body, err := drainStream(t, stream)
		require.NoErrorf(t, err, "part size %d", partSize)
		require.Equalf(t, wantBody, string(body), "part size %d", partSize)
		require.Truef(t, baton.Fulfilled(), "part size %d", partSize)
	}
}

func TestChunked_Basic(t *testing.T) {
	raw := []byte("d\r\nHello, world!\r\n1a\r\nBut what's wrong with you?\r\n0\r\n\r\n")
	testChunkedAcrossPartSizes(t, raw, "Hello, world!But what's wrong with you?", false)
}

func TestChunked_WithLeftover(t *testing.T) {
	stream := NewStream()
	baton := leftover.New()
	d := NewChunked(stream, baton, false, upper, 0)

	raw := []byte("5\r\nhello\r\n0\r\n\r\nGET / HTTP/1.1\r\n")
	require.NoError(t, d.Feed(raw))

	body, err := drainStream(t, stream)
	require.NoError(t, err)
	require.Equal(t, "hello", string(body))

	require.True(t, baton.Fulfilled())
	leftoverBytes, err := baton.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, []byte("GET / HTTP/1.1\r\n"), leftoverBytes)
}

func TestChunked_LastCRLFDoesNotLeakIntoLeftover(t *testing.T) {
	for partSize := 1; partSize <= 40; partSize++ {
		stream := NewStream()
		baton := leftover.New()
		d := NewChunked(stream, baton, false, upper, 0)

		raw := []byte("5\r\nhello\r\n0\r\n\r\n5\r\nhello\r\n0\r\n\r\n")

		// Feed parts only until the first body completes, as the frame
		// parser does; the leftover plus the bytes not yet fed must be
		// exactly the second body.
		fed := 0
		for fed < len(raw) && !baton.Fulfilled() {
			n := partSize
			if n > len(raw)-fed {
				n = len(raw) - fed
			}
			require.NoErrorf(t, d.Feed(raw[fed:fed+n]), "part size %d", partSize)
			fed += n
		}

		_, err := drainStream(t, stream)
		require.NoErrorf(t, err, "part size %d", partSize)

		require.Truef(t, baton.Fulfilled(), "part size %d", partSize)
		leftoverBytes, err := baton.Await(context.Background())
		require.NoErrorf(t, err, "part size %d", partSize)
		rest := append(append([]byte(nil), leftoverBytes...), raw[fed:]...)
		require.Equalf(t, []byte("5\r\nhello\r\n0\r\n\r\n"), rest, "part size %d", partSize)
	}
}

func TestChunked_ChunkExtensionStripped(t *testing.T) {
	stream := NewStream()
	baton := leftover.New()
	d := NewChunked(stream, baton, false, upper, 0)

	raw := []byte("5;foo=bar\r\nhello\r\n0\r\n\r\n")
	require.NoError(t, d.Feed(raw))

	body, err := drainStream(t, stream)
	require.NoError(t, err)
	require.Equal(t, "hello", string(body))
}

func TestChunked_Trailer(t *testing.T) {
	stream := NewStream()
	baton := leftover.New()
	d := NewChunked(stream, baton, true, upper, 0)

	raw := []byte("7\r\nMozilla\r\n0\r\nExpires: date here\r\n\r\n")
	require.NoError(t, d.Feed(raw))

	var gotTrailer map[string]string
	var gotBody []byte
	for ev := range stream.Events() {
		if ev.Trailer != nil {
			gotTrailer = map[string]string{}
			ev.Trailer.Each(func(name, value string) {
				gotTrailer[name] = value
			})
			continue
		}
		gotBody = append(gotBody, ev.Data...)
	}

	require.NoError(t, stream.Err())
	require.Equal(t, "Mozilla", string(gotBody))
	require.Equal(t, "date here", gotTrailer["EXPIRES"])
}

func TestChunked_NonHexSizeIsBadRequest(t *testing.T) {
	stream := NewStream()
	baton := leftover.New()
	d := NewChunked(stream, baton, false, upper, 0)

	err := d.Feed([]byte("ZZ\r\nhello\r\n"))
	require.Error(t, err)
}

func TestChunked_OversizeChunkRejected(t *testing.T) {
	stream := NewStream()
	baton := leftover.New()
	d := NewChunked(stream, baton, false, upper, 4)

	err := d.Feed([]byte("5\r\nhello\r\n"))
	require.Error(t, err)
}

func TestChunked_FeedAfterCompletionPanics(t *testing.T) {
	stream := NewStream()
	baton := leftover.New()
	d := NewChunked(stream, baton, false, upper, 0)

	require.NoError(t, d.Feed([]byte("0\r\n\r\n")))
	<-stream.Events()

	require.Panics(t, func() {
		_ = d.Feed([]byte("5\r\nhello\r\n"))
	})
}
