package proto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_KnownVersions(t *testing.T) {
	p, looksHTTPish := Parse("HTTP/1.0")
	require.Equal(t, HTTP10, p)
	require.True(t, looksHTTPish)

	p, looksHTTPish = Parse("HTTP/1.1")
	require.Equal(t, HTTP11, p)
	require.True(t, looksHTTPish)
}

func TestParse_LooksHTTPishButUnsupported(t *testing.T) {
	p, looksHTTPish := Parse("HTTP/2.0")
	require.Equal(t, Unknown, p)
	require.True(t, looksHTTPish)

	p, looksHTTPish = Parse("HTTP/0.9")
	require.Equal(t, Unknown, p)
	require.True(t, looksHTTPish)
}

func TestParse_NotHTTPAtAll(t *testing.T) {
	for _, token := range []string{"GARBAGE", "FTP/1.1", "HTTP/1.1x", "HTT/1.1", ""} {
		p, looksHTTPish := Parse(token)
		require.Equalf(t, Unknown, p, "token %q", token)
		require.Falsef(t, looksHTTPish, "token %q", token)
	}
}

func TestProto_String(t *testing.T) {
	require.Equal(t, "HTTP/1.0", HTTP10.String())
	require.Equal(t, "HTTP/1.1", HTTP11.String())
	require.Equal(t, "", Unknown.String())
}
