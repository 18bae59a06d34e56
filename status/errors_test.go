package status

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUnsupportedProtocol(t *testing.T) {
	err := NewUnsupportedProtocol(true)
	require.Equal(t, KindUnsupportedProtocol, err.Kind)
	require.True(t, err.LooksHTTPISH)
	require.Equal(t, "unsupported protocol", err.Error())
}

func TestNewBadRequest(t *testing.T) {
	err := NewBadRequest("non-hex chunk size")
	require.Equal(t, KindBadRequest, err.Kind)
	require.Equal(t, "bad request: non-hex chunk size", err.Error())
}

func TestNewBadResponse(t *testing.T) {
	err := NewBadResponse("malformed status line")
	require.Equal(t, KindBadResponse, err.Kind)
	require.Equal(t, "bad response: malformed status line", err.Error())
}

func TestNewServerError(t *testing.T) {
	err := NewServerError("multipart/byteranges not implemented")
	require.Equal(t, KindServerError, err.Kind)
	require.Equal(t, "server error: multipart/byteranges not implemented", err.Error())
}

func TestError_SatisfiesErrorInterface(t *testing.T) {
	var err error = NewBadRequest("x")
	require.Error(t, err)
}
