package headers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlock_InsertAndGet(t *testing.T) {
	b := NewBlock(4)
	b.Insert("Host", "example.com")

	value, ok := b.Get("Host")
	require.True(t, ok)
	require.Equal(t, "example.com", value)
	require.True(t, b.Has("Host"))
	require.Equal(t, 1, b.Len())
}

func TestBlock_InsertCombinesDuplicates(t *testing.T) {
	b := NewBlock(4)
	b.Insert("X-Thing", "a")
	b.Insert("X-Thing", "b")

	value, ok := b.Get("X-Thing")
	require.True(t, ok)
	require.Equal(t, "a,b", value)
	require.Equal(t, 1, b.Len())
}

func TestBlock_Fold(t *testing.T) {
	b := NewBlock(4)
	b.Insert("X-Thing", "a")

	require.True(t, b.Fold("b"))
	value, _ := b.Get("X-Thing")
	require.Equal(t, "ab", value)
}

func TestBlock_FoldWithoutPrecedingHeaderFails(t *testing.T) {
	b := NewBlock(4)
	require.False(t, b.Fold("orphan"))
}

func TestBlock_Each_PreservesArrivalOrder(t *testing.T) {
	b := NewBlock(4)
	b.Insert("A", "1")
	b.Insert("B", "2")
	b.Insert("C", "3")

	var names []string
	b.Each(func(name, value string) {
		names = append(names, name)
	})
	require.Equal(t, []string{"A", "B", "C"}, names)
}

func TestBlock_LastName(t *testing.T) {
	b := NewBlock(4)
	_, ok := b.LastName()
	require.False(t, ok)

	b.Insert("A", "1")
	b.Insert("B", "2")

	name, ok := b.LastName()
	require.True(t, ok)
	require.Equal(t, "B", name)
}

func TestNormalizeServer(t *testing.T) {
	require.Equal(t, "HTTP_USER_AGENT", NormalizeServer("User-Agent"))
	require.Equal(t, "CONTENT_LENGTH", NormalizeServer("Content-Length"))
	require.Equal(t, "CONTENT_TYPE", NormalizeServer("content-type"))
	require.Equal(t, "HTTP_X_CUSTOM_HEADER", NormalizeServer("X-Custom-Header"))
}

func TestNormalizeClient(t *testing.T) {
	require.Equal(t, "user-agent", NormalizeClient("User-Agent"))
	require.Equal(t, "content-length", NormalizeClient("Content-Length"))
}
