package request

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanofish-go/nanofish/packages/header"
)

func TestBuild_Get(t *testing.T) {
	got, err := Build(MethodGet, "example.com", "/api/status", nil, nil)
	require.NoError(t, err)

	want := "GET /api/status HTTP/1.1\r\n" +
		"Host: example.com\r\n" +
		"Connection: close\r\n\r\n"
	assert.Equal(t, want, string(got))
}

func TestBuild_HeadersInCallerOrder(t *testing.T) {
	headers := header.NewSet(
		header.ContentType(header.MIMEJSON),
		header.Authorization("Bearer tok"),
		header.New("X-Custom", "v"),
	)

	got, err := Build(MethodGet, "example.com", "/", &headers, nil)
	require.NoError(t, err)

	want := "GET / HTTP/1.1\r\n" +
		"Host: example.com\r\n" +
		"Content-Type: application/json\r\n" +
		"Authorization: Bearer tok\r\n" +
		"X-Custom: v\r\n" +
		"Connection: close\r\n\r\n"
	assert.Equal(t, want, string(got))
}

func TestBuild_AutoContentLength(t *testing.T) {
	body := []byte(`{"name":"fish"}`)

	got, err := Build(MethodPost, "example.com", "/api", nil, body)
	require.NoError(t, err)

	want := "POST /api HTTP/1.1\r\n" +
		"Host: example.com\r\n" +
		"Content-Length: 15\r\n" +
		"Connection: close\r\n\r\n"
	assert.Equal(t, want, string(got))
	// The body bytes themselves never enter the buffer.
	assert.NotContains(t, string(got), "fish")
}

func TestBuild_CallerContentLengthWins(t *testing.T) {
	headers := header.NewSet(header.New("content-length", "99"))

	got, err := Build(MethodPost, "example.com", "/api", &headers, []byte("hello"))
	require.NoError(t, err)

	// Case-insensitive match suppresses the auto header.
	assert.Equal(t, 1, strings.Count(string(got), "ontent-"))
	assert.Contains(t, string(got), "content-length: 99\r\n")
}

func TestBuild_EmptyBodySliceStillGetsContentLength(t *testing.T) {
	got, err := Build(MethodPost, "example.com", "/api", nil, []byte{})
	require.NoError(t, err)
	assert.Contains(t, string(got), "Content-Length: 0\r\n")
}

func TestBuild_EmptyPath(t *testing.T) {
	// An endpoint with no trailing segment yields an empty path; the
	// builder emits it verbatim.
	got, err := Build(MethodGet, "example.com", "", nil, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(got), "GET  HTTP/1.1\r\n"))
}

func TestBuild_Overflow(t *testing.T) {
	longPath := "/" + strings.Repeat("a", BufferSize)

	got, err := Build(MethodGet, "example.com", longPath, nil, nil)
	assert.ErrorIs(t, err, ErrBufferOverflow)
	assert.Nil(t, got, "no partial buffer on overflow")
}

func TestBuild_OverflowInHeaders(t *testing.T) {
	headers := header.NewSet(header.New("X-Big", strings.Repeat("v", BufferSize)))

	got, err := Build(MethodGet, "example.com", "/", &headers, nil)
	assert.ErrorIs(t, err, ErrBufferOverflow)
	assert.Nil(t, got)
}

func TestBuild_FitsExactly(t *testing.T) {
	// A request that lands inside the capacity by a hair still succeeds.
	head, err := Build(MethodGet, "example.com", "/", nil, nil)
	require.NoError(t, err)

	pad := BufferSize - len(head) - len("X-Pad: \r\n")
	headers := header.NewSet(header.New("X-Pad", strings.Repeat("p", pad)))

	got, err := Build(MethodGet, "example.com", "/", &headers, nil)
	require.NoError(t, err)
	assert.Equal(t, BufferSize, len(got))
}

func TestParseMethod(t *testing.T) {
	for _, m := range []Method{
		MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch,
		MethodHead, MethodOptions, MethodTrace, MethodConnect,
	} {
		got, ok := ParseMethod(m.String())
		require.True(t, ok)
		assert.Equal(t, m, got)
	}

	_, ok := ParseMethod("BREW")
	assert.False(t, ok)
}
