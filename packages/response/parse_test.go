package response

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplete(t *testing.T) {
	tests := []struct {
		name string
		buf  string
		want bool
	}{
		{"no terminator", "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\n", false},
		{"headers only", "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\n\r\n", true},
		{"content length satisfied", "HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello", true},
		{"content length short", "HTTP/1.1 200 OK\r\nContent-Length: 10\r\n\r\nshort", false},
		{"content length zero", "HTTP/1.1 204 No Content\r\nContent-Length: 0\r\n\r\n", true},
		{"content length excess ok", "HTTP/1.1 200 OK\r\nContent-Length: 3\r\n\r\nhello", true},
		{"case-insensitive name", "HTTP/1.1 200 OK\r\ncontent-length: 10\r\n\r\nshort", false},
		{"unparsable length falls back to terminator", "HTTP/1.1 200 OK\r\nContent-Length: ten\r\n\r\nshort", true},
		{"empty buffer", "", false},
		{"partial status line", "HTTP/1.1 2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Complete([]byte(tt.buf)))
		})
	}
}

func TestParse_Basic(t *testing.T) {
	buf := []byte("HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 5\r\n\r\nhello")

	resp, err := Parse(buf)
	require.NoError(t, err)

	assert.Equal(t, StatusOK, resp.StatusCode)
	assert.Equal(t, 2, resp.Headers.Len())
	assert.Equal(t, "text/plain", resp.Header("Content-Type"))
	assert.Equal(t, "5", resp.Header("content-length"))
	assert.Equal(t, BodyText, resp.Body.Kind())
	assert.Equal(t, "hello", resp.Body.Text())
}

func TestParse_NoBody(t *testing.T) {
	buf := []byte("HTTP/1.1 204 No Content\r\nServer: nanofish-test\r\n\r\n")

	resp, err := Parse(buf)
	require.NoError(t, err)

	assert.Equal(t, StatusNoContent, resp.StatusCode)
	assert.True(t, resp.Body.IsEmpty())
	assert.Equal(t, 0, resp.Body.Len())
}

func TestParse_NoHeaders(t *testing.T) {
	buf := []byte("HTTP/1.1 200 OK\r\n\r\nhi")

	resp, err := Parse(buf)
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Headers.Len())
	assert.Equal(t, "hi", resp.Body.Text())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		buf  string
		want error
	}{
		{"no status line", "garbage with no line ending", ErrMissingStatusLine},
		{"no status token", "HTTP/1.1\r\n\r\n", ErrMissingStatusCode},
		{"non-numeric code", "HTTP/1.1 abc OK\r\n\r\n", ErrBadStatusCode},
		{"code too large", "HTTP/1.1 99999 Whoa\r\n\r\n", ErrBadStatusCode},
		{"no terminator", "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\n", ErrMissingHeaderTerminator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.buf))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParse_HeaderEdgeCases(t *testing.T) {
	buf := []byte("HTTP/1.1 200 OK\r\n" +
		"  Spaced-Name  :   spaced value  \r\n" +
		"line without a colon is skipped\r\n" +
		"Empty-Value:\r\n" +
		"\r\n")

	resp, err := Parse(buf)
	require.NoError(t, err)

	require.Equal(t, 2, resp.Headers.Len())
	assert.Equal(t, "spaced value", resp.Header("Spaced-Name"))
	assert.Equal(t, "", resp.Header("Empty-Value"))
}

func TestParse_StopsSilentlyAtSixteenHeaders(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("HTTP/1.1 200 OK\r\n")
	for i := 0; i < 17; i++ {
		fmt.Fprintf(&sb, "X-Header-%d: %d\r\n", i, i)
	}
	sb.WriteString("\r\nbody")

	resp, err := Parse([]byte(sb.String()))
	require.NoError(t, err)

	assert.Equal(t, 16, resp.Headers.Len())
	assert.Equal(t, "X-Header-0", resp.Headers.At(0).Name)
	assert.Equal(t, "X-Header-15", resp.Headers.At(15).Name)
	assert.Equal(t, "", resp.Header("X-Header-16"))
	// The body is untouched by the overflow.
	assert.Equal(t, "body", resp.Body.Text())
}

func TestClassification_JSONIsText(t *testing.T) {
	buf := []byte("HTTP/1.1 200 OK\r\nContent-Type: application/json\r\n\r\n{\"ok\":true}")

	resp, err := Parse(buf)
	require.NoError(t, err)

	assert.Equal(t, BodyText, resp.Body.Kind())
	assert.Equal(t, `{"ok":true}`, resp.Body.Text())
}

func TestClassification_PNGIsBinaryWithoutDecode(t *testing.T) {
	// Valid UTF-8 payload, but the Content-Type short-circuits to binary.
	buf := []byte("HTTP/1.1 200 OK\r\nContent-Type: image/png\r\n\r\nlooks like text")

	resp, err := Parse(buf)
	require.NoError(t, err)

	assert.Equal(t, BodyBinary, resp.Body.Kind())
	assert.Equal(t, []byte("looks like text"), resp.Body.Bytes())
}

func TestClassification_InvalidUTF8FallsBackToBinary(t *testing.T) {
	body := []byte{0xFF, 0xFE, 0x00, 0x01}
	buf := append([]byte("HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\n\r\n"), body...)

	resp, err := Parse(buf)
	require.NoError(t, err)

	assert.Equal(t, BodyBinary, resp.Body.Kind())
	assert.Equal(t, body, resp.Body.Bytes())
}

func TestClassification_BinaryBodyDoesNotFailParsing(t *testing.T) {
	// UTF-8 validity is judged over the body segment only; raw bytes in
	// the body never make the whole response unparsable.
	buf := append([]byte("HTTP/1.1 200 OK\r\nContent-Length: 4\r\n\r\n"), 0x89, 0x50, 0xFF, 0x00)

	resp, err := Parse(buf)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, resp.StatusCode)
	assert.Equal(t, BodyBinary, resp.Body.Kind())
}

func TestClassification_NoContentTypeAttemptsDecode(t *testing.T) {
	resp, err := Parse([]byte("HTTP/1.1 200 OK\r\n\r\nplain"))
	require.NoError(t, err)
	assert.Equal(t, BodyText, resp.Body.Kind())

	resp, err = Parse(append([]byte("HTTP/1.1 200 OK\r\n\r\n"), 0xFF, 0xFE))
	require.NoError(t, err)
	assert.Equal(t, BodyBinary, resp.Body.Kind())
}

func TestClassification_EmptyRegardlessOfHeaders(t *testing.T) {
	resp, err := Parse([]byte("HTTP/1.1 200 OK\r\nContent-Type: image/png\r\n\r\n"))
	require.NoError(t, err)
	assert.Equal(t, BodyEmpty, resp.Body.Kind())
}

func TestParse_BodyBorrowsFromBuffer(t *testing.T) {
	buf := []byte("HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\n\r\nhello")

	resp, err := Parse(buf)
	require.NoError(t, err)

	// Zero-copy: the body aliases the source buffer.
	buf[len(buf)-5] = 'j'
	assert.Equal(t, "jello", resp.Body.Text())
}

func TestClone_DetachesFromBuffer(t *testing.T) {
	buf := []byte("HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\n\r\nhello")

	resp, err := Parse(buf)
	require.NoError(t, err)
	owned := resp.Clone()

	for i := range buf {
		buf[i] = 'x'
	}

	assert.Equal(t, StatusOK, owned.StatusCode)
	assert.Equal(t, "text/plain", owned.Header("Content-Type"))
	assert.Equal(t, "hello", owned.Body.Text())
	assert.Equal(t, BodyText, owned.Body.Kind())
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, "OK", StatusOK.String())
	assert.Equal(t, "Not Found", StatusNotFound.String())
	assert.Equal(t, "599", StatusCode(599).String())

	assert.True(t, StatusOK.IsSuccess())
	assert.True(t, StatusFound.IsRedirect())
	assert.True(t, StatusNotFound.IsClientError())
	assert.True(t, StatusBadGateway.IsServerError())
	assert.True(t, StatusContinue.IsInformational())
	assert.False(t, StatusOK.IsClientError())
}
