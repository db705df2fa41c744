// Package response parses accumulated HTTP/1.1 response bytes into a
// structured form without copying out of the source buffer, and decides
// when an in-flight response has been fully received.
//
// A parsed Response borrows from the buffer it was parsed out of: header
// names, header values and the body all alias that buffer. The caller must
// not reuse or mutate the buffer until it is done reading the Response;
// Clone produces a detached copy when the buffer has to be recycled
// earlier.
package response

import (
	"bytes"
	"errors"
	"strings"

	"github.com/nanofish-go/nanofish/packages/header"
)

// Parse errors, each a distinct condition.
var (
	// ErrMissingStatusLine means no CRLF-terminated status line was found.
	ErrMissingStatusLine = errors.New("response: missing status line")
	// ErrMissingStatusCode means the status line had no second token.
	ErrMissingStatusCode = errors.New("response: missing status code")
	// ErrBadStatusCode means the status token was not a 16-bit number.
	ErrBadStatusCode = errors.New("response: malformed status code")
	// ErrMissingHeaderTerminator means the header block never ended.
	ErrMissingHeaderTerminator = errors.New("response: missing header terminator")
)

var (
	crlf       = []byte("\r\n")
	terminator = []byte("\r\n\r\n")
)

// Response is a parsed HTTP response. In the borrowed discipline all
// fields reference the buffer given to Parse.
type Response struct {
	StatusCode StatusCode
	Headers    header.Set
	Body       Body
}

// Complete reports whether buf holds a fully received response.
//
// The header terminator must be present. When a case-insensitive
// Content-Length header parses as a non-negative integer L, at least L
// bytes must follow the terminator. Without a parsable Content-Length the
// terminator alone is treated as complete; chunked transfer encoding is
// not understood, so a chunked response counts as complete as soon as its
// headers arrive.
func Complete(buf []byte) bool {
	end := bytes.Index(buf, terminator)
	if end < 0 {
		return false
	}
	if length, ok := contentLength(buf[:end]); ok {
		return len(buf)-(end+len(terminator)) >= length
	}
	return true
}

// Parse builds a Response from the filled portion of a response buffer.
func Parse(buf []byte) (*Response, error) {
	lineEnd := bytes.Index(buf, crlf)
	if lineEnd < 0 {
		return nil, ErrMissingStatusLine
	}

	code, err := parseStatusLine(buf[:lineEnd])
	if err != nil {
		return nil, err
	}

	headersEnd := bytes.Index(buf, terminator)
	if headersEnd < 0 {
		return nil, ErrMissingHeaderTerminator
	}

	resp := &Response{StatusCode: code}

	// headersEnd == lineEnd when the blank line directly follows the
	// status line; the header block is empty then.
	if headersEnd > lineEnd {
		parseHeaderBlock(buf[lineEnd+len(crlf):headersEnd], &resp.Headers)
	}

	body := buf[headersEnd+len(terminator):]
	ct, hasCT := resp.Headers.Get(header.NameContentType)
	resp.Body = classifyBody(ct, hasCT, body)

	return resp, nil
}

// Header returns the value of the named header, case-insensitively, or ""
// when absent.
func (r *Response) Header(name string) string {
	v, _ := r.Headers.Get(name)
	return v
}

// ContentType returns the Content-Type header value, if any.
func (r *Response) ContentType() string { return r.Header(header.NameContentType) }

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool { return r.StatusCode.IsSuccess() }

// IsRedirect reports a 3xx status.
func (r *Response) IsRedirect() bool { return r.StatusCode.IsRedirect() }

// IsClientError reports a 4xx status.
func (r *Response) IsClientError() bool { return r.StatusCode.IsClientError() }

// IsServerError reports a 5xx status.
func (r *Response) IsServerError() bool { return r.StatusCode.IsServerError() }

// Clone returns a deep copy that owns all of its memory, detaching the
// Response from the buffer it was parsed out of. Use it when the buffer
// must be reused before the Response has been fully consumed.
func (r *Response) Clone() *Response {
	out := &Response{StatusCode: r.StatusCode}
	for _, h := range r.Headers.All() {
		out.Headers.Add(strings.Clone(h.Name), strings.Clone(h.Value))
	}
	out.Body = Body{kind: r.Body.kind, data: bytes.Clone(r.Body.data)}
	return out
}

// parseStatusLine extracts the status code from the second
// whitespace-delimited token of the status line.
func parseStatusLine(line []byte) (StatusCode, error) {
	fields := bytes.Fields(line)
	if len(fields) < 2 {
		return 0, ErrMissingStatusCode
	}
	code, ok := parseDecimal(fields[1])
	if !ok || code > 0xFFFF {
		return 0, ErrBadStatusCode
	}
	return StatusCode(code), nil
}

// parseHeaderBlock splits the block on CRLF and collects name/value pairs
// into dst. Lines without a colon are skipped. Collection stops silently
// once the set is full; later lines raise no error.
func parseHeaderBlock(block []byte, dst *header.Set) {
	for len(block) > 0 {
		line := block
		if i := bytes.Index(block, crlf); i >= 0 {
			line = block[:i]
			block = block[i+len(crlf):]
		} else {
			block = nil
		}

		colon := bytes.IndexByte(line, ':')
		if colon < 0 {
			continue
		}
		name := bytes.TrimSpace(line[:colon])
		value := bytes.TrimSpace(line[colon+1:])
		if !dst.Add(borrowString(name), borrowString(value)) {
			return
		}
	}
}

// contentLength scans the header region for a case-insensitive
// Content-Length header with a parsable non-negative value.
func contentLength(head []byte) (int, bool) {
	for len(head) > 0 {
		line := head
		if i := bytes.Index(head, crlf); i >= 0 {
			line = head[:i]
			head = head[i+len(crlf):]
		} else {
			head = nil
		}

		colon := bytes.IndexByte(line, ':')
		if colon < 0 {
			continue
		}
		name := bytes.TrimSpace(line[:colon])
		if !bytes.EqualFold(name, []byte(header.NameContentLength)) {
			continue
		}
		return parseDecimal(bytes.TrimSpace(line[colon+1:]))
	}
	return 0, false
}

// parseDecimal parses a non-negative base-10 integer from digit bytes.
func parseDecimal(b []byte) (int, bool) {
	if len(b) == 0 {
		return 0, false
	}
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		if n > (1<<31)/10 {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
