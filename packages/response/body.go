package response

import (
	"strings"
	"unicode/utf8"
)

// BodyKind tags the classified body variant.
type BodyKind uint8

const (
	// BodyEmpty means no body bytes followed the header terminator.
	BodyEmpty BodyKind = iota
	// BodyText is a body that decoded as UTF-8 under a textual (or
	// absent) Content-Type.
	BodyText
	// BodyBinary is everything else.
	BodyBinary
)

func (k BodyKind) String() string {
	switch k {
	case BodyEmpty:
		return "empty"
	case BodyText:
		return "text"
	case BodyBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Body is the classified response body. In the borrowed discipline its
// bytes alias the response buffer.
type Body struct {
	kind BodyKind
	data []byte
}

// Kind returns the classification tag.
func (b Body) Kind() BodyKind { return b.kind }

// IsEmpty reports whether the body carried no bytes.
func (b Body) IsEmpty() bool { return b.kind == BodyEmpty }

// Bytes returns the raw body bytes. For a borrowed Response the slice
// aliases the response buffer.
func (b Body) Bytes() []byte { return b.data }

// Text returns the body as a string. For a text body of a borrowed
// Response the string aliases the response buffer and is only valid while
// the buffer is. For non-text bodies it returns the raw bytes as a string
// for convenience.
func (b Body) Text() string { return borrowString(b.data) }

// Len returns the body length in bytes.
func (b Body) Len() int { return len(b.data) }

// Textual Content-Type prefixes that opt a body into UTF-8 decoding.
var textualPrefixes = []string{
	"text/",
	"application/json",
	"application/xml",
	"application/x-www-form-urlencoded",
}

// classifyBody maps raw body bytes to a tagged Body.
//
// An empty range is Empty. A textual Content-Type attempts UTF-8 decoding
// and falls back to Binary; an absent Content-Type gets the same
// opportunistic attempt. A present but non-textual Content-Type goes
// straight to Binary without decoding. UTF-8 validity is judged over the
// body segment only, so a binary payload never poisons header parsing.
func classifyBody(contentType string, hasContentType bool, data []byte) Body {
	if len(data) == 0 {
		return Body{kind: BodyEmpty}
	}

	if hasContentType && !isTextualContentType(contentType) {
		return Body{kind: BodyBinary, data: data}
	}

	if utf8.Valid(data) {
		return Body{kind: BodyText, data: data}
	}
	return Body{kind: BodyBinary, data: data}
}

func isTextualContentType(contentType string) bool {
	for _, prefix := range textualPrefixes {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}
	return false
}
