// Package header provides the bounded, ordered header collection used on
// both the request and response sides of the client.
package header

import "strings"

// MaxHeaders is the fixed capacity of a Set. Insertion order is preserved;
// additions past capacity are dropped silently.
const MaxHeaders = 16

// Header is a single name/value pair.
type Header struct {
	Name  string
	Value string
}

// New constructs a header.
func New(name, value string) Header {
	return Header{Name: name, Value: value}
}

// Common header names.
const (
	NameAccept        = "Accept"
	NameAuthorization = "Authorization"
	NameContentLength = "Content-Length"
	NameContentType   = "Content-Type"
	NameHost          = "Host"
	NameUserAgent     = "User-Agent"
)

// Common MIME types.
const (
	MIMEJSON        = "application/json"
	MIMEXML         = "application/xml"
	MIMEForm        = "application/x-www-form-urlencoded"
	MIMEOctetStream = "application/octet-stream"
	MIMETextPlain   = "text/plain"
	MIMETextHTML    = "text/html"
)

// Accept builds an Accept header.
func Accept(value string) Header { return Header{NameAccept, value} }

// Authorization builds an Authorization header.
func Authorization(value string) Header { return Header{NameAuthorization, value} }

// ContentType builds a Content-Type header.
func ContentType(value string) Header { return Header{NameContentType, value} }

// UserAgent builds a User-Agent header.
func UserAgent(value string) Header { return Header{NameUserAgent, value} }

// Set is a fixed-capacity ordered header collection. The zero value is
// empty and ready to use; Set values copy freely.
type Set struct {
	items [MaxHeaders]Header
	n     int
}

// NewSet builds a Set from the given headers. Headers beyond MaxHeaders are
// dropped.
func NewSet(headers ...Header) Set {
	var s Set
	for _, h := range headers {
		s.Append(h)
	}
	return s
}

// Add appends a name/value pair. It reports false when the set is already
// at capacity and the pair was dropped.
func (s *Set) Add(name, value string) bool {
	return s.Append(Header{Name: name, Value: value})
}

// Append appends a header, reporting false when it was dropped.
func (s *Set) Append(h Header) bool {
	if s.n >= MaxHeaders {
		return false
	}
	s.items[s.n] = h
	s.n++
	return true
}

// Len returns the number of stored headers.
func (s *Set) Len() int { return s.n }

// At returns the i-th header in insertion order.
func (s *Set) At(i int) Header { return s.items[i] }

// All returns the stored headers in insertion order. The slice aliases the
// set's backing array and is valid until the set is mutated.
func (s *Set) All() []Header { return s.items[:s.n] }

// Get returns the value of the first header matching name
// case-insensitively.
func (s *Set) Get(name string) (string, bool) {
	for i := 0; i < s.n; i++ {
		if strings.EqualFold(s.items[i].Name, name) {
			return s.items[i].Value, true
		}
	}
	return "", false
}

// Has reports whether a header with the given name is present,
// case-insensitively.
func (s *Set) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}
