// Package urlparse decomposes endpoint strings of the form
// scheme://host[:port][/path] into their parts without touching net/url,
// so the result carries no allocations beyond the input substrings.
package urlparse

import (
	"errors"
	"strings"
)

// ErrInvalidURL is returned for endpoints that lack a recognized scheme,
// have an empty host, or carry a port suffix that does not parse.
var ErrInvalidURL = errors.New("urlparse: invalid URL")

// Default ports per scheme.
const (
	DefaultPortHTTP  = 80
	DefaultPortHTTPS = 443
)

// Endpoint is the decomposed form of an endpoint string. All string fields
// are substrings of the input.
type Endpoint struct {
	Scheme string
	Host   string
	Port   uint16
	Path   string
}

// Parse splits an endpoint string into scheme, host, port and path.
//
// Only the http and https schemes are recognized. The host runs up to the
// first '/' after the scheme; the path is the remainder starting at that
// '/'. An endpoint with no trailing segment yields an empty path, not "/".
// A trailing ":<digits>" on the host selects the port; without one the
// scheme default (80 or 443) applies. A port suffix that does not parse as
// a 16-bit number is rejected rather than left inside the host.
func Parse(endpoint string) (Endpoint, error) {
	var scheme string
	var rest string
	switch {
	case strings.HasPrefix(endpoint, "http://"):
		scheme, rest = "http", endpoint[len("http://"):]
	case strings.HasPrefix(endpoint, "https://"):
		scheme, rest = "https", endpoint[len("https://"):]
	default:
		return Endpoint{}, ErrInvalidURL
	}

	host := rest
	path := ""
	if slash := strings.IndexByte(rest, '/'); slash >= 0 {
		host = rest[:slash]
		path = rest[slash:]
	}
	if host == "" {
		return Endpoint{}, ErrInvalidURL
	}

	port := uint16(DefaultPortHTTP)
	if scheme == "https" {
		port = DefaultPortHTTPS
	}

	if colon := strings.LastIndexByte(host, ':'); colon >= 0 {
		p, ok := parsePort(host[colon+1:])
		if !ok {
			return Endpoint{}, ErrInvalidURL
		}
		host = host[:colon]
		port = p
		if host == "" {
			return Endpoint{}, ErrInvalidURL
		}
	}

	return Endpoint{Scheme: scheme, Host: host, Port: port, Path: path}, nil
}

// parsePort parses a decimal 16-bit port without strconv so that malformed
// suffixes ("", "abc", "99999") are rejected uniformly.
func parsePort(s string) (uint16, bool) {
	if s == "" {
		return 0, false
	}
	var n uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + uint32(c-'0')
		if n > 0xFFFF {
			return 0, false
		}
	}
	return uint16(n), true
}
