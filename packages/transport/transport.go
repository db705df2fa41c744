// Package transport produces the single connected duplex byte stream a
// request runs over. Hostname resolution, TCP connection establishment and
// the TLS handshake are collaborator concerns consumed through narrow
// interfaces; this package only sequences them and guarantees that no
// half-open socket survives a failure.
package transport

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"time"
)

// Sentinel errors for conditions that carry no underlying cause.
var (
	// ErrNoAddresses is returned when resolution succeeds but yields an
	// empty address list, which is distinct from a resolution failure.
	ErrNoAddresses = errors.New("transport: resolver returned no addresses")

	// ErrUnsupportedScheme is returned when an https endpoint is requested
	// but no secure layer is configured. The check runs before any
	// resolution work.
	ErrUnsupportedScheme = errors.New("transport: unsupported scheme")
)

// Resolver turns a hostname into an ordered, non-empty address list.
type Resolver interface {
	Resolve(ctx context.Context, host string) ([]netip.Addr, error)
}

// Dialer establishes a TCP connection to a resolved address.
type Dialer interface {
	Connect(ctx context.Context, addr netip.Addr, port uint16, timeout time.Duration) (net.Conn, error)
}

// SecureLayer wraps an established connection in a secured stream.
type SecureLayer interface {
	Handshake(ctx context.Context, conn net.Conn, serverName string) (net.Conn, error)
}

// ResolveError wraps a resolution failure.
type ResolveError struct {
	Host string
	Err  error
}

func (e *ResolveError) Error() string { return "transport: resolve " + e.Host + ": " + e.Err.Error() }
func (e *ResolveError) Unwrap() error { return e.Err }

// ConnectError wraps a connection failure. The half-open socket has
// already been aborted by the time the error surfaces.
type ConnectError struct {
	Addr string
	Err  error
}

func (e *ConnectError) Error() string { return "transport: connect " + e.Addr + ": " + e.Err.Error() }
func (e *ConnectError) Unwrap() error { return e.Err }

// HandshakeError wraps a secure-layer handshake failure. The underlying
// connection has already been closed.
type HandshakeError struct {
	Host string
	Err  error
}

func (e *HandshakeError) Error() string {
	return "transport: handshake with " + e.Host + ": " + e.Err.Error()
}
func (e *HandshakeError) Unwrap() error { return e.Err }

// ReadError wraps a transport read failure that exhausted its retries.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string { return "transport: read: " + e.Err.Error() }
func (e *ReadError) Unwrap() error { return e.Err }

// WriteError wraps a transport write failure.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string { return "transport: write: " + e.Err.Error() }
func (e *WriteError) Unwrap() error { return e.Err }

// Selector opens one connected, optionally secured stream per call.
type Selector struct {
	Resolver Resolver
	Dialer   Dialer
	Secure   SecureLayer // nil disables https
}

// Open resolves host, connects to the first address, and for https wraps
// the connection through the secure layer. On any failure the underlying
// socket is aborted before the error is returned.
func (s *Selector) Open(ctx context.Context, scheme, host string, port uint16, timeout time.Duration) (net.Conn, error) {
	secure := scheme == "https"
	if secure && s.Secure == nil {
		return nil, ErrUnsupportedScheme
	}

	addrs, err := s.Resolver.Resolve(ctx, host)
	if err != nil {
		return nil, &ResolveError{Host: host, Err: err}
	}
	if len(addrs) == 0 {
		return nil, ErrNoAddresses
	}

	conn, err := s.Dialer.Connect(ctx, addrs[0], port, timeout)
	if err != nil {
		return nil, &ConnectError{Addr: addrs[0].String(), Err: err}
	}

	if !secure {
		return conn, nil
	}

	sconn, err := s.Secure.Handshake(ctx, conn, host)
	if err != nil {
		_ = conn.Close()
		return nil, &HandshakeError{Host: host, Err: err}
	}
	return sconn, nil
}
