// Package client orchestrates one HTTP/1.1 exchange per call: parse the
// endpoint, open a transport, write the request, accumulate the response
// into a caller-supplied buffer, and parse it.
//
// The engine never allocates for response data. The caller provides the
// response buffer and the returned Response borrows from it; the buffer
// must not be reused or mutated until the caller is done reading the
// Response (Clone detaches it). One call means one request, one response,
// one connection; there is no pooling, redirect following, chunked
// decoding or compression.
package client

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/nanofish-go/nanofish/packages/header"
	"github.com/nanofish-go/nanofish/packages/request"
	"github.com/nanofish-go/nanofish/packages/response"
	"github.com/nanofish-go/nanofish/packages/transport"
	"github.com/nanofish-go/nanofish/packages/urlparse"
)

// ErrEmptyResponse is returned when the connection yielded no bytes at all.
var ErrEmptyResponse = errors.New("client: empty response")

// Default configuration values.
const (
	DefaultMaxRetries    = 5
	DefaultSocketTimeout = 60 * time.Second
	DefaultRetryDelay    = 200 * time.Millisecond
	DefaultCloseDelay    = 100 * time.Millisecond
)

// Options configures the per-call retry and timing behavior. There are no
// hidden globals; every client carries its own copy.
type Options struct {
	// MaxRetries bounds how many failed reads are retried before the
	// call fails with a transport read error.
	MaxRetries int
	// SocketTimeout bounds each individual connect, read and write. The
	// engine does not cap overall wall-clock time; wrap the context for
	// an end-to-end deadline.
	SocketTimeout time.Duration
	// RetryDelay separates consecutive read retries.
	RetryDelay time.Duration
	// CloseDelay is the fixed pause after closing the transport, giving
	// the peer time to finish its own teardown.
	CloseDelay time.Duration
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		MaxRetries:    DefaultMaxRetries,
		SocketTimeout: DefaultSocketTimeout,
		RetryDelay:    DefaultRetryDelay,
		CloseDelay:    DefaultCloseDelay,
	}
}

// Client issues buffer-bounded HTTP/1.1 requests. Construct with New; the
// zero value is not usable.
type Client struct {
	resolver transport.Resolver
	dialer   transport.Dialer
	secure   transport.SecureLayer
	opts     Options
	logger   *slog.Logger
}

// Option is a functional option for configuring a Client.
type Option func(*Client)

// New creates a Client. By default it resolves through the system
// resolver, dials plain TCP, and secures https connections with a TLS
// layer that performs NO certificate verification — acceptable for closed
// networks, insecure on the open internet. Use WithTLSConfig to enable
// verification, or WithoutTLS to refuse https outright.
func New(opts ...Option) *Client {
	c := &Client{
		resolver: &transport.NetResolver{},
		dialer:   &transport.NetDialer{},
		secure:   transport.NewTLSLayer(nil),
		opts:     DefaultOptions(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithOptions replaces the retry and timing configuration.
func WithOptions(opts Options) Option {
	return func(c *Client) { c.opts = opts }
}

// WithResolver replaces the hostname resolver.
func WithResolver(r transport.Resolver) Option {
	return func(c *Client) { c.resolver = r }
}

// WithDialer replaces the TCP dialer.
func WithDialer(d transport.Dialer) Option {
	return func(c *Client) { c.dialer = d }
}

// WithSecureLayer replaces the secure transport layer. Passing nil
// disables https support.
func WithSecureLayer(s transport.SecureLayer) Option {
	return func(c *Client) { c.secure = s }
}

// WithTLSConfig secures https connections with the given TLS
// configuration, including certificate verification if the config asks
// for it.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *Client) { c.secure = transport.NewTLSLayer(cfg) }
}

// WithoutTLS disables https support entirely; https endpoints fail with
// transport.ErrUnsupportedScheme before any resolution work.
func WithoutTLS() Option {
	return func(c *Client) { c.secure = nil }
}

// WithLogger sets the logger used for swallowed teardown failures and
// retried read errors. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// Do performs one request and parses the response out of respBuf.
//
// The returned Response borrows from respBuf; the int is the number of
// valid bytes accumulated into it. Each call yields exactly one outcome:
// a Response, or one error from the taxonomy (invalid URL, resolution,
// empty address list, connect, handshake, write, request buffer overflow,
// fatal read after exhausted retries, empty response, or a parse error).
func (c *Client) Do(ctx context.Context, method request.Method, endpoint string, headers *header.Set, body []byte, respBuf []byte) (*response.Response, int, error) {
	ep, err := urlparse.Parse(endpoint)
	if err != nil {
		return nil, 0, err
	}

	sel := &transport.Selector{Resolver: c.resolver, Dialer: c.dialer, Secure: c.secure}
	conn, err := sel.Open(ctx, ep.Scheme, ep.Host, ep.Port, c.opts.SocketTimeout)
	if err != nil {
		return nil, 0, err
	}

	head, err := request.Build(method, ep.Host, ep.Path, headers, body)
	if err != nil {
		c.abort(conn)
		return nil, 0, err
	}

	if err := c.send(conn, head, body); err != nil {
		c.abort(conn)
		return nil, 0, err
	}

	filled, readErr := c.accumulate(ctx, conn, respBuf)

	// Teardown happens unconditionally; whatever was captured is already
	// in respBuf and a close failure must not override it.
	c.closeGracefully(conn)
	c.sleep(ctx, c.opts.CloseDelay)

	if readErr != nil {
		return nil, filled, readErr
	}
	if filled == 0 {
		return nil, 0, ErrEmptyResponse
	}

	resp, err := response.Parse(respBuf[:filled])
	if err != nil {
		return nil, filled, err
	}
	return resp, filled, nil
}

// send writes the serialized request head followed by the body bytes.
func (c *Client) send(conn net.Conn, head, body []byte) error {
	_ = conn.SetWriteDeadline(time.Now().Add(c.opts.SocketTimeout))
	if _, err := conn.Write(head); err != nil {
		return &transport.WriteError{Err: err}
	}
	if len(body) > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(c.opts.SocketTimeout))
		if _, err := conn.Write(body); err != nil {
			return &transport.WriteError{Err: err}
		}
	}
	return nil
}

// abort tears the connection down without ceremony after a mid-call
// failure; the error being propagated matters more than the close result.
func (c *Client) abort(conn net.Conn) {
	if err := conn.Close(); err != nil {
		c.logger.Debug("abort close failed", "error", err)
	}
}

// closeGracefully attempts an orderly shutdown: a protocol-level close
// first when the transport supports one (TLS close_notify), then the
// socket close. Failures are logged and swallowed.
func (c *Client) closeGracefully(conn net.Conn) {
	if cw, ok := conn.(interface{ CloseWrite() error }); ok {
		if err := cw.CloseWrite(); err != nil {
			c.logger.Debug("graceful close failed", "error", err)
		}
	}
	if err := conn.Close(); err != nil {
		c.logger.Debug("socket close failed", "error", err)
	}
}

// sleep waits for d or until the context is done.
func (c *Client) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
