package transport

import (
	"context"
	"crypto/tls"
	"net"
	"net/netip"
	"strconv"
	"time"
)

// NetResolver resolves hostnames through a net.Resolver. Literal IP
// addresses resolve to themselves without a lookup.
type NetResolver struct {
	R *net.Resolver
}

func (r *NetResolver) Resolve(ctx context.Context, host string) ([]netip.Addr, error) {
	if addr, err := netip.ParseAddr(host); err == nil {
		return []netip.Addr{addr}, nil
	}
	res := r.R
	if res == nil {
		res = net.DefaultResolver
	}
	return res.LookupNetIP(ctx, "ip", host)
}

// NetDialer connects through a net.Dialer with a per-attempt timeout.
type NetDialer struct{}

func (d *NetDialer) Connect(ctx context.Context, addr netip.Addr, port uint16, timeout time.Duration) (net.Conn, error) {
	nd := net.Dialer{Timeout: timeout}
	target := net.JoinHostPort(addr.String(), strconv.Itoa(int(port)))
	return nd.DialContext(ctx, "tcp", target)
}

// TLSLayer secures connections with crypto/tls.
//
// The zero configuration performs NO certificate verification, matching
// the engine's insecure-by-default posture for constrained deployments.
// Pass a *tls.Config with verification enabled for anything that talks to
// the open internet.
type TLSLayer struct {
	Config *tls.Config
}

// NewTLSLayer builds a TLSLayer. A nil config selects the insecure
// default (no certificate verification).
func NewTLSLayer(cfg *tls.Config) *TLSLayer {
	return &TLSLayer{Config: cfg}
}

func (l *TLSLayer) Handshake(ctx context.Context, conn net.Conn, serverName string) (net.Conn, error) {
	cfg := l.Config
	if cfg == nil {
		cfg = &tls.Config{InsecureSkipVerify: true}
	} else {
		cfg = cfg.Clone()
	}
	if cfg.ServerName == "" {
		cfg.ServerName = serverName
	}

	tconn := tls.Client(conn, cfg)
	if err := tconn.HandshakeContext(ctx); err != nil {
		return nil, err
	}
	return tconn, nil
}
