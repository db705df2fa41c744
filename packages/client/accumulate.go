package client

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/nanofish-go/nanofish/packages/response"
	"github.com/nanofish-go/nanofish/packages/transport"
)

// accumulate drives bounded reads from conn into buf until the response is
// complete, the peer closes, the buffer fills, or the retry budget is
// spent.
//
// Each read targets the unfilled suffix of buf under the per-operation
// socket timeout. A failed read consumes one retry and waits RetryDelay
// before the next attempt; once retries are exhausted the last error is
// surfaced as a fatal transport.ReadError — the same policy for plain and
// secured transports. The accumulated byte count is always returned so
// teardown can proceed over whatever was captured.
func (c *Client) accumulate(ctx context.Context, conn net.Conn, buf []byte) (int, error) {
	filled := 0
	retries := c.opts.MaxRetries

	for filled < len(buf) {
		_ = conn.SetReadDeadline(time.Now().Add(c.opts.SocketTimeout))
		n, err := conn.Read(buf[filled:])
		if n > 0 {
			filled += n
			if response.Complete(buf[:filled]) {
				return filled, nil
			}
		}

		switch {
		case err == nil:
			// Keep reading.
		case errors.Is(err, io.EOF):
			// Peer closed; keep whatever was accumulated.
			return filled, nil
		default:
			retries--
			c.logger.Debug("transport read failed", "error", err, "retries_left", retries)
			if retries <= 0 {
				return filled, &transport.ReadError{Err: err}
			}
			if !c.sleep(ctx, c.opts.RetryDelay) {
				return filled, &transport.ReadError{Err: ctx.Err()}
			}
		}
	}

	return filled, nil
}
