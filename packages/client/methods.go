package client

import (
	"context"

	"github.com/nanofish-go/nanofish/packages/header"
	"github.com/nanofish-go/nanofish/packages/request"
	"github.com/nanofish-go/nanofish/packages/response"
)

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, endpoint string, headers *header.Set, respBuf []byte) (*response.Response, int, error) {
	return c.Do(ctx, request.MethodGet, endpoint, headers, nil, respBuf)
}

// Post performs a POST request with a body.
func (c *Client) Post(ctx context.Context, endpoint string, headers *header.Set, body []byte, respBuf []byte) (*response.Response, int, error) {
	return c.Do(ctx, request.MethodPost, endpoint, headers, body, respBuf)
}

// Put performs a PUT request with a body.
func (c *Client) Put(ctx context.Context, endpoint string, headers *header.Set, body []byte, respBuf []byte) (*response.Response, int, error) {
	return c.Do(ctx, request.MethodPut, endpoint, headers, body, respBuf)
}

// Patch performs a PATCH request with a body.
func (c *Client) Patch(ctx context.Context, endpoint string, headers *header.Set, body []byte, respBuf []byte) (*response.Response, int, error) {
	return c.Do(ctx, request.MethodPatch, endpoint, headers, body, respBuf)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string, headers *header.Set, respBuf []byte) (*response.Response, int, error) {
	return c.Do(ctx, request.MethodDelete, endpoint, headers, nil, respBuf)
}

// Head performs a HEAD request.
func (c *Client) Head(ctx context.Context, endpoint string, headers *header.Set, respBuf []byte) (*response.Response, int, error) {
	return c.Do(ctx, request.MethodHead, endpoint, headers, nil, respBuf)
}

// Options performs an OPTIONS request.
func (c *Client) Options(ctx context.Context, endpoint string, headers *header.Set, respBuf []byte) (*response.Response, int, error) {
	return c.Do(ctx, request.MethodOptions, endpoint, headers, nil, respBuf)
}

// Trace performs a TRACE request.
func (c *Client) Trace(ctx context.Context, endpoint string, headers *header.Set, respBuf []byte) (*response.Response, int, error) {
	return c.Do(ctx, request.MethodTrace, endpoint, headers, nil, respBuf)
}

// Connect performs a CONNECT request.
func (c *Client) Connect(ctx context.Context, endpoint string, headers *header.Set, respBuf []byte) (*response.Response, int, error) {
	return c.Do(ctx, request.MethodConnect, endpoint, headers, nil, respBuf)
}
