// Package request serializes an HTTP/1.1 request head into a fixed-capacity
// buffer. Body bytes are deliberately kept out of the buffer; the caller
// streams them to the transport separately, so the buffer stays small no
// matter how large the body is.
package request

import (
	"errors"
	"strconv"

	"github.com/nanofish-go/nanofish/packages/header"
)

// BufferSize is the fixed capacity of the request head buffer.
const BufferSize = 1024

// ErrBufferOverflow is returned when the serialized request head would
// exceed BufferSize. The build aborts as a whole; no truncated buffer is
// ever produced.
var ErrBufferOverflow = errors.New("request: build buffer overflow")

// Build serializes the request head:
//
//	<METHOD> <path> HTTP/1.1\r\n
//	Host: <host>\r\n
//	<headers in caller order>
//	[Content-Length: <n>\r\n]   only when a body is present and the caller
//	                            did not already supply one
//	Connection: close\r\n
//	\r\n
//
// body is only consulted for its length; its bytes never enter the buffer.
func Build(method Method, host, path string, headers *header.Set, body []byte) ([]byte, error) {
	var b builder

	if err := b.str(string(method)); err != nil {
		return nil, err
	}
	if err := b.str(" "); err != nil {
		return nil, err
	}
	if err := b.str(path); err != nil {
		return nil, err
	}
	if err := b.str(" HTTP/1.1\r\n"); err != nil {
		return nil, err
	}
	if err := b.str("Host: "); err != nil {
		return nil, err
	}
	if err := b.str(host); err != nil {
		return nil, err
	}
	if err := b.str("\r\n"); err != nil {
		return nil, err
	}

	if headers != nil {
		for _, h := range headers.All() {
			if err := b.headerLine(h.Name, h.Value); err != nil {
				return nil, err
			}
		}
	}

	if body != nil && !(headers != nil && headers.Has(header.NameContentLength)) {
		if err := b.headerLine(header.NameContentLength, strconv.Itoa(len(body))); err != nil {
			return nil, err
		}
	}

	if err := b.str("Connection: close\r\n\r\n"); err != nil {
		return nil, err
	}

	return b.buf[:b.n], nil
}

type builder struct {
	buf [BufferSize]byte
	n   int
}

func (b *builder) str(s string) error {
	if b.n+len(s) > BufferSize {
		return ErrBufferOverflow
	}
	copy(b.buf[b.n:], s)
	b.n += len(s)
	return nil
}

func (b *builder) headerLine(name, value string) error {
	if err := b.str(name); err != nil {
		return err
	}
	if err := b.str(": "); err != nil {
		return err
	}
	if err := b.str(value); err != nil {
		return err
	}
	return b.str("\r\n")
}
