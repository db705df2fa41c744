package cmd

import (
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nanofish-go/nanofish/packages/client"
	"github.com/nanofish-go/nanofish/packages/header"
)

// engineFlags are the client-engine knobs shared by send and bench.
type engineFlags struct {
	timeout    time.Duration
	retries    int
	retryDelay time.Duration
	closeDelay time.Duration
	bufferSize int
	verifyTLS  bool
	noTLS      bool
}

func (f *engineFlags) register(cmd *cobra.Command) {
	defaults := client.DefaultOptions()
	cmd.Flags().DurationVar(&f.timeout, "timeout", defaults.SocketTimeout, "Per-operation socket timeout")
	cmd.Flags().IntVar(&f.retries, "retries", defaults.MaxRetries, "Read retries before giving up")
	cmd.Flags().DurationVar(&f.retryDelay, "retry-delay", defaults.RetryDelay, "Delay between read retries")
	cmd.Flags().DurationVar(&f.closeDelay, "close-delay", defaults.CloseDelay, "Pause after closing the connection")
	cmd.Flags().IntVar(&f.bufferSize, "buffer", 64*1024, "Response buffer size in bytes")
	cmd.Flags().BoolVar(&f.verifyTLS, "verify", false, "Verify TLS certificates (off by default)")
	cmd.Flags().BoolVar(&f.noTLS, "no-tls", false, "Refuse https endpoints")
}

func (f *engineFlags) newClient() *client.Client {
	opts := []client.Option{
		client.WithOptions(client.Options{
			MaxRetries:    f.retries,
			SocketTimeout: f.timeout,
			RetryDelay:    f.retryDelay,
			CloseDelay:    f.closeDelay,
		}),
	}
	switch {
	case f.noTLS:
		opts = append(opts, client.WithoutTLS())
	case f.verifyTLS:
		opts = append(opts, client.WithTLSConfig(&tls.Config{}))
	}
	return client.New(opts...)
}

// parseHeaderFlags turns repeated "Name: Value" flags into an ordered set.
func parseHeaderFlags(raw []string) (header.Set, error) {
	var s header.Set
	for _, h := range raw {
		name, value, found := strings.Cut(h, ":")
		if !found || strings.TrimSpace(name) == "" {
			return s, fmt.Errorf("malformed header %q (want \"Name: Value\")", h)
		}
		s.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	return s, nil
}
