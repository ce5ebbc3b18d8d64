package vkapi

import (
	"io"
	"strings"
	"time"

	"github.com/Adda-Baaj/vk-fetch/pkg/httpclient"
)

// Option configures a Client during construction in New.
type Option func(*Client)

// WithVersion overrides the protocol version sent as `v`. Blank values are ignored.
func WithVersion(version string) Option {
	return func(c *Client) {
		if v := strings.TrimSpace(version); v != "" {
			c.version = v
		}
	}
}

// WithBaseURL points the client at a different method endpoint, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if u := strings.TrimSpace(baseURL); u != "" {
			c.baseURL = u
		}
	}
}

// WithTimeout sets the per-call timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the resty transport.
func WithHTTPClient(client httpclient.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(log Logger) Option {
	return func(c *Client) {
		c.log = ensureLogger(log)
	}
}

// WithDiagnostics sets where the convenience operations print failure
// diagnostics. Defaults to stdout; nil discards them.
func WithDiagnostics(w io.Writer) Option {
	return func(c *Client) {
		if w == nil {
			w = io.Discard
		}
		c.diag = w
	}
}
