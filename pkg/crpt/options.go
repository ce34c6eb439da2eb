package crpt

import (
	"net/http"

	"go.uber.org/zap"
)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root, for example the
// sandbox or a local stub.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = base
		}
	}
}

// WithHTTPClient replaces the default http.Client (30s timeout).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithLogger injects a logger; the default is a no-op.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}
