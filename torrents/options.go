package torrents

import (
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the public index used when none is configured
	DefaultBaseURL = "https://thepirateapi.fly.dev"
	// DefaultTimeout bounds a single search request
	DefaultTimeout = 10 * time.Second
)

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLimit caps the number of results returned. Zero means no cap.
func WithLimit(limit int) Option {
	return func(c *Client) {
		if limit >= 0 {
			c.limit = limit
		}
	}
}
