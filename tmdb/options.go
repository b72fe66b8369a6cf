package tmdb

import (
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the public catalog API endpoint
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// DefaultTimeout bounds every catalog request
	DefaultTimeout = 10 * time.Second
	// DefaultLanguage is the response locale
	DefaultLanguage = "pt-BR"
	// DefaultRegion is the country used for watch providers
	DefaultRegion = "BR"
	// DefaultMinVoteCount applies when a minimum rating is set without a vote threshold
	DefaultMinVoteCount = 100
)

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLanguage sets the response language.
func WithLanguage(language string) Option {
	return func(c *Client) {
		if language != "" {
			c.language = language
		}
	}
}

// WithRegion sets the country whose watch providers are returned.
func WithRegion(region string) Option {
	return func(c *Client) {
		if region != "" {
			c.region = region
		}
	}
}

// WithMinVoteCount sets the vote threshold paired with a minimum rating.
func WithMinVoteCount(votes int) Option {
	return func(c *Client) {
		if votes > 0 {
			c.minVoteCount = votes
		}
	}
}
