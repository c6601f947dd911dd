// Package apiclient is the HTTP adapter for the portfolio REST API. It is
// the only component that attaches the bearer token, clears it on 401 and
// triggers the redirect to login.
package apiclient

import (
	"strings"
	"time"
)

// Default client settings.
const (
	DefaultBaseURL = "http://localhost:8080/api"
	DefaultTimeout = 30 * time.Second
)

// Config holds the adapter configuration.
type Config struct {
	// BaseURL is the API base; request paths are appended to it.
	BaseURL string

	// Timeout bounds each request. A timed-out request fails like an
	// unreachable server.
	Timeout time.Duration
}

// DefaultConfig returns a Config pointing at a local backend.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// WithBaseURL returns a copy of the config with the given base URL.
func (c Config) WithBaseURL(base string) Config {
	c.BaseURL = strings.TrimRight(base, "/")
	return c
}

// WithTimeout returns a copy of the config with the given timeout.
func (c Config) WithTimeout(timeout time.Duration) Config {
	c.Timeout = timeout
	return c
}
