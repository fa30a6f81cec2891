// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package httpclient

import (
	"net/http"
	"time"
)

// Config holds the configuration for the HTTP client
type Config struct {
	// Timeout is the per-attempt HTTP timeout
	Timeout time.Duration

	// MaxRetries is the number of retries after the first attempt
	MaxRetries int

	// RetryDelay is the base delay between attempts
	RetryDelay time.Duration

	// RetryBackoff doubles the delay on every retry when enabled
	RetryBackoff bool

	// MaxDelay caps the backoff delay
	MaxDelay time.Duration

	// Transport overrides the underlying transport; nil uses an instrumented default transport
	Transport http.RoundTripper
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Timeout:      30 * time.Second,
		MaxRetries:   2,
		RetryDelay:   1 * time.Second,
		RetryBackoff: true,
		MaxDelay:     30 * time.Second,
	}
}
