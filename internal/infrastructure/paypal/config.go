// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package paypal

import (
	"os"
	"strconv"
	"time"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/constants"
)

// Config holds the configuration for the PayPal client
type Config struct {
	// BaseURL is the PayPal REST API base URL
	BaseURL string

	// Environment is live or sandbox and drives LiveMode on envelopes
	Environment string

	// ClientID and ClientSecret are the REST app credentials used for OAuth2
	ClientID     string
	ClientSecret string

	// WebhookID is the id PayPal assigned to the webhook subscription
	WebhookID string

	// Timeout is the HTTP client timeout for requests
	Timeout time.Duration

	// MaxRetries is the number of extra HTTP attempts per verification call.
	// The webhook processor already retries RemoteUnavailable verdicts, so each
	// notification can reach PayPal processorAttempts*(MaxRetries+1) times.
	MaxRetries int

	// RetryDelay is the delay between retry attempts
	RetryDelay time.Duration

	// MockMode disables real PayPal API calls (for local development)
	MockMode bool
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL:     "https://api-m.paypal.com",
		Environment: constants.PayPalEnvironmentLive,
		Timeout:     10 * time.Second,
		MaxRetries:  0,
		RetryDelay:  500 * time.Millisecond,
		MockMode:    false,
	}
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() Config {
	config := DefaultConfig()

	if environment := os.Getenv("PAYPAL_ENVIRONMENT"); environment == constants.PayPalEnvironmentSandbox {
		config.Environment = constants.PayPalEnvironmentSandbox
		config.BaseURL = "https://api-m.sandbox.paypal.com"
	}

	if baseURL := os.Getenv("PAYPAL_BASE_URL"); baseURL != "" {
		config.BaseURL = baseURL
	}

	config.ClientID = os.Getenv("PAYPAL_CLIENT_ID")
	config.ClientSecret = os.Getenv("PAYPAL_CLIENT_SECRET")
	config.WebhookID = os.Getenv("PAYPAL_WEBHOOK_ID")

	if timeoutStr := os.Getenv("PAYPAL_TIMEOUT"); timeoutStr != "" {
		if timeout, err := time.ParseDuration(timeoutStr); err == nil {
			config.Timeout = timeout
		}
	}

	if retriesStr := os.Getenv("PAYPAL_MAX_RETRIES"); retriesStr != "" {
		if retries, err := strconv.Atoi(retriesStr); err == nil {
			config.MaxRetries = retries
		}
	}

	if delayStr := os.Getenv("PAYPAL_RETRY_DELAY"); delayStr != "" {
		if delay, err := time.ParseDuration(delayStr); err == nil {
			config.RetryDelay = delay
		}
	}

	if source := os.Getenv("PAYPAL_SOURCE"); source == "mock" {
		config.MockMode = true
	}

	return config
}

// LiveMode reports whether the configured environment is live
func (c Config) LiveMode() bool {
	return c.Environment != constants.PayPalEnvironmentSandbox
}
