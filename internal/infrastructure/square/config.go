// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package square

import (
	"os"
	"time"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/constants"
)

// Environment values for SQUARE_ENVIRONMENT
const (
	EnvironmentProduction = "production"
	EnvironmentSandbox    = "sandbox"
)

// Config holds the configuration for Square webhook verification
type Config struct {
	// SignatureKey is the subscription's signature key from the Square dashboard
	SignatureKey string

	// NotificationURL is the URL registered on the webhook subscription. Square
	// signs it together with the body. When empty, the request URL is used.
	NotificationURL string

	// Tolerance is the maximum age of the notification's created_at
	Tolerance time.Duration

	// Environment is production or sandbox and drives LiveMode on envelopes
	Environment string
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Tolerance:   constants.DefaultSquareTolerance,
		Environment: EnvironmentProduction,
	}
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() Config {
	config := DefaultConfig()

	config.SignatureKey = os.Getenv("SQUARE_WEBHOOK_SIGNATURE_KEY")
	config.NotificationURL = os.Getenv("SQUARE_WEBHOOK_NOTIFICATION_URL")

	if toleranceStr := os.Getenv("SQUARE_WEBHOOK_TOLERANCE"); toleranceStr != "" {
		if tolerance, err := time.ParseDuration(toleranceStr); err == nil && tolerance > 0 {
			config.Tolerance = tolerance
		}
	}

	if environment := os.Getenv("SQUARE_ENVIRONMENT"); environment == EnvironmentSandbox {
		config.Environment = EnvironmentSandbox
	}

	return config
}
