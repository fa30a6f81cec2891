// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package stripe

import (
	"os"
	"time"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/constants"
)

// Config holds the configuration for Stripe webhook verification
type Config struct {
	// Secret is the endpoint signing secret (whsec_...)
	Secret string

	// Tolerance is the maximum age of the signature timestamp
	Tolerance time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Tolerance: constants.DefaultStripeTolerance,
	}
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() Config {
	config := DefaultConfig()

	config.Secret = os.Getenv("STRIPE_WEBHOOK_SECRET")

	if toleranceStr := os.Getenv("STRIPE_WEBHOOK_TOLERANCE"); toleranceStr != "" {
		if tolerance, err := time.ParseDuration(toleranceStr); err == nil && tolerance > 0 {
			config.Tolerance = tolerance
		}
	}

	return config
}
