// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"os"
	"strconv"
	"time"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/constants"
)

// Config holds NATS connection settings
type Config struct {
	// URL is the NATS server URL
	URL string

	// CredentialsFile is an optional .creds file for decentralized auth
	CredentialsFile string

	Timeout       time.Duration
	MaxReconnect  int
	ReconnectWait time.Duration
}

// DefaultConfig returns a Config pointing at a local server
func DefaultConfig() Config {
	return Config{
		URL:           "nats://localhost:4222",
		Timeout:       10 * time.Second,
		MaxReconnect:  3,
		ReconnectWait: 2 * time.Second,
	}
}

// NewConfigFromEnv creates a Config from environment variables. Unparseable
// values are reported so startup fails loudly instead of running with defaults.
func NewConfigFromEnv() (Config, error) {
	config := DefaultConfig()

	if url := os.Getenv(constants.EnvNATSURL); url != "" {
		config.URL = url
	}
	config.CredentialsFile = os.Getenv(constants.EnvNATSCredentials)

	if timeout := os.Getenv("NATS_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, err
		}
		config.Timeout = d
	}

	if maxReconnect := os.Getenv("NATS_MAX_RECONNECT"); maxReconnect != "" {
		n, err := strconv.Atoi(maxReconnect)
		if err != nil {
			return Config{}, err
		}
		config.MaxReconnect = n
	}

	if reconnectWait := os.Getenv("NATS_RECONNECT_WAIT"); reconnectWait != "" {
		d, err := time.ParseDuration(reconnectWait)
		if err != nil {
			return Config{}, err
		}
		config.ReconnectWait = d
	}

	return config, nil
}
