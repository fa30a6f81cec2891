// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package utils provides utility functions for the payment webhook service.
package utils

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// RetryConfig holds retry configuration for operations
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	// ShouldRetry decides whether a failed attempt is retried. Nil retries every error.
	ShouldRetry func(error) bool
}

// NewRetryConfig creates a RetryConfig with specified parameters
func NewRetryConfig(maxAttempts int, baseDelay, maxDelay time.Duration) RetryConfig {
	return RetryConfig{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		MaxDelay:    maxDelay,
	}
}

// WithShouldRetry returns a copy of the config that only retries errors accepted by fn
func (c RetryConfig) WithShouldRetry(fn func(error) bool) RetryConfig {
	c.ShouldRetry = fn
	return c
}

// backoffDelay returns baseDelay * 2^(attempt-1), capped at maxDelay
func (c RetryConfig) backoffDelay(attempt int) time.Duration {
	delay := c.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= c.MaxDelay {
			return c.MaxDelay
		}
	}
	if c.MaxDelay > 0 && delay > c.MaxDelay {
		return c.MaxDelay
	}
	return delay
}

// RetryWithExponentialBackoff executes a function with exponential backoff retry logic.
// Errors rejected by config.ShouldRetry are returned unwrapped without further attempts.
func RetryWithExponentialBackoff(ctx context.Context, config RetryConfig, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := config.backoffDelay(attempt)

			slog.WarnContext(ctx, "retrying operation",
				"attempt", attempt+1,
				"total_attempts", config.MaxAttempts,
				"retry_delay_ms", delay.Milliseconds(),
			)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				// keep the last failure so callers can still classify it
				return fmt.Errorf("retry cancelled after %d attempts: %w", attempt, errors.Join(lastErr, ctx.Err()))
			}
		}

		err := fn()
		if err == nil {
			if attempt > 0 {
				slog.InfoContext(ctx, "retry succeeded",
					"attempt", attempt+1,
					"total_attempts", config.MaxAttempts,
				)
			}
			return nil
		}

		if config.ShouldRetry != nil && !config.ShouldRetry(err) {
			return err
		}

		lastErr = err
		slog.ErrorContext(ctx, "operation attempt failed",
			"attempt", attempt+1,
			"total_attempts", config.MaxAttempts,
			"error", err,
		)
	}

	return fmt.Errorf("failed after %d attempts: %w", config.MaxAttempts, lastErr)
}
