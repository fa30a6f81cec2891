// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package paypal

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/httpclient"
)

// tokenError marks a failure to obtain an OAuth2 access token
type tokenError struct {
	err error
}

func (e *tokenError) Error() string {
	return fmt.Sprintf("paypal access token unavailable: %v", e.err)
}

func (e *tokenError) Unwrap() error {
	return e.err
}

// MapHTTPError maps httpclient errors to domain errors with proper context logging.
// A failed call never says anything about the notification itself, so every
// failure is RemoteUnavailable.
func MapHTTPError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var retryableErr *httpclient.RetryableError
	if stderrors.As(err, &retryableErr) {
		slog.WarnContext(ctx, "PayPal HTTP error occurred",
			"status_code", retryableErr.StatusCode,
			"message", retryableErr.Message,
		)
		return errors.NewRemoteUnavailable(fmt.Sprintf("PayPal verification endpoint returned status %d", retryableErr.StatusCode), err)
	}

	var tokenErr *tokenError
	if stderrors.As(err, &tokenErr) {
		slog.ErrorContext(ctx, "PayPal OAuth2 token request failed", "error", tokenErr.err)
		return errors.NewRemoteUnavailable("PayPal authentication failed", err)
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		slog.WarnContext(ctx, "PayPal request abandoned", "error", ctxErr)
		return errors.NewRemoteUnavailable("PayPal request cancelled or timed out", err)
	}

	slog.ErrorContext(ctx, "PayPal request failed with non-HTTP error",
		"error", err.Error(),
	)
	return errors.NewRemoteUnavailable("PayPal request failed", err)
}
