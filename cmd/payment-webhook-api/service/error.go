// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"

	lfxerrors "github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/errors"
)

// errorStatus maps a processing error to the HTTP status returned to the provider.
// Providers redeliver on 5xx, so only infrastructure failures map there.
func errorStatus(err error) int {
	var (
		validation        lfxerrors.Validation
		deserialization   lfxerrors.Deserialization
		malformedHeader   lfxerrors.MalformedHeader
		missingHeader     lfxerrors.MissingHeader
		notFound          lfxerrors.NotFound
		unauthorized      lfxerrors.Unauthorized
		signatureMismatch lfxerrors.SignatureMismatch
		expiredTimestamp  lfxerrors.ExpiredTimestamp
		untrusted         lfxerrors.UntrustedCertificateSource
		remoteRejected    lfxerrors.RemoteVerificationFailed
		remoteUnavailable lfxerrors.RemoteUnavailable
		unavailable       lfxerrors.ServiceUnavailable
	)

	switch {
	case stderrors.As(err, &validation),
		stderrors.As(err, &deserialization),
		stderrors.As(err, &malformedHeader),
		stderrors.As(err, &missingHeader):
		return http.StatusBadRequest
	case stderrors.As(err, &notFound):
		return http.StatusNotFound
	case stderrors.As(err, &unauthorized),
		stderrors.As(err, &signatureMismatch),
		stderrors.As(err, &expiredTimestamp),
		stderrors.As(err, &untrusted),
		stderrors.As(err, &remoteRejected):
		return http.StatusUnauthorized
	case stderrors.As(err, &remoteUnavailable),
		stderrors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage is the message sent back to the caller. Verification details
// stay in the logs so a forger learns nothing about why a request failed.
func errorMessage(ctx context.Context, status int, err error) string {
	switch status {
	case http.StatusBadRequest, http.StatusNotFound:
		slog.WarnContext(ctx, "webhook request rejected", "status", status, "error", err)
		return err.Error()
	case http.StatusUnauthorized:
		slog.WarnContext(ctx, "webhook request rejected", "status", status, "error", err)
	default:
		slog.ErrorContext(ctx, "webhook request failed", "status", status, "error", err)
	}
	return http.StatusText(status)
}
