// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package square verifies Square webhook notifications.
package square

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/infrastructure/signature"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/redaction"
)

// WebhookVerifier validates x-square-hmacsha256-signature headers
type WebhookVerifier struct {
	key             []byte
	notificationURL string
	liveMode        bool
	guard           signature.FreshnessGuard
}

// NewWebhookVerifier creates a new Square webhook verifier. clock may be nil.
func NewWebhookVerifier(config Config, clock signature.Clock) (port.WebhookVerifier, error) {
	if config.SignatureKey == "" {
		return nil, errors.NewValidation("square webhook signature key is required")
	}

	return &WebhookVerifier{
		key:             []byte(config.SignatureKey),
		notificationURL: config.NotificationURL,
		liveMode:        config.Environment != EnvironmentSandbox,
		guard:           signature.NewFreshnessGuard(config.Tolerance, clock),
	}, nil
}

// Provider returns the Square provider
func (v *WebhookVerifier) Provider() model.Provider {
	return model.ProviderSquare
}

// ComputeSignature returns base64(HMAC-SHA256(key, notificationURL + body))
func ComputeSignature(key []byte, notificationURL string, body []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(notificationURL))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify checks the signature over the notification URL and body, then the
// freshness of created_at, then builds the envelope
func (v *WebhookVerifier) Verify(ctx context.Context, body []byte, headers http.Header) (*model.WebhookEnvelope, error) {
	sig := headers.Get(constants.SquareSignatureHeader)
	if sig == "" {
		return nil, errors.NewMissingHeader(strings.ToLower(constants.SquareSignatureHeader))
	}

	notificationURL, err := v.signedURL(ctx)
	if err != nil {
		return nil, err
	}

	expected := ComputeSignature(v.key, notificationURL, body)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		slog.WarnContext(ctx, "invalid square webhook signature",
			"signature", redaction.Redact(sig),
			"notification_url", notificationURL,
		)
		return nil, errors.NewSignatureMismatch("square webhook signature does not match")
	}

	n, err := parseNotification(body)
	if err != nil {
		return nil, err
	}

	envelope, err := n.toEnvelope(v.liveMode)
	if err != nil {
		return nil, err
	}

	if err := v.guard.Check(envelope.CreatedAt); err != nil {
		slog.WarnContext(ctx, "stale square webhook rejected",
			"event_id", envelope.ID,
			"created_at", n.CreatedAt,
		)
		return nil, err
	}

	return envelope, nil
}

// signedURL resolves the URL Square signed. A configured notification URL is
// pinned: the request must have arrived on that exact URL.
func (v *WebhookVerifier) signedURL(ctx context.Context) (string, error) {
	requestURL, _ := ctx.Value(constants.WebhookRequestURLContextKey).(string)

	switch {
	case v.notificationURL != "" && requestURL != "" && requestURL != v.notificationURL:
		slog.WarnContext(ctx, "square webhook received on unexpected URL",
			"expected", v.notificationURL,
			"actual", requestURL,
		)
		return "", errors.NewValidation(fmt.Sprintf("request URL mismatch: expected %s, got %s", v.notificationURL, requestURL))
	case v.notificationURL != "":
		return v.notificationURL, nil
	case requestURL != "":
		return requestURL, nil
	default:
		return "", errors.NewValidation("square notification URL is not configured and the request URL is unknown")
	}
}
