// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package stripe verifies Stripe webhook notifications signed with a shared endpoint secret.
package stripe

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/infrastructure/signature"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/log"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/redaction"
)

// WebhookVerifier handles validation of Stripe webhook signatures
type WebhookVerifier struct {
	secret []byte
	guard  signature.FreshnessGuard
}

// NewWebhookVerifier creates a new Stripe webhook verifier. clock may be nil.
func NewWebhookVerifier(config Config, clock signature.Clock) (port.WebhookVerifier, error) {
	if config.Secret == "" {
		return nil, errors.NewValidation("stripe webhook secret is required")
	}

	return &WebhookVerifier{
		secret: []byte(config.Secret),
		guard:  signature.NewFreshnessGuard(config.Tolerance, clock),
	}, nil
}

// Provider returns the Stripe provider
func (v *WebhookVerifier) Provider() model.Provider {
	return model.ProviderStripe
}

// Verify checks the Stripe-Signature header, then the timestamp freshness, then parses the event
func (v *WebhookVerifier) Verify(ctx context.Context, body []byte, headers http.Header) (*model.WebhookEnvelope, error) {
	raw := headers.Get(constants.StripeSignatureHeader)
	if raw == "" {
		return nil, errors.NewMissingHeader(strings.ToLower(constants.StripeSignatureHeader))
	}

	header, err := signature.ParseHeader(raw)
	if err != nil {
		slog.WarnContext(ctx, "malformed stripe signature header", "error", err)
		return nil, err
	}

	if err := signature.VerifyHMAC(body, header, v.secret); err != nil {
		slog.WarnContext(ctx, "invalid stripe webhook signature",
			"timestamp", header.Timestamp,
			"candidates", redaction.RedactAll(header.Candidates),
		)
		return nil, err
	}

	if err := v.guard.Check(header.Timestamp); err != nil {
		slog.WarnContext(ctx, "stale stripe webhook rejected",
			"timestamp", header.Timestamp,
			"tolerance", v.guard.Tolerance.String(),
		)
		return nil, err
	}

	envelope, err := model.ParseWebhookEnvelope(model.ProviderStripe, body)
	if err != nil {
		slog.ErrorContext(ctx, "verified stripe webhook could not be parsed", "error", err, log.PriorityCritical())
		return nil, err
	}

	return envelope, nil
}
