// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package paypal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/redaction"
)

// requiredHeaders are checked in this order; the first absent one is reported
var requiredHeaders = []string{
	constants.PayPalAuthAlgoHeader,
	constants.PayPalCertURLHeader,
	constants.PayPalTransmissionIDHeader,
	constants.PayPalTransmissionSigHeader,
	constants.PayPalTransmissionTimeHeader,
}

// WebhookVerifier validates PayPal webhooks by remote attestation. Freshness
// is left to PayPal.
type WebhookVerifier struct {
	attestor  port.RemoteAttestor
	webhookID string
	liveMode  bool
}

// NewWebhookVerifier creates a new PayPal webhook verifier
func NewWebhookVerifier(attestor port.RemoteAttestor, webhookID string, liveMode bool) (port.WebhookVerifier, error) {
	if attestor == nil {
		return nil, errors.NewValidation("paypal attestor is required")
	}
	if webhookID == "" {
		return nil, errors.NewValidation("paypal webhook id is required")
	}

	return &WebhookVerifier{
		attestor:  attestor,
		webhookID: webhookID,
		liveMode:  liveMode,
	}, nil
}

// Provider returns the PayPal provider
func (v *WebhookVerifier) Provider() model.Provider {
	return model.ProviderPayPal
}

// Verify checks the transmission headers and certificate origin locally, then
// asks PayPal to verify the signature
func (v *WebhookVerifier) Verify(ctx context.Context, body []byte, headers http.Header) (*model.WebhookEnvelope, error) {
	values := make(map[string]string, len(requiredHeaders))
	for _, name := range requiredHeaders {
		value := headers.Get(name)
		if value == "" {
			return nil, errors.NewMissingHeader(strings.TrimPrefix(name, constants.PayPalHeaderPrefix))
		}
		values[name] = value
	}

	certURL := values[constants.PayPalCertURLHeader]
	if err := validateCertURL(certURL); err != nil {
		slog.WarnContext(ctx, "paypal webhook certificate URL rejected",
			"cert_url", certURL,
			"transmission_id", values[constants.PayPalTransmissionIDHeader],
		)
		return nil, err
	}

	if !json.Valid(body) {
		return nil, errors.NewDeserialization("paypal webhook body is not valid JSON")
	}

	request := &model.RemoteAttestationRequest{
		AuthAlgo:         values[constants.PayPalAuthAlgoHeader],
		CertURL:          certURL,
		TransmissionID:   values[constants.PayPalTransmissionIDHeader],
		TransmissionSig:  values[constants.PayPalTransmissionSigHeader],
		TransmissionTime: values[constants.PayPalTransmissionTimeHeader],
		WebhookID:        v.webhookID,
		WebhookEvent:     json.RawMessage(body),
	}

	response, err := v.attestor.Attest(ctx, request)
	if err != nil {
		return nil, err
	}

	if response.VerificationStatus != constants.PayPalVerificationSuccess {
		slog.WarnContext(ctx, "paypal rejected webhook signature",
			"verification_status", response.VerificationStatus,
			"transmission_id", request.TransmissionID,
			"transmission_sig", redaction.Redact(request.TransmissionSig),
		)
		return nil, errors.NewRemoteVerificationFailed(fmt.Sprintf("paypal verification status %q", response.VerificationStatus))
	}

	return parseEvent(body, v.liveMode)
}

// validateCertURL requires https and a host of paypal.com or one of its subdomains
func validateCertURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return errors.NewUntrustedCertificateSource("paypal certificate URL is not a valid URL", err)
	}

	if u.Scheme != "https" {
		return errors.NewUntrustedCertificateSource(fmt.Sprintf("paypal certificate URL must use https, got %q", u.Scheme))
	}

	host := strings.ToLower(u.Hostname())
	if host != constants.PayPalTrustedDomain && !strings.HasSuffix(host, "."+constants.PayPalTrustedDomain) {
		return errors.NewUntrustedCertificateSource(fmt.Sprintf("paypal certificate URL host %q is not a PayPal domain", host))
	}

	return nil
}
