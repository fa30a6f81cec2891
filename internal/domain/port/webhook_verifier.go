// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"
	"net/http"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/model"
)

// WebhookVerifier establishes that a notification came from its provider and
// returns the parsed envelope. On failure no envelope is returned.
type WebhookVerifier interface {
	// Provider reports which provider this verifier handles
	Provider() model.Provider

	// Verify checks the notification's authenticity and freshness and parses it
	Verify(ctx context.Context, body []byte, headers http.Header) (*model.WebhookEnvelope, error)
}

// RemoteAttestor submits a remote attestation request to the provider's
// verification endpoint and returns its verdict
type RemoteAttestor interface {
	Attest(ctx context.Context, request *model.RemoteAttestationRequest) (*model.RemoteAttestationResponse, error)
}
