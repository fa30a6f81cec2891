// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import "encoding/json"

// RemoteAttestationRequest is submitted to a provider's verification endpoint.
// WebhookEvent must be the notification body exactly as received.
type RemoteAttestationRequest struct {
	AuthAlgo         string          `json:"auth_algo"`
	CertURL          string          `json:"cert_url"`
	TransmissionID   string          `json:"transmission_id"`
	TransmissionSig  string          `json:"transmission_sig"`
	TransmissionTime string          `json:"transmission_time"`
	WebhookID        string          `json:"webhook_id"`
	WebhookEvent     json.RawMessage `json:"webhook_event"`
}

// RemoteAttestationResponse carries the provider's verdict
type RemoteAttestationResponse struct {
	VerificationStatus string `json:"verification_status"`
}
