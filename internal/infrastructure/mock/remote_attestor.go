// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package mock provides mock implementations for local development and testing.
package mock

import (
	"context"
	"log/slog"
	"sync"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/constants"
)

// MockRemoteAttestor answers every attestation request with a fixed verdict.
// Used when PAYPAL_SOURCE=mock so PayPal webhooks can be replayed locally.
type MockRemoteAttestor struct {
	mu       sync.Mutex
	status   string
	err      error
	requests []model.RemoteAttestationRequest
}

var _ port.RemoteAttestor = (*MockRemoteAttestor)(nil)

// NewMockRemoteAttestor creates an attestor that approves every request
func NewMockRemoteAttestor() *MockRemoteAttestor {
	return &MockRemoteAttestor{status: constants.PayPalVerificationSuccess}
}

// SetVerdict changes the verification status returned by Attest
func (m *MockRemoteAttestor) SetVerdict(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
}

// SetError makes Attest fail with err; nil restores the verdict
func (m *MockRemoteAttestor) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Attest records the request and returns the configured verdict
func (m *MockRemoteAttestor) Attest(ctx context.Context, request *model.RemoteAttestationRequest) (*model.RemoteAttestationResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, *request)

	if m.err != nil {
		return nil, m.err
	}

	slog.InfoContext(ctx, "mock PayPal attestation",
		"transmission_id", request.TransmissionID,
		"verification_status", m.status,
	)
	return &model.RemoteAttestationResponse{VerificationStatus: m.status}, nil
}

// Requests returns a copy of every request seen so far
func (m *MockRemoteAttestor) Requests() []model.RemoteAttestationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.RemoteAttestationRequest(nil), m.requests...)
}

// IsReady always succeeds
func (m *MockRemoteAttestor) IsReady(context.Context) error {
	return nil
}
