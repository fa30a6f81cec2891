// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"net/http"
	"sync"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/errors"
)

// MockWebhookVerifier returns queued results in order, then repeats the last one
type MockWebhookVerifier struct {
	mu       sync.Mutex
	provider model.Provider
	results  []verifyResult
	calls    int
}

type verifyResult struct {
	envelope *model.WebhookEnvelope
	err      error
}

var _ port.WebhookVerifier = (*MockWebhookVerifier)(nil)

// NewMockWebhookVerifier creates a verifier for provider with no queued results
func NewMockWebhookVerifier(provider model.Provider) *MockWebhookVerifier {
	return &MockWebhookVerifier{provider: provider}
}

// Return queues a successful verification
func (m *MockWebhookVerifier) Return(envelope model.WebhookEnvelope) *MockWebhookVerifier {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, verifyResult{envelope: &envelope})
	return m
}

// Fail queues a failed verification
func (m *MockWebhookVerifier) Fail(err error) *MockWebhookVerifier {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, verifyResult{err: err})
	return m
}

// Provider returns the configured provider
func (m *MockWebhookVerifier) Provider() model.Provider {
	return m.provider
}

// Verify pops the next queued result
func (m *MockWebhookVerifier) Verify(_ context.Context, _ []byte, _ http.Header) (*model.WebhookEnvelope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if len(m.results) == 0 {
		return nil, errors.NewUnexpected("mock verifier has no queued result")
	}

	result := m.results[0]
	if len(m.results) > 1 {
		m.results = m.results[1:]
	}
	if result.err != nil {
		return nil, result.err
	}
	envelope := *result.envelope
	return &envelope, nil
}

// Calls returns how many times Verify ran
func (m *MockWebhookVerifier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
