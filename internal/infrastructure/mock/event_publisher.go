// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"log/slog"
	"sync"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/infrastructure/codec"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/errors"
)

var errClosed = errors.NewServiceUnavailable("mock publisher is closed")

// MockEventPublisher keeps published events in memory
type MockEventPublisher struct {
	mu     sync.RWMutex
	events []model.VerifiedEvent
	err    error
	closed bool
}

// Ensure MockEventPublisher implements the VerifiedEventPublisher interface
var _ port.VerifiedEventPublisher = (*MockEventPublisher)(nil)

// NewMockEventPublisher creates a new in-memory publisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// SetError makes subsequent publishes fail with err
func (m *MockEventPublisher) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Publish records the event (mock implementation - logs only)
func (m *MockEventPublisher) Publish(ctx context.Context, event model.VerifiedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	m.events = append(m.events, event)
	slog.InfoContext(ctx, "mock verified event published",
		"subject", codec.Subject(event),
		"event_id", event.ID,
	)
	return nil
}

// Events returns a copy of the published events in publish order
func (m *MockEventPublisher) Events() []model.VerifiedEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.VerifiedEvent(nil), m.events...)
}

// IsReady always succeeds until Close is called
func (m *MockEventPublisher) IsReady(context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return errClosed
	}
	return nil
}

// Close marks the publisher closed
func (m *MockEventPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
