// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"maps"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/port"
)

// WebhookRegistryBuilder collects handlers during startup. It is not safe for
// concurrent use; Build freezes the result.
type WebhookRegistryBuilder struct {
	handlers map[string]port.WebhookHandler
	fallback port.WebhookHandler
}

// NewWebhookRegistryBuilder creates an empty builder
func NewWebhookRegistryBuilder() *WebhookRegistryBuilder {
	return &WebhookRegistryBuilder{
		handlers: make(map[string]port.WebhookHandler),
	}
}

// On registers handler for key, replacing any previous registration. The key
// is either a provider event name ("payment_intent.succeeded") or an event
// kind ("payment_succeeded").
func (b *WebhookRegistryBuilder) On(key string, handler port.WebhookHandler) *WebhookRegistryBuilder {
	b.handlers[key] = handler
	return b
}

// OnKind registers handler for every provider event classified as kind
func (b *WebhookRegistryBuilder) OnKind(kind model.EventKind, handler port.WebhookHandler) *WebhookRegistryBuilder {
	return b.On(string(kind), handler)
}

// OnProvider registers handler for key only when the event comes from provider.
// Provider scoped registrations win over unscoped ones for the same key.
func (b *WebhookRegistryBuilder) OnProvider(provider model.Provider, key string, handler port.WebhookHandler) *WebhookRegistryBuilder {
	return b.On(scopedKey(provider, key), handler)
}

// Default registers the handler used when nothing else matches
func (b *WebhookRegistryBuilder) Default(handler port.WebhookHandler) *WebhookRegistryBuilder {
	b.fallback = handler
	return b
}

// Build returns an immutable registry. The builder may keep being used
// without affecting registries already built.
func (b *WebhookRegistryBuilder) Build() *WebhookRegistry {
	return &WebhookRegistry{
		handlers: maps.Clone(b.handlers),
		fallback: b.fallback,
	}
}

// WebhookRegistry dispatches verified envelopes to their handlers. It is
// read-only and safe for concurrent use.
type WebhookRegistry struct {
	handlers map[string]port.WebhookHandler
	fallback port.WebhookHandler
}

var _ port.WebhookDispatcher = (*WebhookRegistry)(nil)

// Lookup finds the handler for an event: exact event name first, then the
// event kind, then the default handler
func (r *WebhookRegistry) Lookup(provider model.Provider, eventType model.EventType) (port.WebhookHandler, bool) {
	keys := []string{
		scopedKey(provider, eventType.Name),
		eventType.Name,
		scopedKey(provider, string(eventType.Kind)),
		string(eventType.Kind),
	}
	for _, key := range keys {
		if handler, ok := r.handlers[key]; ok {
			return handler, true
		}
	}

	if r.fallback != nil {
		return r.fallback, true
	}
	return nil, false
}

// Dispatch invokes the matching handler with its own copy of the envelope and
// returns its result. Events without a handler are ignored.
func (r *WebhookRegistry) Dispatch(ctx context.Context, envelope model.WebhookEnvelope) error {
	handler, ok := r.Lookup(envelope.Provider, envelope.EventType)
	if !ok {
		slog.DebugContext(ctx, "no handler registered for webhook event",
			"provider", envelope.Provider,
			"event_type", envelope.EventType.String(),
			"event_id", envelope.ID,
		)
		return nil
	}

	return handler(ctx, envelope.Clone())
}

// Len returns the number of registrations, excluding the default handler
func (r *WebhookRegistry) Len() int {
	return len(r.handlers)
}

func scopedKey(provider model.Provider, key string) string {
	return provider.String() + ":" + key
}
