// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/port"
)

// NewEventForwarder returns a handler that publishes the verified event for
// downstream consumers. Publish failures are returned so the provider
// redelivers the notification.
func NewEventForwarder(publisher port.VerifiedEventPublisher) port.WebhookHandler {
	return func(ctx context.Context, envelope model.WebhookEnvelope) error {
		event := model.NewVerifiedEvent(envelope)

		if err := publisher.Publish(ctx, event); err != nil {
			slog.ErrorContext(ctx, "failed to forward verified webhook event",
				"error", err,
				"provider", event.Provider,
				"event_id", event.ID,
				"kind", event.Kind,
			)
			return err
		}

		slog.InfoContext(ctx, "verified webhook event forwarded",
			"provider", event.Provider,
			"event_id", event.ID,
			"kind", event.Kind,
			"object_id", event.ObjectID,
		)
		return nil
	}
}

// NewEventLogger returns a handler that only records the event
func NewEventLogger() port.WebhookHandler {
	return func(ctx context.Context, envelope model.WebhookEnvelope) error {
		objectID, _ := envelope.ObjectID()
		slog.InfoContext(ctx, "verified webhook event received",
			"provider", envelope.Provider,
			"event_id", envelope.ID,
			"event_type", envelope.EventType.String(),
			"object_id", objectID,
			"live_mode", envelope.LiveMode,
			"created_at", envelope.CreatedAt,
		)
		return nil
	}
}
