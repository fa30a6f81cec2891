// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/infrastructure/codec"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/errors"
)

// eventPublisher implements VerifiedEventPublisher using NATS core publish
type eventPublisher struct {
	client  *NATSClient
	encoder codec.Encoder
}

// Publish sends the event on lfx.payments.webhook.<provider>.<kind> and waits
// for the server to acknowledge it
func (p *eventPublisher) Publish(ctx context.Context, event model.VerifiedEvent) error {
	subject := codec.Subject(event)

	if err := p.client.IsReady(ctx); err != nil {
		slog.ErrorContext(ctx, "NATS client is not ready for publishing",
			"error", err,
			"subject", subject,
		)
		return errors.NewServiceUnavailable("NATS client is not ready", err)
	}

	data, err := p.encoder.Encode(event)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode verified event",
			"error", err,
			"subject", subject,
			"event_id", event.ID,
		)
		return errors.NewUnexpected("failed to encode verified event", err)
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header:  nats.Header{},
	}
	msg.Header.Set("Content-Type", p.encoder.ContentType())
	// Nats-Msg-Id lets a JetStream stream on these subjects drop provider redeliveries
	msg.Header.Set(nats.MsgIdHdr, event.Provider.String()+":"+event.ID)

	if err := p.client.conn.PublishMsg(msg); err != nil {
		slog.ErrorContext(ctx, "failed to publish verified event to NATS",
			"error", err,
			"subject", subject,
			"event_id", event.ID,
		)
		return errors.NewServiceUnavailable("failed to publish verified event", err)
	}

	if err := p.client.flush(ctx); err != nil {
		slog.ErrorContext(ctx, "NATS flush failed after publish",
			"error", err,
			"subject", subject,
		)
		return errors.NewServiceUnavailable("failed to flush verified event", err)
	}

	slog.DebugContext(ctx, "verified event published",
		"subject", subject,
		"event_id", event.ID,
		"message_size", len(data),
	)

	return nil
}

// IsReady reports the connection state
func (p *eventPublisher) IsReady(ctx context.Context) error {
	return p.client.IsReady(ctx)
}

// Close drains the connection
func (p *eventPublisher) Close() error {
	return p.client.Close()
}

// NewEventPublisher creates a VerifiedEventPublisher on top of a NATS client
func NewEventPublisher(client *NATSClient, encoder codec.Encoder) port.VerifiedEventPublisher {
	return &eventPublisher{
		client:  client,
		encoder: encoder,
	}
}
