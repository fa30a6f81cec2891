// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package rabbitmq publishes verified payment webhook events to a RabbitMQ
// topic exchange.
package rabbitmq

import (
	"context"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/infrastructure/codec"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/errors"
)

// publishChannel is the part of *amqp.Channel the publisher uses
type publishChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// EventPublisher holds the AMQP connection and the channel used for publishing.
// The channel is not safe for concurrent use, so publishes are serialized.
type EventPublisher struct {
	mu         sync.Mutex
	conn       *amqp.Connection
	newChannel func() (publishChannel, error)
	channel    publishChannel
	exchange   string
	encoder    codec.Encoder
}

var _ port.VerifiedEventPublisher = (*EventPublisher)(nil)

// NewEventPublisher dials the broker, opens a channel and declares the exchange
func NewEventPublisher(ctx context.Context, config Config, encoder codec.Encoder) (*EventPublisher, error) {
	amqpURL, err := sanitizeURL(config.URL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp.DialConfig(amqpURL, amqp.Config{Dial: amqp.DefaultDial(config.DialTimeout)})
	if err != nil {
		return nil, errors.NewServiceUnavailable("failed to connect to RabbitMQ", err)
	}

	publisher := &EventPublisher{
		conn: conn,
		newChannel: func() (publishChannel, error) {
			ch, err := conn.Channel()
			if err != nil {
				return nil, err
			}
			return ch, nil
		},
		exchange: config.Exchange,
		encoder:  encoder,
	}
	if err := publisher.openChannel(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	slog.InfoContext(ctx, "RabbitMQ publisher created",
		"exchange", config.Exchange,
	)

	return publisher, nil
}

// openChannel closes any previous channel, then opens a new one and declares
// the durable topic exchange. Callers hold mu or own the publisher exclusively.
func (p *EventPublisher) openChannel() error {
	if p.channel != nil {
		// ErrClosed is expected when the broker already closed it
		_ = p.channel.Close()
		p.channel = nil
	}

	ch, err := p.newChannel()
	if err != nil {
		return errors.NewServiceUnavailable("failed to open RabbitMQ channel", err)
	}

	if err := ch.ExchangeDeclare(
		p.exchange, // name
		"topic",    // type
		true,       // durable
		false,      // autoDelete
		false,      // internal
		false,      // noWait
		nil,        // args
	); err != nil {
		_ = ch.Close()
		return errors.NewServiceUnavailable("failed to declare RabbitMQ exchange", err)
	}

	p.channel = ch
	return nil
}

// Publish sends the event with routing key <provider>.<kind>. A failed publish
// reopens the channel once and retries, since the broker closes a channel on
// any channel-level error.
func (p *EventPublisher) Publish(ctx context.Context, event model.VerifiedEvent) error {
	routingKey := codec.RoutingKey(event)

	body, err := p.encoder.Encode(event)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode verified event",
			"error", err,
			"routing_key", routingKey,
			"event_id", event.ID,
		)
		return errors.NewUnexpected("failed to encode verified event", err)
	}

	msg := amqp.Publishing{
		ContentType:  p.encoder.ContentType(),
		DeliveryMode: amqp.Persistent,
		MessageId:    event.Provider.String() + ":" + event.ID,
		Timestamp:    time.Now(),
		Type:         event.Name,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.channel.IsClosed() {
		if err := p.openChannel(); err != nil {
			return err
		}
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
	if err != nil {
		slog.WarnContext(ctx, "RabbitMQ publish failed, reopening channel",
			"error", err,
			"exchange", p.exchange,
			"routing_key", routingKey,
		)
		if reopenErr := p.openChannel(); reopenErr != nil {
			return reopenErr
		}
		if err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
			slog.ErrorContext(ctx, "failed to publish verified event to RabbitMQ",
				"error", err,
				"exchange", p.exchange,
				"routing_key", routingKey,
			)
			return errors.NewServiceUnavailable("failed to publish verified event", err)
		}
	}

	slog.DebugContext(ctx, "verified event published",
		"exchange", p.exchange,
		"routing_key", routingKey,
		"event_id", event.ID,
		"message_size", len(body),
	)

	return nil
}

// IsReady reports whether the connection is open
func (p *EventPublisher) IsReady(ctx context.Context) error {
	if p.conn == nil || p.conn.IsClosed() {
		slog.ErrorContext(ctx, "RabbitMQ connection is not open")
		return errors.NewServiceUnavailable("RabbitMQ connection is not open")
	}
	return nil
}

// Close closes the channel and the connection
func (p *EventPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
