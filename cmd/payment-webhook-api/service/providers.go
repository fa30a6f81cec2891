// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"goa.design/clue/health"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/infrastructure/codec"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/infrastructure/nats"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/infrastructure/paypal"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/infrastructure/rabbitmq"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/infrastructure/square"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/infrastructure/stripe"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/log"
)

// mockWebhookID is used with PAYPAL_SOURCE=mock when no webhook id is configured
const mockWebhookID = "WH-MOCK"

// readinessFunc adapts an IsReady method to a clue health pinger
type readinessFunc struct {
	name string
	ping func(context.Context) error
}

func (r readinessFunc) Name() string                   { return r.name }
func (r readinessFunc) Ping(ctx context.Context) error { return r.ping(ctx) }

// NewPinger names a readiness check for /readyz
func NewPinger(name string, ping func(context.Context) error) health.Pinger {
	return readinessFunc{name: name, ping: ping}
}

// WebhookVerifiers initializes a verifier for every provider with credentials
// in the environment. The returned pingers cover remote dependencies.
func WebhookVerifiers(ctx context.Context) ([]port.WebhookVerifier, []health.Pinger, error) {
	var (
		verifiers []port.WebhookVerifier
		pingers   []health.Pinger
	)

	if stripeConfig := stripe.NewConfigFromEnv(); stripeConfig.Secret != "" {
		verifier, err := stripe.NewWebhookVerifier(stripeConfig, nil)
		if err != nil {
			return nil, nil, err
		}
		slog.InfoContext(ctx, "stripe webhook verifier initialized", "tolerance", stripeConfig.Tolerance)
		verifiers = append(verifiers, verifier)
	}

	if squareConfig := square.NewConfigFromEnv(); squareConfig.SignatureKey != "" {
		verifier, err := square.NewWebhookVerifier(squareConfig, nil)
		if err != nil {
			return nil, nil, err
		}
		slog.InfoContext(ctx, "square webhook verifier initialized",
			"environment", squareConfig.Environment,
			"notification_url", squareConfig.NotificationURL,
		)
		verifiers = append(verifiers, verifier)
	}

	paypalVerifier, paypalPinger, err := payPalVerifier(ctx, paypal.NewConfigFromEnv())
	if err != nil {
		return nil, nil, err
	}
	if paypalVerifier != nil {
		verifiers = append(verifiers, paypalVerifier)
	}
	if paypalPinger != nil {
		pingers = append(pingers, paypalPinger)
	}

	if len(verifiers) == 0 {
		slog.ErrorContext(ctx, "no webhook provider configured", log.PriorityCritical())
		return nil, nil, errors.NewValidation("no webhook provider configured: set STRIPE_WEBHOOK_SECRET, SQUARE_WEBHOOK_SIGNATURE_KEY or PAYPAL_CLIENT_ID")
	}

	return verifiers, pingers, nil
}

func payPalVerifier(ctx context.Context, config paypal.Config) (port.WebhookVerifier, health.Pinger, error) {
	switch {
	case config.MockMode:
		slog.WarnContext(ctx, "initializing mock PayPal attestor, every PayPal signature is accepted")
		webhookID := config.WebhookID
		if webhookID == "" {
			webhookID = mockWebhookID
		}
		verifier, err := paypal.NewWebhookVerifier(mock.NewMockRemoteAttestor(), webhookID, config.LiveMode())
		return verifier, nil, err

	case config.ClientID != "":
		client, err := paypal.NewClient(config)
		if err != nil {
			return nil, nil, err
		}
		verifier, err := paypal.NewWebhookVerifier(client, config.WebhookID, config.LiveMode())
		if err != nil {
			return nil, nil, err
		}
		return verifier, NewPinger("paypal", client.IsReady), nil

	default:
		return nil, nil, nil
	}
}

// EventPublisher initializes the verified event publisher selected by EVENT_PUBLISHER
func EventPublisher(ctx context.Context) (port.VerifiedEventPublisher, error) {
	encoder, err := codec.NewEncoder(os.Getenv(constants.EnvEventEncoding))
	if err != nil {
		return nil, err
	}

	source := strings.ToLower(os.Getenv(constants.EnvEventPublisher))
	if source == "" {
		source = constants.PublisherNATS
	}

	switch source {
	case constants.PublisherNATS:
		config, err := nats.NewConfigFromEnv()
		if err != nil {
			return nil, errors.NewValidation("invalid NATS configuration", err)
		}
		client, err := nats.NewClient(ctx, config)
		if err != nil {
			return nil, err
		}
		slog.InfoContext(ctx, "initializing NATS event publisher", "encoding", encoder.ContentType())
		return nats.NewEventPublisher(client, encoder), nil

	case constants.PublisherRabbitMQ:
		slog.InfoContext(ctx, "initializing RabbitMQ event publisher", "encoding", encoder.ContentType())
		publisher, err := rabbitmq.NewEventPublisher(ctx, rabbitmq.NewConfigFromEnv(), encoder)
		if err != nil {
			return nil, err
		}
		return publisher, nil

	case constants.PublisherMock:
		slog.InfoContext(ctx, "initializing mock event publisher")
		return mock.NewMockEventPublisher(), nil

	default:
		return nil, errors.NewValidation("unsupported event publisher implementation: " + source)
	}
}
