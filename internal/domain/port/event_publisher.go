// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/model"
)

// VerifiedEventPublisher forwards verified events to downstream consumers.
// Implemented by the NATS and RabbitMQ messaging infrastructure.
type VerifiedEventPublisher interface {
	Publish(ctx context.Context, event model.VerifiedEvent) error

	// IsReady reports whether the underlying connection can publish
	IsReady(ctx context.Context) error

	Close() error
}
