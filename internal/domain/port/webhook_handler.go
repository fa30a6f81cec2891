// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/model"
)

// WebhookHandler reacts to a verified webhook event. The dispatcher hands each
// handler a deep copy of the envelope, payload bytes included.
type WebhookHandler func(ctx context.Context, envelope model.WebhookEnvelope) error

// WebhookDispatcher routes verified events to their handlers
type WebhookDispatcher interface {
	Dispatch(ctx context.Context, envelope model.WebhookEnvelope) error
}
