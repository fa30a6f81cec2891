// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"bytes"
	"encoding/json"
	"slices"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/errors"
)

// WebhookEnvelope is a verified provider notification.
// It is built once by a verifier and must be treated as read-only afterwards.
type WebhookEnvelope struct {
	Provider           Provider
	ID                 string
	EventType          EventType
	CreatedAt          int64
	LiveMode           bool
	PendingCount       int64
	APIVersion         *string
	Resource           json.RawMessage
	PreviousAttributes json.RawMessage
	Request            *RequestMetadata
}

// Clone returns a deep copy, so the receiver of the copy can not change the
// bytes or pointers seen through the original.
func (e WebhookEnvelope) Clone() WebhookEnvelope {
	clone := e
	clone.Resource = slices.Clone(e.Resource)
	clone.PreviousAttributes = slices.Clone(e.PreviousAttributes)
	if e.APIVersion != nil {
		version := *e.APIVersion
		clone.APIVersion = &version
	}
	if e.Request != nil {
		request := *e.Request
		if e.Request.IdempotencyKey != nil {
			key := *e.Request.IdempotencyKey
			request.IdempotencyKey = &key
		}
		clone.Request = &request
	}
	return clone
}

// RequestMetadata identifies the API request that caused the event, if any
type RequestMetadata struct {
	RequestID      string  `json:"id"`
	IdempotencyKey *string `json:"idempotency_key,omitempty"`
}

// UnmarshalJSON accepts both the object form and the legacy bare request id string.
func (r *RequestMetadata) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = RequestMetadata{RequestID: id}
		return nil
	}

	var wire struct {
		ID             *string `json:"id"`
		IdempotencyKey *string `json:"idempotency_key"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*r = RequestMetadata{IdempotencyKey: wire.IdempotencyKey}
	if wire.ID != nil {
		r.RequestID = *wire.ID
	}
	return nil
}

// envelopeWire is the "id/type/created/data.object" event layout
type envelopeWire struct {
	ID              string           `json:"id"`
	Type            string           `json:"type"`
	Created         int64            `json:"created"`
	LiveMode        bool             `json:"livemode"`
	PendingWebhooks int64            `json:"pending_webhooks"`
	APIVersion      *string          `json:"api_version"`
	Request         *RequestMetadata `json:"request"`
	Data            struct {
		Object             json.RawMessage `json:"object"`
		PreviousAttributes json.RawMessage `json:"previous_attributes"`
	} `json:"data"`
}

// ParseWebhookEnvelope decodes a verified payload into a WebhookEnvelope and
// classifies its type for the given provider. Unknown fields are ignored.
func ParseWebhookEnvelope(provider Provider, payload []byte) (*WebhookEnvelope, error) {
	var wire envelopeWire
	if err := json.Unmarshal(payload, &wire); err != nil {
		return nil, errors.NewDeserialization("webhook payload is not a valid event", err)
	}

	if wire.ID == "" {
		return nil, errors.NewDeserialization("webhook payload is missing required field: id")
	}
	if wire.Type == "" {
		return nil, errors.NewDeserialization("webhook payload is missing required field: type")
	}

	return &WebhookEnvelope{
		Provider:           provider,
		ID:                 wire.ID,
		EventType:          ClassifyEvent(provider, wire.Type),
		CreatedAt:          wire.Created,
		LiveMode:           wire.LiveMode,
		PendingCount:       wire.PendingWebhooks,
		APIVersion:         wire.APIVersion,
		Resource:           nonNull(wire.Data.Object),
		PreviousAttributes: nonNull(wire.Data.PreviousAttributes),
		Request:            wire.Request,
	}, nil
}

// ObjectID returns the "id" of the nested resource, if it has one
func (e WebhookEnvelope) ObjectID() (string, bool) {
	if len(e.Resource) == 0 {
		return "", false
	}

	var resource struct {
		ID any `json:"id"`
	}
	if err := json.Unmarshal(e.Resource, &resource); err != nil {
		return "", false
	}

	id, ok := resource.ID.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// nonNull drops absent and explicit null raw values
func nonNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	return raw
}
