// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import "encoding/json"

// VerifiedEvent is the message published for downstream consumers once a
// webhook passed verification.
type VerifiedEvent struct {
	Provider  Provider        `json:"provider" msgpack:"provider"`
	ID        string          `json:"id" msgpack:"id"`
	Kind      EventKind       `json:"kind" msgpack:"kind"`
	Name      string          `json:"name" msgpack:"name"`
	ObjectID  string          `json:"object_id,omitempty" msgpack:"object_id,omitempty"`
	CreatedAt int64           `json:"created_at" msgpack:"created_at"`
	LiveMode  bool            `json:"live_mode" msgpack:"live_mode"`
	RequestID string          `json:"request_id,omitempty" msgpack:"request_id,omitempty"`
	Resource  json.RawMessage `json:"resource,omitempty" msgpack:"resource,omitempty"`
}

// NewVerifiedEvent flattens an envelope into its published form
func NewVerifiedEvent(envelope WebhookEnvelope) VerifiedEvent {
	event := VerifiedEvent{
		Provider:  envelope.Provider,
		ID:        envelope.ID,
		Kind:      envelope.EventType.Kind,
		Name:      envelope.EventType.Name,
		CreatedAt: envelope.CreatedAt,
		LiveMode:  envelope.LiveMode,
		Resource:  envelope.Resource,
	}
	if id, ok := envelope.ObjectID(); ok {
		event.ObjectID = id
	}
	if envelope.Request != nil {
		event.RequestID = envelope.Request.RequestID
	}
	return event
}
