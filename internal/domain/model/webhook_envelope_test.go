// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"encoding/json"
	"errors"
	"testing"

	pkgerrors "github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const paymentIntentSucceeded = `{
  "id": "evt_1",
  "object": "event",
  "api_version": "2024-06-20",
  "created": 1700000000,
  "livemode": false,
  "pending_webhooks": 2,
  "type": "payment_intent.succeeded",
  "request": {"id": "req_abc", "idempotency_key": "idem-1"},
  "data": {
    "object": {"id": "pi_123", "object": "payment_intent", "amount": 2000},
    "previous_attributes": {"status": "processing"}
  },
  "some_future_field": {"nested": true}
}`

func TestParseWebhookEnvelope(t *testing.T) {
	envelope, err := ParseWebhookEnvelope(ProviderStripe, []byte(paymentIntentSucceeded))
	require.NoError(t, err)

	assert.Equal(t, ProviderStripe, envelope.Provider)
	assert.Equal(t, "evt_1", envelope.ID)
	assert.Equal(t, EventType{Kind: KindPaymentSucceeded, Name: "payment_intent.succeeded"}, envelope.EventType)
	assert.Equal(t, int64(1700000000), envelope.CreatedAt)
	assert.False(t, envelope.LiveMode)
	assert.Equal(t, int64(2), envelope.PendingCount)
	require.NotNil(t, envelope.APIVersion)
	assert.Equal(t, "2024-06-20", *envelope.APIVersion)
	assert.JSONEq(t, `{"status":"processing"}`, string(envelope.PreviousAttributes))

	require.NotNil(t, envelope.Request)
	assert.Equal(t, "req_abc", envelope.Request.RequestID)
	require.NotNil(t, envelope.Request.IdempotencyKey)
	assert.Equal(t, "idem-1", *envelope.Request.IdempotencyKey)

	id, ok := envelope.ObjectID()
	assert.True(t, ok)
	assert.Equal(t, "pi_123", id)
}

func TestParseWebhookEnvelope_OptionalFieldsAbsent(t *testing.T) {
	envelope, err := ParseWebhookEnvelope(ProviderStripe, []byte(`{"id":"evt_2","type":"balance.available","data":{"object":{"object":"balance"},"previous_attributes":null},"request":null}`))
	require.NoError(t, err)

	assert.Nil(t, envelope.APIVersion)
	assert.Nil(t, envelope.PreviousAttributes)
	assert.Nil(t, envelope.Request)
	assert.True(t, envelope.EventType.IsOther())

	id, ok := envelope.ObjectID()
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestParseWebhookEnvelope_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: `not json`},
		{name: "array", payload: `[]`},
		{name: "missing id", payload: `{"type":"charge.refunded"}`},
		{name: "missing type", payload: `{"id":"evt_1"}`},
		{name: "id wrong type", payload: `{"id":42,"type":"charge.refunded"}`},
		{name: "empty", payload: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envelope, err := ParseWebhookEnvelope(ProviderStripe, []byte(tt.payload))

			assert.Nil(t, envelope)
			var deserialization pkgerrors.Deserialization
			assert.True(t, errors.As(err, &deserialization), "expected Deserialization, got %T", err)
		})
	}
}

func TestRequestMetadata_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		requestID      string
		idempotencyKey *string
	}{
		{name: "legacy string form", input: `"req_legacy"`, requestID: "req_legacy"},
		{name: "object form", input: `{"id":"req_1","idempotency_key":"key-1"}`, requestID: "req_1", idempotencyKey: stringPtr("key-1")},
		{name: "dashboard event with null id", input: `{"id":null,"idempotency_key":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var metadata RequestMetadata
			require.NoError(t, json.Unmarshal([]byte(tt.input), &metadata))

			assert.Equal(t, tt.requestID, metadata.RequestID)
			assert.Equal(t, tt.idempotencyKey, metadata.IdempotencyKey)
		})
	}

	var metadata RequestMetadata
	assert.Error(t, json.Unmarshal([]byte(`42`), &metadata))
}

func TestWebhookEnvelope_ObjectID(t *testing.T) {
	tests := []struct {
		name     string
		resource string
		expected string
		ok       bool
	}{
		{name: "string id", resource: `{"id":"cus_1"}`, expected: "cus_1", ok: true},
		{name: "no id", resource: `{"object":"balance"}`},
		{name: "numeric id", resource: `{"id":7}`},
		{name: "empty id", resource: `{"id":""}`},
		{name: "not an object", resource: `["a"]`},
		{name: "absent", resource: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envelope := WebhookEnvelope{Resource: json.RawMessage(tt.resource)}

			id, ok := envelope.ObjectID()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestNewVerifiedEvent(t *testing.T) {
	envelope, err := ParseWebhookEnvelope(ProviderStripe, []byte(paymentIntentSucceeded))
	require.NoError(t, err)

	event := NewVerifiedEvent(*envelope)

	assert.Equal(t, ProviderStripe, event.Provider)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, KindPaymentSucceeded, event.Kind)
	assert.Equal(t, "payment_intent.succeeded", event.Name)
	assert.Equal(t, "pi_123", event.ObjectID)
	assert.Equal(t, "req_abc", event.RequestID)
	assert.Equal(t, int64(1700000000), event.CreatedAt)
	assert.JSONEq(t, `{"id":"pi_123","object":"payment_intent","amount":2000}`, string(event.Resource))
}

func TestWebhookEnvelope_Clone(t *testing.T) {
	original := WebhookEnvelope{
		Provider:           ProviderStripe,
		ID:                 "evt_1",
		APIVersion:         stringPtr("2024-06-20"),
		Resource:           json.RawMessage(`{"id":"pi_1"}`),
		PreviousAttributes: json.RawMessage(`{"status":"pending"}`),
		Request:            &RequestMetadata{RequestID: "req_1", IdempotencyKey: stringPtr("key-1")},
	}

	clone := original.Clone()
	clone.Resource[2] = 'X'
	clone.PreviousAttributes[2] = 'X'
	*clone.APIVersion = "changed"
	clone.Request.RequestID = "changed"
	*clone.Request.IdempotencyKey = "changed"

	assert.Equal(t, `{"id":"pi_1"}`, string(original.Resource))
	assert.Equal(t, `{"status":"pending"}`, string(original.PreviousAttributes))
	assert.Equal(t, "2024-06-20", *original.APIVersion)
	assert.Equal(t, "req_1", original.Request.RequestID)
	assert.Equal(t, "key-1", *original.Request.IdempotencyKey)

	empty := WebhookEnvelope{ID: "evt_2"}.Clone()
	assert.Nil(t, empty.Resource)
	assert.Nil(t, empty.Request)
	assert.Nil(t, empty.APIVersion)
}

func stringPtr(s string) *string {
	return &s
}
