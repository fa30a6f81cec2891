// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/model"
)

func testEvent() model.VerifiedEvent {
	return model.VerifiedEvent{
		Provider:  model.ProviderStripe,
		ID:        "evt_1",
		Kind:      model.KindPaymentSucceeded,
		Name:      "payment_intent.succeeded",
		ObjectID:  "pi_1",
		CreatedAt: 1700000000,
		LiveMode:  true,
		Resource:  json.RawMessage(`{"id":"pi_1","amount":2000}`),
	}
}

func TestNewEncoder(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		wantErr     bool
	}{
		{name: "", contentType: "application/json"},
		{name: "json", contentType: "application/json"},
		{name: " MsgPack ", contentType: "application/msgpack"},
		{name: "protobuf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoder, err := NewEncoder(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.contentType, encoder.ContentType())
		})
	}
}

func TestJSONEncoder(t *testing.T) {
	encoder, err := NewEncoder("json")
	require.NoError(t, err)

	data, err := encoder.Encode(testEvent())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"provider": "stripe",
		"id": "evt_1",
		"kind": "payment_succeeded",
		"name": "payment_intent.succeeded",
		"object_id": "pi_1",
		"created_at": 1700000000,
		"live_mode": true,
		"resource": {"id": "pi_1", "amount": 2000}
	}`, string(data))
}

func TestMsgpackEncoder(t *testing.T) {
	encoder, err := NewEncoder("msgpack")
	require.NoError(t, err)

	data, err := encoder.Encode(testEvent())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, msgpack.Unmarshal(data, &decoded))
	assert.Equal(t, "stripe", decoded["provider"])
	assert.Equal(t, "payment_succeeded", decoded["kind"])
	assert.Equal(t, "pi_1", decoded["object_id"])
	assert.Equal(t, true, decoded["live_mode"])
	assert.NotContains(t, decoded, "request_id")
}

func TestSubjectAndRoutingKey(t *testing.T) {
	event := testEvent()
	assert.Equal(t, "stripe.payment_succeeded", RoutingKey(event))
	assert.Equal(t, "lfx.payments.webhook.stripe.payment_succeeded", Subject(event))

	event.Provider = model.ProviderSquare
	event.Kind = model.KindOther
	assert.Equal(t, "lfx.payments.webhook.square.other", Subject(event))
}
