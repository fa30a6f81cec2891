// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package codec encodes verified events for the messaging publishers.
package codec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/errors"
)

// Encoder turns a verified event into a message body
type Encoder interface {
	Encode(event model.VerifiedEvent) ([]byte, error)
	ContentType() string
}

type jsonEncoder struct{}

func (jsonEncoder) Encode(event model.VerifiedEvent) ([]byte, error) {
	return json.Marshal(event)
}

func (jsonEncoder) ContentType() string {
	return "application/json"
}

type msgpackEncoder struct{}

// Encode writes the event as MessagePack. The resource stays a JSON document
// so consumers decode it the same way regardless of the envelope encoding.
func (msgpackEncoder) Encode(event model.VerifiedEvent) ([]byte, error) {
	return msgpack.Marshal(event)
}

func (msgpackEncoder) ContentType() string {
	return "application/msgpack"
}

// NewEncoder returns the encoder registered under name; empty selects JSON
func NewEncoder(name string) (Encoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", constants.EncodingJSON:
		return jsonEncoder{}, nil
	case constants.EncodingMsgpack:
		return msgpackEncoder{}, nil
	default:
		return nil, errors.NewValidation(fmt.Sprintf("unsupported event encoding %q", name))
	}
}

// Subject returns the NATS subject for an event: lfx.payments.webhook.<provider>.<kind>
func Subject(event model.VerifiedEvent) string {
	return constants.PaymentWebhookSubjectPrefix + "." + RoutingKey(event)
}

// RoutingKey returns the topic routing key for an event: <provider>.<kind>
func RoutingKey(event model.VerifiedEvent) string {
	return event.Provider.String() + "." + string(event.Kind)
}
