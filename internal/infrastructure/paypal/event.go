// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package paypal

import (
	"encoding/json"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/utils"
)

// event is the PayPal webhook body
type event struct {
	ID           string          `json:"id"`
	EventType    string          `json:"event_type"`
	CreateTime   string          `json:"create_time"`
	ResourceType string          `json:"resource_type"`
	Summary      string          `json:"summary"`
	EventVersion *string         `json:"event_version"`
	Resource     json.RawMessage `json:"resource"`
}

func parseEvent(body []byte, liveMode bool) (*model.WebhookEnvelope, error) {
	var e event
	if err := json.Unmarshal(body, &e); err != nil {
		return nil, errors.NewDeserialization("paypal webhook payload is not a valid event", err)
	}

	if e.ID == "" {
		return nil, errors.NewDeserialization("paypal webhook payload is missing required field: id")
	}
	if e.EventType == "" {
		return nil, errors.NewDeserialization("paypal webhook payload is missing required field: event_type")
	}

	envelope := &model.WebhookEnvelope{
		Provider:   model.ProviderPayPal,
		ID:         e.ID,
		EventType:  model.ClassifyEvent(model.ProviderPayPal, e.EventType),
		LiveMode:   liveMode,
		APIVersion: e.EventVersion,
		Resource:   e.Resource,
	}

	if e.CreateTime != "" {
		createdAt, err := utils.ValidateRFC3339(e.CreateTime)
		if err != nil {
			return nil, errors.NewDeserialization("paypal webhook create_time is invalid", err)
		}
		envelope.CreatedAt = createdAt.Unix()
	}

	return envelope, nil
}
