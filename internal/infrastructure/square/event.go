// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package square

import (
	"encoding/json"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/utils"
)

// notification is the Square webhook body
type notification struct {
	MerchantID string `json:"merchant_id"`
	LocationID string `json:"location_id,omitempty"`
	Type       string `json:"type"`
	EventID    string `json:"event_id"`
	CreatedAt  string `json:"created_at"`
	Data       struct {
		Type   string                     `json:"type"`
		ID     string                     `json:"id"`
		Object map[string]json.RawMessage `json:"object"`
	} `json:"data"`
}

func parseNotification(body []byte) (*notification, error) {
	var n notification
	if err := json.Unmarshal(body, &n); err != nil {
		return nil, errors.NewDeserialization("square notification is not valid JSON", err)
	}

	if n.EventID == "" {
		return nil, errors.NewDeserialization("square notification is missing required field: event_id")
	}
	if n.Type == "" {
		return nil, errors.NewDeserialization("square notification is missing required field: type")
	}
	if n.CreatedAt == "" {
		return nil, errors.NewDeserialization("square notification is missing required field: created_at")
	}

	return &n, nil
}

// resource returns data.object.<data.type>, the entity the event is about
func (n *notification) resource() json.RawMessage {
	if raw, ok := n.Data.Object[n.Data.Type]; ok {
		return raw
	}
	if n.Data.Object == nil {
		return nil
	}
	raw, err := json.Marshal(n.Data.Object)
	if err != nil {
		return nil
	}
	return raw
}

func (n *notification) toEnvelope(liveMode bool) (*model.WebhookEnvelope, error) {
	createdAt, err := utils.ValidateRFC3339(n.CreatedAt)
	if err != nil {
		return nil, errors.NewDeserialization("square notification created_at is invalid", err)
	}

	return &model.WebhookEnvelope{
		Provider:  model.ProviderSquare,
		ID:        n.EventID,
		EventType: model.ClassifyEvent(model.ProviderSquare, n.Type),
		CreatedAt: createdAt.Unix(),
		LiveMode:  liveMode,
		Resource:  n.resource(),
	}, nil
}
