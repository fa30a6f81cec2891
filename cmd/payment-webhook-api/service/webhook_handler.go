// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/middleware"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/errors"
)

// WebhookProcessor verifies and dispatches a raw notification
type WebhookProcessor interface {
	Process(ctx context.Context, provider model.Provider, body []byte, headers http.Header) (*model.WebhookEnvelope, error)
}

// WebhookHandler serves POST /webhooks/{provider}
type WebhookHandler struct {
	processor WebhookProcessor
}

// NewWebhookHandler creates the HTTP handler for provider webhooks
func NewWebhookHandler(processor WebhookProcessor) *WebhookHandler {
	return &WebhookHandler{processor: processor}
}

type webhookResponse struct {
	Received bool   `json:"received"`
	EventID  string `json:"event_id,omitempty"`
	Kind     string `json:"kind,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP verifies the notification and answers 200 once it was dispatched
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name := chi.URLParam(r, "provider")
	provider, ok := model.ParseProvider(name)
	if !ok {
		h.writeError(ctx, w, errors.NewNotFound(fmt.Sprintf("unknown webhook provider %q", name)))
		return
	}

	body, ok := middleware.WebhookBody(ctx)
	if !ok {
		var err error
		body, err = io.ReadAll(http.MaxBytesReader(w, r.Body, constants.MaxWebhookBodyBytes))
		if err != nil {
			h.writeError(ctx, w, errors.NewValidation("failed to read request body", err))
			return
		}
	}

	envelope, err := h.processor.Process(ctx, provider, body, r.Header)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	slog.InfoContext(ctx, "webhook accepted",
		"provider", provider,
		"event_id", envelope.ID,
		"event_type", envelope.EventType.String(),
	)

	writeJSON(ctx, w, http.StatusOK, webhookResponse{
		Received: true,
		EventID:  envelope.ID,
		Kind:     string(envelope.EventType.Kind),
	})
}

func (h *WebhookHandler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "30")
	}
	writeJSON(ctx, w, status, errorResponse{Error: errorMessage(ctx, status, err)})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(ctx, "failed to write webhook response", "error", err)
	}
}
