// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"goa.design/clue/health"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/cmd/payment-webhook-api/service"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/middleware"
)

func TestRouter_Health(t *testing.T) {
	healthy := health.NewChecker(service.NewPinger("event-publisher", func(context.Context) error { return nil }))
	unhealthy := health.NewChecker(service.NewPinger("event-publisher", func(context.Context) error { return errors.New("down") }))

	tests := []struct {
		name    string
		checker health.Checker
		path    string
		status  int
	}{
		{name: "livez", checker: unhealthy, path: "/livez", status: http.StatusOK},
		{name: "readyz ok", checker: healthy, path: "/readyz", status: http.StatusOK},
		{name: "readyz failing dependency", checker: unhealthy, path: "/readyz", status: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(http.NotFoundHandler(), tt.checker)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
		})
	}
}

func TestRouter_Webhook(t *testing.T) {
	var (
		provider string
		body     []byte
		captured bool
	)
	webhooks := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		provider = chi.URLParam(r, "provider")
		body, captured = middleware.WebhookBody(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	router := newRouter(webhooks, health.NewChecker())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(`{"id":"evt_1"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stripe", provider)
	assert.True(t, captured)
	assert.Equal(t, `{"id":"evt_1"}`, string(body))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webhooks/stripe", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNewHTTPServer(t *testing.T) {
	srv := newHTTPServer(":0", http.NotFoundHandler(), health.NewChecker())

	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/livez")
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(data))
}
