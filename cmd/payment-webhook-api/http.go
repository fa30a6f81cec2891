// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"goa.design/clue/health"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/middleware"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/constants"
)

// newRouter mounts the webhook and health endpoints
func newRouter(webhooks http.Handler, checker health.Checker) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestIDMiddleware())

	r.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Get("/readyz", health.Handler(checker))

	r.With(middleware.WebhookBodyCaptureMiddleware()).
		Method(http.MethodPost, constants.WebhookPathPrefix+"{provider}", webhooks)

	return r
}

// newHTTPServer wraps the router with OpenTelemetry instrumentation
func newHTTPServer(addr string, webhooks http.Handler, checker health.Checker) *http.Server {
	handler := otelhttp.NewHandler(newRouter(webhooks, checker), constants.ServiceName,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/livez" && r.URL.Path != "/readyz"
		}),
	)

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
}

func serve(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
