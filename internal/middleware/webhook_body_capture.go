// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package middleware provides HTTP middlewares for the payment webhook API.
package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/constants"
)

// WebhookBodyCaptureMiddleware captures the raw request body of webhook
// requests before anything else reads it. Signature verification needs the
// exact bytes that were signed, and Square also signs the public URL, which
// is stored alongside the body.
func WebhookBodyCaptureMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, constants.WebhookPathPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, constants.MaxWebhookBodyBytes)

			body, err := io.ReadAll(r.Body)
			if err != nil {
				var maxBytesErr *http.MaxBytesError
				if errors.As(err, &maxBytesErr) {
					http.Error(w, "request body too large, max 10MB allowed", http.StatusRequestEntityTooLarge)
					return
				}
				http.Error(w, "failed to read request body", http.StatusBadRequest)
				return
			}

			// Replace body so the handler can still read it
			r.Body = io.NopCloser(bytes.NewReader(body))

			ctx := context.WithValue(r.Context(), constants.WebhookBodyContextKey, body)
			ctx = context.WithValue(ctx, constants.WebhookRequestURLContextKey, PublicURL(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PublicURL rebuilds the URL the provider called, honoring the forwarding
// headers set by the ingress
func PublicURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get(constants.ForwardedProtoHeader); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}

	host := r.Host
	if forwardedHost := r.Header.Get(constants.ForwardedHostHeader); forwardedHost != "" {
		host = strings.TrimSpace(strings.Split(forwardedHost, ",")[0])
	}

	return scheme + "://" + host + r.URL.RequestURI()
}

// WebhookBody returns the body captured by WebhookBodyCaptureMiddleware
func WebhookBody(ctx context.Context) ([]byte, bool) {
	body, ok := ctx.Value(constants.WebhookBodyContextKey).([]byte)
	return body, ok
}
