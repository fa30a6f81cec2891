// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/log"
)

// RequestIDMiddleware propagates the caller's X-Request-Id or generates one,
// echoes it on the response and attaches it to every log record of the request
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(constants.RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}

			w.Header().Set(constants.RequestIDHeader, requestID)

			ctx := context.WithValue(r.Context(), constants.RequestIDContextKey, requestID)
			ctx = log.AppendCtx(ctx, slog.String(string(constants.RequestIDContextKey), requestID))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestID returns the request id stored by RequestIDMiddleware
func RequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(constants.RequestIDContextKey).(string)
	return requestID
}
