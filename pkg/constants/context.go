// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package constants defines shared context key types used throughout the payment webhook service.
package constants

// ContextKey is the unified type for all context keys to prevent type mismatches
type ContextKey string

// Context keys for various middleware and service contexts
const (
	// RequestIDContextKey is the context key for request ID
	RequestIDContextKey ContextKey = "request-id"

	// WebhookBodyContextKey is the context key for the raw webhook body captured by middleware
	WebhookBodyContextKey ContextKey = "webhook-body"

	// WebhookRequestURLContextKey is the context key for the externally visible webhook URL
	WebhookRequestURLContextKey ContextKey = "webhook-request-url"
)
