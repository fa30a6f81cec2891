// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// HTTP header constants
const (
	// RequestIDHeader is the HTTP header name for request ID
	RequestIDHeader = "X-Request-Id"

	// ForwardedProtoHeader and ForwardedHostHeader are used to rebuild the public webhook URL
	// behind a load balancer.
	ForwardedProtoHeader = "X-Forwarded-Proto"
	ForwardedHostHeader  = "X-Forwarded-Host"
)

// HTTP server constants
const (
	// WebhookPathPrefix is the route prefix for all provider webhook endpoints
	WebhookPathPrefix = "/webhooks/"

	// MaxWebhookBodyBytes limits the size of a webhook body to prevent memory exhaustion
	MaxWebhookBodyBytes = 10 * 1024 * 1024
)
