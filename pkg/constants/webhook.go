// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

import "time"

// Webhook providers, as they appear in the /webhooks/{provider} route
const (
	ProviderStripe = "stripe"
	ProviderPayPal = "paypal"
	ProviderSquare = "square"
)

// Webhook retry configuration used around remote attestation
const (
	WebhookMaxRetries     = 3
	WebhookRetryBaseDelay = 100  // milliseconds
	WebhookRetryMaxDelay  = 5000 // milliseconds
)

// Freshness tolerances
const (
	// DefaultStripeTolerance is the maximum age of a Stripe signature timestamp
	DefaultStripeTolerance = 300 * time.Second

	// DefaultSquareTolerance is the maximum age of a Square notification created_at
	DefaultSquareTolerance = 60 * time.Second
)

// Stripe webhook header and signature scheme
const (
	StripeSignatureHeader = "Stripe-Signature"

	// SignatureTimestampKey and SignatureSchemeV1 are the token keys of the signature header
	SignatureTimestampKey = "t"
	SignatureSchemeV1     = "v1"
)

// Square webhook header
const (
	SquareSignatureHeader = "X-Square-Hmacsha256-Signature"
)

// PayPal webhook headers. PayPalHeaderPrefix is stripped when reporting a missing header.
const (
	PayPalHeaderPrefix           = "paypal-"
	PayPalAuthAlgoHeader         = "paypal-auth-algo"
	PayPalCertURLHeader          = "paypal-cert-url"
	PayPalTransmissionIDHeader   = "paypal-transmission-id"
	PayPalTransmissionSigHeader  = "paypal-transmission-sig"
	PayPalTransmissionTimeHeader = "paypal-transmission-time"
)

// PayPal remote attestation
const (
	// PayPalTrustedDomain is the only domain certificate URLs may be served from
	PayPalTrustedDomain = "paypal.com"

	// PayPalVerifyWebhookPath is the provider endpoint performing signature verification
	PayPalVerifyWebhookPath = "/v1/notifications/verify-webhook-signature"

	// PayPalTokenPath is the OAuth2 client-credentials token endpoint
	PayPalTokenPath = "/v1/oauth2/token"

	// PayPalVerificationSuccess is the only verification_status value treated as success
	PayPalVerificationSuccess = "SUCCESS"

	PayPalEnvironmentLive    = "live"
	PayPalEnvironmentSandbox = "sandbox"
)
