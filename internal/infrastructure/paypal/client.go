// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package paypal verifies PayPal webhooks by remote attestation against the
// PayPal REST API.
package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/httpclient"
)

// bearerAuthRoundTripper injects the cached OAuth2 access token into every request
type bearerAuthRoundTripper struct {
	source oauth2.TokenSource
}

// RoundTrip adds the Authorization header. The token source caches the token
// and only hits the token endpoint when it is missing or about to expire.
func (rt *bearerAuthRoundTripper) RoundTrip(req *http.Request, next func(*http.Request) (*http.Response, error)) (*http.Response, error) {
	token, err := rt.source.Token()
	if err != nil {
		return nil, &tokenError{err: err}
	}

	token.SetAuthHeader(req)
	slog.DebugContext(req.Context(), "RoundTripper: using PayPal access token",
		"path", req.URL.Path, "expiry", token.Expiry)

	return next(req)
}

// Client submits webhook verification requests to PayPal over an
// authenticated session
type Client struct {
	config      Config
	httpClient  *httpclient.Client
	tokenSource oauth2.TokenSource
}

// NewClient creates a new PayPal client with the given configuration
func NewClient(cfg Config) (*Client, error) {
	if cfg.MockMode {
		return nil, errors.NewValidation("PayPal client is not available in mock mode, use a mock remote attestor")
	}

	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.NewValidation("client id and client secret are required for the PayPal client")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig().BaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	tokenHTTPClient := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, tokenHTTPClient)

	credentials := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.BaseURL + constants.PayPalTokenPath,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	httpConfig := httpclient.Config{
		Timeout:      cfg.Timeout,
		MaxRetries:   cfg.MaxRetries,
		RetryDelay:   cfg.RetryDelay,
		RetryBackoff: true,
		MaxDelay:     5 * time.Second,
	}

	client := &Client{
		config:      cfg,
		httpClient:  httpclient.NewClient(httpConfig),
		tokenSource: credentials.TokenSource(tokenCtx),
	}

	client.httpClient.AddRoundTripper(&bearerAuthRoundTripper{source: client.tokenSource})

	slog.InfoContext(context.Background(), "PayPal client initialized with OAuth2 client credentials",
		"base_url", cfg.BaseURL,
		"environment", cfg.Environment,
	)

	return client, nil
}

// Attest posts the attestation request to the verify-webhook-signature endpoint
func (c *Client) Attest(ctx context.Context, request *model.RemoteAttestationRequest) (*model.RemoteAttestationResponse, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, errors.NewDeserialization("failed to encode PayPal verification request", err)
	}

	resp, err := c.httpClient.Request(ctx, http.MethodPost, c.config.BaseURL+constants.PayPalVerifyWebhookPath,
		bytes.NewReader(payload), map[string]string{"Content-Type": "application/json"})
	if err != nil {
		return nil, MapHTTPError(ctx, err)
	}

	var response model.RemoteAttestationResponse
	if err := json.Unmarshal(resp.Body, &response); err != nil {
		return nil, errors.NewRemoteUnavailable("PayPal verification response could not be decoded", err)
	}

	return &response, nil
}

// IsReady checks that an access token can be obtained
func (c *Client) IsReady(ctx context.Context) error {
	if _, err := c.tokenSource.Token(); err != nil {
		return fmt.Errorf("PayPal API unreachable: %w", MapHTTPError(ctx, &tokenError{err: err}))
	}
	return nil
}
