// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package paypal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/port"
	pkgerrors "github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const captureCompleted = `{"id":"WH-58D329510W468432D-8HN650336L201105X","event_version":"1.0","create_time":"2024-03-05T10:00:00.000Z","resource_type":"capture","event_type":"PAYMENT.CAPTURE.COMPLETED","summary":"Payment completed for $ 7.47 USD","resource":{"id":"42311647XV020574X","status":"COMPLETED"}}`

// fakePayPal emulates the token and verify-webhook-signature endpoints
type fakePayPal struct {
	server        *httptest.Server
	tokenCalls    int32
	verifyCalls   int32
	tokenStatus   int
	verifyStatus  int
	verdict       string
	verifyDelay   time.Duration
	lastRequest   model.RemoteAttestationRequest
	lastAuthority string
}

func newFakePayPal(t *testing.T) *fakePayPal {
	t.Helper()
	f := &fakePayPal{tokenStatus: http.StatusOK, verifyStatus: http.StatusOK, verdict: "SUCCESS"}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.tokenCalls, 1)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)
		if f.tokenStatus != http.StatusOK {
			w.WriteHeader(f.tokenStatus)
			_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"A21AAtest","token_type":"Bearer","expires_in":32400}`))
	})
	mux.HandleFunc("/v1/notifications/verify-webhook-signature", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.verifyCalls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		f.lastAuthority = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&f.lastRequest))
		if f.verifyDelay > 0 {
			select {
			case <-time.After(f.verifyDelay):
			case <-r.Context().Done():
				return
			}
		}
		w.WriteHeader(f.verifyStatus)
		_, _ = w.Write([]byte(`{"verification_status":"` + f.verdict + `"}`))
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakePayPal) calls() int32 {
	return atomic.LoadInt32(&f.tokenCalls) + atomic.LoadInt32(&f.verifyCalls)
}

func newTestVerifier(t *testing.T, f *fakePayPal) port.WebhookVerifier {
	t.Helper()
	client, err := NewClient(Config{
		BaseURL:      f.server.URL,
		Environment:  "sandbox",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Timeout:      2 * time.Second,
		MaxRetries:   1,
		RetryDelay:   time.Millisecond,
	})
	require.NoError(t, err)

	verifier, err := NewWebhookVerifier(client, "WH-ID-1", false)
	require.NoError(t, err)
	return verifier
}

func validHeaders() http.Header {
	headers := http.Header{}
	headers.Set("PAYPAL-AUTH-ALGO", "SHA256withRSA")
	headers.Set("PAYPAL-CERT-URL", "https://api.sandbox.paypal.com/v1/notifications/certs/CERT-360caa42-fca2a594-1d93a270")
	headers.Set("PAYPAL-TRANSMISSION-ID", "69cd13f0-d67a-11e5-baa3-778b53f4ae55")
	headers.Set("PAYPAL-TRANSMISSION-SIG", "lmI95Jx3Y9nhR5SJWlHVIWpg4AgFk7n9bCHSRxbrd8A9zrhdu2rMyFrmz+Zjh3s3boXB07VXCXUZy/UFzUlnGJn0wDugt7FlSvdKeIJenLRemUxYCPVoEZzg9VFNqOa48gMkvF+XTpxBeUx/kWy6B5cp7GkT2+pOowfRK7OaynuxUoKW3JcMWw272VKjLTtTAShncla7tGF+55rxyt2KNZIIqxNMJ48RDZheGU5w1npu9dZHnPgTXB9iomeVRoD8O/jhRpnKsGrDschyNdkeh81BJJMH4Ctc6lnCCquoP/GzCzz33MMsNdid7vL/NIWaCsekQpW26FpWPi/tfj8nLA==")
	headers.Set("PAYPAL-TRANSMISSION-TIME", "2016-02-18T20:01:35Z")
	return headers
}

func TestWebhookVerifier_Verify_Success(t *testing.T) {
	f := newFakePayPal(t)
	verifier := newTestVerifier(t, f)

	envelope, err := verifier.Verify(context.Background(), []byte(captureCompleted), validHeaders())
	require.NoError(t, err)

	assert.Equal(t, model.ProviderPayPal, envelope.Provider)
	assert.Equal(t, "WH-58D329510W468432D-8HN650336L201105X", envelope.ID)
	assert.Equal(t, model.EventType{Kind: model.KindPaymentSucceeded, Name: "PAYMENT.CAPTURE.COMPLETED"}, envelope.EventType)
	assert.Equal(t, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC).Unix(), envelope.CreatedAt)
	assert.False(t, envelope.LiveMode)
	require.NotNil(t, envelope.APIVersion)
	assert.Equal(t, "1.0", *envelope.APIVersion)

	id, ok := envelope.ObjectID()
	assert.True(t, ok)
	assert.Equal(t, "42311647XV020574X", id)

	assert.Equal(t, "Bearer A21AAtest", f.lastAuthority)
	assert.Equal(t, "WH-ID-1", f.lastRequest.WebhookID)
	assert.Equal(t, "SHA256withRSA", f.lastRequest.AuthAlgo)
	assert.Equal(t, "69cd13f0-d67a-11e5-baa3-778b53f4ae55", f.lastRequest.TransmissionID)
	assert.Equal(t, "2016-02-18T20:01:35Z", f.lastRequest.TransmissionTime)
	assert.JSONEq(t, captureCompleted, string(f.lastRequest.WebhookEvent))
}

func TestWebhookVerifier_Verify_TokenIsReused(t *testing.T) {
	f := newFakePayPal(t)
	verifier := newTestVerifier(t, f)

	for i := 0; i < 3; i++ {
		_, err := verifier.Verify(context.Background(), []byte(captureCompleted), validHeaders())
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&f.tokenCalls))
	assert.Equal(t, int32(3), atomic.LoadInt32(&f.verifyCalls))
}

func TestWebhookVerifier_Verify_DefaultConfigDoesNotRetry(t *testing.T) {
	f := newFakePayPal(t)
	f.verifyStatus = http.StatusServiceUnavailable

	config := DefaultConfig()
	config.BaseURL = f.server.URL
	config.ClientID = "client-id"
	config.ClientSecret = "client-secret"
	client, err := NewClient(config)
	require.NoError(t, err)
	verifier, err := NewWebhookVerifier(client, "WH-ID-1", false)
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), []byte(captureCompleted), validHeaders())

	assert.True(t, pkgerrors.IsRetryable(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.verifyCalls), "retries belong to the webhook processor")
}

func TestWebhookVerifier_Verify_MissingHeader(t *testing.T) {
	tests := []struct {
		remove string
		field  string
	}{
		{remove: "Paypal-Auth-Algo", field: "auth-algo"},
		{remove: "Paypal-Cert-Url", field: "cert-url"},
		{remove: "Paypal-Transmission-Id", field: "transmission-id"},
		{remove: "Paypal-Transmission-Sig", field: "transmission-sig"},
		{remove: "Paypal-Transmission-Time", field: "transmission-time"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			f := newFakePayPal(t)
			verifier := newTestVerifier(t, f)
			headers := validHeaders()
			headers.Del(tt.remove)

			envelope, err := verifier.Verify(context.Background(), []byte(captureCompleted), headers)

			assert.Nil(t, envelope)
			var missing pkgerrors.MissingHeader
			require.True(t, errors.As(err, &missing), "expected MissingHeader, got %v", err)
			assert.Equal(t, tt.field, missing.Field)
			assert.Zero(t, f.calls(), "no network call expected")
		})
	}
}

func TestWebhookVerifier_Verify_MissingHeaderReportsFirst(t *testing.T) {
	f := newFakePayPal(t)
	verifier := newTestVerifier(t, f)

	_, err := verifier.Verify(context.Background(), []byte(captureCompleted), http.Header{})

	var missing pkgerrors.MissingHeader
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "auth-algo", missing.Field)
}

func TestWebhookVerifier_Verify_UntrustedCertificate(t *testing.T) {
	urls := []string{
		"https://evil.example.com/certs/CERT-1",
		"http://api.paypal.com/v1/notifications/certs/CERT-1",
		"https://paypal.com.evil.example.com/certs/CERT-1",
		"https://notpaypal.com/certs/CERT-1",
		"https://api.paypal.com@evil.example.com/certs/CERT-1",
		"ftp://paypal.com/cert",
		"://bad",
	}

	for _, certURL := range urls {
		t.Run(certURL, func(t *testing.T) {
			f := newFakePayPal(t)
			verifier := newTestVerifier(t, f)
			headers := validHeaders()
			headers.Set("Paypal-Cert-Url", certURL)

			envelope, err := verifier.Verify(context.Background(), []byte(captureCompleted), headers)

			assert.Nil(t, envelope)
			var untrusted pkgerrors.UntrustedCertificateSource
			assert.True(t, errors.As(err, &untrusted), "expected UntrustedCertificateSource, got %v", err)
			assert.Zero(t, f.calls(), "no network call expected")
		})
	}
}

func TestValidateCertURL_Trusted(t *testing.T) {
	for _, certURL := range []string{
		"https://paypal.com/cert",
		"https://api.paypal.com/v1/notifications/certs/CERT-1",
		"https://API.SANDBOX.PAYPAL.COM:443/cert",
	} {
		assert.NoError(t, validateCertURL(certURL), certURL)
	}
}

func TestWebhookVerifier_Verify_RemoteOutcomes(t *testing.T) {
	tests := []struct {
		name      string
		configure func(f *fakePayPal)
		ctx       func() (context.Context, context.CancelFunc)
		retryable bool
		target    any
	}{
		{
			name:      "failure verdict",
			configure: func(f *fakePayPal) { f.verdict = "FAILURE" },
			target:    &pkgerrors.RemoteVerificationFailed{},
		},
		{
			name:      "unexpected verdict",
			configure: func(f *fakePayPal) { f.verdict = "success" },
			target:    &pkgerrors.RemoteVerificationFailed{},
		},
		{
			name:      "server error",
			configure: func(f *fakePayPal) { f.verifyStatus = http.StatusServiceUnavailable },
			retryable: true,
			target:    &pkgerrors.RemoteUnavailable{},
		},
		{
			name:      "client error",
			configure: func(f *fakePayPal) { f.verifyStatus = http.StatusBadRequest },
			retryable: true,
			target:    &pkgerrors.RemoteUnavailable{},
		},
		{
			name:      "token rejected",
			configure: func(f *fakePayPal) { f.tokenStatus = http.StatusUnauthorized },
			retryable: true,
			target:    &pkgerrors.RemoteUnavailable{},
		},
		{
			name:      "timeout",
			configure: func(f *fakePayPal) { f.verifyDelay = time.Second },
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 50*time.Millisecond)
			},
			retryable: true,
			target:    &pkgerrors.RemoteUnavailable{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakePayPal(t)
			tt.configure(f)
			verifier := newTestVerifier(t, f)

			ctx, cancel := context.WithCancel(context.Background())
			if tt.ctx != nil {
				ctx, cancel = tt.ctx()
			}
			defer cancel()

			envelope, err := verifier.Verify(ctx, []byte(captureCompleted), validHeaders())

			assert.Nil(t, envelope)
			require.Error(t, err)
			assert.True(t, errors.As(err, tt.target), "unexpected error %T: %v", err, err)
			assert.Equal(t, tt.retryable, pkgerrors.IsRetryable(err))
		})
	}
}

func TestWebhookVerifier_Verify_InvalidBody(t *testing.T) {
	f := newFakePayPal(t)
	verifier := newTestVerifier(t, f)

	_, err := verifier.Verify(context.Background(), []byte(`{"id":`), validHeaders())

	var deserialization pkgerrors.Deserialization
	assert.True(t, errors.As(err, &deserialization))
	assert.Zero(t, f.calls())
}

func TestWebhookVerifier_Verify_VerifiedButMissingFields(t *testing.T) {
	f := newFakePayPal(t)
	verifier := newTestVerifier(t, f)

	_, err := verifier.Verify(context.Background(), []byte(`{"id":"WH-1"}`), validHeaders())

	var deserialization pkgerrors.Deserialization
	assert.True(t, errors.As(err, &deserialization))
}

func TestNewWebhookVerifier_Validation(t *testing.T) {
	_, err := NewWebhookVerifier(nil, "WH-1", true)
	assert.Error(t, err)

	f := newFakePayPal(t)
	client, err := NewClient(Config{BaseURL: f.server.URL, ClientID: "client-id", ClientSecret: "client-secret"})
	require.NoError(t, err)
	_, err = NewWebhookVerifier(client, "", true)
	assert.Error(t, err)
}

func TestNewClient(t *testing.T) {
	var validation pkgerrors.Validation

	client, err := NewClient(Config{MockMode: true, ClientID: "id", ClientSecret: "secret"})
	assert.Nil(t, client, "mock mode never yields a nil client with a nil error")
	assert.True(t, errors.As(err, &validation))

	_, err = NewClient(Config{ClientID: "id"})
	assert.True(t, errors.As(err, &validation))
}

func TestClient_IsReady(t *testing.T) {
	f := newFakePayPal(t)
	client, err := NewClient(Config{BaseURL: f.server.URL + "/", ClientID: "client-id", ClientSecret: "client-secret", Timeout: time.Second})
	require.NoError(t, err)

	assert.NoError(t, client.IsReady(context.Background()))

	broken := newFakePayPal(t)
	broken.tokenStatus = http.StatusUnauthorized
	client, err = NewClient(Config{BaseURL: broken.server.URL, ClientID: "client-id", ClientSecret: "client-secret", Timeout: time.Second})
	require.NoError(t, err)

	assert.Error(t, client.IsReady(context.Background()))
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("PAYPAL_ENVIRONMENT", "sandbox")
	t.Setenv("PAYPAL_BASE_URL", "")
	t.Setenv("PAYPAL_CLIENT_ID", "id")
	t.Setenv("PAYPAL_CLIENT_SECRET", "secret")
	t.Setenv("PAYPAL_WEBHOOK_ID", "WH-1")
	t.Setenv("PAYPAL_TIMEOUT", "3s")
	t.Setenv("PAYPAL_MAX_RETRIES", "4")
	t.Setenv("PAYPAL_RETRY_DELAY", "250ms")
	t.Setenv("PAYPAL_SOURCE", "")

	config := NewConfigFromEnv()

	assert.Equal(t, "https://api-m.sandbox.paypal.com", config.BaseURL)
	assert.False(t, config.LiveMode())
	assert.Equal(t, "id", config.ClientID)
	assert.Equal(t, "secret", config.ClientSecret)
	assert.Equal(t, "WH-1", config.WebhookID)
	assert.Equal(t, 3*time.Second, config.Timeout)
	assert.Equal(t, 4, config.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, config.RetryDelay)
	assert.False(t, config.MockMode)

	t.Setenv("PAYPAL_ENVIRONMENT", "")
	t.Setenv("PAYPAL_SOURCE", "mock")
	config = NewConfigFromEnv()
	assert.True(t, config.LiveMode())
	assert.True(t, config.MockMode)
	assert.Equal(t, "https://api-m.paypal.com", config.BaseURL)
}
