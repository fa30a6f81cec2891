// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingHeader(t *testing.T) {
	err := NewMissingHeader("transmission-sig")

	assert.Equal(t, "transmission-sig", err.Field)
	assert.Equal(t, "missing required webhook header: transmission-sig", err.Error())
	assert.Nil(t, err.Unwrap())

	wrapped := fmt.Errorf("paypal verification: %w", err)
	var missing MissingHeader
	require.True(t, errors.As(wrapped, &missing))
	assert.Equal(t, "transmission-sig", missing.Field)
}

func TestIsRetryable(t *testing.T) {
	rootCause := errors.New("connection refused")

	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{"remote unavailable", NewRemoteUnavailable("verification endpoint unreachable", rootCause), true},
		{"wrapped remote unavailable", fmt.Errorf("attempt 1: %w", NewRemoteUnavailable("timeout")), true},
		{"remote verification failed", NewRemoteVerificationFailed("verification_status FAILURE"), false},
		{"signature mismatch", NewSignatureMismatch("no candidate matched"), false},
		{"expired timestamp", NewExpiredTimestamp("too old"), false},
		{"malformed header", NewMalformedHeader("missing timestamp"), false},
		{"missing header", NewMissingHeader("cert-url"), false},
		{"untrusted certificate", NewUntrustedCertificateSource("evil.example.com"), false},
		{"deserialization", NewDeserialization("missing id"), false},
		{"service unavailable", NewServiceUnavailable("nats down"), false},
		{"nil", nil, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsRetryable(tc.err))
		})
	}
}

func TestWebhookErrorsUnwrap(t *testing.T) {
	rootCause := errors.New("root cause")

	testCases := []struct {
		name string
		err  error
	}{
		{"MalformedHeader", NewMalformedHeader("malformed", rootCause)},
		{"SignatureMismatch", NewSignatureMismatch("mismatch", rootCause)},
		{"ExpiredTimestamp", NewExpiredTimestamp("expired", rootCause)},
		{"UntrustedCertificateSource", NewUntrustedCertificateSource("untrusted", rootCause)},
		{"RemoteVerificationFailed", NewRemoteVerificationFailed("rejected", rootCause)},
		{"RemoteUnavailable", NewRemoteUnavailable("unavailable", rootCause)},
		{"Deserialization", NewDeserialization("bad json", rootCause)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.err, rootCause)
			assert.Contains(t, tc.err.Error(), "root cause")
		})
	}
}
