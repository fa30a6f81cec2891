// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

import (
	"errors"
	"fmt"
)

// The types below describe why a webhook notification was rejected. Every one of them is
// terminal for the notification except RemoteUnavailable, which reports an infrastructure
// problem and may be retried.

// MalformedHeader is returned when a signature header cannot be tokenized.
type MalformedHeader struct {
	base
}

// Error returns the error message for MalformedHeader.
func (m MalformedHeader) Error() string {
	return m.error()
}

// NewMalformedHeader creates a new MalformedHeader error with the provided message.
func NewMalformedHeader(message string, err ...error) MalformedHeader {
	return MalformedHeader{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// MissingHeader is returned when a required webhook header is absent.
// Field holds the header name without its provider prefix.
type MissingHeader struct {
	base
	Field string
}

// Error returns the error message for MissingHeader.
func (m MissingHeader) Error() string {
	return m.error()
}

// NewMissingHeader creates a new MissingHeader error for the given field.
func NewMissingHeader(field string) MissingHeader {
	return MissingHeader{
		base: base{
			message: fmt.Sprintf("missing required webhook header: %s", field),
		},
		Field: field,
	}
}

// SignatureMismatch is returned when no candidate signature matches the expected one.
type SignatureMismatch struct {
	base
}

// Error returns the error message for SignatureMismatch.
func (s SignatureMismatch) Error() string {
	return s.error()
}

// NewSignatureMismatch creates a new SignatureMismatch error with the provided message.
func NewSignatureMismatch(message string, err ...error) SignatureMismatch {
	return SignatureMismatch{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// ExpiredTimestamp is returned when a notification falls outside the tolerance window.
type ExpiredTimestamp struct {
	base
}

// Error returns the error message for ExpiredTimestamp.
func (e ExpiredTimestamp) Error() string {
	return e.error()
}

// NewExpiredTimestamp creates a new ExpiredTimestamp error with the provided message.
func NewExpiredTimestamp(message string, err ...error) ExpiredTimestamp {
	return ExpiredTimestamp{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// UntrustedCertificateSource is returned when a certificate URL is not served by the provider.
type UntrustedCertificateSource struct {
	base
}

// Error returns the error message for UntrustedCertificateSource.
func (u UntrustedCertificateSource) Error() string {
	return u.error()
}

// NewUntrustedCertificateSource creates a new UntrustedCertificateSource error.
func NewUntrustedCertificateSource(message string, err ...error) UntrustedCertificateSource {
	return UntrustedCertificateSource{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// RemoteVerificationFailed is returned when the provider answered and rejected the notification.
type RemoteVerificationFailed struct {
	base
}

// Error returns the error message for RemoteVerificationFailed.
func (r RemoteVerificationFailed) Error() string {
	return r.error()
}

// NewRemoteVerificationFailed creates a new RemoteVerificationFailed error.
func NewRemoteVerificationFailed(message string, err ...error) RemoteVerificationFailed {
	return RemoteVerificationFailed{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// RemoteUnavailable is returned when the provider verification endpoint could not give a verdict
// (network failure, timeout, non-2xx response, session failure).
type RemoteUnavailable struct {
	base
}

// Error returns the error message for RemoteUnavailable.
func (r RemoteUnavailable) Error() string {
	return r.error()
}

// NewRemoteUnavailable creates a new RemoteUnavailable error.
func NewRemoteUnavailable(message string, err ...error) RemoteUnavailable {
	return RemoteUnavailable{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// Deserialization is returned when a verified payload does not have the expected structure.
type Deserialization struct {
	base
}

// Error returns the error message for Deserialization.
func (d Deserialization) Error() string {
	return d.error()
}

// NewDeserialization creates a new Deserialization error.
func NewDeserialization(message string, err ...error) Deserialization {
	return Deserialization{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// IsRetryable reports whether a webhook failure may be retried.
// Only RemoteUnavailable qualifies; cryptographic verdicts never change on retry.
func IsRetryable(err error) bool {
	var remoteUnavailable RemoteUnavailable
	return errors.As(err, &remoteUnavailable)
}
