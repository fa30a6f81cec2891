// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package redaction masks sensitive values before they reach the logs.
package redaction

const (
	visiblePrefix = 4
	mask          = "****"
)

// Redact keeps the first few characters of a value and masks the rest.
// Values too short to keep a prefix are fully masked.
func Redact(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= visiblePrefix*2 {
		return mask
	}
	return value[:visiblePrefix] + mask
}

// RedactAll applies Redact to every value, preserving order.
func RedactAll(values []string) []string {
	redacted := make([]string, len(values))
	for i, v := range values {
		redacted[i] = Redact(v)
	}
	return redacted
}
