// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// Validation error messages
const (
	ErrInvalidTimestampFormat = "invalid timestamp format, expected RFC3339 (2006-01-02T15:04:05Z07:00)"
	ErrInvalidUnixTimestamp   = "invalid timestamp, expected integer seconds since the Unix epoch"
	ErrEmptyTimestamp         = "timestamp cannot be empty"
)
