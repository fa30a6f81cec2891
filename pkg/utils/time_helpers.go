// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package utils

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/constants"
)

// ValidateRFC3339 validates that a timestamp string is in RFC3339 format.
// Returns the parsed time.Time and nil error if valid, or zero time and error if invalid.
func ValidateRFC3339(timestamp string) (time.Time, error) {
	if timestamp == "" {
		return time.Time{}, errors.New(constants.ErrEmptyTimestamp)
	}

	t, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", constants.ErrInvalidTimestampFormat, err)
	}

	return t, nil
}

// ParseUnixSeconds parses a decimal count of seconds since the Unix epoch.
func ParseUnixSeconds(value string) (int64, error) {
	if value == "" {
		return 0, errors.New(constants.ErrEmptyTimestamp)
	}

	seconds, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", constants.ErrInvalidUnixTimestamp, err)
	}

	return seconds, nil
}

// AbsDuration returns the absolute value of d, saturating at the largest
// positive duration when d is the most negative one.
func AbsDuration(d time.Duration) time.Duration {
	if d == math.MinInt64 {
		return math.MaxInt64
	}
	if d < 0 {
		return -d
	}
	return d
}
