// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package signature

import (
	"fmt"
	"time"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/utils"
)

// DefaultTolerance is the freshness window used when none is configured
const DefaultTolerance = 300 * time.Second

// Clock returns the current time
type Clock func() time.Time

// FreshnessGuard rejects timestamps further than Tolerance from Now().
// Timestamps in the future are rejected the same way as old ones.
type FreshnessGuard struct {
	Tolerance time.Duration
	Now       Clock
}

// NewFreshnessGuard creates a guard. A non-positive tolerance falls back to
// DefaultTolerance and a nil clock to time.Now.
func NewFreshnessGuard(tolerance time.Duration, now Clock) FreshnessGuard {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	if now == nil {
		now = time.Now
	}
	return FreshnessGuard{Tolerance: tolerance, Now: now}
}

// Check validates a Unix seconds timestamp
func (g FreshnessGuard) Check(timestamp int64) error {
	nowSeconds := g.Now().Unix()
	window := int64(g.Tolerance/time.Second) + 1
	// coarse bounds on whole seconds keep extreme timestamps away from time arithmetic
	if timestamp < nowSeconds-window || timestamp > nowSeconds+window {
		return errors.NewExpiredTimestamp(fmt.Sprintf("webhook timestamp %d is outside the %s tolerance of %d",
			timestamp, g.Tolerance, nowSeconds))
	}
	return g.CheckTime(time.Unix(timestamp, 0))
}

// CheckTime validates an absolute time
func (g FreshnessGuard) CheckTime(at time.Time) error {
	now := g.Now()
	if at.Before(now.Add(-g.Tolerance)) || at.After(now.Add(g.Tolerance)) {
		return errors.NewExpiredTimestamp(fmt.Sprintf("webhook timestamp is %s from now, tolerance is %s",
			utils.AbsDuration(now.Sub(at)).Truncate(time.Second), g.Tolerance))
	}
	return nil
}
