// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"strings"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/constants"
)

// Provider identifies the payment provider that sent a webhook
type Provider string

// Supported providers
const (
	ProviderStripe Provider = constants.ProviderStripe
	ProviderPayPal Provider = constants.ProviderPayPal
	ProviderSquare Provider = constants.ProviderSquare
)

// ParseProvider resolves a provider name as it appears in the webhook path
func ParseProvider(name string) (Provider, bool) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(name))); p {
	case ProviderStripe, ProviderPayPal, ProviderSquare:
		return p, true
	default:
		return "", false
	}
}

func (p Provider) String() string {
	return string(p)
}
