// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package signature provides the shared primitives for locally signed webhooks:
// header parsing, HMAC verification and the freshness guard.
package signature

import (
	"strings"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/utils"
)

// ParseHeader tokenizes "t=<unix> v1=<sig> [v1=<sig> ...]".
// Tokens may be separated by whitespace or commas. Unknown keys are ignored.
func ParseHeader(header string) (model.SignatureHeader, error) {
	var (
		parsed       model.SignatureHeader
		hasTimestamp bool
	)

	tokens := strings.FieldsFunc(header, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	for _, token := range tokens {
		key, value, found := strings.Cut(token, "=")
		if !found {
			continue
		}

		switch key {
		case constants.SignatureTimestampKey:
			if hasTimestamp {
				return model.SignatureHeader{}, errors.NewMalformedHeader("signature header contains more than one timestamp")
			}
			ts, err := utils.ParseUnixSeconds(value)
			if err != nil {
				return model.SignatureHeader{}, errors.NewMalformedHeader("signature header timestamp is not an integer", err)
			}
			parsed.Timestamp = ts
			hasTimestamp = true
		case constants.SignatureSchemeV1:
			if value != "" {
				parsed.Candidates = append(parsed.Candidates, value)
			}
		}
	}

	if !hasTimestamp {
		return model.SignatureHeader{}, errors.NewMalformedHeader("signature header has no timestamp")
	}
	if len(parsed.Candidates) == 0 {
		return model.SignatureHeader{}, errors.NewMalformedHeader("signature header has no v1 signature")
	}

	return parsed, nil
}
