// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/errors"
)

// ComputeHMAC returns hex(HMAC-SHA256(secret, "{timestamp}.{body}"))
func ComputeHMAC(secret []byte, timestamp int64, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyHMAC succeeds if any candidate in header equals the expected signature.
// Every candidate is compared in constant time.
func VerifyHMAC(body []byte, header model.SignatureHeader, secret []byte) error {
	expected := []byte(ComputeHMAC(secret, header.Timestamp, body))

	matched := false
	for _, candidate := range header.Candidates {
		if hmac.Equal(expected, []byte(candidate)) {
			matched = true
		}
	}

	if !matched {
		return errors.NewSignatureMismatch("no signature in header matches the expected signature")
	}
	return nil
}
