// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

// SignatureHeader is the parsed form of a "t=<unix> v1=<sig> ..." header.
// Candidates keep the order they appeared in; any of them may match.
type SignatureHeader struct {
	Timestamp  int64
	Candidates []string
}
