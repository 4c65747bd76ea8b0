// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the standard CBOR encoding configuration.
//
// nxfs writes extraction manifests as JSON by default and as CBOR on
// request. Manifest types carry `json` struct tags; fxamacker/cbor
// reads `json` tags when `cbor` tags are absent, so one set of tags
// controls field naming in both formats.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): the
// same manifest always produces identical bytes, so manifests can
// themselves be hashed and compared.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
package codec
