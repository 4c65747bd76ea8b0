// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package binhash provides BLAKE3 content hashing.
//
// nxfs uses it to fingerprint the containers it mounts (logged at
// mount time and printed by "nxfs stat") and every file written by
// "nxfs extract", whose manifest records one digest per file.
//
// The API surface:
//
//   - [HashBytes] and [HashReader] -- digest in-memory or streamed data
//   - [HashFile] -- streams a file with constant memory use
//   - [FormatDigest] and [ParseDigest] -- the canonical hex form
//
// This package has no dependencies on other nxfs packages.
package binhash
