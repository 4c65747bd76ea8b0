// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package extract materializes a projected NX subtree outside of FUSE:
// as a plain directory tree, a tar archive, or a zstd-compressed tar
// archive. Every file carries exactly the bytes a read through the
// mount would return.
//
// Each extraction produces a [Manifest] listing every file with its
// size and BLAKE3 digest. Manifests are written as indented JSON or as
// deterministic CBOR, and [Verify] checks a directory extraction
// against one.
//
// Entries whose stored names cannot be represented as a relative path
// ("", ".", "..", or names containing NUL) and files whose blobs fail
// to decode are skipped and recorded in the manifest rather than
// written as empty files.
package extract
