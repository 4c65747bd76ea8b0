// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package nx reads NX ("PKG4") containers: a single immutable file
// holding a tree of named, typed nodes plus offset tables for string,
// bitmap and audio blobs.
//
// [Open] memory-maps the file read-only and validates the header and
// table bounds. After Open returns, a [File] holds no mutable state:
// every method only reads from the mapping, so a File is safe for
// concurrent use by any number of goroutines without locking.
//
// # Layout
//
// All integers are little-endian.
//
//   - Header, 52 bytes at offset 0: magic "PKG4", then (count, table
//     offset) pairs for nodes, strings, bitmaps and audio.
//   - Node table: 20-byte records (name string id, first child id,
//     child count, type, 8 data bytes). Node 0 is the root. The
//     children of a node are contiguous and sorted by name.
//   - String, bitmap and audio offset tables: arrays of u64 absolute
//     file offsets, one per blob.
//   - String blob: u16 length followed by UTF-8 bytes.
//   - Bitmap blob: u32 compressed length followed by an LZ4 block that
//     decompresses to width*height*4 bytes of BGRA8888 pixels.
//   - Audio blob: raw bytes; the length lives in the node.
//
// Nodes are plain values carrying their id, so callers can hold and
// pass them around without referencing the File's internals.
//
// [Builder] writes NX files. It exists for fixtures and tests; nothing
// in the read path depends on it.
package nx
