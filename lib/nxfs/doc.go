// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package nxfs projects an NX container onto a read-only directory
// tree. It is the engine behind the FUSE mount and the nxfs command:
// given a virtual path it resolves the container node, reports the
// node's kind and size, lists directories, and synthesizes file
// content for arbitrary read windows.
//
// # Virtual paths
//
// Directory nodes appear under their stored names. Every other node
// appears under its stored name plus a type suffix:
//
//	int64  -> .int64     string -> .string    bitmap -> .bmp
//	real   -> .real      vector -> .vector    audio  -> .mp3
//
// Unknown node types get no suffix. [Engine.Resolve] strips a suffix
// only when the node it lands on derives that same suffix, so listing
// and resolving are exact inverses even for stored names that happen
// to end in ".bmp" or ".string".
//
// The naming scheme is not injective: a directory stored as "a.bmp"
// and a bitmap stored as "a" both project to "a.bmp". Resolve returns
// the bitmap, so [Engine.List] lists only the bitmap and logs the
// directory as shadowed; it stays unreachable by path.
//
// # Synthesized content
//
// Content is rebuilt on every call and never cached:
//
//   - strings render as a JSON-style quoted line ("..."\n) with
//     backslash and double quote escaped
//   - int64, real and vector nodes render as text lines: 42, %.17g,
//     [x,y]
//   - bitmaps render as a 32-bit top-down BMP whose channel masks
//     describe the container's native BGRA order, so pixel bytes are
//     copied unchanged
//   - audio is the raw blob
//   - unknown types expose their 8 inline data bytes
//
// [Engine.Attributes] computes sizes that always equal the length of
// the content [Engine.ReadWindow] produces. Bitmap and audio sizes come
// from inline metadata; strings are decoded once to measure them.
//
// # Errors
//
// Paths that do not resolve yield [ErrNotFound]. A blob that fails to
// decode during an attribute query also yields ErrNotFound (wrapping
// [ErrDecode]), since the entry's size cannot be attested. The same
// failure during a read yields zero bytes rather than an error. That
// asymmetry is kept for compatibility with existing nxfs mounts; it
// means a reader that already trusted a size can see a short file if
// the blob later turns out to be corrupt.
//
// # Concurrency
//
// An Engine holds only immutable references. All scratch buffers are
// local to the call, so every method is safe for concurrent use.
package nxfs
