// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fuse mounts an [nxfs.Engine] as a read-only FUSE filesystem
// using go-fuse.
//
// Each kernel callback maps onto one engine query: LOOKUP and GETATTR
// use the attribute synthesizer, READDIR the directory lister, READ
// the windowed content synthesizer. Directory listings include the
// engine's "." and ".." entries verbatim. Opening a file for writing
// fails with EROFS; nothing in the mount can be created, renamed or
// removed.
//
// Inode numbers are the container node id plus one, so the root (node
// 0) is inode 1 as FUSE requires.
package fuse
