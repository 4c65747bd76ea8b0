// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package nxfs

import "errors"

var (
	// ErrNotFound is returned when a virtual path names no node, or
	// when a node's attributes cannot be determined.
	ErrNotFound = errors.New("no such entry")

	// ErrNotDirectory is returned when a directory listing is
	// requested for a file node.
	ErrNotDirectory = errors.New("not a directory")

	// ErrDecode is returned when a string, bitmap or audio blob cannot
	// be decoded.
	ErrDecode = errors.New("blob decode failed")
)
