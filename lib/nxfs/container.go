// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package nxfs

import "github.com/bureau-foundation/nxfs/lib/nx"

// Container is the read-only view of an NX file the engine consumes.
// Implementations must be safe for concurrent use and must never
// change after construction. *nx.File satisfies it.
type Container interface {
	// Resolve walks from the root through stored (unsuffixed) names.
	Resolve(segments []string) (nx.Node, error)

	// Node returns the node with the given id.
	Node(id uint32) (nx.Node, error)

	// Children returns the contiguous child id range of a node.
	Children(node nx.Node) (first uint32, count int)

	// Name returns a node's stored name.
	Name(node nx.Node) (string, error)

	// String decodes a string blob.
	String(id uint32) (string, error)

	// Bitmap decodes a bitmap blob into exactly size bytes of pixels
	// in the container's native channel order.
	Bitmap(id uint32, size uint64) ([]byte, error)

	// Audio returns an audio blob of the given length. The result may
	// alias container memory and must not be modified.
	Audio(id uint32, length uint32) ([]byte, error)
}

var _ Container = (*nx.File)(nil)
