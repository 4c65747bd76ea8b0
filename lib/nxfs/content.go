// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package nxfs

import "github.com/bureau-foundation/nxfs/lib/nx"

// ReadWindow copies the bytes of a node's synthesized content starting
// at offset into dest and returns how many were copied. It returns 0
// at or past the end of the content, for directories, and when a blob
// fails to decode.
func (e *Engine) ReadWindow(node nx.Node, dest []byte, offset uint64) int {
	if len(dest) == 0 {
		return 0
	}

	switch node.Type {
	case nx.TypeNone:
		return 0
	case nx.TypeString:
		text, err := e.container.String(node.StringID())
		if err != nil {
			e.degraded(node, err)
			return 0
		}
		return copyWindow(dest, quoteString(text), offset)
	case nx.TypeInt64, nx.TypeReal, nx.TypeVector:
		return copyWindow(dest, renderScalar(node), offset)
	case nx.TypeBitmap:
		return e.readBitmap(node, dest, offset)
	case nx.TypeAudio:
		ref := node.Audio()
		if offset >= uint64(ref.Length) {
			return 0
		}
		data, err := e.container.Audio(ref.ID, ref.Length)
		if err != nil {
			e.degraded(node, err)
			return 0
		}
		return copyWindow(dest, data, offset)
	default:
		return copyWindow(dest, node.Data[:], offset)
	}
}

func copyWindow(dest, content []byte, offset uint64) int {
	if offset >= uint64(len(content)) {
		return 0
	}
	return copy(dest, content[offset:])
}

func (e *Engine) degraded(node nx.Node, err error) {
	e.logger.Warn("read degraded to empty",
		"node", node.ID,
		"type", node.Type.String(),
		"error", err,
	)
}
