// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package nx

import (
	"encoding/binary"
	"math"
)

// DataSize is the length of a node's inline data block.
const DataSize = 8

// Node is one decoded node table record. It is a value: the ID is an
// index into the File's node table, not a pointer into it.
type Node struct {
	ID         uint32
	NameID     uint32
	FirstChild uint32
	ChildCount uint16
	Type       Type
	Data       [DataSize]byte
}

// decodeNode decodes a 20-byte node record.
func decodeNode(id uint32, record []byte) Node {
	node := Node{
		ID:         id,
		NameID:     binary.LittleEndian.Uint32(record[0:4]),
		FirstChild: binary.LittleEndian.Uint32(record[4:8]),
		ChildCount: binary.LittleEndian.Uint16(record[8:10]),
		Type:       Type(binary.LittleEndian.Uint16(record[10:12])),
	}
	copy(node.Data[:], record[12:20])
	return node
}

// IsDirectory reports whether the node is a directory (type none).
func (n Node) IsDirectory() bool {
	return n.Type == TypeNone
}

// Int64 interprets the data block as a signed 64-bit integer.
func (n Node) Int64() int64 {
	return int64(binary.LittleEndian.Uint64(n.Data[:]))
}

// Real interprets the data block as a 64-bit float.
func (n Node) Real() float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(n.Data[:]))
}

// StringID interprets the data block as a string table id.
func (n Node) StringID() uint32 {
	return binary.LittleEndian.Uint32(n.Data[0:4])
}

// Vector interprets the data block as a pair of signed 32-bit
// integers.
func (n Node) Vector() (x, y int32) {
	return int32(binary.LittleEndian.Uint32(n.Data[0:4])),
		int32(binary.LittleEndian.Uint32(n.Data[4:8]))
}

// Bitmap interprets the data block as a bitmap reference.
func (n Node) Bitmap() BitmapRef {
	return BitmapRef{
		ID:     binary.LittleEndian.Uint32(n.Data[0:4]),
		Width:  binary.LittleEndian.Uint16(n.Data[4:6]),
		Height: binary.LittleEndian.Uint16(n.Data[6:8]),
	}
}

// Audio interprets the data block as an audio reference.
func (n Node) Audio() AudioRef {
	return AudioRef{
		ID:     binary.LittleEndian.Uint32(n.Data[0:4]),
		Length: binary.LittleEndian.Uint32(n.Data[4:8]),
	}
}

// BitmapRef locates a bitmap blob and carries its dimensions.
type BitmapRef struct {
	ID     uint32
	Width  uint16
	Height uint16
}

// PixelSize is the decompressed length of the bitmap: four bytes per
// pixel.
func (b BitmapRef) PixelSize() uint64 {
	return uint64(b.Width) * uint64(b.Height) * 4
}

// AudioRef locates an audio blob and carries its byte length.
type AudioRef struct {
	ID     uint32
	Length uint32
}
