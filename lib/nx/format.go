// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package nx

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/kaitai-io/kaitai_struct_go_runtime/kaitai"
)

// Magic is the four-byte signature at the start of every NX file.
const Magic = "PKG4"

const (
	// HeaderSize is the size of the fixed file header.
	HeaderSize = 52

	// NodeSize is the size of one node table record.
	NodeSize = 20

	// offsetEntrySize is the size of one blob offset table entry.
	offsetEntrySize = 8
)

var (
	// ErrBadMagic is returned when a file does not start with Magic.
	ErrBadMagic = errors.New("nx: bad magic")

	// ErrCorrupt is returned when a table or blob lies outside the
	// file, or a blob fails to decompress.
	ErrCorrupt = errors.New("nx: corrupt container")

	// ErrOutOfRange is returned for a node, string, bitmap or audio id
	// beyond the corresponding table.
	ErrOutOfRange = errors.New("nx: id out of range")

	// ErrNotFound is returned when a path segment names no child.
	ErrNotFound = errors.New("nx: no such node")
)

// Type is a node's type tag.
type Type uint16

const (
	TypeNone   Type = 0
	TypeInt64  Type = 1
	TypeReal   Type = 2
	TypeString Type = 3
	TypeVector Type = 4
	TypeBitmap Type = 5
	TypeAudio  Type = 6
)

// String returns the lowercase name of the type tag.
func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeInt64:
		return "int64"
	case TypeReal:
		return "real"
	case TypeString:
		return "string"
	case TypeVector:
		return "vector"
	case TypeBitmap:
		return "bitmap"
	case TypeAudio:
		return "audio"
	default:
		return fmt.Sprintf("unknown(%d)", uint16(t))
	}
}

// Header is the decoded fixed file header.
type Header struct {
	NodeCount    uint32
	NodeOffset   uint64
	StringCount  uint32
	StringOffset uint64
	BitmapCount  uint32
	BitmapOffset uint64
	AudioCount   uint32
	AudioOffset  uint64
}

// parseHeader decodes the fixed header at the start of data. It does
// not check table bounds; see Header.validate.
func parseHeader(data []byte) (Header, error) {
	var header Header
	if len(data) < HeaderSize {
		return header, fmt.Errorf("%w: file is %d bytes, header needs %d", ErrCorrupt, len(data), HeaderSize)
	}

	stream := kaitai.NewStream(bytes.NewReader(data[:HeaderSize]))

	magic, err := stream.ReadBytes(len(Magic))
	if err != nil {
		return header, fmt.Errorf("reading magic: %w", err)
	}
	if string(magic) != Magic {
		return header, fmt.Errorf("%w: got %q", ErrBadMagic, magic)
	}

	tables := []struct {
		count  *uint32
		offset *uint64
		name   string
	}{
		{&header.NodeCount, &header.NodeOffset, "node"},
		{&header.StringCount, &header.StringOffset, "string"},
		{&header.BitmapCount, &header.BitmapOffset, "bitmap"},
		{&header.AudioCount, &header.AudioOffset, "audio"},
	}
	for _, table := range tables {
		if *table.count, err = stream.ReadU4le(); err != nil {
			return header, fmt.Errorf("reading %s count: %w", table.name, err)
		}
		if *table.offset, err = stream.ReadU8le(); err != nil {
			return header, fmt.Errorf("reading %s table offset: %w", table.name, err)
		}
	}

	return header, nil
}

// validate checks that every table described by the header lies
// within a file of the given size. Blob contents are checked lazily
// when decoded.
func (h Header) validate(fileSize uint64) error {
	if h.NodeCount == 0 {
		return fmt.Errorf("%w: no root node", ErrCorrupt)
	}

	tables := []struct {
		name      string
		count     uint32
		offset    uint64
		entrySize uint64
	}{
		{"node", h.NodeCount, h.NodeOffset, NodeSize},
		{"string", h.StringCount, h.StringOffset, offsetEntrySize},
		{"bitmap", h.BitmapCount, h.BitmapOffset, offsetEntrySize},
		{"audio", h.AudioCount, h.AudioOffset, offsetEntrySize},
	}

	var errs []error
	for _, table := range tables {
		if table.count == 0 {
			continue
		}
		length := uint64(table.count) * table.entrySize
		if !inBounds(table.offset, length, fileSize) {
			errs = append(errs, fmt.Errorf("%w: %s table [%d, +%d) exceeds file size %d",
				ErrCorrupt, table.name, table.offset, length, fileSize))
		}
	}
	return errors.Join(errs...)
}

// inBounds reports whether [offset, offset+length) lies within
// [0, size) without overflowing.
func inBounds(offset, length, size uint64) bool {
	return offset <= size && length <= size-offset
}
