// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package nx

import (
	"encoding/binary"
	"fmt"
)

// blobOffset returns the absolute file offset of blob id in the
// offset table starting at tableOffset.
func (f *File) blobOffset(kind string, id, count uint32, tableOffset uint64) (uint64, error) {
	if id >= count {
		return 0, fmt.Errorf("%w: %s %d (count %d)", ErrOutOfRange, kind, id, count)
	}
	entry := tableOffset + uint64(id)*offsetEntrySize
	return binary.LittleEndian.Uint64(f.data[entry : entry+offsetEntrySize]), nil
}

// span returns data[offset:offset+length] after checking bounds.
func (f *File) span(kind string, id uint32, offset, length uint64) ([]byte, error) {
	if !inBounds(offset, length, uint64(len(f.data))) {
		return nil, fmt.Errorf("%w: %s %d at [%d, +%d) exceeds file size %d",
			ErrCorrupt, kind, id, offset, length, len(f.data))
	}
	return f.data[offset : offset+length], nil
}

// String decodes string id. The result is a copy and stays valid
// after Close.
func (f *File) String(id uint32) (string, error) {
	offset, err := f.blobOffset("string", id, f.header.StringCount, f.header.StringOffset)
	if err != nil {
		return "", err
	}
	prefix, err := f.span("string", id, offset, 2)
	if err != nil {
		return "", err
	}
	length := uint64(binary.LittleEndian.Uint16(prefix))
	text, err := f.span("string", id, offset+2, length)
	if err != nil {
		return "", err
	}
	return string(text), nil
}

// Bitmap decompresses bitmap id into a new buffer of exactly size
// bytes (width*height*4 for the referencing node). Pixels are in the
// container's native BGRA order.
func (f *File) Bitmap(id uint32, size uint64) ([]byte, error) {
	offset, err := f.blobOffset("bitmap", id, f.header.BitmapCount, f.header.BitmapOffset)
	if err != nil {
		return nil, err
	}
	prefix, err := f.span("bitmap", id, offset, 4)
	if err != nil {
		return nil, err
	}
	compressedLength := uint64(binary.LittleEndian.Uint32(prefix))
	compressed, err := f.span("bitmap", id, offset+4, compressedLength)
	if err != nil {
		return nil, err
	}
	pixels, err := decompressBlock(compressed, size)
	if err != nil {
		return nil, fmt.Errorf("%w: bitmap %d: %v", ErrCorrupt, id, err)
	}
	return pixels, nil
}

// Audio returns the raw bytes of audio id. NX audio is stored
// uncompressed, so the result aliases the mapping: it must not be
// modified and is invalid after Close.
func (f *File) Audio(id uint32, length uint32) ([]byte, error) {
	offset, err := f.blobOffset("audio", id, f.header.AudioCount, f.header.AudioOffset)
	if err != nil {
		return nil, err
	}
	return f.span("audio", id, offset, uint64(length))
}
