// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package nx

import (
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// decompressBlock decodes one LZ4 block into a buffer of exactly
// size bytes. A block that decodes to any other length is an error.
func decompressBlock(compressed []byte, size uint64) ([]byte, error) {
	if uint64(int(size)) != size {
		return nil, fmt.Errorf("lz4 decompress: %d bytes does not fit in memory", size)
	}
	destination := make([]byte, size)
	read, err := lz4.UncompressBlock(compressed, destination)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if uint64(read) != size {
		return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, size)
	}
	return destination, nil
}

// compressBlock encodes data as one LZ4 block. NX bitmaps are always
// LZ4, so data that does not compress is emitted as a literal-only
// block rather than stored raw.
func compressBlock(data []byte) ([]byte, error) {
	destination := make([]byte, lz4.CompressBlockBound(len(data)))
	written, err := lz4.CompressBlock(data, destination, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	if written == 0 {
		return literalBlock(data), nil
	}
	return destination[:written], nil
}

// literalBlock builds an LZ4 block made of a single literal-only
// sequence, which is valid for any input including the empty one.
func literalBlock(data []byte) []byte {
	length := len(data)
	block := make([]byte, 0, length+length/255+2)

	if length < 15 {
		block = append(block, byte(length<<4))
	} else {
		block = append(block, 0xF0)
		remaining := length - 15
		for remaining >= 255 {
			block = append(block, 255)
			remaining -= 255
		}
		block = append(block, byte(remaining))
	}
	return append(block, data...)
}
