// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package nxfs

import (
	"encoding/binary"

	"github.com/bureau-foundation/nxfs/lib/nx"
)

// Layout of the synthesized BMP header: a 14-byte file header, a
// 40-byte BITMAPINFOHEADER, and four 32-bit channel masks.
const (
	fileHeaderSize   = 14
	infoHeaderSize   = 40
	channelMaskSize  = 16
	BitmapHeaderSize = fileHeaderSize + infoHeaderSize + channelMaskSize

	// bitfieldsCompression tells readers to honor the channel masks.
	bitfieldsCompression = 3

	// pixelsPerMeter is 72 DPI.
	pixelsPerMeter = 2835
)

// Channel masks for the container's B,G,R,A byte order read as a
// little-endian uint32.
const (
	redMask   = 0x00FF0000
	greenMask = 0x0000FF00
	blueMask  = 0x000000FF
	alphaMask = 0xFF000000
)

// bitmapHeader builds the header for a width x height 32-bit image.
// The height is stored negated so rows run top to bottom, matching
// the container's pixel order. Sizes above 4 GiB cannot be expressed
// in BMP and wrap.
func bitmapHeader(ref nx.BitmapRef) [BitmapHeaderSize]byte {
	var header [BitmapHeaderSize]byte
	pixelSize := ref.PixelSize()

	header[0], header[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(header[2:], uint32(BitmapHeaderSize+pixelSize))
	binary.LittleEndian.PutUint32(header[10:], BitmapHeaderSize)

	info := header[fileHeaderSize:]
	binary.LittleEndian.PutUint32(info[0:], infoHeaderSize)
	binary.LittleEndian.PutUint32(info[4:], uint32(ref.Width))
	binary.LittleEndian.PutUint32(info[8:], uint32(-int32(ref.Height)))
	binary.LittleEndian.PutUint16(info[12:], 1)
	binary.LittleEndian.PutUint16(info[14:], 32)
	binary.LittleEndian.PutUint32(info[16:], bitfieldsCompression)
	binary.LittleEndian.PutUint32(info[20:], uint32(pixelSize))
	binary.LittleEndian.PutUint32(info[24:], pixelsPerMeter)
	binary.LittleEndian.PutUint32(info[28:], pixelsPerMeter)

	masks := header[fileHeaderSize+infoHeaderSize:]
	binary.LittleEndian.PutUint32(masks[0:], redMask)
	binary.LittleEndian.PutUint32(masks[4:], greenMask)
	binary.LittleEndian.PutUint32(masks[8:], blueMask)
	binary.LittleEndian.PutUint32(masks[12:], alphaMask)
	return header
}

// readBitmap fills dest from the header, then from the pixels. The
// pixel blob is only decoded when the window reaches past the header.
// A decode failure discards the whole window.
func (e *Engine) readBitmap(node nx.Node, dest []byte, offset uint64) int {
	ref := node.Bitmap()
	pixelSize := ref.PixelSize()

	written := 0
	if offset < BitmapHeaderSize {
		header := bitmapHeader(ref)
		written = copy(dest, header[offset:])
		dest = dest[written:]
		offset = 0
	} else {
		offset -= BitmapHeaderSize
	}
	if len(dest) == 0 || offset >= pixelSize {
		return written
	}

	pixels, err := e.container.Bitmap(ref.ID, pixelSize)
	if err != nil {
		e.degraded(node, err)
		return 0
	}
	return written + copy(dest, pixels[offset:])
}
