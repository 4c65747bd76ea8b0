// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"sync/atomic"
	"testing"

	"github.com/bureau-foundation/nxfs/lib/nx"
	"github.com/bureau-foundation/nxfs/lib/nxfs"
)

// countingContainer counts blob decodes.
type countingContainer struct {
	*nx.File
	bitmaps atomic.Int64
	strings atomic.Int64
}

func (c *countingContainer) Bitmap(id uint32, size uint64) ([]byte, error) {
	c.bitmaps.Add(1)
	return c.File.Bitmap(id, size)
}

func (c *countingContainer) String(id uint32) (string, error) {
	c.strings.Add(1)
	return c.File.String(id)
}

func countingEngine(t *testing.T, builder *nx.Builder) (*nxfs.Engine, *countingContainer) {
	t.Helper()
	data, err := builder.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	file, err := nx.FromBytes(data)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	container := &countingContainer{File: file}
	engine, err := nxfs.New(nxfs.Options{Container: container})
	if err != nil {
		t.Fatalf("nxfs.New: %v", err)
	}
	return engine, container
}

func TestCopyContentDecodesBitmapOnce(t *testing.T) {
	const width, height = 256, 256
	pixels := make([]byte, width*height*4)
	for i := range pixels {
		pixels[i] = byte(i % 251)
	}
	builder := nx.NewBuilder()
	builder.Root().Bitmap("big", width, height, pixels)
	engine, container := countingEngine(t, builder)

	node, err := engine.Resolve("/big.bmp")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	size := uint64(nxfs.BitmapHeaderSize + len(pixels))

	tests := []struct {
		name          string
		offset, end   uint64
		wantLength    int
		wantDecodes   int64
	}{
		{name: "whole file", offset: 0, end: size, wantLength: int(size), wantDecodes: 1},
		{name: "pixels only", offset: nxfs.BitmapHeaderSize, end: size, wantLength: len(pixels), wantDecodes: 1},
		{name: "header only", offset: 0, end: nxfs.BitmapHeaderSize, wantLength: nxfs.BitmapHeaderSize, wantDecodes: 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			container.bitmaps.Store(0)
			var output bytes.Buffer
			if err := copyContent(&output, engine, node, test.offset, test.end); err != nil {
				t.Fatalf("copyContent: %v", err)
			}
			if output.Len() != test.wantLength {
				t.Errorf("wrote %d bytes, want %d", output.Len(), test.wantLength)
			}
			if got := container.bitmaps.Load(); got != test.wantDecodes {
				t.Errorf("bitmap decoded %d times, want %d", got, test.wantDecodes)
			}
		})
	}

	container.bitmaps.Store(0)
	var whole bytes.Buffer
	if err := copyContent(&whole, engine, node, 0, size); err != nil {
		t.Fatalf("copyContent: %v", err)
	}
	if !bytes.Equal(whole.Bytes()[nxfs.BitmapHeaderSize:], pixels) {
		t.Error("pixel bytes differ from the stored bitmap")
	}
}

func TestCopyContentDecodesStringOnce(t *testing.T) {
	text := bytes.Repeat([]byte("mushroom "), 20000)
	builder := nx.NewBuilder()
	builder.Root().String("long", string(text))
	engine, container := countingEngine(t, builder)

	node, err := engine.Resolve("/long.string")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	attributes, err := engine.Attributes(node)
	if err != nil {
		t.Fatalf("Attributes: %v", err)
	}

	container.strings.Store(0)
	var output bytes.Buffer
	if err := copyContent(&output, engine, node, 0, attributes.Size); err != nil {
		t.Fatalf("copyContent: %v", err)
	}
	if uint64(output.Len()) != attributes.Size {
		t.Errorf("wrote %d bytes, want %d", output.Len(), attributes.Size)
	}
	if got := container.strings.Load(); got != 1 {
		t.Errorf("string decoded %d times, want 1", got)
	}
}

func TestCopyContentReportsDecodeFailure(t *testing.T) {
	builder := nx.NewBuilder()
	builder.Root().CompressedBitmap("broken", 2, 2, []byte{0xFF, 0xFF, 0xFF})
	engine, _ := countingEngine(t, builder)

	node, err := engine.Resolve("/broken.bmp")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	var output bytes.Buffer
	err = copyContent(&output, engine, node, 0, nxfs.BitmapHeaderSize+16)
	if err == nil {
		t.Fatal("copyContent of an undecodable bitmap should fail")
	}
	if output.Len() != 0 {
		t.Errorf("wrote %d bytes before failing", output.Len())
	}
}
