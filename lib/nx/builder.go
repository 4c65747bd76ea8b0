// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package nx

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"sort"
)

// maxStringLength is the largest string a u16 length prefix can carry.
const maxStringLength = math.MaxUint16

// Builder assembles an NX image in memory. Nodes are added through
// the BuilderNode returned by Root; Bytes lays the tree out
// breadth-first so every node's children are contiguous and sorted by
// name, as readers expect.
//
// Builder is not safe for concurrent use.
type Builder struct {
	root *BuilderNode
}

// BuilderNode is a node under construction.
type BuilderNode struct {
	name     string
	nodeType Type
	data     [DataSize]byte
	children []*BuilderNode

	// Blob payloads, resolved to ids by Bytes.
	text       string
	bitmapBlob []byte
	audioBlob  []byte

	// precompressed marks bitmapBlob as already LZ4-encoded.
	precompressed bool
}

// NewBuilder returns a Builder whose root is an empty directory.
func NewBuilder() *Builder {
	return &Builder{root: &BuilderNode{nodeType: TypeNone}}
}

// Root returns the root directory.
func (b *Builder) Root() *BuilderNode {
	return b.root
}

func (n *BuilderNode) add(child *BuilderNode) *BuilderNode {
	n.children = append(n.children, child)
	return child
}

// Dir adds a child directory and returns it.
func (n *BuilderNode) Dir(name string) *BuilderNode {
	return n.add(&BuilderNode{name: name, nodeType: TypeNone})
}

// Int64 adds an integer leaf.
func (n *BuilderNode) Int64(name string, value int64) *BuilderNode {
	child := &BuilderNode{name: name, nodeType: TypeInt64}
	binary.LittleEndian.PutUint64(child.data[:], uint64(value))
	return n.add(child)
}

// Real adds a floating-point leaf.
func (n *BuilderNode) Real(name string, value float64) *BuilderNode {
	child := &BuilderNode{name: name, nodeType: TypeReal}
	binary.LittleEndian.PutUint64(child.data[:], math.Float64bits(value))
	return n.add(child)
}

// String adds a string leaf.
func (n *BuilderNode) String(name, value string) *BuilderNode {
	return n.add(&BuilderNode{name: name, nodeType: TypeString, text: value})
}

// Vector adds a two-component integer vector leaf.
func (n *BuilderNode) Vector(name string, x, y int32) *BuilderNode {
	child := &BuilderNode{name: name, nodeType: TypeVector}
	binary.LittleEndian.PutUint32(child.data[0:4], uint32(x))
	binary.LittleEndian.PutUint32(child.data[4:8], uint32(y))
	return n.add(child)
}

// Bitmap adds a bitmap leaf. pixels must hold width*height*4 bytes in
// BGRA order; they are LZ4-compressed when the image is written.
func (n *BuilderNode) Bitmap(name string, width, height uint16, pixels []byte) *BuilderNode {
	child := &BuilderNode{name: name, nodeType: TypeBitmap, bitmapBlob: pixels}
	binary.LittleEndian.PutUint16(child.data[4:6], width)
	binary.LittleEndian.PutUint16(child.data[6:8], height)
	return n.add(child)
}

// CompressedBitmap adds a bitmap leaf whose blob is stored exactly as
// given, without compressing it. Fixtures use it to produce bitmaps
// that fail to decode.
func (n *BuilderNode) CompressedBitmap(name string, width, height uint16, compressed []byte) *BuilderNode {
	child := n.Bitmap(name, width, height, compressed)
	child.precompressed = true
	return child
}

// Audio adds an audio leaf whose declared length matches data.
func (n *BuilderNode) Audio(name string, data []byte) *BuilderNode {
	return n.AudioWithLength(name, data, uint32(len(data)))
}

// AudioWithLength adds an audio leaf that declares length bytes while
// storing data. A declared length larger than data produces a node
// whose blob runs past the end of the container when it is the last
// audio blob.
func (n *BuilderNode) AudioWithLength(name string, data []byte, length uint32) *BuilderNode {
	child := &BuilderNode{name: name, nodeType: TypeAudio, audioBlob: data}
	binary.LittleEndian.PutUint32(child.data[4:8], length)
	return n.add(child)
}

// Raw adds a leaf with an arbitrary type tag and data block.
func (n *BuilderNode) Raw(name string, nodeType Type, data [DataSize]byte) *BuilderNode {
	return n.add(&BuilderNode{name: name, nodeType: nodeType, data: data})
}

// layout collects the blob tables while the tree is flattened.
type layout struct {
	nodes       []*BuilderNode
	firstChild  []uint32
	strings     []string
	stringIndex map[string]uint32
	bitmaps     [][]byte
	audio       [][]byte
}

func (l *layout) intern(text string) (uint32, error) {
	if len(text) > maxStringLength {
		return 0, fmt.Errorf("string of %d bytes exceeds the %d byte limit", len(text), maxStringLength)
	}
	if id, ok := l.stringIndex[text]; ok {
		return id, nil
	}
	id := uint32(len(l.strings))
	l.strings = append(l.strings, text)
	l.stringIndex[text] = id
	return id, nil
}

// Bytes lays out and encodes the container.
func (b *Builder) Bytes() ([]byte, error) {
	l := &layout{stringIndex: make(map[string]uint32)}

	// Breadth-first so that each node's children get consecutive ids.
	l.nodes = []*BuilderNode{b.root}
	l.firstChild = []uint32{0}
	for index := 0; index < len(l.nodes); index++ {
		node := l.nodes[index]
		sort.SliceStable(node.children, func(i, j int) bool {
			return node.children[i].name < node.children[j].name
		})
		l.firstChild[index] = uint32(len(l.nodes))
		for _, child := range node.children {
			l.nodes = append(l.nodes, child)
			l.firstChild = append(l.firstChild, 0)
		}
		if len(node.children) > math.MaxUint16 {
			return nil, fmt.Errorf("node %q has %d children, limit is %d", node.name, len(node.children), math.MaxUint16)
		}
	}

	records := make([][NodeSize]byte, len(l.nodes))
	for index, node := range l.nodes {
		nameID, err := l.intern(node.name)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", node.name, err)
		}

		data := node.data
		switch node.nodeType {
		case TypeString:
			textID, err := l.intern(node.text)
			if err != nil {
				return nil, fmt.Errorf("node %q: %w", node.name, err)
			}
			binary.LittleEndian.PutUint32(data[0:4], textID)

		case TypeBitmap:
			blob := node.bitmapBlob
			if !node.precompressed {
				ref := Node{Data: data}.Bitmap()
				if uint64(len(blob)) != ref.PixelSize() {
					return nil, fmt.Errorf("bitmap %q: got %d pixel bytes, %dx%d needs %d",
						node.name, len(blob), ref.Width, ref.Height, ref.PixelSize())
				}
				blob, err = compressBlock(blob)
				if err != nil {
					return nil, fmt.Errorf("bitmap %q: %w", node.name, err)
				}
			}
			binary.LittleEndian.PutUint32(data[0:4], uint32(len(l.bitmaps)))
			l.bitmaps = append(l.bitmaps, blob)

		case TypeAudio:
			binary.LittleEndian.PutUint32(data[0:4], uint32(len(l.audio)))
			l.audio = append(l.audio, node.audioBlob)
		}

		record := &records[index]
		binary.LittleEndian.PutUint32(record[0:4], nameID)
		if len(node.children) > 0 {
			binary.LittleEndian.PutUint32(record[4:8], l.firstChild[index])
		}
		binary.LittleEndian.PutUint16(record[8:10], uint16(len(node.children)))
		binary.LittleEndian.PutUint16(record[10:12], uint16(node.nodeType))
		copy(record[12:20], data[:])
	}

	return l.encode(records), nil
}

// encode writes the header, node table, offset tables and blobs.
// Audio blobs come last so that an audio node declaring more bytes
// than it stores runs off the end of the file.
func (l *layout) encode(records [][NodeSize]byte) []byte {
	out := make([]byte, HeaderSize)

	align := func(boundary int) {
		for len(out)%boundary != 0 {
			out = append(out, 0)
		}
	}

	align(8)
	nodeOffset := uint64(len(out))
	for _, record := range records {
		out = append(out, record[:]...)
	}

	reserve := func(count int) uint64 {
		align(8)
		offset := uint64(len(out))
		out = append(out, make([]byte, count*offsetEntrySize)...)
		return offset
	}
	stringTable := reserve(len(l.strings))
	bitmapTable := reserve(len(l.bitmaps))
	audioTable := reserve(len(l.audio))

	setEntry := func(table uint64, index int) {
		binary.LittleEndian.PutUint64(out[table+uint64(index)*offsetEntrySize:], uint64(len(out)))
	}

	for index, text := range l.strings {
		align(2)
		setEntry(stringTable, index)
		out = binary.LittleEndian.AppendUint16(out, uint16(len(text)))
		out = append(out, text...)
	}
	for index, blob := range l.bitmaps {
		align(8)
		setEntry(bitmapTable, index)
		out = binary.LittleEndian.AppendUint32(out, uint32(len(blob)))
		out = append(out, blob...)
	}
	for index, blob := range l.audio {
		align(8)
		setEntry(audioTable, index)
		out = append(out, blob...)
	}

	copy(out[0:4], Magic)
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(records)))
	binary.LittleEndian.PutUint64(out[8:16], nodeOffset)
	binary.LittleEndian.PutUint32(out[16:20], uint32(len(l.strings)))
	binary.LittleEndian.PutUint64(out[20:28], stringTable)
	binary.LittleEndian.PutUint32(out[28:32], uint32(len(l.bitmaps)))
	binary.LittleEndian.PutUint64(out[32:40], bitmapTable)
	binary.LittleEndian.PutUint32(out[40:44], uint32(len(l.audio)))
	binary.LittleEndian.PutUint64(out[44:52], audioTable)
	return out
}

// WriteFile encodes the container and writes it to path.
func (b *Builder) WriteFile(path string) error {
	data, err := b.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
