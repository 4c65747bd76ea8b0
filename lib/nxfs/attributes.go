// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package nxfs

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/bureau-foundation/nxfs/lib/nx"
)

// Kind distinguishes directories from regular files.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

func (k Kind) String() string {
	if k == KindDirectory {
		return "directory"
	}
	return "file"
}

const (
	// DirectoryMode is the permission set of every directory.
	DirectoryMode fs.FileMode = fs.ModeDir | 0o555

	// FileMode is the permission set of every file.
	FileMode fs.FileMode = 0o444

	blockSize = 512
)

// Attributes describe one projected entry.
type Attributes struct {
	Kind  Kind
	Mode  fs.FileMode
	Size  uint64
	Nlink uint32

	// Blocks counts 512-byte blocks, rounded up.
	Blocks uint64

	UID   uint32
	GID   uint32
	Atime time.Time
	Mtime time.Time

	// ID and Type identify the backing node.
	ID   uint32
	Type nx.Type
}

// Attributes synthesizes a node's attributes. Directories report size
// 0 and two links. Files report the exact length of their synthesized
// content; for strings this decodes the blob, and a failure is
// returned wrapping ErrDecode.
func (e *Engine) Attributes(node nx.Node) (Attributes, error) {
	attributes := Attributes{
		UID:   e.base.UID,
		GID:   e.base.GID,
		Atime: e.base.Atime,
		Mtime: e.base.Mtime,
		ID:    node.ID,
		Type:  node.Type,
	}

	if node.IsDirectory() {
		attributes.Kind = KindDirectory
		attributes.Mode = DirectoryMode
		attributes.Nlink = 2
		return attributes, nil
	}

	size, err := e.contentSize(node)
	if err != nil {
		return Attributes{}, err
	}
	attributes.Kind = KindFile
	attributes.Mode = FileMode
	attributes.Nlink = 1
	attributes.Size = size
	attributes.Blocks = (size + blockSize - 1) / blockSize
	return attributes, nil
}

// contentSize returns the length ReadWindow would produce for the
// whole of a file node.
func (e *Engine) contentSize(node nx.Node) (uint64, error) {
	switch node.Type {
	case nx.TypeString:
		text, err := e.container.String(node.StringID())
		if err != nil {
			return 0, fmt.Errorf("%w: string of node %d: %w", ErrDecode, node.ID, err)
		}
		return quotedLength(text), nil
	case nx.TypeInt64, nx.TypeReal, nx.TypeVector:
		return uint64(len(renderScalar(node))), nil
	case nx.TypeBitmap:
		return BitmapHeaderSize + node.Bitmap().PixelSize(), nil
	case nx.TypeAudio:
		return uint64(node.Audio().Length), nil
	default:
		return nx.DataSize, nil
	}
}

func kindOf(node nx.Node) Kind {
	if node.IsDirectory() {
		return KindDirectory
	}
	return KindFile
}
