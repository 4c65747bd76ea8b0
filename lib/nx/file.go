// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package nx

import (
	"fmt"
	"sort"
)

// File is an opened NX container. All methods are safe for concurrent
// use; none of them mutate the File.
type File struct {
	data   []byte
	header Header
	unmap  func() error
}

// Open memory-maps the NX file at path and validates its header. The
// caller must Close the File when done; Nodes and strings obtained
// from it remain valid after Close, but blob slices returned by Audio
// do not.
func Open(path string) (*File, error) {
	data, unmap, err := mapFile(path)
	if err != nil {
		return nil, err
	}

	file, err := newFile(data)
	if err != nil {
		unmap()
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	file.unmap = unmap
	return file, nil
}

// FromBytes wraps an in-memory NX image. The slice must not be
// modified while the File is in use.
func FromBytes(data []byte) (*File, error) {
	return newFile(data)
}

func newFile(data []byte) (*File, error) {
	header, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	if err := header.validate(uint64(len(data))); err != nil {
		return nil, err
	}
	return &File{data: data, header: header}, nil
}

// Close releases the mapping. Closing a File built with FromBytes is
// a no-op.
func (f *File) Close() error {
	if f.unmap == nil {
		return nil
	}
	unmap := f.unmap
	f.unmap = nil
	return unmap()
}

// Header returns the decoded file header.
func (f *File) Header() Header {
	return f.header
}

// Size returns the container's length in bytes.
func (f *File) Size() int64 {
	return int64(len(f.data))
}

// Root returns node 0.
func (f *File) Root() (Node, error) {
	return f.Node(0)
}

// Node returns the node with the given id.
func (f *File) Node(id uint32) (Node, error) {
	if id >= f.header.NodeCount {
		return Node{}, fmt.Errorf("%w: node %d (count %d)", ErrOutOfRange, id, f.header.NodeCount)
	}
	offset := f.header.NodeOffset + uint64(id)*NodeSize
	return decodeNode(id, f.data[offset:offset+NodeSize]), nil
}

// Name returns the node's stored name.
func (f *File) Name(node Node) (string, error) {
	name, err := f.String(node.NameID)
	if err != nil {
		return "", fmt.Errorf("name of node %d: %w", node.ID, err)
	}
	return name, nil
}

// Children returns the id of the first child and the number of
// children. The ids first..first+count-1 are contiguous.
func (f *File) Children(node Node) (first uint32, count int) {
	return node.FirstChild, int(node.ChildCount)
}

// Child finds the direct child of parent with the given name. Children
// are stored sorted by name, so this is a binary search.
func (f *File) Child(parent Node, name string) (Node, error) {
	first, count := f.Children(parent)

	var searchErr error
	index := sort.Search(count, func(i int) bool {
		if searchErr != nil {
			return true
		}
		child, err := f.Node(first + uint32(i))
		if err != nil {
			searchErr = err
			return true
		}
		childName, err := f.Name(child)
		if err != nil {
			searchErr = err
			return true
		}
		return childName >= name
	})
	if searchErr != nil {
		return Node{}, searchErr
	}
	if index >= count {
		return Node{}, fmt.Errorf("%w: %q under node %d", ErrNotFound, name, parent.ID)
	}

	child, err := f.Node(first + uint32(index))
	if err != nil {
		return Node{}, err
	}
	childName, err := f.Name(child)
	if err != nil {
		return Node{}, err
	}
	if childName != name {
		return Node{}, fmt.Errorf("%w: %q under node %d", ErrNotFound, name, parent.ID)
	}
	return child, nil
}

// Resolve walks from the root through the given path segments. Empty
// segments are skipped, so a nil or empty slice resolves to the root.
func (f *File) Resolve(segments []string) (Node, error) {
	node, err := f.Root()
	if err != nil {
		return Node{}, err
	}
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		node, err = f.Child(node, segment)
		if err != nil {
			return Node{}, err
		}
	}
	return node, nil
}
