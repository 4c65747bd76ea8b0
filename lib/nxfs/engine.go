// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package nxfs

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/bureau-foundation/nxfs/lib/nx"
)

// BaseAttributes are the ownership and timestamps every projected
// entry inherits. The mount copies them from the container file itself.
type BaseAttributes struct {
	UID   uint32
	GID   uint32
	Atime time.Time
	Mtime time.Time
}

// Options configures an Engine.
type Options struct {
	// Container is the NX file to project. Required.
	Container Container

	// Base supplies ownership and timestamps for every entry.
	Base BaseAttributes

	// Logger receives warnings about unreadable children and degraded
	// reads. If nil, logging is discarded.
	Logger *slog.Logger
}

// Engine answers path, attribute, listing and read queries against a
// single container. Create one with New.
type Engine struct {
	container Container
	base      BaseAttributes
	logger    *slog.Logger
}

// New creates an Engine.
func New(options Options) (*Engine, error) {
	if options.Container == nil {
		return nil, errors.New("nxfs: container is required")
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		container: options.Container,
		base:      options.Base,
		logger:    logger,
	}, nil
}

// Stat resolves a virtual path and returns its attributes. Decode
// failures are reported as ErrNotFound wrapping ErrDecode.
func (e *Engine) Stat(virtualPath string) (Attributes, error) {
	node, err := e.Resolve(virtualPath)
	if err != nil {
		return Attributes{}, err
	}
	attributes, err := e.Attributes(node)
	if err != nil {
		return Attributes{}, fmt.Errorf("%w: %s: %w", ErrNotFound, virtualPath, err)
	}
	return attributes, nil
}

// ReadDir resolves a virtual path and lists it.
func (e *Engine) ReadDir(virtualPath string) ([]DirEntry, error) {
	node, err := e.Resolve(virtualPath)
	if err != nil {
		return nil, err
	}
	if !node.IsDirectory() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, virtualPath)
	}
	return e.List(node), nil
}

// Read resolves a virtual path and copies up to len(dest) bytes of
// its content starting at offset. Only resolution can fail; decode
// problems produce a zero-length read.
func (e *Engine) Read(virtualPath string, dest []byte, offset uint64) (int, error) {
	node, err := e.Resolve(virtualPath)
	if err != nil {
		return 0, err
	}
	return e.ReadWindow(node, dest, offset), nil
}

// Content returns a node's entire synthesized content. Unlike
// ReadWindow it reports decode failures, which makes it the right call
// for exporters that must not silently write empty files.
func (e *Engine) Content(node nx.Node) ([]byte, error) {
	attributes, err := e.Attributes(node)
	if err != nil {
		return nil, err
	}
	if attributes.Kind == KindDirectory {
		return nil, fmt.Errorf("node %d is a directory", node.ID)
	}
	content := make([]byte, attributes.Size)
	if n := e.ReadWindow(node, content, 0); uint64(n) != attributes.Size {
		return nil, fmt.Errorf("%w: node %d produced %d of %d bytes", ErrDecode, node.ID, n, attributes.Size)
	}
	return content, nil
}
