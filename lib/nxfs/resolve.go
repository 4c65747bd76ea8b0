// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package nxfs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bureau-foundation/nxfs/lib/nx"
)

// suffixes maps value types to the extension appended to their names.
var suffixes = map[nx.Type]string{
	nx.TypeInt64:  ".int64",
	nx.TypeReal:   ".real",
	nx.TypeString: ".string",
	nx.TypeVector: ".vector",
	nx.TypeBitmap: ".bmp",
	nx.TypeAudio:  ".mp3",
}

// Suffix returns the virtual-name suffix for a node type. Directories
// and unknown types have none.
func Suffix(nodeType nx.Type) string {
	return suffixes[nodeType]
}

// EntryName returns the name a node with the given stored name and
// type appears under.
func EntryName(storedName string, nodeType nx.Type) string {
	return storedName + Suffix(nodeType)
}

// SplitPath breaks a slash-separated virtual path into segments,
// dropping empty ones. "/" and "" both yield no segments.
func SplitPath(virtualPath string) []string {
	fields := strings.Split(virtualPath, "/")
	segments := fields[:0]
	for _, field := range fields {
		if field != "" {
			segments = append(segments, field)
		}
	}
	return segments
}

// Resolve maps a virtual path to the node it names.
//
// Only the final segment may carry a suffix. If it ends in a known
// suffix, the stripped name is tried first and accepted only when the
// node found derives that same suffix. Otherwise the name is looked up
// as stored, and accepted only when the node derives no suffix. A
// stored name "a.bmp" on a directory therefore resolves as "a.bmp",
// while the same name on a bitmap node resolves as "a.bmp.bmp".
func (e *Engine) Resolve(virtualPath string) (nx.Node, error) {
	segments := SplitPath(virtualPath)
	if len(segments) == 0 {
		return e.lookup(virtualPath, nil)
	}

	last := len(segments) - 1
	name := segments[last]
	if suffix := suffixOf(name); suffix != "" {
		stripped := append(segments[:last:last], strings.TrimSuffix(name, suffix))
		node, err := e.lookup(virtualPath, stripped)
		if err == nil && Suffix(node.Type) == suffix {
			return node, nil
		}
	}

	node, err := e.lookup(virtualPath, segments)
	if err != nil {
		return nx.Node{}, err
	}
	if Suffix(node.Type) != "" {
		return nx.Node{}, fmt.Errorf("%w: %s", ErrNotFound, virtualPath)
	}
	return node, nil
}

// lookup resolves stored-name segments, folding every container
// failure into ErrNotFound.
func (e *Engine) lookup(virtualPath string, segments []string) (nx.Node, error) {
	node, err := e.container.Resolve(segments)
	if err != nil {
		if !errors.Is(err, nx.ErrNotFound) {
			e.logger.Warn("path resolution hit unreadable node",
				"path", virtualPath,
				"error", err,
			)
		}
		return nx.Node{}, fmt.Errorf("%w: %s: %w", ErrNotFound, virtualPath, err)
	}
	return node, nil
}

// suffixOf returns the known suffix a name ends with, or "".
func suffixOf(name string) string {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return ""
	}
	candidate := name[dot:]
	for _, suffix := range suffixes {
		if candidate == suffix {
			return suffix
		}
	}
	return ""
}
