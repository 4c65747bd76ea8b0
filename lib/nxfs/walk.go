// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package nxfs

import (
	"errors"
	"fmt"
	"strings"
)

// SkipDir may be returned by a WalkFunc visiting a directory to skip
// that directory's contents.
var SkipDir = errors.New("skip this directory")

// WalkFunc is called for every entry below the walk root, in listing
// order, depth first. virtualPath is the entry's full virtual path.
type WalkFunc func(virtualPath string, entry DirEntry) error

// Walk visits every entry below virtualPath, which must name a
// directory. The "." and ".." entries are not visited. Returning an
// error other than SkipDir stops the walk and returns it.
func (e *Engine) Walk(virtualPath string, visit WalkFunc) error {
	root, err := e.Resolve(virtualPath)
	if err != nil {
		return err
	}
	if !root.IsDirectory() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, virtualPath)
	}
	prefix := strings.TrimSuffix("/"+strings.Join(SplitPath(virtualPath), "/"), "/")
	return e.walk(prefix, e.List(root), visit)
}

// dotEntries is the number of synthesized entries List places first.
const dotEntries = 2

func (e *Engine) walk(prefix string, entries []DirEntry, visit WalkFunc) error {
	for _, entry := range entries[dotEntries:] {
		childPath := prefix + "/" + entry.Name
		err := visit(childPath, entry)
		if errors.Is(err, SkipDir) && entry.Kind == KindDirectory {
			continue
		}
		if err != nil {
			return err
		}
		if entry.Kind == KindDirectory {
			if err := e.walk(childPath, e.List(entry.Node), visit); err != nil {
				return err
			}
		}
	}
	return nil
}
