// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package nxfs

import (
	"slices"

	"github.com/bureau-foundation/nxfs/lib/nx"
)

// DirEntry is one name in a directory listing.
type DirEntry struct {
	Name string
	Kind Kind

	// Node is the entry's container node. For "." it is the listed
	// directory; for ".." it is the zero Node.
	Node nx.Node
}

// List returns the entries of a directory node: "." and ".." followed
// by every readable child in stored order, each under its suffixed
// name. Children whose record or name cannot be read are skipped with
// a warning. A non-directory node lists only the two dot entries.
//
// Two children can project to the same name: a directory stored as
// "a.bmp" and a bitmap stored as "a" both list as "a.bmp". Only the
// child Resolve returns for that name is listed (the one whose type
// derives the suffix); the shadowed child is skipped with a warning.
func (e *Engine) List(directory nx.Node) []DirEntry {
	entries := []DirEntry{
		{Name: ".", Kind: KindDirectory, Node: directory},
		{Name: "..", Kind: KindDirectory},
	}
	if !directory.IsDirectory() {
		return entries
	}

	seen := make(map[string]int)
	var shadowed []int

	first, count := e.container.Children(directory)
	for index := range count {
		id := first + uint32(index)
		child, err := e.container.Node(id)
		if err != nil {
			e.logger.Warn("skipping unreadable child",
				"parent", directory.ID,
				"child", id,
				"error", err,
			)
			continue
		}
		name, err := e.container.Name(child)
		if err != nil {
			e.logger.Warn("skipping child with unreadable name",
				"parent", directory.ID,
				"child", id,
				"error", err,
			)
			continue
		}
		entry := DirEntry{
			Name: EntryName(name, child.Type),
			Kind: kindOf(child),
			Node: child,
		}
		if previous, ok := seen[entry.Name]; ok {
			loser := child
			if Suffix(child.Type) != "" && Suffix(entries[previous].Node.Type) == "" {
				loser = entries[previous].Node
				shadowed = append(shadowed, previous)
				seen[entry.Name] = len(entries)
				entries = append(entries, entry)
			}
			e.logger.Warn("skipping child shadowed by a sibling with the same entry name",
				"parent", directory.ID,
				"child", loser.ID,
				"name", entry.Name,
			)
			continue
		}
		seen[entry.Name] = len(entries)
		entries = append(entries, entry)
	}
	if len(shadowed) == 0 {
		return entries
	}
	visible := make([]DirEntry, 0, len(entries)-len(shadowed))
	for index, entry := range entries {
		if !slices.Contains(shadowed, index) {
			visible = append(visible, entry)
		}
	}
	return visible
}
