// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"path/filepath"
	"testing"

	"github.com/bureau-foundation/nxfs/lib/nx"
)

// WriteNX encodes builder into a file named name inside a fresh test
// directory and returns its path. The directory is removed when the
// test completes.
func WriteNX(t *testing.T, builder *nx.Builder, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := builder.WriteFile(path); err != nil {
		t.Fatalf("writing NX fixture %s: %v", path, err)
	}
	return path
}

// SampleBuilder returns a small container exercising every node type:
//
//	Mob/                 directory
//	  level.int64        -42
//	  speed.real         1.25
//	  name.string        "Orange Mushroom"
//	  origin.vector      [3,-7]
//	  icon.bmp           2x1 BGRA pixels 1..8
//	  die.mp3            "AAAAA"
//	Map/Town/            empty directory
//	odd                  type 9, data 9..2
func SampleBuilder() *nx.Builder {
	builder := nx.NewBuilder()
	root := builder.Root()

	mob := root.Dir("Mob")
	mob.Int64("level", -42)
	mob.Real("speed", 1.25)
	mob.String("name", "Orange Mushroom")
	mob.Vector("origin", 3, -7)
	mob.Bitmap("icon", 2, 1, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	mob.Audio("die", []byte("AAAAA"))

	root.Dir("Map").Dir("Town")
	root.Raw("odd", nx.Type(9), [nx.DataSize]byte{9, 8, 7, 6, 5, 4, 3, 2})
	return builder
}
