// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package nxfs

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// BaseAttributesOf returns the ownership and timestamps of the file at
// path, for use as every projected entry's base attributes.
func BaseAttributesOf(path string) (BaseAttributes, error) {
	var stat unix.Stat_t
	if err := unix.Stat(path, &stat); err != nil {
		return BaseAttributes{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return BaseAttributes{
		UID:   stat.Uid,
		GID:   stat.Gid,
		Atime: time.Unix(stat.Atimespec.Unix()),
		Mtime: time.Unix(stat.Mtimespec.Unix()),
	}, nil
}
