// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build darwin || linux

package nx

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// mapFile maps the whole file at path read-only. The returned unmap
// function releases the mapping; the slice must not be used after.
// Empty files cannot be mapped and yield a nil slice.
func mapFile(path string) (data []byte, unmap func() error, err error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// The mapping stays valid after the descriptor is closed.
	defer unix.Close(fd)

	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		return nil, nil, fmt.Errorf("stating %s: %w", path, err)
	}
	if stat.Size == 0 {
		return nil, func() error { return nil }, nil
	}
	if int64(int(stat.Size)) != stat.Size {
		return nil, nil, fmt.Errorf("%s is too large to map (%d bytes)", path, stat.Size)
	}

	data, err = unix.Mmap(fd, 0, int(stat.Size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, fmt.Errorf("memory-mapping %s: %w", path, err)
	}

	return data, func() error { return unix.Munmap(data) }, nil
}
