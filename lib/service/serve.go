// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"
	"log/slog"
)

// Mounted is a running filesystem server. *fuse.Server satisfies it.
type Mounted interface {
	// Wait blocks until the filesystem is unmounted.
	Wait()

	// Unmount asks the kernel to detach the filesystem.
	Unmount() error
}

// Serve blocks until the filesystem goes away. If ctx is cancelled
// first (typically by SIGINT or SIGTERM), Serve unmounts and waits for
// the server loop to drain. An external unmount (fusermount -u) ends
// Serve without error.
func Serve(ctx context.Context, server Mounted, logger *slog.Logger) error {
	done := make(chan struct{})
	go func() {
		server.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("filesystem unmounted externally")
		return nil
	case <-ctx.Done():
	}

	logger.Info("unmounting", "reason", context.Cause(ctx))
	if err := server.Unmount(); err != nil {
		return fmt.Errorf("unmounting: %w", err)
	}
	<-done
	return nil
}
