// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates a structured logger for one-shot commands
// (ls, cat, extract). When stderr is a terminal it uses
// slog.TextHandler for human-readable output; otherwise
// slog.JSONHandler, matching the format "nxfs mount" writes.
//
// Only warnings and errors are shown: the engine logs skipped children
// and degraded reads at warn level.
func NewCommandLogger() *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: slog.LevelWarn}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}
