// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerOptions configures [NewLogger].
type LoggerOptions struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string

	// Format is json, text, or auto. Auto picks text when Stderr is
	// a terminal and JSON otherwise. Ignored when File is set.
	Format string

	// File, when set, sends JSON logs to this path with size-based
	// rotation instead of to Stderr.
	File string

	// Rotation limits for File. Zero values use lumberjack's defaults
	// (100 MB, keep everything).
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool

	// Stderr is the console destination. Defaults to os.Stderr.
	Stderr io.Writer
}

// NewLogger creates the process logger and installs it as the slog
// default so that library code using slog.Info etc. gets the same
// handler. The returned close function flushes and closes the log
// file; it is a no-op when logging to Stderr.
func NewLogger(options LoggerOptions) (*slog.Logger, func() error, error) {
	level, err := ParseLevel(options.Level)
	if err != nil {
		return nil, nil, err
	}
	handlerOptions := &slog.HandlerOptions{Level: level}

	stderr := options.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	var handler slog.Handler
	closeFunc := func() error { return nil }

	if options.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   options.File,
			MaxSize:    options.MaxSizeMB,
			MaxBackups: options.MaxBackups,
			MaxAge:     options.MaxAgeDays,
			Compress:   options.Compress,
		}
		handler = slog.NewJSONHandler(rotator, handlerOptions)
		closeFunc = rotator.Close
	} else {
		switch options.Format {
		case "json":
			handler = slog.NewJSONHandler(stderr, handlerOptions)
		case "text":
			handler = slog.NewTextHandler(stderr, handlerOptions)
		case "", "auto":
			if isTerminal(stderr) {
				handler = slog.NewTextHandler(stderr, handlerOptions)
			} else {
				handler = slog.NewJSONHandler(stderr, handlerOptions)
			}
		default:
			return nil, nil, fmt.Errorf("unknown log format %q (want json, text, or auto)", options.Format)
		}
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, closeFunc, nil
}

// ParseLevel maps a level name to its slog.Level. Empty means info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q (want debug, info, warn, or error)", name)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
