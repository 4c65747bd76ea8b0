// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/bureau-foundation/nxfs/lib/binhash"
	"github.com/bureau-foundation/nxfs/lib/nxfs"
)

// Format selects the output container.
type Format string

const (
	FormatDirectory Format = "dir"
	FormatTar       Format = "tar"
	FormatTarZstd   Format = "tar.zst"
)

// Formats lists the accepted Format values.
var Formats = []Format{FormatDirectory, FormatTar, FormatTarZstd}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	for _, format := range Formats {
		if string(format) == name {
			return format, nil
		}
	}
	return "", fmt.Errorf("unknown extract format %q (want dir, tar, or tar.zst)", name)
}

// Options configures an extraction.
type Options struct {
	// Engine supplies the projected tree. Required.
	Engine *nxfs.Engine

	// Root is the virtual directory to extract. Defaults to "/".
	Root string

	// Format selects the output. Defaults to FormatDirectory.
	Format Format

	// Output is the destination directory for FormatDirectory. It is
	// created if missing. Ignored for archive formats.
	Output string

	// Writer receives the archive for FormatTar and FormatTarZstd.
	// Ignored for FormatDirectory.
	Writer io.Writer

	// Logger receives per-entry warnings. If nil, logging is dropped.
	Logger *slog.Logger
}

// sink receives extracted entries in walk order.
type sink interface {
	directory(relative string, attributes nxfs.Attributes) error
	file(relative string, attributes nxfs.Attributes, content []byte) error
	close() error
}

// Extract writes the subtree and returns its manifest. The manifest's
// Source and SourceDigest fields are left for the caller to fill in.
func Extract(options Options) (*Manifest, error) {
	if options.Engine == nil {
		return nil, errors.New("engine is required")
	}
	if options.Root == "" {
		options.Root = "/"
	}
	if options.Format == "" {
		options.Format = FormatDirectory
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var out sink
	var err error
	switch options.Format {
	case FormatDirectory:
		if options.Output == "" {
			return nil, errors.New("output directory is required")
		}
		out, err = newDirectorySink(options.Output)
	case FormatTar:
		if options.Writer == nil {
			return nil, errors.New("archive writer is required")
		}
		out = newTarSink(options.Writer, nil)
	case FormatTarZstd:
		if options.Writer == nil {
			return nil, errors.New("archive writer is required")
		}
		out, err = newTarZstdSink(options.Writer)
	default:
		return nil, fmt.Errorf("unknown extract format %q", options.Format)
	}
	if err != nil {
		return nil, err
	}

	manifest := &Manifest{
		Version: ManifestVersion,
		Root:    options.Root,
		Format:  options.Format,
	}
	rootPrefix := strings.TrimSuffix("/"+strings.Join(nxfs.SplitPath(options.Root), "/"), "/")

	walkErr := options.Engine.Walk(options.Root, func(virtualPath string, entry nxfs.DirEntry) error {
		relative := strings.TrimPrefix(strings.TrimPrefix(virtualPath, rootPrefix), "/")
		if reason := unsafeName(entry.Name); reason != "" {
			logger.Warn("skipping entry with unrepresentable name",
				"path", virtualPath,
				"reason", reason,
			)
			manifest.Skipped = append(manifest.Skipped, SkippedEntry{Path: relative, Reason: reason})
			return prune(entry)
		}

		attributes, err := options.Engine.Attributes(entry.Node)
		if err != nil {
			skip(manifest, logger, relative, virtualPath, err)
			return prune(entry)
		}

		if entry.Kind == nxfs.KindDirectory {
			manifest.Directories++
			return out.directory(relative, attributes)
		}

		content, err := options.Engine.Content(entry.Node)
		if err != nil {
			skip(manifest, logger, relative, virtualPath, err)
			return nil
		}
		if err := out.file(relative, attributes, content); err != nil {
			return err
		}
		manifest.Files = append(manifest.Files, FileEntry{
			Path:   relative,
			Type:   attributes.Type.String(),
			Size:   attributes.Size,
			Digest: binhash.FormatDigest(binhash.HashBytes(content)),
		})
		manifest.TotalBytes += attributes.Size
		return nil
	})

	closeErr := out.close()
	if walkErr != nil {
		return nil, fmt.Errorf("extracting %s: %w", options.Root, walkErr)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("finishing %s output: %w", options.Format, closeErr)
	}
	return manifest, nil
}

// skip records an entry that could not be decoded.
func skip(manifest *Manifest, logger *slog.Logger, relative, virtualPath string, err error) {
	logger.Warn("skipping undecodable entry",
		"path", virtualPath,
		"error", err,
	)
	manifest.Skipped = append(manifest.Skipped, SkippedEntry{Path: relative, Reason: err.Error()})
}

// prune keeps the walk from descending into a skipped directory.
func prune(entry nxfs.DirEntry) error {
	if entry.Kind == nxfs.KindDirectory {
		return nxfs.SkipDir
	}
	return nil
}

// unsafeName reports why a projected name cannot become a path
// component, or "" if it can.
func unsafeName(name string) string {
	switch {
	case name == "":
		return "empty name"
	case name == "." || name == "..":
		return "reserved name " + name
	case strings.ContainsRune(name, 0):
		return "name contains NUL"
	case path.Base(name) != name:
		return "name contains a slash"
	}
	return ""
}
