// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/bureau-foundation/nxfs/lib/nxfs"
)

// directorySink writes entries beneath a host directory.
type directorySink struct {
	root string
}

func newDirectorySink(root string) (*directorySink, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", root, err)
	}
	return &directorySink{root: root}, nil
}

func (d *directorySink) hostPath(relative string) (string, error) {
	if !filepath.IsLocal(filepath.FromSlash(relative)) {
		return "", fmt.Errorf("refusing to write outside output directory: %q", relative)
	}
	return filepath.Join(d.root, filepath.FromSlash(relative)), nil
}

func (d *directorySink) directory(relative string, _ nxfs.Attributes) error {
	hostPath, err := d.hostPath(relative)
	if err != nil {
		return err
	}
	return os.MkdirAll(hostPath, 0o755)
}

func (d *directorySink) file(relative string, attributes nxfs.Attributes, content []byte) error {
	hostPath, err := d.hostPath(relative)
	if err != nil {
		return err
	}
	if err := os.WriteFile(hostPath, content, 0o644); err != nil {
		return err
	}
	return os.Chtimes(hostPath, attributes.Atime, attributes.Mtime)
}

func (d *directorySink) close() error { return nil }

// tarSink writes entries into a tar stream, optionally wrapped by a
// compressor that must be closed after the tar trailer.
type tarSink struct {
	writer     *tar.Writer
	compressor io.Closer
}

func newTarSink(w io.Writer, compressor io.Closer) *tarSink {
	return &tarSink{writer: tar.NewWriter(w), compressor: compressor}
}

func newTarZstdSink(w io.Writer) (*tarSink, error) {
	encoder, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	return newTarSink(encoder, encoder), nil
}

func (t *tarSink) directory(relative string, attributes nxfs.Attributes) error {
	return t.writer.WriteHeader(&tar.Header{
		Typeflag: tar.TypeDir,
		Name:     relative + "/",
		Mode:     int64(attributes.Mode.Perm()),
		ModTime:  attributes.Mtime,
		Uid:      int(attributes.UID),
		Gid:      int(attributes.GID),
	})
}

func (t *tarSink) file(relative string, attributes nxfs.Attributes, content []byte) error {
	err := t.writer.WriteHeader(&tar.Header{
		Typeflag: tar.TypeReg,
		Name:     relative,
		Size:     int64(len(content)),
		Mode:     int64(attributes.Mode.Perm()),
		ModTime:  attributes.Mtime,
		Uid:      int(attributes.UID),
		Gid:      int(attributes.GID),
	})
	if err != nil {
		return err
	}
	_, err = t.writer.Write(content)
	return err
}

func (t *tarSink) close() error {
	err := t.writer.Close()
	if t.compressor != nil {
		if closeErr := t.compressor.Close(); err == nil {
			err = closeErr
		}
	}
	return err
}
