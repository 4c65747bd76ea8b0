// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/nxfs/lib/binhash"
	"github.com/bureau-foundation/nxfs/lib/codec"
)

// ManifestVersion is the current manifest schema version.
const ManifestVersion = 1

// Manifest records what an extraction wrote.
type Manifest struct {
	Version int `json:"version"`

	// Source is the container path and SourceDigest its BLAKE3
	// digest, when the caller supplies them.
	Source       string `json:"source,omitempty"`
	SourceDigest string `json:"source_digest,omitempty"`

	Root   string `json:"root"`
	Format Format `json:"format"`

	Directories int            `json:"directories"`
	TotalBytes  uint64         `json:"total_bytes"`
	Files       []FileEntry    `json:"files"`
	Skipped     []SkippedEntry `json:"skipped,omitempty"`
}

// FileEntry describes one extracted file. Path is slash-separated and
// relative to the extraction root.
type FileEntry struct {
	Path   string `json:"path"`
	Type   string `json:"type"`
	Size   uint64 `json:"size"`
	Digest string `json:"digest"`
}

// SkippedEntry describes an entry that was not written.
type SkippedEntry struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// ManifestFormat selects the manifest encoding.
type ManifestFormat string

const (
	ManifestJSON ManifestFormat = "json"
	ManifestCBOR ManifestFormat = "cbor"
)

// ParseManifestFormat validates a manifest format name.
func ParseManifestFormat(name string) (ManifestFormat, error) {
	switch ManifestFormat(name) {
	case ManifestJSON, ManifestCBOR:
		return ManifestFormat(name), nil
	}
	return "", fmt.Errorf("unknown manifest format %q (want json or cbor)", name)
}

// Encode serializes the manifest.
func (m *Manifest) Encode(format ManifestFormat) ([]byte, error) {
	if m.Files == nil {
		m.Files = []FileEntry{}
	}
	switch format {
	case ManifestJSON:
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case ManifestCBOR:
		return codec.Marshal(m)
	}
	return nil, fmt.Errorf("unknown manifest format %q", format)
}

// WriteManifest encodes the manifest to path.
func WriteManifest(path string, manifest *Manifest, format ManifestFormat) error {
	data, err := manifest.Encode(format)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// DecodeManifest parses a manifest in either encoding. JSON manifests
// always begin with '{' (after optional whitespace); a CBOR map never
// does.
func DecodeManifest(data []byte) (*Manifest, error) {
	var manifest Manifest
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &manifest); err != nil {
			return nil, fmt.Errorf("parsing JSON manifest: %w", err)
		}
	} else if err := codec.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing CBOR manifest: %w", err)
	}
	if manifest.Version != ManifestVersion {
		return nil, fmt.Errorf("unsupported manifest version %d", manifest.Version)
	}
	return &manifest, nil
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeManifest(data)
}

// Mismatch is one difference found by Verify.
type Mismatch struct {
	Path   string
	Reason string
}

// Verify hashes every file listed in the manifest beneath directory
// and reports the ones that are missing or differ. It does not look
// for extra files. Entries whose path would leave directory are
// reported without being opened.
func Verify(manifest *Manifest, directory string) ([]Mismatch, error) {
	var mismatches []Mismatch
	for _, entry := range manifest.Files {
		if !filepath.IsLocal(filepath.FromSlash(entry.Path)) {
			mismatches = append(mismatches, Mismatch{Path: entry.Path, Reason: "path escapes the directory"})
			continue
		}
		hostPath := filepath.Join(directory, filepath.FromSlash(entry.Path))
		info, err := os.Stat(hostPath)
		if errors.Is(err, os.ErrNotExist) {
			mismatches = append(mismatches, Mismatch{Path: entry.Path, Reason: "missing"})
			continue
		}
		if err != nil {
			return nil, err
		}
		if uint64(info.Size()) != entry.Size {
			mismatches = append(mismatches, Mismatch{
				Path:   entry.Path,
				Reason: fmt.Sprintf("size %d, manifest says %d", info.Size(), entry.Size),
			})
			continue
		}
		digest, err := binhash.HashFile(hostPath)
		if err != nil {
			return nil, err
		}
		if binhash.FormatDigest(digest) != entry.Digest {
			mismatches = append(mismatches, Mismatch{Path: entry.Path, Reason: "digest differs"})
		}
	}
	return mismatches, nil
}
