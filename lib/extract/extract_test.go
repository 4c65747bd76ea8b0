// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"archive/tar"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/bureau-foundation/nxfs/lib/binhash"
	"github.com/bureau-foundation/nxfs/lib/nx"
	"github.com/bureau-foundation/nxfs/lib/nxfs"
	"github.com/bureau-foundation/nxfs/lib/testutil"
)

var testTimestamp = time.Unix(1735689600, 0) // 2025-01-01T00:00:00Z

func engineFor(t *testing.T, builder *nx.Builder) *nxfs.Engine {
	t.Helper()
	data, err := builder.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	file, err := nx.FromBytes(data)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	engine, err := nxfs.New(nxfs.Options{
		Container: file,
		Base:      nxfs.BaseAttributes{UID: 1000, GID: 1000, Atime: testTimestamp, Mtime: testTimestamp},
	})
	if err != nil {
		t.Fatalf("nxfs.New: %v", err)
	}
	return engine
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"dir", "tar", "tar.zst"} {
		if _, err := ParseFormat(name); err != nil {
			t.Errorf("ParseFormat(%q): %v", name, err)
		}
	}
	if _, err := ParseFormat("zip"); err == nil {
		t.Error("ParseFormat(zip) should fail")
	}
}

func TestExtractDirectory(t *testing.T) {
	engine := engineFor(t, testutil.SampleBuilder())
	output := filepath.Join(t.TempDir(), "out")

	manifest, err := Extract(Options{Engine: engine, Output: output})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	expected := map[string]string{
		"Mob/level.int64":   "-42\n",
		"Mob/speed.real":    "1.25\n",
		"Mob/name.string":   "\"Orange Mushroom\"\n",
		"Mob/origin.vector": "[3,-7]\n",
		"Mob/die.mp3":       "AAAAA",
		"odd":               "\x09\x08\x07\x06\x05\x04\x03\x02",
	}
	for relative, want := range expected {
		got, err := os.ReadFile(filepath.Join(output, filepath.FromSlash(relative)))
		if err != nil {
			t.Errorf("ReadFile(%s): %v", relative, err)
			continue
		}
		if string(got) != want {
			t.Errorf("%s = %q, want %q", relative, got, want)
		}
	}

	bitmap, err := os.ReadFile(filepath.Join(output, "Mob", "icon.bmp"))
	if err != nil {
		t.Fatalf("ReadFile(icon.bmp): %v", err)
	}
	if len(bitmap) != nxfs.BitmapHeaderSize+8 || string(bitmap[:2]) != "BM" {
		t.Errorf("icon.bmp = %d bytes", len(bitmap))
	}

	info, err := os.Stat(filepath.Join(output, "Map", "Town"))
	if err != nil || !info.IsDir() {
		t.Errorf("Map/Town should be a directory: %v", err)
	}

	fileInfo, err := os.Stat(filepath.Join(output, "odd"))
	if err != nil {
		t.Fatalf("Stat(odd): %v", err)
	}
	if !fileInfo.ModTime().Equal(testTimestamp) {
		t.Errorf("mtime = %v, want %v", fileInfo.ModTime(), testTimestamp)
	}

	if len(manifest.Files) != 7 {
		t.Errorf("manifest has %d files, want 7", len(manifest.Files))
	}
	if manifest.Directories != 3 {
		t.Errorf("manifest has %d directories, want 3", manifest.Directories)
	}
	if len(manifest.Skipped) != 0 {
		t.Errorf("unexpected skipped entries: %v", manifest.Skipped)
	}

	var total uint64
	for _, entry := range manifest.Files {
		total += entry.Size
		if entry.Path == "Mob/level.int64" {
			if entry.Digest != binhash.FormatDigest(binhash.HashBytes([]byte("-42\n"))) {
				t.Errorf("level digest = %s", entry.Digest)
			}
			if entry.Type != "int64" {
				t.Errorf("level type = %s", entry.Type)
			}
		}
	}
	if total != manifest.TotalBytes {
		t.Errorf("total bytes = %d, sum of files = %d", manifest.TotalBytes, total)
	}
}

func TestExtractSubtree(t *testing.T) {
	engine := engineFor(t, testutil.SampleBuilder())
	output := t.TempDir()

	manifest, err := Extract(Options{Engine: engine, Root: "/Mob/", Output: output})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(manifest.Files) != 6 {
		t.Errorf("got %d files, want 6", len(manifest.Files))
	}
	for _, entry := range manifest.Files {
		if strings.Contains(entry.Path, "/") {
			t.Errorf("subtree path %q should be relative to /Mob", entry.Path)
		}
	}
	if _, err := os.Stat(filepath.Join(output, "level.int64")); err != nil {
		t.Errorf("level.int64 not at output root: %v", err)
	}
}

func TestExtractRootMustBeDirectory(t *testing.T) {
	engine := engineFor(t, testutil.SampleBuilder())
	_, err := Extract(Options{Engine: engine, Root: "/Mob/level.int64", Output: t.TempDir()})
	if !errors.Is(err, nxfs.ErrNotDirectory) {
		t.Errorf("Extract(file root) error = %v, want ErrNotDirectory", err)
	}
}

// readTar returns every entry of a tar stream keyed by name.
func readTar(t *testing.T, r io.Reader) map[string][]byte {
	t.Helper()
	entries := make(map[string][]byte)
	reader := tar.NewReader(r)
	for {
		header, err := reader.Next()
		if err == io.EOF {
			return entries
		}
		if err != nil {
			t.Fatalf("tar Next: %v", err)
		}
		content, err := io.ReadAll(reader)
		if err != nil {
			t.Fatalf("tar read %s: %v", header.Name, err)
		}
		entries[header.Name] = content
	}
}

func TestExtractTar(t *testing.T) {
	engine := engineFor(t, testutil.SampleBuilder())
	var archive bytes.Buffer

	manifest, err := Extract(Options{Engine: engine, Format: FormatTar, Writer: &archive})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	entries := readTar(t, &archive)
	if string(entries["Mob/level.int64"]) != "-42\n" {
		t.Errorf("level = %q", entries["Mob/level.int64"])
	}
	if _, ok := entries["Map/Town/"]; !ok {
		t.Error("missing Map/Town/ directory entry")
	}
	if len(entries) != len(manifest.Files)+manifest.Directories {
		t.Errorf("tar has %d entries, manifest lists %d", len(entries), len(manifest.Files)+manifest.Directories)
	}
}

func TestExtractTarZstd(t *testing.T) {
	engine := engineFor(t, testutil.SampleBuilder())
	var archive bytes.Buffer

	if _, err := Extract(Options{Engine: engine, Format: FormatTarZstd, Writer: &archive}); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	decoder, err := zstd.NewReader(&archive)
	if err != nil {
		t.Fatalf("zstd.NewReader: %v", err)
	}
	defer decoder.Close()

	entries := readTar(t, decoder)
	if string(entries["Mob/die.mp3"]) != "AAAAA" {
		t.Errorf("die.mp3 = %q", entries["Mob/die.mp3"])
	}
}

func TestExtractRequiresDestination(t *testing.T) {
	engine := engineFor(t, testutil.SampleBuilder())
	if _, err := Extract(Options{Engine: engine}); err == nil {
		t.Error("directory extraction without output should fail")
	}
	if _, err := Extract(Options{Engine: engine, Format: FormatTar}); err == nil {
		t.Error("tar extraction without writer should fail")
	}
	if _, err := Extract(Options{Output: t.TempDir()}); err == nil {
		t.Error("extraction without engine should fail")
	}
}

func TestExtractSkipsUnrepresentableNames(t *testing.T) {
	builder := nx.NewBuilder()
	root := builder.Root()
	root.Dir("..").Int64("escape", 1)
	root.Dir("").Int64("hidden", 2)
	root.Int64("nul\x00name", 3)
	root.Int64("fine", 4)

	engine := engineFor(t, builder)
	parent := t.TempDir()
	output := filepath.Join(parent, "out")

	manifest, err := Extract(Options{Engine: engine, Output: output})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(manifest.Files) != 1 || manifest.Files[0].Path != "fine.int64" {
		t.Errorf("files = %+v, want only fine.int64", manifest.Files)
	}
	if len(manifest.Skipped) != 3 {
		t.Errorf("skipped = %+v, want 3 entries", manifest.Skipped)
	}
	if _, err := os.Stat(filepath.Join(parent, "escape.int64")); err == nil {
		t.Error("extraction escaped the output directory")
	}
}

func TestExtractSkipsUndecodableFiles(t *testing.T) {
	builder := nx.NewBuilder()
	builder.Root().CompressedBitmap("broken", 2, 2, []byte{0xFF, 0xFF, 0xFF})
	builder.Root().Int64("ok", 5)

	engine := engineFor(t, builder)
	output := t.TempDir()

	manifest, err := Extract(Options{Engine: engine, Output: output})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(manifest.Skipped) != 1 || manifest.Skipped[0].Path != "broken.bmp" {
		t.Errorf("skipped = %+v, want broken.bmp", manifest.Skipped)
	}
	if _, err := os.Stat(filepath.Join(output, "broken.bmp")); err == nil {
		t.Error("undecodable bitmap should not be written")
	}
	if len(manifest.Files) != 1 {
		t.Errorf("files = %+v", manifest.Files)
	}
}
