// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/nxfs/cmd/nxfs/cli"
	"github.com/bureau-foundation/nxfs/lib/extract"
	"github.com/bureau-foundation/nxfs/lib/nxfs"
	"github.com/bureau-foundation/nxfs/lib/testutil"
)

// run executes the command tree and returns what it wrote to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRoot(Streams{
		Stdout: &stdout,
		Stderr: &stderr,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	err := root.Execute(args)
	return stdout.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	output, err := run(t, args...)
	if err != nil {
		t.Fatalf("nxfs %s: %v", strings.Join(args, " "), err)
	}
	return output
}

func sampleContainer(t *testing.T) string {
	t.Helper()
	return testutil.WriteNX(t, testutil.SampleBuilder(), "sample.nx")
}

func TestCommandTreeHasSummaries(t *testing.T) {
	root := NewRoot(Streams{Stdout: io.Discard, Stderr: io.Discard})
	seen := make(map[string]bool)
	for _, command := range root.Subcommands {
		if command.Summary == "" {
			t.Errorf("%s: missing Summary", command.Name)
		}
		if command.Run == nil {
			t.Errorf("%s: missing Run", command.Name)
		}
		if seen[command.Name] {
			t.Errorf("%s: duplicate command name", command.Name)
		}
		seen[command.Name] = true
	}
}

func TestRootVersionFlag(t *testing.T) {
	output := mustRun(t, "--version")
	if !strings.HasPrefix(output, "nxfs ") {
		t.Errorf("--version output = %q", output)
	}
	if _, err := run(t); err == nil {
		t.Error("running nxfs without a command should fail")
	}
}

func TestVersionCommand(t *testing.T) {
	output := mustRun(t, "version")
	if !strings.HasPrefix(output, "nxfs ") {
		t.Errorf("version output = %q", output)
	}
}

func TestLs(t *testing.T) {
	source := sampleContainer(t)

	if got := mustRun(t, "ls", source); got != "Map\nMob\nodd\n" {
		t.Errorf("ls / = %q", got)
	}

	want := "die.mp3\nicon.bmp\nlevel.int64\nname.string\norigin.vector\nspeed.real\n"
	if got := mustRun(t, "ls", source, "/Mob"); got != want {
		t.Errorf("ls /Mob = %q, want %q", got, want)
	}

	if got := mustRun(t, "ls", "-R", source, "/Map"); got != "Town\n" {
		t.Errorf("ls -R /Map = %q", got)
	}
}

func TestLsRecursivePaths(t *testing.T) {
	output := mustRun(t, "ls", "-R", sampleContainer(t))
	for _, want := range []string{"Map/Town\n", "Mob/level.int64\n", "odd\n"} {
		if !strings.Contains(output, want) {
			t.Errorf("ls -R output missing %q:\n%s", want, output)
		}
	}
}

func TestLsLong(t *testing.T) {
	output := mustRun(t, "ls", "-l", sampleContainer(t))
	if !strings.Contains(output, "dr-xr-xr-x") {
		t.Errorf("ls -l missing directory mode:\n%s", output)
	}
	if !strings.Contains(output, "-r--r--r--") {
		t.Errorf("ls -l missing file mode:\n%s", output)
	}
}

func TestLsJSON(t *testing.T) {
	output := mustRun(t, "ls", "--json", sampleContainer(t), "/Mob")

	var entries []lsEntry
	if err := json.Unmarshal([]byte(output), &entries); err != nil {
		t.Fatalf("decoding ls --json: %v\n%s", err, output)
	}
	if len(entries) != 6 {
		t.Fatalf("got %d entries, want 6", len(entries))
	}
	for _, entry := range entries {
		if entry.Path == "level.int64" && (entry.Size != 4 || entry.Type != "int64" || entry.Kind != "file") {
			t.Errorf("level entry = %+v", entry)
		}
		if entry.Path == "icon.bmp" && entry.Size != nxfs.BitmapHeaderSize+8 {
			t.Errorf("icon size = %d", entry.Size)
		}
	}
}

func TestLsErrors(t *testing.T) {
	source := sampleContainer(t)
	if _, err := run(t, "ls", source, "/Missing"); !errors.Is(err, nxfs.ErrNotFound) {
		t.Errorf("ls missing path error = %v, want ErrNotFound", err)
	}
	if _, err := run(t, "ls", source, "/Mob/level.int64"); !errors.Is(err, nxfs.ErrNotDirectory) {
		t.Errorf("ls file error = %v, want ErrNotDirectory", err)
	}
	if _, err := run(t, "ls"); err == nil {
		t.Error("ls without arguments should fail")
	}
	if _, err := run(t, "ls", filepath.Join(t.TempDir(), "absent.nx")); err == nil {
		t.Error("ls of a missing container should fail")
	}
}

func TestStat(t *testing.T) {
	source := sampleContainer(t)

	output := mustRun(t, "stat", "--json", source, "/Mob/speed.real")
	var result statResult
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("decoding stat --json: %v\n%s", err, output)
	}
	if result.Kind != "file" || result.Type != "real" || result.Size != 5 || result.Nlink != 1 {
		t.Errorf("stat speed.real = %+v", result)
	}

	info, err := os.Stat(source)
	if err != nil {
		t.Fatalf("os.Stat: %v", err)
	}
	if !result.Mtime.Equal(info.ModTime()) {
		t.Errorf("mtime = %v, want container mtime %v", result.Mtime, info.ModTime())
	}

	text := mustRun(t, "stat", source, "/Map")
	if !strings.Contains(text, "directory") || !strings.Contains(text, "dr-xr-xr-x") {
		t.Errorf("stat /Map text = %q", text)
	}

	if _, err := run(t, "stat", source, "/Mob/speed.int64"); !errors.Is(err, nxfs.ErrNotFound) {
		t.Errorf("stat with wrong suffix error = %v, want ErrNotFound", err)
	}
}

func TestCat(t *testing.T) {
	source := sampleContainer(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"/Mob/level.int64"}, "-42\n"},
		{[]string{"/Mob/name.string"}, "\"Orange Mushroom\"\n"},
		{[]string{"/Mob/origin.vector"}, "[3,-7]\n"},
		{[]string{"--offset", "1", "--length", "2", "/Mob/level.int64"}, "42"},
		{[]string{"--offset", "100", "/Mob/level.int64"}, ""},
		{[]string{"/Mob/die.mp3"}, "AAAAA"},
	}
	for _, test := range tests {
		t.Run(strings.Join(test.args, " "), func(t *testing.T) {
			args := append([]string{"cat"}, test.args[:len(test.args)-1]...)
			args = append(args, source, test.args[len(test.args)-1])
			if got := mustRun(t, args...); got != test.want {
				t.Errorf("cat = %q, want %q", got, test.want)
			}
		})
	}
}

func TestCatBitmap(t *testing.T) {
	output := mustRun(t, "cat", sampleContainer(t), "/Mob/icon.bmp")
	if len(output) != nxfs.BitmapHeaderSize+8 {
		t.Fatalf("bitmap is %d bytes", len(output))
	}
	if output[:2] != "BM" {
		t.Errorf("bitmap magic = %q", output[:2])
	}
	if output[nxfs.BitmapHeaderSize:] != "\x01\x02\x03\x04\x05\x06\x07\x08" {
		t.Errorf("pixels = %x", output[nxfs.BitmapHeaderSize:])
	}
}

func TestCatErrors(t *testing.T) {
	source := sampleContainer(t)
	if _, err := run(t, "cat", source, "/Mob"); err == nil {
		t.Error("cat of a directory should fail")
	}
	if _, err := run(t, "cat", "--offset", "-1", source, "/Mob/level.int64"); err == nil {
		t.Error("negative offset should fail")
	}
	if _, err := run(t, "cat", source, "/Mob/level"); !errors.Is(err, nxfs.ErrNotFound) {
		t.Errorf("cat without suffix error = %v, want ErrNotFound", err)
	}
}

func TestExtractAndVerify(t *testing.T) {
	source := sampleContainer(t)
	work := t.TempDir()
	output := filepath.Join(work, "mob")
	manifestPath := filepath.Join(work, "mob.cbor")

	summary := mustRun(t, "extract", "--manifest", manifestPath, "--manifest-format", "cbor", source, "/Mob", output)
	if !strings.Contains(summary, "extracted 6 files") {
		t.Errorf("summary = %q", summary)
	}

	content, err := os.ReadFile(filepath.Join(output, "name.string"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(content) != "\"Orange Mushroom\"\n" {
		t.Errorf("name.string = %q", content)
	}

	manifest, err := extract.LoadManifest(manifestPath)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if manifest.Source != source || manifest.SourceDigest == "" {
		t.Errorf("manifest source = %q digest = %q", manifest.Source, manifest.SourceDigest)
	}

	verified := mustRun(t, "verify", "--source", source, manifestPath, output)
	if !strings.Contains(verified, "6 files verified") {
		t.Errorf("verify output = %q", verified)
	}

	if err := os.WriteFile(filepath.Join(output, "level.int64"), []byte("99\n\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	report, err := run(t, "verify", manifestPath, output)
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("verify after tampering error = %v, want exit code 1", err)
	}
	if !strings.Contains(report, "level.int64: digest differs") {
		t.Errorf("verify report = %q", report)
	}
}

func TestExtractTarArchive(t *testing.T) {
	source := sampleContainer(t)
	archive := filepath.Join(t.TempDir(), "sample.tar.zst")

	mustRun(t, "extract", "--format", "tar.zst", source, "/", archive)

	info, err := os.Stat(archive)
	if err != nil {
		t.Fatalf("archive not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("archive is empty")
	}
}

func TestExtractTarToStdout(t *testing.T) {
	output := mustRun(t, "extract", "--format", "tar", sampleContainer(t), "/Map", "-")
	// A tar stream is a sequence of 512-byte blocks.
	if len(output) == 0 || len(output)%512 != 0 {
		t.Errorf("tar stream is %d bytes", len(output))
	}
	if strings.Contains(output, "extracted") {
		t.Error("summary leaked into the archive stream")
	}
}

func TestExtractRejectsUnknownFormats(t *testing.T) {
	source := sampleContainer(t)
	dest := t.TempDir()
	if _, err := run(t, "extract", "--format", "zip", source, "/", dest); err == nil {
		t.Error("unknown archive format should fail")
	}
	if _, err := run(t, "extract", "--manifest-format", "xml", source, "/", dest); err == nil {
		t.Error("unknown manifest format should fail")
	}
}
