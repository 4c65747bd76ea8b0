// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/nxfs/lib/config"
)

func parseMountFlags(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	var params mountParams
	flagSet := params.flags()
	if err := flagSet.Parse(args); err != nil {
		t.Fatalf("Parse(%v): %v", args, err)
	}
	return mountConfig(params, flagSet, flagSet.Args())
}

func TestMountConfigFromArguments(t *testing.T) {
	t.Setenv(config.EnvironmentVariable, "")

	cfg, err := parseMountFlags(t, "-s", "--fsname", "mobs", "Mob.nx", "/mnt/mob")
	if err != nil {
		t.Fatalf("mountConfig: %v", err)
	}
	if cfg.Source != "Mob.nx" || cfg.Mountpoint != "/mnt/mob" {
		t.Errorf("source = %q, mountpoint = %q", cfg.Source, cfg.Mountpoint)
	}
	if !cfg.SingleThreaded {
		t.Error("-s did not select single-threaded serving")
	}
	if cfg.FsName != "mobs" {
		t.Errorf("FsName = %q", cfg.FsName)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want default info", cfg.Log.Level)
	}
}

func TestMountConfigFlagsOverrideFile(t *testing.T) {
	t.Setenv(config.EnvironmentVariable, "")
	path := filepath.Join(t.TempDir(), "nxfs.yaml")
	content := `source: /data/Map.nx
mountpoint: /mnt/map
single_threaded: true
fs_name: fromfile
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := parseMountFlags(t, "--config", path, "--single-threaded=false", "--log-level", "warn")
	if err != nil {
		t.Fatalf("mountConfig: %v", err)
	}
	if cfg.Source != "/data/Map.nx" || cfg.Mountpoint != "/mnt/map" {
		t.Errorf("source = %q, mountpoint = %q", cfg.Source, cfg.Mountpoint)
	}
	if cfg.SingleThreaded {
		t.Error("explicit --single-threaded=false did not override the file")
	}
	if cfg.FsName != "fromfile" {
		t.Errorf("FsName = %q, unset flag should keep file value", cfg.FsName)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
}

func TestMountConfigFromEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nxfs.yaml")
	if err := os.WriteFile(path, []byte("source: a.nx\nmountpoint: /mnt/a\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv(config.EnvironmentVariable, path)

	cfg, err := parseMountFlags(t, "b.nx")
	if err != nil {
		t.Fatalf("mountConfig: %v", err)
	}
	if cfg.Source != "b.nx" || cfg.Mountpoint != "/mnt/a" {
		t.Errorf("source = %q, mountpoint = %q", cfg.Source, cfg.Mountpoint)
	}
}

func TestMountConfigValidation(t *testing.T) {
	t.Setenv(config.EnvironmentVariable, "")

	_, err := parseMountFlags(t)
	if err == nil {
		t.Fatal("mountConfig without source or mountpoint should fail")
	}
	for _, want := range []string{"source is required", "mountpoint is required"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}

	if _, err := parseMountFlags(t, "--log-level", "loud", "a.nx", "/mnt/a"); err == nil {
		t.Error("invalid log level should fail validation")
	}
}

func TestMountRejectsExtraArguments(t *testing.T) {
	if _, err := run(t, "mount", "a.nx", "/mnt/a", "extra"); err == nil {
		t.Error("mount with three arguments should fail")
	}
}
