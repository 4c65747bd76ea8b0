// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the config file for [Load].
const EnvironmentVariable = "NXFS_CONFIG"

// Config is the complete configuration for an nxfs mount.
type Config struct {
	// Source is the NX file to mount.
	Source string `yaml:"source"`

	// Mountpoint is the directory the filesystem is mounted on.
	Mountpoint string `yaml:"mountpoint"`

	// SingleThreaded serves one FUSE request at a time.
	SingleThreaded bool `yaml:"single_threaded"`

	// AllowOther lets users other than the mounter access the mount.
	// Requires user_allow_other in /etc/fuse.conf.
	AllowOther bool `yaml:"allow_other"`

	// Debug enables go-fuse request tracing.
	Debug bool `yaml:"debug"`

	// FsName is the source string shown in /proc/mounts.
	// Default: nxfs
	FsName string `yaml:"fs_name"`

	// Timeouts configures kernel cache lifetimes.
	Timeouts TimeoutsConfig `yaml:"timeouts"`

	// Log configures the process logger.
	Log LogConfig `yaml:"log"`
}

// TimeoutsConfig configures how long the kernel caches lookups and
// attributes. Values are Go duration strings such as "1s" or "250ms".
type TimeoutsConfig struct {
	// Entry is the lifetime of a name lookup. Default: 1s
	Entry time.Duration `yaml:"entry"`

	// Attr is the lifetime of file attributes. Default: 1s
	Attr time.Duration `yaml:"attr"`

	// Negative is the lifetime of a failed lookup. Default: 100ms
	Negative time.Duration `yaml:"negative"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error. Default: info
	Level string `yaml:"level"`

	// Format is one of json, text, auto. Auto picks text when stderr
	// is a terminal. Default: auto
	Format string `yaml:"format"`

	// File, when set, sends JSON logs to a size-rotated file instead
	// of stderr.
	File string `yaml:"file"`

	// MaxSizeMB is the size at which the log file is rotated.
	// Default: 100
	MaxSizeMB int `yaml:"max_size_mb"`

	// MaxBackups is how many rotated files are kept. Default: 3
	MaxBackups int `yaml:"max_backups"`

	// MaxAgeDays is how long rotated files are kept. Default: 28
	MaxAgeDays int `yaml:"max_age_days"`

	// Compress gzips rotated files.
	Compress bool `yaml:"compress"`
}

// Valid values for the enumerated fields.
var (
	LogLevels  = []string{"debug", "info", "warn", "error"}
	LogFormats = []string{"auto", "json", "text"}
)

// Default returns the default configuration. Source and Mountpoint
// have no default.
func Default() *Config {
	return &Config{
		FsName: "nxfs",
		Timeouts: TimeoutsConfig{
			Entry:    1 * time.Second,
			Attr:     1 * time.Second,
			Negative: 100 * time.Millisecond,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "auto",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load loads configuration from the file named by NXFS_CONFIG. It
// fails if the variable is not set.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your nxfs.yaml config file, or use --config flag", EnvironmentVariable)
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, on top of
// the defaults. Fields absent from the file keep their defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Source = expandVars(c.Source, vars)
	c.Mountpoint = expandVars(c.Mountpoint, vars)
	c.Log.File = expandVars(c.Log.File, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. Call it after command
// line overrides have been applied.
func (c *Config) Validate() error {
	var errs []error

	if c.Source == "" {
		errs = append(errs, fmt.Errorf("source is required"))
	}
	if c.Mountpoint == "" {
		errs = append(errs, fmt.Errorf("mountpoint is required"))
	}
	if c.FsName == "" {
		errs = append(errs, fmt.Errorf("fs_name must not be empty"))
	}

	if c.Timeouts.Entry < 0 {
		errs = append(errs, fmt.Errorf("timeouts.entry must not be negative"))
	}
	if c.Timeouts.Attr < 0 {
		errs = append(errs, fmt.Errorf("timeouts.attr must not be negative"))
	}
	if c.Timeouts.Negative < 0 {
		errs = append(errs, fmt.Errorf("timeouts.negative must not be negative"))
	}

	if !slices.Contains(LogLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of: %v", LogLevels))
	}
	if !slices.Contains(LogFormats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of: %v", LogFormats))
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		errs = append(errs, fmt.Errorf("log rotation limits must not be negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
