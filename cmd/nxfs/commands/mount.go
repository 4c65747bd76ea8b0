// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/nxfs/cmd/nxfs/cli"
	"github.com/bureau-foundation/nxfs/lib/binhash"
	"github.com/bureau-foundation/nxfs/lib/config"
	"github.com/bureau-foundation/nxfs/lib/nxfs/fuse"
	"github.com/bureau-foundation/nxfs/lib/service"
	"github.com/bureau-foundation/nxfs/lib/version"
)

type mountParams struct {
	configPath     string
	singleThreaded bool
	allowOther     bool
	debug          bool
	fsName         string
	logLevel       string
	logFile        string
}

func mountCommand(streams Streams) *cli.Command {
	var params mountParams
	var flagSet *pflag.FlagSet

	return &cli.Command{
		Name:    "mount",
		Summary: "Mount a container read-only",
		Description: `Mount an NX container read-only via FUSE and serve it until SIGINT or
SIGTERM, then unmount. The source and mountpoint come from the
arguments or from the config file (--config or NXFS_CONFIG); flags
override config values.`,
		Usage: "nxfs mount [flags] [<file.nx> <mountpoint>]",
		Examples: []cli.Example{
			{Description: "Mount a container", Command: "nxfs mount Mob.nx /mnt/mob"},
			{Description: "Serve one request at a time with a rotating log", Command: "nxfs mount -s --log-file /var/log/nxfs.log Map.nx /mnt/map"},
			{Description: "Mount as described by a config file", Command: "nxfs mount --config nxfs.yaml"},
		},
		Flags: func() *pflag.FlagSet {
			params = mountParams{}
			flagSet = params.flags()
			return flagSet
		},
		Run: func(args []string) error {
			if err := expectArgs(args, 0, 2, "nxfs mount [flags] [<file.nx> <mountpoint>]"); err != nil {
				return err
			}
			cfg, err := mountConfig(params, flagSet, args)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runMount(ctx, cfg, streams)
		},
	}
}

func (p *mountParams) flags() *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("mount", pflag.ContinueOnError)
	flagSet.StringVar(&p.configPath, "config", "", "config file (default $"+config.EnvironmentVariable+")")
	flagSet.BoolVarP(&p.singleThreaded, "single-threaded", "s", false, "serve one request at a time")
	flagSet.BoolVar(&p.allowOther, "allow-other", false, "let other users access the mount")
	flagSet.BoolVar(&p.debug, "debug", false, "trace every FUSE request")
	flagSet.StringVar(&p.fsName, "fsname", "", "source name shown in /proc/mounts")
	flagSet.StringVar(&p.logLevel, "log-level", "", "debug, info, warn, or error")
	flagSet.StringVar(&p.logFile, "log-file", "", "write JSON logs to a rotated file")
	return flagSet
}

// mountConfig layers the config file, positional arguments, and
// explicitly set flags, then validates the result.
func mountConfig(params mountParams, flagSet *pflag.FlagSet, args []string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case params.configPath != "":
		cfg, err = config.LoadFile(params.configPath)
	case os.Getenv(config.EnvironmentVariable) != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if len(args) > 0 {
		cfg.Source = args[0]
	}
	if len(args) > 1 {
		cfg.Mountpoint = args[1]
	}

	changed := func(name string) bool {
		return flagSet != nil && flagSet.Changed(name)
	}
	if changed("single-threaded") {
		cfg.SingleThreaded = params.singleThreaded
	}
	if changed("allow-other") {
		cfg.AllowOther = params.allowOther
	}
	if changed("debug") {
		cfg.Debug = params.debug
	}
	if changed("fsname") {
		cfg.FsName = params.fsName
	}
	if changed("log-level") {
		cfg.Log.Level = params.logLevel
	}
	if changed("log-file") {
		cfg.Log.File = params.logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// runMount serves cfg until ctx is cancelled or the filesystem is
// unmounted externally.
func runMount(ctx context.Context, cfg *config.Config, streams Streams) error {
	logger, closeLog, err := service.NewLogger(service.LoggerOptions{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
		Stderr:     streams.Stderr,
	})
	if err != nil {
		return err
	}
	defer closeLog()

	source, err := openContainer(cfg.Source, logger)
	if err != nil {
		return err
	}
	defer source.Close()

	header := source.file.Header()
	logger.Info("container opened",
		"source", cfg.Source,
		"size", source.file.Size(),
		"nodes", header.NodeCount,
		"strings", header.StringCount,
		"bitmaps", header.BitmapCount,
		"audio", header.AudioCount,
		"version", version.Info(),
	)
	if logger.Enabled(ctx, slog.LevelDebug) {
		digest, err := binhash.HashFile(cfg.Source)
		if err != nil {
			logger.Warn("hashing source failed", "error", err)
		} else {
			logger.Debug("source digest", "blake3", binhash.FormatDigest(digest))
		}
	}

	server, err := fuse.Mount(fuse.Options{
		Mountpoint:      cfg.Mountpoint,
		Engine:          source.engine,
		SingleThreaded:  cfg.SingleThreaded,
		AllowOther:      cfg.AllowOther,
		Debug:           cfg.Debug,
		FsName:          cfg.FsName,
		EntryTimeout:    cfg.Timeouts.Entry,
		AttrTimeout:     cfg.Timeouts.Attr,
		NegativeTimeout: cfg.Timeouts.Negative,
		Logger:          logger,
	})
	if err != nil {
		return err
	}
	return service.Serve(ctx, server, logger)
}
