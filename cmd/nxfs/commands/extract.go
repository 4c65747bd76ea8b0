// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/nxfs/cmd/nxfs/cli"
	"github.com/bureau-foundation/nxfs/lib/binhash"
	"github.com/bureau-foundation/nxfs/lib/extract"
)

func extractCommand(streams Streams) *cli.Command {
	var (
		formatName         string
		manifestPath       string
		manifestFormatName string
	)

	return &cli.Command{
		Name:    "extract",
		Summary: "Copy a subtree out of a container",
		Description: `Write every file below a container path to a host directory, a tar
archive, or a zstd-compressed tar archive. The written bytes are what
reads of the mounted files return. Entries whose names cannot be host
path components, and files whose blobs fail to decode, are skipped and
listed in the manifest.

For archive formats <dest> is a file path, or "-" for stdout.`,
		Usage: "nxfs extract [flags] <file.nx> <path> <dest>",
		Examples: []cli.Example{
			{Description: "Unpack one image", Command: "nxfs extract Mob.nx /0100100.img ./orange-mushroom"},
			{Description: "Archive a whole container with a CBOR manifest", Command: "nxfs extract --format tar.zst --manifest map.cbor --manifest-format cbor Map.nx / map.tar.zst"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("extract", pflag.ContinueOnError)
			flagSet.StringVar(&formatName, "format", string(extract.FormatDirectory), "output format: dir, tar, or tar.zst")
			flagSet.StringVar(&manifestPath, "manifest", "", "write a manifest of extracted files to this path")
			flagSet.StringVar(&manifestFormatName, "manifest-format", string(extract.ManifestJSON), "manifest encoding: json or cbor")
			return flagSet
		},
		Run: func(args []string) error {
			if err := expectArgs(args, 3, 3, "nxfs extract [flags] <file.nx> <path> <dest>"); err != nil {
				return err
			}
			sourcePath, root, dest := args[0], args[1], args[2]

			format, err := extract.ParseFormat(formatName)
			if err != nil {
				return err
			}
			manifestFormat, err := extract.ParseManifestFormat(manifestFormatName)
			if err != nil {
				return err
			}

			logger := streams.logger()
			source, err := openContainer(sourcePath, logger)
			if err != nil {
				return err
			}
			defer source.Close()

			options := extract.Options{
				Engine: source.engine,
				Root:   root,
				Format: format,
				Logger: logger,
			}
			summary := streams.Stdout
			var archive *os.File
			switch {
			case format == extract.FormatDirectory:
				options.Output = dest
			case dest == "-":
				options.Writer = streams.Stdout
				summary = streams.Stderr
			default:
				archive, err = os.Create(dest)
				if err != nil {
					return fmt.Errorf("creating archive: %w", err)
				}
				defer archive.Close()
				options.Writer = archive
			}

			manifest, err := extract.Extract(options)
			if err != nil {
				return err
			}
			if archive != nil {
				if err := archive.Close(); err != nil {
					return fmt.Errorf("closing archive: %w", err)
				}
			}

			if manifestPath != "" {
				digest, err := binhash.HashFile(sourcePath)
				if err != nil {
					return err
				}
				manifest.Source = sourcePath
				manifest.SourceDigest = binhash.FormatDigest(digest)
				if err := extract.WriteManifest(manifestPath, manifest, manifestFormat); err != nil {
					return err
				}
			}

			printSummary(summary, manifest)
			return nil
		},
	}
}

func printSummary(w io.Writer, manifest *extract.Manifest) {
	fmt.Fprintf(w, "extracted %d files (%d bytes) in %d directories",
		len(manifest.Files), manifest.TotalBytes, manifest.Directories)
	if len(manifest.Skipped) > 0 {
		fmt.Fprintf(w, ", skipped %d", len(manifest.Skipped))
	}
	fmt.Fprintln(w)
	for _, skipped := range manifest.Skipped {
		fmt.Fprintf(w, "  skipped %s: %s\n", skipped.Path, skipped.Reason)
	}
}
