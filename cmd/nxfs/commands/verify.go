// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/nxfs/cmd/nxfs/cli"
	"github.com/bureau-foundation/nxfs/lib/binhash"
	"github.com/bureau-foundation/nxfs/lib/extract"
)

func verifyCommand(streams Streams) *cli.Command {
	var sourcePath string

	return &cli.Command{
		Name:    "verify",
		Summary: "Check an extracted directory against its manifest",
		Description: `Hash every file the manifest lists beneath <dir> and report files that
are missing or differ. With --source, also check that the container
still has the digest recorded at extraction time. Exits 1 if anything
differs.`,
		Usage: "nxfs verify [flags] <manifest> <dir>",
		Examples: []cli.Example{
			{Command: "nxfs verify --source Mob.nx mob.json ./orange-mushroom"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("verify", pflag.ContinueOnError)
			flagSet.StringVar(&sourcePath, "source", "", "container to compare with the manifest's source digest")
			return flagSet
		},
		Run: func(args []string) error {
			if err := expectArgs(args, 2, 2, "nxfs verify [flags] <manifest> <dir>"); err != nil {
				return err
			}
			manifest, err := extract.LoadManifest(args[0])
			if err != nil {
				return err
			}

			failed := false
			if sourcePath != "" {
				if manifest.SourceDigest == "" {
					return fmt.Errorf("manifest %s records no source digest", args[0])
				}
				digest, err := binhash.HashFile(sourcePath)
				if err != nil {
					return err
				}
				if binhash.FormatDigest(digest) != manifest.SourceDigest {
					fmt.Fprintf(streams.Stdout, "%s: source digest differs\n", sourcePath)
					failed = true
				}
			}

			mismatches, err := extract.Verify(manifest, args[1])
			if err != nil {
				return err
			}
			for _, mismatch := range mismatches {
				fmt.Fprintf(streams.Stdout, "%s: %s\n", mismatch.Path, mismatch.Reason)
			}
			if failed || len(mismatches) > 0 {
				return &cli.ExitError{Code: 1}
			}
			fmt.Fprintf(streams.Stdout, "%d files verified\n", len(manifest.Files))
			return nil
		},
	}
}
