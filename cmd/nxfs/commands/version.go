// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/nxfs/cmd/nxfs/cli"
	"github.com/bureau-foundation/nxfs/lib/version"
)

func versionCommand(streams Streams) *cli.Command {
	var verbose bool

	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("version", pflag.ContinueOnError)
			flagSet.BoolVarP(&verbose, "verbose", "v", false, "include Go version, platform, and binary digest")
			return flagSet
		},
		Run: func(args []string) error {
			if err := expectArgs(args, 0, 0, "nxfs version [flags]"); err != nil {
				return err
			}
			if !verbose {
				fmt.Fprintf(streams.Stdout, "nxfs %s\n", version.Info())
				return nil
			}
			fmt.Fprintf(streams.Stdout, "nxfs %s\n", version.Full())
			digest, binaryPath, err := version.SelfDigest()
			if err != nil {
				return err
			}
			fmt.Fprintf(streams.Stdout, "  Binary: %s\n  BLAKE3: %s\n", binaryPath, digest)
			return nil
		},
	}
}
