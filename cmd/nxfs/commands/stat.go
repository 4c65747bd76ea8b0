// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/nxfs/cmd/nxfs/cli"
)

type statResult struct {
	Path   string    `json:"path"`
	Kind   string    `json:"kind"`
	Type   string    `json:"type"`
	Mode   string    `json:"mode"`
	Size   uint64    `json:"size"`
	Blocks uint64    `json:"blocks"`
	Nlink  uint32    `json:"nlink"`
	Node   uint32    `json:"node"`
	UID    uint32    `json:"uid"`
	GID    uint32    `json:"gid"`
	Atime  time.Time `json:"atime"`
	Mtime  time.Time `json:"mtime"`
}

func statCommand(streams Streams) *cli.Command {
	var output cli.JSONOutput

	return &cli.Command{
		Name:    "stat",
		Summary: "Show the attributes of one path",
		Usage:   "nxfs stat [flags] <file.nx> <path>",
		Examples: []cli.Example{
			{Command: "nxfs stat Mob.nx /0100100.img/info/speed.int64"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("stat", pflag.ContinueOnError)
			output.AddFlag(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if err := expectArgs(args, 2, 2, "nxfs stat [flags] <file.nx> <path>"); err != nil {
				return err
			}
			source, err := openContainer(args[0], streams.logger())
			if err != nil {
				return err
			}
			defer source.Close()

			attributes, err := source.engine.Stat(args[1])
			if err != nil {
				return err
			}
			result := statResult{
				Path:   args[1],
				Kind:   attributes.Kind.String(),
				Type:   attributes.Type.String(),
				Mode:   attributes.Mode.String(),
				Size:   attributes.Size,
				Blocks: attributes.Blocks,
				Nlink:  attributes.Nlink,
				Node:   attributes.ID,
				UID:    attributes.UID,
				GID:    attributes.GID,
				Atime:  attributes.Atime,
				Mtime:  attributes.Mtime,
			}
			if done, err := output.EmitJSON(streams.Stdout, result); done {
				return err
			}

			writer := tabwriter.NewWriter(streams.Stdout, 0, 0, 1, ' ', 0)
			fmt.Fprintf(writer, "Path:\t%s\n", result.Path)
			fmt.Fprintf(writer, "Kind:\t%s (%s)\n", result.Kind, result.Type)
			fmt.Fprintf(writer, "Size:\t%d\tBlocks: %d\n", result.Size, result.Blocks)
			fmt.Fprintf(writer, "Mode:\t%s\tLinks: %d\n", result.Mode, result.Nlink)
			fmt.Fprintf(writer, "Node:\t%d\n", result.Node)
			fmt.Fprintf(writer, "Owner:\t%d:%d\n", result.UID, result.GID)
			fmt.Fprintf(writer, "Access:\t%s\n", result.Atime.Format(time.RFC3339))
			fmt.Fprintf(writer, "Modify:\t%s\n", result.Mtime.Format(time.RFC3339))
			return writer.Flush()
		},
	}
}
