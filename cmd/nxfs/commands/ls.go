// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/nxfs/cmd/nxfs/cli"
	"github.com/bureau-foundation/nxfs/lib/nxfs"
)

// lsEntry is one row of ls output.
type lsEntry struct {
	Path  string `json:"path"`
	Kind  string `json:"kind"`
	Type  string `json:"type"`
	Size  uint64 `json:"size"`
	Nlink uint32 `json:"nlink"`
	Node  uint32 `json:"node"`
	Mode  string `json:"mode"`

	// Error is set when attributes could not be synthesized.
	Error string `json:"error,omitempty"`
}

func lsCommand(streams Streams) *cli.Command {
	var (
		long      bool
		recursive bool
		output    cli.JSONOutput
	)

	return &cli.Command{
		Name:    "ls",
		Summary: "List a directory inside a container",
		Description: `List a directory exactly as the mounted filesystem would, with type
suffixes applied. Children whose names cannot be read are skipped with
a warning.`,
		Usage: "nxfs ls [flags] <file.nx> [path]",
		Examples: []cli.Example{
			{Description: "List the top level", Command: "nxfs ls Mob.nx"},
			{Description: "Long listing of one directory", Command: "nxfs ls -l Mob.nx /0100100.img/info"},
			{Description: "Every entry below a path, as JSON", Command: "nxfs ls -R --json Map.nx /Map"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("ls", pflag.ContinueOnError)
			flagSet.BoolVarP(&long, "long", "l", false, "show mode, links, size, and type")
			flagSet.BoolVarP(&recursive, "recursive", "R", false, "list subdirectories recursively")
			output.AddFlag(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if err := expectArgs(args, 1, 2, "nxfs ls [flags] <file.nx> [path]"); err != nil {
				return err
			}
			virtualPath := "/"
			if len(args) == 2 {
				virtualPath = args[1]
			}

			source, err := openContainer(args[0], streams.logger())
			if err != nil {
				return err
			}
			defer source.Close()

			entries, err := listEntries(source.engine, virtualPath, recursive)
			if err != nil {
				return err
			}

			if done, err := output.EmitJSON(streams.Stdout, entries); done {
				return err
			}

			if !long {
				for _, entry := range entries {
					fmt.Fprintln(streams.Stdout, entry.Path)
				}
				return nil
			}
			writer := tabwriter.NewWriter(streams.Stdout, 0, 0, 2, ' ', 0)
			for _, entry := range entries {
				if entry.Error != "" {
					fmt.Fprintf(writer, "?\t?\t?\t%s\t%s\n", entry.Type, entry.Path)
					continue
				}
				fmt.Fprintf(writer, "%s\t%d\t%d\t%s\t%s\n",
					entry.Mode, entry.Nlink, entry.Size, entry.Type, entry.Path)
			}
			return writer.Flush()
		},
	}
}

// listEntries walks virtualPath and returns one row per entry, paths
// relative to virtualPath. Without recursive only the immediate
// children are returned.
func listEntries(engine *nxfs.Engine, virtualPath string, recursive bool) ([]lsEntry, error) {
	prefix := strings.TrimSuffix("/"+strings.Join(nxfs.SplitPath(virtualPath), "/"), "/") + "/"

	var entries []lsEntry
	err := engine.Walk(virtualPath, func(entryPath string, entry nxfs.DirEntry) error {
		row := lsEntry{
			Path: strings.TrimPrefix(entryPath, prefix),
			Kind: entry.Kind.String(),
			Type: entry.Node.Type.String(),
			Node: entry.Node.ID,
		}
		attributes, err := engine.Attributes(entry.Node)
		if err != nil {
			row.Error = err.Error()
		} else {
			row.Size = attributes.Size
			row.Nlink = attributes.Nlink
			row.Mode = attributes.Mode.String()
		}
		entries = append(entries, row)

		if entry.Kind == nxfs.KindDirectory && !recursive {
			return nxfs.SkipDir
		}
		return nil
	})
	return entries, err
}
