// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/nxfs/cmd/nxfs/cli"
	"github.com/bureau-foundation/nxfs/lib/nx"
	"github.com/bureau-foundation/nxfs/lib/nxfs"
)

const catChunkSize = 64 * 1024

func catCommand(streams Streams) *cli.Command {
	var (
		offset int64
		length int64
		force  bool
	)

	return &cli.Command{
		Name:    "cat",
		Summary: "Write a file's synthesized content to stdout",
		Description: `Write the content a read of the mounted file would return. Bitmaps
and audio are binary; writing them to a terminal needs --force.`,
		Usage: "nxfs cat [flags] <file.nx> <path>",
		Examples: []cli.Example{
			{Command: "nxfs cat String.nx /Mob.img/100100.img/name.string"},
			{Description: "Save a bitmap", Command: "nxfs cat Mob.nx /0100100.img/stand/0.bmp > stand.bmp"},
			{Description: "The pixel data only", Command: "nxfs cat --offset 70 Mob.nx /0100100.img/stand/0.bmp"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("cat", pflag.ContinueOnError)
			flagSet.Int64Var(&offset, "offset", 0, "first byte to write")
			flagSet.Int64Var(&length, "length", -1, "bytes to write (-1 for all)")
			flagSet.BoolVarP(&force, "force", "f", false, "write binary content to a terminal")
			return flagSet
		},
		Run: func(args []string) error {
			if err := expectArgs(args, 2, 2, "nxfs cat [flags] <file.nx> <path>"); err != nil {
				return err
			}
			if offset < 0 {
				return fmt.Errorf("--offset must not be negative")
			}
			source, err := openContainer(args[0], streams.logger())
			if err != nil {
				return err
			}
			defer source.Close()

			node, err := source.engine.Resolve(args[1])
			if err != nil {
				return err
			}
			if node.IsDirectory() {
				return fmt.Errorf("%s: is a directory", args[1])
			}
			if isBinary(node.Type) && !force && isTerminal(streams.Stdout) {
				return fmt.Errorf("%s is %s data; refusing to write it to a terminal (use --force)", args[1], node.Type)
			}

			attributes, err := source.engine.Attributes(node)
			if err != nil {
				return err
			}
			end := attributes.Size
			if length >= 0 && uint64(offset)+uint64(length) < end {
				end = uint64(offset) + uint64(length)
			}
			return copyContent(streams.Stdout, source.engine, node, uint64(offset), end)
		},
	}
}

// copyContent writes the content window [offset, end). A short read
// before end means the blob failed to decode.
//
// Every ReadWindow that touches a string or bitmap decodes the whole
// blob, so those are read in one window; the rest stream in chunks.
func copyContent(w io.Writer, engine *nxfs.Engine, node nx.Node, offset, end uint64) error {
	if offset >= end {
		return nil
	}
	chunkSize := uint64(catChunkSize)
	if node.Type == nx.TypeBitmap || node.Type == nx.TypeString {
		chunkSize = end - offset
	}
	buffer := make([]byte, min(chunkSize, end-offset))
	for offset < end {
		window := buffer[:min(uint64(len(buffer)), end-offset)]
		n := engine.ReadWindow(node, window, offset)
		if n < len(window) {
			return fmt.Errorf("node %d at offset %d: %w", node.ID, offset+uint64(n), nxfs.ErrDecode)
		}
		if _, err := w.Write(window); err != nil {
			return err
		}
		offset += uint64(n)
	}
	return nil
}

func isBinary(nodeType nx.Type) bool {
	switch nodeType {
	case nx.TypeInt64, nx.TypeReal, nx.TypeString, nx.TypeVector:
		return false
	}
	return true
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
