// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/nxfs/cmd/nxfs/cli"
	"github.com/bureau-foundation/nxfs/lib/nx"
	"github.com/bureau-foundation/nxfs/lib/nxfs"
	"github.com/bureau-foundation/nxfs/lib/version"
)

// Streams are the output destinations shared by every command.
type Streams struct {
	Stdout io.Writer
	Stderr io.Writer

	// Logger is used by one-shot commands. Nil selects
	// cli.NewCommandLogger.
	Logger *slog.Logger
}

func (s Streams) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return cli.NewCommandLogger()
}

// Root returns the command tree writing to the process's stdout and
// stderr.
func Root() *cli.Command {
	return NewRoot(Streams{Stdout: os.Stdout, Stderr: os.Stderr})
}

// NewRoot returns the command tree writing to streams.
func NewRoot(streams Streams) *cli.Command {
	var showVersion bool
	root := &cli.Command{
		Name:    "nxfs",
		Summary: "Read-only filesystem view of NX containers",
		Description: `nxfs projects an NX (PKG4) container as a read-only directory tree.
Directories map to directories; every other node becomes a file whose
name carries a type suffix (.int64, .real, .string, .vector, .bmp,
.mp3) and whose content is synthesized on read.`,
		HelpOutput: streams.Stderr,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("nxfs", pflag.ContinueOnError)
			flagSet.BoolVar(&showVersion, "version", false, "print version and exit")
			return flagSet
		},
		Subcommands: []*cli.Command{
			mountCommand(streams),
			lsCommand(streams),
			statCommand(streams),
			catCommand(streams),
			extractCommand(streams),
			verifyCommand(streams),
			versionCommand(streams),
		},
	}
	root.Run = func(args []string) error {
		if showVersion {
			fmt.Fprintf(streams.Stdout, "nxfs %s\n", version.Info())
			return nil
		}
		root.PrintHelp(streams.Stderr)
		return fmt.Errorf("subcommand required")
	}
	return root
}

// container is an open NX file and the engine serving it.
type container struct {
	file   *nx.File
	engine *nxfs.Engine
}

// openContainer maps path and builds an engine whose ownership and
// timestamps come from the file itself.
func openContainer(path string, logger *slog.Logger) (*container, error) {
	base, err := nxfs.BaseAttributesOf(path)
	if err != nil {
		return nil, err
	}
	file, err := nx.Open(path)
	if err != nil {
		return nil, err
	}
	engine, err := nxfs.New(nxfs.Options{
		Container: file,
		Base:      base,
		Logger:    logger,
	})
	if err != nil {
		file.Close()
		return nil, err
	}
	return &container{file: file, engine: engine}, nil
}

func (c *container) Close() error {
	return c.file.Close()
}

// expectArgs checks the positional argument count.
func expectArgs(args []string, minimum, maximum int, usage string) error {
	if len(args) < minimum || len(args) > maximum {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}
