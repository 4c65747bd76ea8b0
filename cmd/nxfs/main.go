// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// nxfs mounts NX containers as read-only filesystems and inspects or
// extracts their contents.
package main

import (
	"fmt"
	"os"

	"github.com/bureau-foundation/nxfs/cmd/nxfs/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output (verify) return an
		// ExitError with the desired code; no extra "error:" line.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return commands.Root().Execute(os.Args[1:])
}
