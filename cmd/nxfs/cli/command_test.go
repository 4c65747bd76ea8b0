// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "nxfs",
		Subcommands: []*Command{
			{
				Name: "ls",
				Run: func(args []string) error {
					called = "ls"
					return nil
				},
			},
			{
				Name: "cat",
				Run: func(args []string) error {
					called = "cat"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"cat"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "cat" {
		t.Errorf("dispatched to %q, want %q", called, "cat")
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var offset int64
	var positional []string

	command := &Command{
		Name: "cat",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("cat", pflag.ContinueOnError)
			flagSet.Int64Var(&offset, "offset", 0, "start offset")
			return flagSet
		},
		Run: func(args []string) error {
			positional = args
			return nil
		},
	}

	if err := command.Execute([]string{"--offset", "12", "data.nx", "/Mob/level.int64"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if offset != 12 {
		t.Errorf("offset = %d, want 12", offset)
	}
	if len(positional) != 2 || positional[1] != "/Mob/level.int64" {
		t.Errorf("args = %v", positional)
	}
}

func TestCommand_Execute_RunWithSubcommands(t *testing.T) {
	var showVersion bool
	ran := false

	root := &Command{
		Name: "nxfs",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("nxfs", pflag.ContinueOnError)
			flagSet.BoolVar(&showVersion, "version", false, "print version")
			return flagSet
		},
		Subcommands: []*Command{{Name: "ls", Run: func([]string) error { return nil }}},
		Run: func(args []string) error {
			ran = true
			return nil
		},
	}

	if err := root.Execute([]string{"--version"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !ran || !showVersion {
		t.Errorf("ran = %v, showVersion = %v", ran, showVersion)
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "mount",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("mount", pflag.ContinueOnError)
			flagSet.Bool("allow-other", false, "allow other users")
			flagSet.String("fsname", "nxfs", "source name")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--alow-other"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "did you mean --allow-other") {
		t.Errorf("error = %q, want suggestion for '--allow-other'", errStr)
	}
	if !strings.Contains(errStr, "--help") {
		t.Errorf("error = %q, should point to --help", errStr)
	}
}

func TestCommand_Execute_UnknownFlagNoSuggestion(t *testing.T) {
	command := &Command{
		Name: "mount",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("mount", pflag.ContinueOnError)
			flagSet.Bool("debug", false, "trace requests")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--zzzzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not suggest for distant flag", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "nxfs",
		Subcommands: []*Command{
			{Name: "mount"},
			{Name: "extract"},
			{Name: "version"},
		},
	}

	err := root.Execute([]string{"extarct"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if !strings.Contains(err.Error(), "did you mean \"extract\"") {
		t.Errorf("error = %q, want suggestion for 'extract'", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandNoSuggestion(t *testing.T) {
	root := &Command{
		Name:        "nxfs",
		Subcommands: []*Command{{Name: "mount"}, {Name: "stat"}},
	}

	err := root.Execute([]string{"zzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not contain suggestion for distant input", err.Error())
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	for _, helpArg := range []string{"-h", "--help", "help"} {
		t.Run(helpArg, func(t *testing.T) {
			var help bytes.Buffer
			command := &Command{
				Name:       "stat",
				Summary:    "Show attributes",
				HelpOutput: &help,
				Run: func(args []string) error {
					t.Fatal("Run should not be called for help")
					return nil
				},
			}
			if err := command.Execute([]string{helpArg}); err != nil {
				t.Fatalf("Execute(%q) error: %v", helpArg, err)
			}
			if !strings.Contains(help.String(), "Show attributes") {
				t.Errorf("help output = %q", help.String())
			}
		})
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	var help bytes.Buffer
	root := &Command{
		Name:        "nxfs",
		HelpOutput:  &help,
		Subcommands: []*Command{{Name: "ls", Summary: "List a directory"}},
	}

	if err := root.Execute(nil); err == nil {
		t.Fatal("Execute() = nil, want error when no subcommand given")
	}
	if !strings.Contains(help.String(), "List a directory") {
		t.Errorf("help output = %q, want subcommand listing", help.String())
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	parent := &Command{Name: "nxfs"}
	command := &Command{
		Name:        "extract",
		Description: "Extract a subtree to a directory or archive.",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("extract", pflag.ContinueOnError)
			flagSet.String("format", "dir", "output format")
			return flagSet
		},
		Examples: []Example{
			{Description: "Extract every mob", Command: "nxfs extract Mob.nx / ./mob"},
		},
		parent: parent,
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"Extract a subtree",
		"nxfs extract [flags]",
		"--format",
		"# Extract every mob",
		"nxfs extract Mob.nx / ./mob",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q:\n%s", want, output)
		}
	}
}

func TestExitError(t *testing.T) {
	var err error = &ExitError{Code: 3}
	coder, ok := err.(interface{ ExitCode() int })
	if !ok {
		t.Fatal("ExitError does not implement ExitCode")
	}
	if coder.ExitCode() != 3 {
		t.Errorf("ExitCode() = %d, want 3", coder.ExitCode())
	}
}

func TestEmitJSON(t *testing.T) {
	var output JSONOutput
	var buffer bytes.Buffer

	done, err := output.EmitJSON(&buffer, []string{"a"})
	if done || err != nil || buffer.Len() != 0 {
		t.Fatalf("EmitJSON without --json = (%v, %v), wrote %q", done, err, buffer.String())
	}

	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	output.AddFlag(flagSet)
	if err := flagSet.Parse([]string{"--json"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var empty []string
	done, err = output.EmitJSON(&buffer, empty)
	if !done || err != nil {
		t.Fatalf("EmitJSON with --json = (%v, %v)", done, err)
	}
	if strings.TrimSpace(buffer.String()) != "[]" {
		t.Errorf("nil slice encoded as %q, want []", buffer.String())
	}
}
