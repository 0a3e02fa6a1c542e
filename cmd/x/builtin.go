// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xroot/x/internal/app/execute"
	"github.com/xroot/x/internal/config"
	"github.com/xroot/x/internal/issue"
	"github.com/xroot/x/pkg/rootfile"
)

const (
	// builtinMarker is the first argument that selects the builtin commands.
	builtinMarker = "-"

	builtinUsage = "Usage: x - <command> [arguments...]\nDescription: x built-in commands"
	whichUsage   = "Usage: x - which <script>\nDescription: Get absolute path of hoisted binary or check if script is defined"
)

// runBuiltin executes one builtin command against an open session. The
// builtins run after root discovery, so they always see the same project
// the scripts would.
func runBuiltin(ctx context.Context, sess *execute.Session, settings *config.Config, args []string, stdout, stderr io.Writer) error {
	c := newBuiltinCommand(sess, settings)
	// cobra falls back to os.Args when given nil.
	if args == nil {
		args = []string{}
	}
	c.SetArgs(args)
	c.SetOut(stdout)
	c.SetErr(stderr)
	return c.ExecuteContext(ctx)
}

func newBuiltinCommand(sess *execute.Session, settings *config.Config) *cobra.Command {
	c := &cobra.Command{
		Use:           "x -",
		Short:         "x built-in commands",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return &issue.UsageError{Message: builtinUsage}
			}
			return &issue.UsageError{Message: "Unknown builtin command " + args[0]}
		},
	}
	c.CompletionOptions.DisableDefaultCmd = true

	c.AddCommand(
		newWhichCommand(sess),
		newRootPathCommand(sess),
		newPrintConfigCommand(sess),
		newSettingsCommand(settings),
	)
	return c
}

func newWhichCommand(sess *execute.Session) *cobra.Command {
	return &cobra.Command{
		Use:   "which <script>",
		Short: "Get absolute path of hoisted binary or check if script is defined",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return &issue.UsageError{Message: whichUsage}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := sess.Which(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func newRootPathCommand(sess *execute.Session) *cobra.Command {
	return &cobra.Command{
		Use:   "root",
		Short: "Show the project root configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := sess.ConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Project root found at %s\n", path)
			return nil
		},
	}
}

func newPrintConfigCommand(sess *execute.Session) *cobra.Command {
	var format string
	c := &cobra.Command{
		Use:   "print-config",
		Short: "Print the parsed root configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := rootfile.DumpFormat(format)
			if err := f.Validate(); err != nil {
				return &issue.UsageError{Message: err.Error()}
			}
			return sess.PrintConfig(cmd.OutOrStdout(), f)
		},
	}
	c.Flags().StringVarP(&format, "format", "f", rootfile.DumpYAML.String(), "output format (yaml, json or toml)")
	return c
}

func newSettingsCommand(settings *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Print the effective runner settings as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(settings))
			return nil
		},
	}
}
