// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/xroot/x/internal/app/execute"
	"github.com/xroot/x/internal/config"
	"github.com/xroot/x/internal/issue"
	"github.com/xroot/x/internal/runtime"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose mirrors the loaded settings so the error handler can expand
	// diagnostics.
	verbose bool
)

// NewRootCommand returns the x root command. Flag parsing is disabled so
// that every argument, flags included, reaches the script untouched.
func NewRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "x <script> [arguments...]",
		Short: "A project scoped script runner",
		Long: TitleStyle.Render("x") + SubtitleStyle.Render(" - a project scoped script runner") + `

x finds the nearest x-root.kdl or x-root.yml above the current directory
and runs the named script, or a binary hoisted from one of the configured
directories. In passthrough mode every argument is forwarded to a single
configured program instead.

` + SubtitleStyle.Render("Examples:") + `
  x build --release        Run the 'build' script
  x eslint src/            Run a hoisted binary
  x - which build          Show where 'build' comes from
  x - root                 Show the project root configuration file
  x - print-config         Print the parsed configuration`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE:               runRoot,
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	settings, err := config.NewProvider().Load(ctx, config.LoadOptions{})
	if err != nil {
		return exitError(issue.SettingsFailed(err))
	}
	verbose = settings.Verbose
	slog.SetDefault(newLogger(cmd.ErrOrStderr(), settings))

	sess, err := execute.Open(execute.Options{
		Settings: settings,
		Argv0:    os.Args[0],
		IO: runtime.IO{
			Stdin:  cmd.InOrStdin(),
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
		},
	})
	if err != nil {
		return exitError(err)
	}

	if len(args) > 0 && args[0] == builtinMarker {
		return exitError(runBuiltin(ctx, sess, settings, args[1:], cmd.OutOrStdout(), cmd.ErrOrStderr()))
	}
	return exitError(sess.Dispatch(ctx, args))
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// handleError writes the diagnostic for a failed invocation. A child that
// exited non-zero gets no diagnostic; everything else gets one line, plus the
// error chain and a remediation guide in verbose mode.
func handleError(w io.Writer, _ fang.Styles, err error) {
	if issue.IsSilent(err) {
		return
	}
	fmt.Fprintln(w, renderLines(ErrorStyle, err.Error()))
	if !verbose {
		return
	}

	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		if details := ae.Details(); details != "" {
			fmt.Fprintln(w)
			fmt.Fprintln(w, renderLines(VerboseStyle, details))
		}
	}
	kind := issue.Classify(err)
	fmt.Fprintln(w, WarningStyle.Render("kind: "+kind.String()))
	if guide := issue.GuideFor(kind); guide != nil {
		out, rerr := guide.Render("auto")
		if rerr != nil {
			slog.Debug("rendering remediation guide", "kind", kind, "error", rerr)
			return
		}
		fmt.Fprint(w, out)
	}
}

// renderLines styles each line on its own. Rendering a multi-line string as
// one block pads the shorter lines to the widest.
func renderLines(style lipgloss.Style, s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = style.Render(line)
	}
	return strings.Join(lines, "\n")
}

// Execute runs the x command line and exits with the resulting status.
// This is called by main.main().
func Execute() {
	err := fang.Execute(
		context.Background(),
		NewRootCommand(),
		fang.WithVersion(getVersionString()),
		fang.WithoutManpage(),
		fang.WithoutCompletions(),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	)
	if err == nil {
		return
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		os.Exit(int(exitErr.Code))
	}
	os.Exit(int(issue.ExitCodeOf(err)))
}
