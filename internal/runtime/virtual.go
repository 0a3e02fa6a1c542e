// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/xroot/x/internal/coreutils"
	"github.com/xroot/x/pkg/types"
)

// VirtualLauncher interprets step scripts in-process with mvdan.cc/sh, so
// scripts behave the same on hosts without a POSIX shell. The utilities in
// package coreutils run in-process too; other programs invoked by a script
// are spawned normally.
type VirtualLauncher struct {
	// direct runs DirectInvocations, which need no shell.
	direct Launcher
	utils  *coreutils.Registry
}

// NewVirtualLauncher creates a virtual launcher. Direct invocations are
// delegated to direct.
func NewVirtualLauncher(direct Launcher) *VirtualLauncher {
	return &VirtualLauncher{direct: direct, utils: coreutils.Default()}
}

// Shell parses and runs inv with the embedded interpreter.
func (l *VirtualLauncher) Shell(ctx context.Context, inv ShellInvocation) (types.ExitCode, error) {
	script := inv.Script
	name := "script"
	if inv.Executable != "" {
		var err error
		if script, err = forwardingScript(inv.Executable); err != nil {
			return types.ExitFailure, &LaunchError{Command: inv.Executable, Cause: err}
		}
		name = inv.Executable
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(script), name)
	if err != nil {
		return types.ExitFailure, &LaunchError{Command: VirtualShell, Cause: fmt.Errorf("script syntax error: %w", err)}
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(inv.IO.stdin(), inv.IO.stdout(), inv.IO.stderr()),
		interp.ExecHandlers(l.utils.ExecHandler()),
	}
	if inv.Dir != "" {
		opts = append(opts, interp.Dir(inv.Dir))
	}
	// "--" ends option parsing, otherwise args like "-v" would be taken as
	// shell options by interp.Params.
	if len(inv.Args) > 0 {
		params := append([]string{"--"}, inv.Args...)
		opts = append(opts, interp.Params(params...))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return types.ExitFailure, &LaunchError{Command: VirtualShell, Cause: fmt.Errorf("failed to create interpreter: %w", err)}
	}

	slog.Debug("interpreting script", "dir", inv.Dir, "args", len(inv.Args))
	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return types.ExitCode(status), nil
		}
		return types.ExitFailure, &LaunchError{Command: VirtualShell, Cause: err}
	}
	return types.ExitSuccess, nil
}

// Direct delegates to the wrapped launcher.
func (l *VirtualLauncher) Direct(ctx context.Context, inv DirectInvocation) (types.ExitCode, error) {
	return l.direct.Direct(ctx, inv)
}
