// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"syscall"

	"mvdan.cc/sh/v3/syntax"

	"github.com/xroot/x/pkg/platform"
	"github.com/xroot/x/pkg/types"
)

const (
	familyPOSIX shellFamily = iota
	familyPowerShell
	familyCmd
)

const defaultArgv0 = "x"

type (
	// shellFamily groups shells that share an invocation convention.
	shellFamily int

	// NativeLauncher runs commands through the host shell.
	NativeLauncher struct {
		// ShellPath overrides the default shell.
		ShellPath string
		// ShellArgs are arguments passed to the shell before the script.
		ShellArgs []string
	}

	// NativeOption configures a NativeLauncher.
	NativeOption func(*NativeLauncher)
)

// NewNativeLauncher creates a native launcher.
func NewNativeLauncher(opts ...NativeOption) *NativeLauncher {
	l := &NativeLauncher{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// WithShell sets the shell binary. An empty value keeps platform detection.
func WithShell(shell string) NativeOption {
	return func(l *NativeLauncher) { l.ShellPath = shell }
}

// WithShellArgs overrides the flags placed before the script.
func WithShellArgs(args ...string) NativeOption {
	return func(l *NativeLauncher) { l.ShellArgs = args }
}

// Shell runs inv through the host shell with stdio attached.
func (l *NativeLauncher) Shell(ctx context.Context, inv ShellInvocation) (types.ExitCode, error) {
	shell, err := l.getShell()
	if err != nil {
		return types.ExitFailure, &LaunchError{Command: "shell", Cause: err}
	}
	family := shellFamilyOf(shell)

	script := inv.Script
	if inv.Executable != "" {
		if family != familyPOSIX {
			// PowerShell and cmd have no "$@"; run the binary without a shell.
			return l.Direct(ctx, DirectInvocation{Executable: inv.Executable, Args: inv.Args, Dir: inv.Dir, IO: inv.IO})
		}
		if script, err = forwardingScript(inv.Executable); err != nil {
			return types.ExitFailure, &LaunchError{Command: inv.Executable, Cause: err}
		}
	}

	args := l.getShellArgs(family)
	args = append(args, script)
	args = appendPositionalArgs(family, args, inv.Argv0, inv.Args)

	cmd := exec.Command(shell, args...)
	cmd.Dir = inv.Dir
	cmd.Stdin = inv.IO.stdin()
	cmd.Stdout = inv.IO.stdout()
	cmd.Stderr = inv.IO.stderr()

	slog.Debug("launching shell", "shell", shell, "dir", inv.Dir, "args", len(inv.Args))
	return exitCodeOf(cmd.Run(), shell)
}

// Direct runs inv.Executable with its arguments and no shell.
func (l *NativeLauncher) Direct(_ context.Context, inv DirectInvocation) (types.ExitCode, error) {
	cmd := exec.Command(inv.Executable, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Stdin = inv.IO.stdin()
	cmd.Stdout = inv.IO.stdout()
	cmd.Stderr = inv.IO.stderr()

	slog.Debug("launching command", "command", inv.Executable, "dir", inv.Dir, "args", len(inv.Args))
	return exitCodeOf(cmd.Run(), inv.Executable)
}

// getShell determines which shell to use.
func (l *NativeLauncher) getShell() (string, error) {
	if l.ShellPath != "" && l.ShellPath != VirtualShell {
		return l.ShellPath, nil
	}

	switch goruntime.GOOS {
	case platform.Windows:
		if pwsh, err := exec.LookPath("pwsh"); err == nil {
			return pwsh, nil
		}
		if ps, err := exec.LookPath("powershell"); err == nil {
			return ps, nil
		}
		return exec.LookPath("cmd")
	default:
		if shell := os.Getenv("SHELL"); shell != "" {
			return shell, nil
		}
		if sh, err := exec.LookPath("sh"); err == nil {
			return sh, nil
		}
		return "", errors.New("no shell found")
	}
}

// getShellArgs returns the flags that make the shell run a command string.
func (l *NativeLauncher) getShellArgs(family shellFamily) []string {
	if len(l.ShellArgs) > 0 {
		return append([]string(nil), l.ShellArgs...)
	}
	switch family {
	case familyCmd:
		return []string{"/C"}
	case familyPowerShell:
		return []string{"-NoProfile", "-Command"}
	default:
		return []string{"-c"}
	}
}

// shellFamilyOf classifies a shell by its base name, accepting both path
// separators so Windows paths classify correctly on any host.
func shellFamilyOf(shell string) shellFamily {
	base := filepath.Base(shell)
	if i := strings.LastIndex(base, `\`); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimSuffix(strings.ToLower(base), ".exe")

	switch base {
	case "cmd":
		return familyCmd
	case "powershell", "pwsh":
		return familyPowerShell
	default:
		return familyPOSIX
	}
}

// appendPositionalArgs appends runtime arguments after the script.
// POSIX shells: sh -c 'script' argv0 arg1 arg2, so args become $1, $2, ...
// PowerShell: args are appended as-is.
// cmd.exe: no positional parameters after /C, args are dropped.
func appendPositionalArgs(family shellFamily, args []string, argv0 string, positional []string) []string {
	switch family {
	case familyCmd:
		return args
	case familyPowerShell:
		return append(args, positional...)
	default:
		if argv0 == "" {
			argv0 = defaultArgv0
		}
		args = append(args, argv0)
		return append(args, positional...)
	}
}

// forwardingScript returns a POSIX script that runs path with every
// positional parameter forwarded.
func forwardingScript(path string) (string, error) {
	quoted, err := syntax.Quote(path, syntax.LangPOSIX)
	if err != nil {
		return "", fmt.Errorf("quoting %s: %w", path, err)
	}
	return quoted + ` "$@"`, nil
}

// exitCodeOf turns the result of cmd.Run into an exit code. Children killed
// by a signal report 128+signal, as shells do.
func exitCodeOf(err error, command string) (types.ExitCode, error) {
	if err == nil {
		return types.ExitSuccess, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return types.SignalExitCode(int(ws.Signal())), nil
		}
		code := types.ExitCode(exitErr.ExitCode())
		if code.Validate() != nil {
			slog.Debug("exit status out of range", "command", command, "code", int(code))
			return types.ExitFailure, nil
		}
		return code, nil
	}

	return types.ExitFailure, &LaunchError{Command: command, Cause: err}
}
