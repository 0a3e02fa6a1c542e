// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/xroot/x/pkg/types"
)

// VirtualShell is the shell setting that selects the in-process interpreter.
const VirtualShell = "virtual"

// ErrLaunch is the sentinel wrapped by LaunchError.
var ErrLaunch = errors.New("cannot launch process")

type (
	// IO holds the standard streams handed to child processes. Nil fields
	// fall back to the runner's own streams.
	IO struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// ShellInvocation describes one run of a shell.
	//
	// Exactly one of Script and Executable is set. Script is shell source
	// that receives Args as positional parameters. Executable is an absolute
	// program path that receives Args verbatim.
	ShellInvocation struct {
		Script     string
		Executable string
		Args       []string
		// Argv0 becomes $0 for POSIX shells.
		Argv0 string
		// Dir is the working directory of the child.
		Dir string
		IO  IO
	}

	// DirectInvocation describes a program run without a shell.
	DirectInvocation struct {
		// Executable is a program name looked up in PATH, or a path.
		Executable string
		Args       []string
		Dir        string
		IO         IO
	}

	// Launcher starts processes and waits for them. A non-zero exit status is
	// reported through the returned ExitCode, not as an error; errors mean the
	// process could not be run at all.
	Launcher interface {
		Shell(ctx context.Context, inv ShellInvocation) (types.ExitCode, error)
		Direct(ctx context.Context, inv DirectInvocation) (types.ExitCode, error)
	}

	// LaunchError is returned when a process cannot be started.
	LaunchError struct {
		Command string
		Cause   error
	}
)

// Error implements the error interface for LaunchError.
func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to execute %s: %v", e.Command, e.Cause)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *LaunchError) Unwrap() []error { return []error{ErrLaunch, e.Cause} }

// NewLauncher returns the launcher for a shell setting: the in-process
// interpreter for "virtual", the host shell otherwise. An empty setting
// falls back to the host's default shell.
func NewLauncher(shell string) Launcher {
	native := NewNativeLauncher(WithShell(shell))
	if shell == VirtualShell {
		return NewVirtualLauncher(native)
	}
	return native
}

func (s IO) stdin() io.Reader {
	if s.Stdin != nil {
		return s.Stdin
	}
	return os.Stdin
}

func (s IO) stdout() io.Writer {
	if s.Stdout != nil {
		return s.Stdout
	}
	return os.Stdout
}

func (s IO) stderr() io.Writer {
	if s.Stderr != nil {
		return s.Stderr
	}
	return os.Stderr
}
