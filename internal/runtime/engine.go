// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/xroot/x/internal/hoist"
	"github.com/xroot/x/pkg/fspath"
	"github.com/xroot/x/pkg/rootfile"
	"github.com/xroot/x/pkg/types"
)

const (
	// PolicyAbort stops a script at the first failing step. It is the default.
	PolicyAbort FailurePolicy = "abort"
	// PolicyContinue runs every step and reports the first failure at the end.
	PolicyContinue FailurePolicy = "continue"
)

var (
	// ErrInvalidFailurePolicy is returned when a FailurePolicy value is not recognized.
	ErrInvalidFailurePolicy = errors.New("invalid step failure policy")
	// ErrProcessFailed is wrapped by every error reporting a non-zero child exit.
	ErrProcessFailed = errors.New("process exited with non-zero status")
	// ErrWorkDir is the sentinel wrapped by WorkDirError.
	ErrWorkDir = errors.New("invalid working directory")
	// ErrUnknownScriptOrBinary is the sentinel wrapped by UnknownScriptOrBinaryError.
	ErrUnknownScriptOrBinary = errors.New("unknown script or hoisted binary")
)

type (
	// FailurePolicy decides what happens after a step exits non-zero.
	FailurePolicy string

	// InvalidFailurePolicyError is returned when a FailurePolicy value is not recognized.
	InvalidFailurePolicyError struct {
		Value FailurePolicy
	}

	// Engine runs scripts, hoisted binaries and passthrough commands for one
	// invocation of the runner.
	Engine struct {
		Launcher Launcher
		// RootDir is the project root. Step and passthrough cwd values are
		// resolved against it.
		RootDir string
		// InvocationDir is where the runner was started. It is the default
		// working directory and the base for argument transforms.
		InvocationDir string
		// Argv0 is passed to POSIX shells as $0.
		Argv0  string
		Policy FailurePolicy
		Stdio  IO
	}

	// StepFailedError reports a script step that exited non-zero.
	StepFailedError struct {
		Script string
		// Step is 1-based.
		Step int
		Code types.ExitCode
	}

	// ProcessFailedError reports a hoisted binary or passthrough command that
	// exited non-zero.
	ProcessFailedError struct {
		Command string
		Code    types.ExitCode
	}

	// WorkDirError is returned when a configured cwd does not resolve to an
	// existing directory.
	WorkDirError struct {
		Dir   string
		Cause error
	}

	// UnknownScriptOrBinaryError is returned when a name matches neither a
	// script nor a hoisted binary.
	UnknownScriptOrBinaryError struct {
		Name string
	}
)

// Error implements the error interface for InvalidFailurePolicyError.
func (e *InvalidFailurePolicyError) Error() string {
	return fmt.Sprintf("invalid on_step_failure %q (valid: abort, continue)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidFailurePolicyError) Unwrap() error { return ErrInvalidFailurePolicy }

// String returns the string representation of the FailurePolicy.
func (p FailurePolicy) String() string { return string(p) }

// Validate returns nil if the FailurePolicy is recognized. The zero value is
// valid and means PolicyAbort.
func (p FailurePolicy) Validate() error {
	switch p {
	case "", PolicyAbort, PolicyContinue:
		return nil
	default:
		return &InvalidFailurePolicyError{Value: p}
	}
}

// Error implements the error interface for StepFailedError.
func (e *StepFailedError) Error() string {
	return fmt.Sprintf("script %s: step %d exited with status %d", e.Script, e.Step, e.Code)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *StepFailedError) Unwrap() error { return ErrProcessFailed }

// ExitStatus returns the child's exit code.
func (e *StepFailedError) ExitStatus() types.ExitCode { return e.Code }

// Error implements the error interface for ProcessFailedError.
func (e *ProcessFailedError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Command, e.Code)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *ProcessFailedError) Unwrap() error { return ErrProcessFailed }

// ExitStatus returns the child's exit code.
func (e *ProcessFailedError) ExitStatus() types.ExitCode { return e.Code }

// Error implements the error interface for WorkDirError.
func (e *WorkDirError) Error() string {
	return fmt.Sprintf("working directory %s: %v", e.Dir, e.Cause)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *WorkDirError) Unwrap() []error { return []error{ErrWorkDir, e.Cause} }

// Error implements the error interface for UnknownScriptOrBinaryError.
func (e *UnknownScriptOrBinaryError) Error() string {
	return fmt.Sprintf("Unknown script or hoisted binary '%s'", e.Name)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *UnknownScriptOrBinaryError) Unwrap() error { return ErrUnknownScriptOrBinary }

// Run resolves name against cfg and runs it: a declared script first, then
// a hoisted binary. The name is lower-cased before lookup.
func (e *Engine) Run(ctx context.Context, cfg *rootfile.RootConfiguration, name string, args []string) error {
	key := strings.ToLower(name)
	if decl, ok := cfg.Lookup(key); ok {
		return e.RunScript(ctx, key, decl, args)
	}

	path, ok, err := hoist.Resolve(e.RootDir, cfg.Hoist, key)
	if err != nil {
		return err
	}
	if !ok {
		return &UnknownScriptOrBinaryError{Name: key}
	}
	return e.RunHoisted(ctx, path, args)
}

// RunScript runs the steps of decl in order. Each step gets its own copy of
// args with the step's transforms applied.
func (e *Engine) RunScript(ctx context.Context, name string, decl rootfile.ScriptDeclaration, args []string) error {
	var firstFailure *StepFailedError
	for i, step := range decl {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("script %s interrupted before step %d: %w", name, i+1, err)
		}

		stepArgs, err := ApplyTransforms(args, step.ProcessArgs, e.InvocationDir)
		if err != nil {
			return fmt.Errorf("script %s step %d: %w", name, i+1, err)
		}
		dir, err := e.resolveDir(step.Cwd)
		if err != nil {
			return fmt.Errorf("script %s step %d: %w", name, i+1, err)
		}

		slog.Debug("running step", "script", name, "step", i+1, "dir", dir)
		code, err := e.Launcher.Shell(ctx, ShellInvocation{
			Script: step.Cmd,
			Args:   stepArgs,
			Argv0:  e.Argv0,
			Dir:    dir,
			IO:     e.Stdio,
		})
		if err != nil {
			return fmt.Errorf("script %s step %d: %w", name, i+1, err)
		}
		if code.IsSuccess() {
			continue
		}

		failure := &StepFailedError{Script: name, Step: i + 1, Code: code}
		if e.Policy != PolicyContinue {
			return failure
		}
		slog.Warn("step failed, continuing", "script", name, "step", i+1, "code", int(code))
		if firstFailure == nil {
			firstFailure = failure
		}
	}
	if firstFailure != nil {
		return firstFailure
	}
	return nil
}

// RunHoisted runs the hoisted binary at path through the shell with args
// forwarded, from the project root.
func (e *Engine) RunHoisted(ctx context.Context, path string, args []string) error {
	canonical, err := fspath.Canonical(types.FilesystemPath(e.RootDir), types.FilesystemPath(path))
	if err != nil {
		return &hoist.ScanError{Dir: path, Cause: err}
	}

	slog.Debug("running hoisted binary", "path", canonical)
	code, err := e.Launcher.Shell(ctx, ShellInvocation{
		Executable: string(canonical),
		Args:       args,
		Argv0:      e.Argv0,
		Dir:        e.RootDir,
		IO:         e.Stdio,
	})
	if err != nil {
		return err
	}
	if !code.IsSuccess() {
		return &ProcessFailedError{Command: string(canonical), Code: code}
	}
	return nil
}

// RunPassthrough runs the wrapped command with prepend ++ args ++ append.
func (e *Engine) RunPassthrough(ctx context.Context, p *rootfile.Passthrough, args []string) error {
	dir, err := e.resolveDir(p.Cwd)
	if err != nil {
		return err
	}

	argv := make([]string, 0, len(p.PrependArgs)+len(args)+len(p.AppendArgs))
	argv = append(argv, p.PrependArgs...)
	argv = append(argv, args...)
	argv = append(argv, p.AppendArgs...)

	code, err := e.Launcher.Direct(ctx, DirectInvocation{
		Executable: p.Cmd,
		Args:       argv,
		Dir:        dir,
		IO:         e.Stdio,
	})
	if err != nil {
		return err
	}
	if !code.IsSuccess() {
		return &ProcessFailedError{Command: p.Cmd, Code: code}
	}
	return nil
}

// resolveDir returns the canonical form of a root-relative cwd, or the
// invocation directory when cwd is empty.
func (e *Engine) resolveDir(cwd string) (string, error) {
	if cwd == "" {
		return e.InvocationDir, nil
	}
	dir, err := fspath.Canonical(types.FilesystemPath(e.RootDir), types.FilesystemPath(cwd))
	if err != nil {
		return "", &WorkDirError{Dir: cwd, Cause: err}
	}
	info, err := os.Stat(string(dir))
	if err != nil {
		return "", &WorkDirError{Dir: cwd, Cause: err}
	}
	if !info.IsDir() {
		return "", &WorkDirError{Dir: cwd, Cause: errors.New("not a directory")}
	}
	return string(dir), nil
}
