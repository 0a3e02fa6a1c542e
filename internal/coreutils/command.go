// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrMissingOperand is returned by commands that need at least one argument.
var ErrMissingOperand = errors.New("missing operand")

type (
	// Command is an in-process utility.
	Command interface {
		// Name returns the command name, e.g. "cat".
		Name() string
		// Run executes the command. args[0] is the command name.
		Run(ctx context.Context, hc *HandlerContext, args []string) error
	}

	// CommandError is a failure reported by a utility.
	CommandError struct {
		Command string
		Cause   error
	}

	// commandFunc adapts a function to the Command interface.
	commandFunc struct {
		name string
		run  func(ctx context.Context, hc *HandlerContext, args []string) error
	}
)

// Error implements the error interface for CommandError.
func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *CommandError) Unwrap() error { return e.Cause }

func (c commandFunc) Name() string { return c.name }

func (c commandFunc) Run(ctx context.Context, hc *HandlerContext, args []string) error {
	return c.run(ctx, hc, args)
}

// wrapError attaches the command name to err. Returns nil if err is nil.
func wrapError(name string, err error) error {
	if err == nil {
		return nil
	}
	return &CommandError{Command: name, Cause: err}
}

// operands returns the arguments after the command name, or
// ErrMissingOperand when there are none.
func operands(args []string) ([]string, error) {
	if len(args) < 2 {
		return nil, ErrMissingOperand
	}
	return args[1:], nil
}

// writeLine writes one line, ignoring write errors the way the shell's own
// echo builtin does.
func writeLine(w io.Writer, s string) {
	_, _ = fmt.Fprintln(w, s)
}
