// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"mvdan.cc/sh/v3/interp"
)

// HandlerContext is the part of the interpreter state a command may use.
type HandlerContext struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Dir is the shell's current directory.
	Dir string
}

// handlerContextFrom extracts the HandlerContext from an exec handler's ctx.
func handlerContextFrom(ctx context.Context) *HandlerContext {
	hc := interp.HandlerCtx(ctx)
	return &HandlerContext{
		Stdin:  hc.Stdin,
		Stdout: hc.Stdout,
		Stderr: hc.Stderr,
		Dir:    hc.Dir,
	}
}

// ExecHandler returns interp middleware that runs registered commands
// in-process and passes everything else to next.
func (r *Registry) ExecHandler() func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
		return func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return next(ctx, args)
			}
			cmd, ok := r.Lookup(args[0])
			if !ok {
				return next(ctx, args)
			}

			hc := handlerContextFrom(ctx)
			slog.Debug("running in-process utility", "command", args[0])
			return exitStatus(hc.Stderr, cmd.Run(ctx, hc, args))
		}
	}
}

// exitStatus reports err on stderr and turns it into a shell exit status.
func exitStatus(stderr io.Writer, err error) error {
	if err == nil {
		return nil
	}
	var status interp.ExitStatus
	if errors.As(err, &status) {
		return err
	}
	_, _ = fmt.Fprintln(stderr, err)
	return interp.ExitStatus(1)
}
