// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// ExitSuccess means every step and child process succeeded.
	ExitSuccess ExitCode = 0
	// ExitFailure is x's own status for fatal errors: no root, a bad
	// configuration, an unknown script, a child that could not start.
	ExitFailure ExitCode = 1
	// ExitUsage means the command line itself was malformed.
	ExitUsage ExitCode = 2
	// ExitInterrupted is the status for a run cancelled by SIGINT.
	ExitInterrupted ExitCode = signalBase + 2

	// signalBase is added to a signal number, as POSIX shells do for $?.
	signalBase = 128
)

// ErrInvalidExitCode is the sentinel wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode is a process exit status as x reports it. A child's status is
	// passed through unchanged when it fits in 0-255.
	ExitCode int

	// InvalidExitCodeError is returned for statuses no process can exit with.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// SignalExitCode returns the status a shell reports for a child killed by
// signal signum.
func SignalExitCode(signum int) ExitCode {
	return ExitCode(signalBase + signum)
}

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d is outside 0-255", e.Value)
}

// Unwrap returns ErrInvalidExitCode for errors.Is.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate rejects codes outside 0-255. Windows reports -1 for a process
// that was terminated, which x maps to ExitFailure.
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess reports whether c is zero.
func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

// IsSignal reports whether c is the status of a child killed by a signal.
func (c ExitCode) IsSignal() bool { return c > signalBase && c <= 255 }

func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
