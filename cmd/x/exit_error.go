// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/xroot/x/internal/issue"
	"github.com/xroot/x/pkg/types"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitError attaches the exit status err maps to. A nil err stays nil.
func exitError(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: issue.ExitCodeOf(err), Err: err}
}
