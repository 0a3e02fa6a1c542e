// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFilesystemPath is the sentinel wrapped by InvalidFilesystemPathError.
var ErrInvalidFilesystemPath = errors.New("invalid filesystem path")

type (
	// FilesystemPath is a path as written in a root configuration or on the
	// command line. It may be relative; pkg/fspath resolves it.
	FilesystemPath string

	// InvalidFilesystemPathError is returned for a blank path.
	InvalidFilesystemPathError struct {
		Value FilesystemPath
	}
)

func (p FilesystemPath) String() string { return string(p) }

// IsBlank reports whether p is empty or only whitespace.
func (p FilesystemPath) IsBlank() bool { return strings.TrimSpace(string(p)) == "" }

// Validate rejects blank paths. A hoist directory or a cwd of "  " would
// otherwise resolve to the project root without saying so.
func (p FilesystemPath) Validate() error {
	if p.IsBlank() {
		return &InvalidFilesystemPathError{Value: p}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidFilesystemPathError) Error() string {
	return fmt.Sprintf("path %q is blank", e.Value)
}

// Unwrap returns ErrInvalidFilesystemPath for errors.Is.
func (e *InvalidFilesystemPathError) Unwrap() error { return ErrInvalidFilesystemPath }
