// SPDX-License-Identifier: MPL-2.0

package discovery

import "github.com/xroot/x/pkg/types"

const (
	// CodeShadowedConfig marks a lower-priority root file that sits next to the
	// chosen one and is therefore ignored.
	CodeShadowedConfig = "root_config_shadowed"
)

// Diagnostic represents a structured discovery finding that is returned to
// callers rather than written to stderr.
type Diagnostic struct {
	// Code is a machine-readable identifier (e.g., "root_config_shadowed").
	Code string
	// Message is the human-readable description.
	Message string
	// Path is the file the diagnostic refers to.
	Path types.FilesystemPath
}
