// SPDX-License-Identifier: MPL-2.0

// Package execute wires one invocation of the runner together: it locates
// the project root, loads the root configuration, builds the script engine
// from the runner settings, and dispatches arguments to the configured mode.
// It keeps the CLI layer free of discovery and runtime details.
package execute
