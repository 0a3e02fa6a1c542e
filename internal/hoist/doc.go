// SPDX-License-Identifier: MPL-2.0

// Package hoist resolves names to executables found in the directories a
// project hoists, such as node_modules/.bin.
//
// Symlinked entries are followed and count as binaries when their target is
// an executable regular file, since package managers fill bin directories
// with links. A broken link whose stem matches the name is a scan error.
package hoist
