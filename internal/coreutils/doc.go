// SPDX-License-Identifier: MPL-2.0

// Package coreutils provides a few POSIX utilities that the virtual shell
// runs in-process, so scripts using them work on hosts that lack them.
//
// Provided commands: basename, cat, dirname, head and realpath. Commands
// not in the registry fall through to the next exec handler, which spawns
// the host binary as usual.
//
// A failing utility writes "<name>: <error>" to the script's stderr and
// exits with status 1, like its host counterpart would.
package coreutils
