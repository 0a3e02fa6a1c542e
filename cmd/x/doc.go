// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the x command line.
//
// x takes no flags of its own: every argument after the program name is
// handed to the project's script, hoisted binary or passthrough command.
// The single exception is a leading "-", which selects the builtin
// commands (which, root, print-config, settings).
package cmd
