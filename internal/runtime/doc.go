// SPDX-License-Identifier: MPL-2.0

// Package runtime runs scripts, hoisted binaries and passthrough commands.
//
// Two launchers implement the Launcher interface:
//   - native: spawns the host shell (sh/bash/zsh, PowerShell or cmd)
//   - virtual: interprets POSIX shell in-process with mvdan.cc/sh
//
// Engine sits on top of a Launcher. It applies positional argument
// transforms, resolves step working directories against the project root
// and runs the steps of a script one at a time. Engine never changes the
// process working directory; every path is resolved against an explicit base.
package runtime
