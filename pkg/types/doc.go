// SPDX-License-Identifier: MPL-2.0

// Package types holds small validated value types shared by the runner's
// packages: process exit codes and filesystem paths.
package types
