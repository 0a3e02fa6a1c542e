// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
//
// It centralizes GOOS names and the rules for deciding whether a file is
// executable, which differ between Unix permission bits and Windows
// PATHEXT extensions.
package platform
