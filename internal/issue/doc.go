// SPDX-License-Identifier: MPL-2.0

// Package issue classifies runner failures and carries the user-facing
// context printed for them.
//
// Every fatal error maps to exactly one Kind. A Kind decides the exit status
// and selects a Markdown guide that is rendered with glamour when the user
// asks for verbose output.
package issue
