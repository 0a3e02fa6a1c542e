// SPDX-License-Identifier: MPL-2.0

// Package discovery locates the project root by walking upward from a start
// directory until it finds a root configuration file.
//
// File organization:
//   - discovery.go: FindRoot and the Root result
//   - diagnostic.go: non-fatal findings collected while walking
package discovery
