// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed wrappers around path/filepath functions that
// accept and return types.FilesystemPath, plus the two resolution rules the
// runner applies everywhere: "relative to a base directory" and "canonical".
package fspath

import (
	"fmt"
	"path/filepath"

	"github.com/xroot/x/pkg/types"
)

// JoinStr wraps filepath.Join, accepting a typed base path and raw string
// segments (literal file names or names returned by os.ReadDir).
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Dir wraps filepath.Dir for FilesystemPath.
func Dir(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Dir(string(p)))
}

// Abs wraps filepath.Abs for FilesystemPath. Returns an error if the
// underlying OS call fails.
func Abs(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return types.FilesystemPath(abs), nil
}

// Clean wraps filepath.Clean for FilesystemPath.
func Clean(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Clean(string(p)))
}

// IsAbs wraps filepath.IsAbs for FilesystemPath.
func IsAbs(p types.FilesystemPath) bool {
	return filepath.IsAbs(string(p))
}

// ResolveFrom interprets p relative to base unless p is already absolute.
// The result is cleaned but not canonicalized.
func ResolveFrom(base, p types.FilesystemPath) types.FilesystemPath {
	if IsAbs(p) {
		return Clean(p)
	}
	return JoinStr(base, string(p))
}

// Canonical resolves p against base and returns the absolute path with every
// symlink evaluated. The path must exist.
func Canonical(base, p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := Abs(ResolveFrom(base, p))
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(string(abs))
	if err != nil {
		return "", fmt.Errorf("canonicalizing %s: %w", abs, err)
	}
	return types.FilesystemPath(resolved), nil
}
