// SPDX-License-Identifier: MPL-2.0

package hoist

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xroot/x/pkg/fspath"
	"github.com/xroot/x/pkg/platform"
	"github.com/xroot/x/pkg/rootfile"
	"github.com/xroot/x/pkg/types"
)

// ErrScan is the sentinel wrapped by ScanError.
var ErrScan = errors.New("cannot scan hoisted directory")

// ScanError is returned when a hoisted directory or one of its matching
// entries cannot be read.
type ScanError struct {
	Dir   string
	Cause error
}

// Error implements the error interface for ScanError.
func (e *ScanError) Error() string {
	return fmt.Sprintf("scanning hoisted directory %s: %v", e.Dir, e.Cause)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *ScanError) Unwrap() []error { return []error{ErrScan, e.Cause} }

// Resolve looks for an executable called name in the hoisted directories of
// decls, in declaration order. Relative directories are resolved against
// baseDir. Entries are compared by file stem, so "tsc.cmd" answers to "tsc".
// The first match wins and its absolute path is returned; ("", false, nil)
// means no directory provides name.
func Resolve(baseDir string, decls []rootfile.HoistDeclaration, name string) (string, bool, error) {
	for _, decl := range decls {
		if decl.Kind != rootfile.HoistDirectory {
			continue
		}
		dir, err := fspath.Abs(fspath.ResolveFrom(types.FilesystemPath(baseDir), types.FilesystemPath(decl.Path)))
		if err != nil {
			return "", false, &ScanError{Dir: decl.Path, Cause: err}
		}
		path, ok, err := scanDir(string(dir), name)
		if err != nil || ok {
			return path, ok, err
		}
	}
	return "", false, nil
}

// scanDir checks the direct children of dir. os.ReadDir returns entries
// sorted by filename, which makes the winner deterministic when several
// files share a stem.
func scanDir(dir, name string) (string, bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false, &ScanError{Dir: dir, Cause: err}
	}
	slog.Debug("scanning hoisted directory", "dir", dir, "entries", len(entries), "name", name)

	for _, entry := range entries {
		if Stem(entry.Name()) != name {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		// Stat follows symlinks, which is how package managers populate bin dirs.
		info, err := os.Stat(path)
		if err != nil {
			return "", false, &ScanError{Dir: dir, Cause: err}
		}
		if !platform.IsExecutable(entry.Name(), info) {
			continue
		}
		slog.Debug("hoisted binary found", "name", name, "path", path)
		return path, true, nil
	}
	return "", false, nil
}

// Stem returns a file name without its last extension. A name whose only dot
// is the leading one, such as ".envrc", is returned unchanged.
func Stem(name string) string {
	ext := filepath.Ext(name)
	if ext == name {
		return name
	}
	return name[:len(name)-len(ext)]
}
