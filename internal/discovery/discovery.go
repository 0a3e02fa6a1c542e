// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/xroot/x/pkg/fspath"
	"github.com/xroot/x/pkg/rootfile"
	"github.com/xroot/x/pkg/types"
)

// ErrRootNotFound is the sentinel wrapped by RootNotFoundError.
var ErrRootNotFound = errors.New("root project configuration not found")

type (
	// Root is a located project root.
	Root struct {
		// Dir is the absolute directory holding the configuration file.
		Dir types.FilesystemPath
		// ConfigFile is the absolute path of the configuration file.
		ConfigFile types.FilesystemPath
		// Diagnostics lists non-fatal findings, such as shadowed files.
		Diagnostics []Diagnostic
	}

	// RootNotFoundError is returned when no ancestor of Start contains a root
	// configuration file.
	RootNotFoundError struct {
		Start types.FilesystemPath
	}
)

// ConfigFilenames lists the recognized root file names in priority order.
// At a given directory level the first one present wins.
func ConfigFilenames() []string {
	return []string{"x-root.kdl", "x-root.yml"}
}

// Error implements the error interface for RootNotFoundError.
func (e *RootNotFoundError) Error() string {
	return fmt.Sprintf("root project configuration not found (searched upward from %s for %s or %s)",
		e.Start, ConfigFilenames()[0], ConfigFilenames()[1])
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *RootNotFoundError) Unwrap() error { return ErrRootNotFound }

// FindRoot walks from start toward the filesystem root and returns the
// nearest directory containing a root configuration file. An empty start
// means the current working directory. Only stat calls are made.
func FindRoot(start types.FilesystemPath) (*Root, error) {
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		start = types.FilesystemPath(wd)
	}
	abs, err := fspath.Abs(start)
	if err != nil {
		return nil, err
	}

	for dir := abs; ; {
		if root := rootIn(dir); root != nil {
			slog.Debug("project root found", "dir", root.Dir, "config", root.ConfigFile)
			return root, nil
		}
		parent := fspath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil, &RootNotFoundError{Start: abs}
}

// rootIn checks a single directory for configuration files in priority order.
func rootIn(dir types.FilesystemPath) *Root {
	var root *Root
	for _, name := range ConfigFilenames() {
		candidate := fspath.JoinStr(dir, name)
		if !isRegularFile(candidate) {
			continue
		}
		if root == nil {
			root = &Root{Dir: dir, ConfigFile: candidate}
			continue
		}
		root.Diagnostics = append(root.Diagnostics, Diagnostic{
			Code:    CodeShadowedConfig,
			Message: fmt.Sprintf("%s is ignored because %s takes priority", name, root.ConfigFile),
			Path:    candidate,
		})
	}
	return root
}

func isRegularFile(path types.FilesystemPath) bool {
	info, err := os.Stat(string(path))
	return err == nil && info.Mode().IsRegular()
}

// Load parses the root's configuration file.
func (r *Root) Load() (*rootfile.RootConfiguration, error) {
	return rootfile.Parse(r.ConfigFile)
}

// CanonicalConfigFile returns ConfigFile with symlinks resolved.
func (r *Root) CanonicalConfigFile() (types.FilesystemPath, error) {
	return fspath.Canonical(r.Dir, r.ConfigFile)
}
