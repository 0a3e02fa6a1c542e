// SPDX-License-Identifier: MPL-2.0

package execute

import (
	"fmt"
	"io"

	"github.com/xroot/x/internal/hoist"
	"github.com/xroot/x/internal/runtime"
	"github.com/xroot/x/pkg/fspath"
	"github.com/xroot/x/pkg/rootfile"
	"github.com/xroot/x/pkg/types"
)

const (
	// SourceScript means a name is a script in the root configuration.
	SourceScript Source = "script"
	// SourceHoisted means a name resolves to a hoisted binary.
	SourceHoisted Source = "hoisted"
)

type (
	// Source tells where a name would be resolved from.
	Source string

	// Resolution is the answer to "which <name>".
	Resolution struct {
		Name   string
		Source Source
		// Path is the canonical binary path for SourceHoisted.
		Path string
	}

	// NameNotFoundError is returned by Which when nothing matches.
	NameNotFoundError struct {
		Name string
	}
)

// Error implements the error interface for NameNotFoundError.
func (e *NameNotFoundError) Error() string {
	return e.Name + ": not found"
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *NameNotFoundError) Unwrap() error { return runtime.ErrUnknownScriptOrBinary }

// String renders the resolution the way "x - which" prints it.
func (r Resolution) String() string {
	if r.Source == SourceHoisted {
		return fmt.Sprintf("%s: hoisted from %s", r.Name, r.Path)
	}
	return r.Name + ": project scoped script"
}

// Which reports where name comes from. Unlike Dispatch, the name is matched
// exactly.
func (s *Session) Which(name string) (Resolution, error) {
	if _, ok := s.Config.Lookup(name); ok {
		return Resolution{Name: name, Source: SourceScript}, nil
	}

	path, ok, err := hoist.Resolve(string(s.Root.Dir), s.Config.Hoist, name)
	if err != nil {
		return Resolution{}, err
	}
	if !ok {
		return Resolution{}, &NameNotFoundError{Name: name}
	}
	canonical, err := fspath.Canonical(s.Root.Dir, types.FilesystemPath(path))
	if err != nil {
		return Resolution{}, &hoist.ScanError{Dir: path, Cause: err}
	}
	return Resolution{Name: name, Source: SourceHoisted, Path: string(canonical)}, nil
}

// ConfigPath returns the canonical path of the root configuration file.
func (s *Session) ConfigPath() (string, error) {
	p, err := s.Root.CanonicalConfigFile()
	return string(p), err
}

// PrintConfig writes the loaded configuration to w in format.
func (s *Session) PrintConfig(w io.Writer, format rootfile.DumpFormat) error {
	return rootfile.Dump(w, s.Config, format)
}
