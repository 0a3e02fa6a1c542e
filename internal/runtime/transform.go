// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"slices"

	"github.com/xroot/x/pkg/fspath"
	"github.com/xroot/x/pkg/rootfile"
	"github.com/xroot/x/pkg/types"
)

// ErrTransform is the sentinel wrapped by TransformError.
var ErrTransform = errors.New("argument transform failed")

// TransformError is returned when a supported transform cannot be applied
// to its argument, e.g. realpath on a file that does not exist.
type TransformError struct {
	// Position is the 1-based argument position.
	Position  int
	Arg       string
	Transform rootfile.TransformKind
	Cause     error
}

// Error implements the error interface for TransformError.
func (e *TransformError) Error() string {
	return fmt.Sprintf("%s of argument %d (%q): %v", e.Transform, e.Position, e.Arg, e.Cause)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *TransformError) Unwrap() []error { return []error{ErrTransform, e.Cause} }

// ApplyTransforms returns a copy of args where each position listed in
// processArgs has been transformed. Positions are 1-based; positions past
// the end of args are ignored and positions without an entry pass through.
// Relative paths are resolved against base, never against the process
// working directory.
//
// An unsupported transform yields *rootfile.UnsupportedTransformError.
func ApplyTransforms(args []string, processArgs map[int]rootfile.ProcessArgument, base string) ([]string, error) {
	out := slices.Clone(args)
	for i, arg := range out {
		pa, ok := processArgs[i+1]
		if !ok {
			continue
		}
		if err := pa.Kind.Validate(); err != nil {
			return nil, err
		}
		transformed, err := applyTransform(pa.Transform, arg, base)
		if err != nil {
			var unsupported *rootfile.UnsupportedTransformError
			if errors.As(err, &unsupported) {
				return nil, err
			}
			return nil, &TransformError{Position: i + 1, Arg: arg, Transform: pa.Transform, Cause: err}
		}
		out[i] = transformed
	}
	return out, nil
}

func applyTransform(kind rootfile.TransformKind, arg, base string) (string, error) {
	if err := kind.Validate(); err != nil {
		return "", err
	}
	switch kind {
	case rootfile.TransformRealpath:
		if arg == "" {
			return "", errors.New("empty path")
		}
		resolved, err := fspath.Canonical(types.FilesystemPath(base), types.FilesystemPath(arg))
		return string(resolved), err
	default:
		return "", &rootfile.UnsupportedTransformError{Value: kind}
	}
}
