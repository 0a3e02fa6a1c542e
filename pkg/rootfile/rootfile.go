// SPDX-License-Identifier: MPL-2.0

package rootfile

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

const (
	// ModeStandalone runs named scripts and hoisted binaries. It is the default.
	ModeStandalone ModeKind = "standalone"
	// ModePassthrough forwards every argument to a single wrapped command.
	ModePassthrough ModeKind = "passthrough"

	// HoistDirectory hoists the executables found directly inside a directory.
	HoistDirectory HoistKind = "directory"

	// ProcessTransform rewrites a positional argument before it reaches the shell.
	ProcessTransform ProcessKind = "transform"

	// TransformRealpath replaces an argument with its absolute canonical path.
	TransformRealpath TransformKind = "realpath"
)

var (
	// ErrInvalidModeKind is returned when a ModeKind value is not one of the defined modes.
	ErrInvalidModeKind = errors.New("invalid mode")
	// ErrInvalidHoistKind is returned when a HoistKind value is not recognized.
	ErrInvalidHoistKind = errors.New("invalid hoist declaration kind")
	// ErrInvalidProcessKind is returned when a ProcessKind value is not recognized.
	ErrInvalidProcessKind = errors.New("invalid process argument kind")
	// ErrUnsupportedTransform is returned when a TransformKind has no implementation.
	ErrUnsupportedTransform = errors.New("unsupported transform")
	// ErrInvalidConfiguration is the sentinel wrapped by InvalidConfigurationError.
	ErrInvalidConfiguration = errors.New("invalid root configuration")
)

type (
	// ModeKind selects how the runner interprets its arguments.
	ModeKind string

	// HoistKind is the tag of a HoistDeclaration.
	HoistKind string

	// ProcessKind is the tag of a ProcessArgument.
	ProcessKind string

	// TransformKind names a positional argument transform. Unknown names are
	// accepted by the parsers and rejected when the transform is applied.
	TransformKind string

	// RunMode is the tagged run mode. Passthrough is non-nil exactly when
	// Kind is ModePassthrough.
	RunMode struct {
		Kind        ModeKind
		Passthrough *Passthrough
	}

	// Passthrough holds the options of passthrough mode.
	Passthrough struct {
		// Cmd is the wrapped command, resolved through PATH.
		Cmd string
		// Cwd is an optional working directory relative to the project root.
		Cwd string
		// PrependArgs are placed before the user's arguments.
		PrependArgs []string
		// AppendArgs are placed after the user's arguments.
		AppendArgs []string
	}

	// HoistDeclaration adds a directory of executables to the hoist search.
	// Declarations are scanned in order and the first match wins.
	HoistDeclaration struct {
		Kind HoistKind
		// Path is resolved against the project root when relative.
		Path string
	}

	// ScriptDeclaration is the ordered, non-empty list of steps of a script.
	ScriptDeclaration []ScriptCmd

	// ScriptCmd is a single step of a script.
	ScriptCmd struct {
		// Cmd is the shell command line. Runtime arguments are passed to it as
		// positional parameters ($1, $2, ... and "$@").
		Cmd string
		// Cwd is an optional working directory relative to the project root.
		Cwd string
		// ProcessArgs maps 1-based runtime argument positions to transforms.
		ProcessArgs map[int]ProcessArgument
	}

	// ProcessArgument describes what to do with one runtime argument.
	ProcessArgument struct {
		Kind      ProcessKind
		Transform TransformKind
	}

	// RootConfiguration is the parsed content of a project root file. It is
	// built once per invocation and never modified afterwards.
	RootConfiguration struct {
		Mode    RunMode
		Hoist   []HoistDeclaration
		Scripts map[string]ScriptDeclaration
	}

	// InvalidModeKindError is returned when a ModeKind value is not recognized.
	// It wraps ErrInvalidModeKind for errors.Is() compatibility.
	InvalidModeKindError struct {
		Value ModeKind
	}

	// InvalidHoistKindError is returned when a HoistKind value is not recognized.
	InvalidHoistKindError struct {
		Value HoistKind
	}

	// InvalidProcessKindError is returned when a ProcessKind value is not recognized.
	InvalidProcessKindError struct {
		Value ProcessKind
	}

	// UnsupportedTransformError is returned when a TransformKind has no
	// implementation.
	UnsupportedTransformError struct {
		Value TransformKind
	}
)

// Error implements the error interface for InvalidModeKindError.
func (e *InvalidModeKindError) Error() string {
	return fmt.Sprintf("invalid mode %q (valid: standalone, passthrough)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidModeKindError) Unwrap() error { return ErrInvalidModeKind }

// Error implements the error interface for InvalidHoistKindError.
func (e *InvalidHoistKindError) Error() string {
	return fmt.Sprintf("invalid hoist declaration kind %q (valid: directory)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidHoistKindError) Unwrap() error { return ErrInvalidHoistKind }

// Error implements the error interface for InvalidProcessKindError.
func (e *InvalidProcessKindError) Error() string {
	return fmt.Sprintf("invalid process argument kind %q (valid: transform)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidProcessKindError) Unwrap() error { return ErrInvalidProcessKind }

// Error implements the error interface for UnsupportedTransformError.
func (e *UnsupportedTransformError) Error() string {
	return fmt.Sprintf("unsupported transform %q (valid: realpath)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *UnsupportedTransformError) Unwrap() error { return ErrUnsupportedTransform }

// String returns the string representation of the ModeKind.
func (m ModeKind) String() string { return string(m) }

// Validate returns nil if the ModeKind is one of the defined modes.
func (m ModeKind) Validate() error {
	switch m {
	case ModeStandalone, ModePassthrough:
		return nil
	default:
		return &InvalidModeKindError{Value: m}
	}
}

// String returns the string representation of the HoistKind.
func (k HoistKind) String() string { return string(k) }

// Validate returns nil if the HoistKind is recognized.
func (k HoistKind) Validate() error {
	if k == HoistDirectory {
		return nil
	}
	return &InvalidHoistKindError{Value: k}
}

// String returns the string representation of the ProcessKind.
func (k ProcessKind) String() string { return string(k) }

// Validate returns nil if the ProcessKind is recognized.
func (k ProcessKind) Validate() error {
	if k == ProcessTransform {
		return nil
	}
	return &InvalidProcessKindError{Value: k}
}

// String returns the string representation of the TransformKind.
func (k TransformKind) String() string { return string(k) }

// Validate returns nil if the transform has an implementation.
func (k TransformKind) Validate() error {
	if k == TransformRealpath {
		return nil
	}
	return &UnsupportedTransformError{Value: k}
}

// Standalone returns the default run mode.
func Standalone() RunMode {
	return RunMode{Kind: ModeStandalone}
}

// IsPassthrough reports whether the mode wraps another command.
func (m RunMode) IsPassthrough() bool {
	return m.Kind == ModePassthrough
}

// Lookup returns the script declared under exactly name.
func (c *RootConfiguration) Lookup(name string) (ScriptDeclaration, bool) {
	decl, ok := c.Scripts[name]
	return decl, ok
}

// ScriptNames returns the declared script names in sorted order.
func (c *RootConfiguration) ScriptNames() []string {
	return slices.Sorted(maps.Keys(c.Scripts))
}
