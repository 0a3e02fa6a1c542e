// SPDX-License-Identifier: MPL-2.0

package rootfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xroot/x/pkg/types"
)

const (
	// FormatKDL is the KDL document format (x-root.kdl).
	FormatKDL Format = "kdl"
	// FormatYAML is the YAML document format (x-root.yml).
	FormatYAML Format = "yaml"
)

var (
	// ErrParse is the sentinel wrapped by every ParseError.
	ErrParse = errors.New("cannot parse root configuration")
	// ErrInvalidFormat is returned when a Format value is not recognized.
	ErrInvalidFormat = errors.New("invalid configuration format")
)

type (
	// Format identifies the on-disk syntax of a root configuration file.
	Format string

	// InvalidFormatError is returned when a Format value is not recognized.
	InvalidFormatError struct {
		Value Format
	}

	// ParseError reports a root configuration that could not be read, decoded
	// or validated. It matches both ErrParse and its Cause with errors.Is.
	ParseError struct {
		Path   types.FilesystemPath
		Format Format
		Cause  error
	}
)

// Error implements the error interface for InvalidFormatError.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("unsupported configuration format %q (valid: kdl, yaml)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Format, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Cause)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Cause} }

// String returns the string representation of the Format.
func (f Format) String() string { return string(f) }

// Validate returns nil if the Format is recognized.
func (f Format) Validate() error {
	switch f {
	case FormatKDL, FormatYAML:
		return nil
	default:
		return &InvalidFormatError{Value: f}
	}
}

// FormatForPath infers the document format from a file extension.
func FormatForPath(path types.FilesystemPath) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(string(path))); ext {
	case ".kdl":
		return FormatKDL, nil
	case ".yml", ".yaml":
		return FormatYAML, nil
	default:
		return "", &InvalidFormatError{Value: Format(strings.TrimPrefix(ext, "."))}
	}
}

// Parse reads the root configuration file at path, choosing the front-end
// from its extension.
func Parse(path types.FilesystemPath) (*RootConfiguration, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, &ParseError{Path: path, Cause: err}
	}
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, &ParseError{Path: path, Format: format, Cause: err}
	}
	return ParseBytes(data, format, path)
}

// ParseBytes decodes a root configuration held in memory. path is only used
// in error messages and may be empty.
func ParseBytes(data []byte, format Format, path types.FilesystemPath) (*RootConfiguration, error) {
	var (
		cfg *RootConfiguration
		err error
	)
	switch format {
	case FormatYAML:
		cfg, err = decodeYAML(data)
	case FormatKDL:
		cfg, err = decodeKDL(data)
	default:
		err = format.Validate()
	}
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return nil, &ParseError{Path: path, Format: format, Cause: err}
	}
	return cfg, nil
}

// ParseYAML decodes a YAML root configuration.
func ParseYAML(data []byte) (*RootConfiguration, error) {
	return ParseBytes(data, FormatYAML, "")
}

// ParseKDL decodes a KDL root configuration.
func ParseKDL(data []byte) (*RootConfiguration, error) {
	return ParseBytes(data, FormatKDL, "")
}

func newConfiguration() *RootConfiguration {
	return &RootConfiguration{Mode: Standalone()}
}

// normalize collapses empty collections to nil so that equivalent documents
// decode to deeply equal values regardless of format.
func (c *RootConfiguration) normalize() {
	if len(c.Hoist) == 0 {
		c.Hoist = nil
	}
	if len(c.Scripts) == 0 {
		c.Scripts = nil
	}
	for name, decl := range c.Scripts {
		for i := range decl {
			if len(decl[i].ProcessArgs) == 0 {
				decl[i].ProcessArgs = nil
			}
		}
		c.Scripts[name] = decl
	}
	if p := c.Mode.Passthrough; p != nil {
		if len(p.PrependArgs) == 0 {
			p.PrependArgs = nil
		}
		if len(p.AppendArgs) == 0 {
			p.AppendArgs = nil
		}
	}
}
