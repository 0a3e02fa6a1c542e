// SPDX-License-Identifier: MPL-2.0

package rootfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// DumpYAML renders the configuration as YAML. It is the default.
	DumpYAML DumpFormat = "yaml"
	// DumpJSON renders the configuration as indented JSON.
	DumpJSON DumpFormat = "json"
	// DumpTOML renders the configuration as TOML.
	DumpTOML DumpFormat = "toml"
)

// ErrInvalidDumpFormat is returned when a DumpFormat value is not recognized.
var ErrInvalidDumpFormat = errors.New("invalid dump format")

type (
	// DumpFormat selects the output syntax of Dump.
	DumpFormat string

	// InvalidDumpFormatError is returned when a DumpFormat value is not recognized.
	InvalidDumpFormatError struct {
		Value DumpFormat
	}

	// The snapshot types mirror the YAML input layout so a YAML dump can be
	// read back as an x-root.yml.
	snapshot struct {
		Mode     string                    `json:"mode" yaml:"mode" toml:"mode"`
		ModeOpts *passthroughSnapshot      `json:"mode-opts,omitempty" yaml:"mode-opts,omitempty" toml:"mode-opts,omitempty"`
		Hoist    []hoistSnapshot           `json:"hoist,omitempty" yaml:"hoist,omitempty" toml:"hoist,omitempty"`
		Scripts  map[string][]stepSnapshot `json:"scripts,omitempty" yaml:"scripts,omitempty" toml:"scripts,omitempty"`
	}

	passthroughSnapshot struct {
		Cmd         string   `json:"cmd" yaml:"cmd" toml:"cmd"`
		Cwd         string   `json:"cwd,omitempty" yaml:"cwd,omitempty" toml:"cwd,omitempty"`
		PrependArgs []string `json:"prepend-args,omitempty" yaml:"prepend-args,omitempty" toml:"prepend-args,omitempty"`
		AppendArgs  []string `json:"append-args,omitempty" yaml:"append-args,omitempty" toml:"append-args,omitempty"`
	}

	hoistSnapshot struct {
		Directory string `json:"directory" yaml:"directory" toml:"directory"`
	}

	stepSnapshot struct {
		Cmd         string                     `json:"cmd" yaml:"cmd" toml:"cmd"`
		Cwd         string                     `json:"cwd,omitempty" yaml:"cwd,omitempty" toml:"cwd,omitempty"`
		ProcessArgs map[string]processSnapshot `json:"process-args,omitempty" yaml:"process-args,omitempty" toml:"process-args,omitempty"`
	}

	processSnapshot struct {
		Transform string `json:"transform" yaml:"transform" toml:"transform"`
	}
)

// Error implements the error interface for InvalidDumpFormatError.
func (e *InvalidDumpFormatError) Error() string {
	return fmt.Sprintf("invalid format %q (valid: yaml, json, toml)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidDumpFormatError) Unwrap() error { return ErrInvalidDumpFormat }

// String returns the string representation of the DumpFormat.
func (f DumpFormat) String() string { return string(f) }

// Validate returns nil if the DumpFormat is recognized.
func (f DumpFormat) Validate() error {
	switch f {
	case DumpYAML, DumpJSON, DumpTOML:
		return nil
	default:
		return &InvalidDumpFormatError{Value: f}
	}
}

// Dump writes a deterministic rendering of cfg to w. Slices keep their
// declaration order and map keys are emitted sorted.
func Dump(w io.Writer, cfg *RootConfiguration, format DumpFormat) error {
	if err := format.Validate(); err != nil {
		return err
	}
	snap := newSnapshot(cfg)

	switch format {
	case DumpJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case DumpTOML:
		return toml.NewEncoder(w).Encode(snap)
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()
	}
}

func newSnapshot(cfg *RootConfiguration) snapshot {
	snap := snapshot{Mode: cfg.Mode.Kind.String()}
	if p := cfg.Mode.Passthrough; p != nil {
		snap.ModeOpts = &passthroughSnapshot{
			Cmd:         p.Cmd,
			Cwd:         p.Cwd,
			PrependArgs: p.PrependArgs,
			AppendArgs:  p.AppendArgs,
		}
	}
	for _, h := range cfg.Hoist {
		snap.Hoist = append(snap.Hoist, hoistSnapshot{Directory: h.Path})
	}
	if len(cfg.Scripts) > 0 {
		snap.Scripts = make(map[string][]stepSnapshot, len(cfg.Scripts))
	}
	for name, decl := range cfg.Scripts {
		steps := make([]stepSnapshot, 0, len(decl))
		for _, step := range decl {
			s := stepSnapshot{Cmd: step.Cmd, Cwd: step.Cwd}
			for _, idx := range slices.Sorted(maps.Keys(step.ProcessArgs)) {
				if s.ProcessArgs == nil {
					s.ProcessArgs = make(map[string]processSnapshot, len(step.ProcessArgs))
				}
				s.ProcessArgs[strconv.Itoa(idx)] = processSnapshot{Transform: step.ProcessArgs[idx].Transform.String()}
			}
			steps = append(steps, s)
		}
		snap.Scripts[name] = steps
	}
	return snap
}
