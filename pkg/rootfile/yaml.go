// SPDX-License-Identifier: MPL-2.0

package rootfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

type (
	// yamlString is a scalar that must be tagged as a string. yaml.v3 would
	// otherwise turn 123 or true into a Go string, which KDL rejects.
	yamlString string

	yamlDocument struct {
		Mode     yamlString            `yaml:"mode"`
		ModeOpts *yamlPassthrough      `yaml:"mode-opts"`
		Hoist    []yamlHoist           `yaml:"hoist"`
		Scripts  map[string][]yamlStep `yaml:"scripts"`
	}

	yamlPassthrough struct {
		Cmd         yamlString   `yaml:"cmd"`
		Cwd         yamlString   `yaml:"cwd"`
		PrependArgs []yamlString `yaml:"prepend-args"`
		AppendArgs  []yamlString `yaml:"append-args"`
	}

	// yamlHoist accepts "dir" as an alias of "directory".
	yamlHoist struct {
		Directory *yamlString `yaml:"directory"`
		Dir       *yamlString `yaml:"dir"`
	}

	yamlStep struct {
		Cmd         *yamlString               `yaml:"cmd"`
		Cwd         yamlString                `yaml:"cwd"`
		ProcessArgs map[string]yamlProcessArg `yaml:"process-args"`
	}

	yamlProcessArg struct {
		Transform *yamlString `yaml:"transform"`
	}
)

// UnmarshalYAML accepts only string scalars.
func (s *yamlString) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode || node.ShortTag() != "!!str" {
		return fmt.Errorf("line %d: value must be a string, got %s", node.Line, node.ShortTag())
	}
	*s = yamlString(node.Value)
	return nil
}

func yamlStrings(in []yamlString) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}

func decodeYAML(data []byte) (*RootConfiguration, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc yamlDocument
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return doc.configuration()
}

func (d *yamlDocument) configuration() (*RootConfiguration, error) {
	cfg := newConfiguration()

	if d.Mode != "" {
		cfg.Mode.Kind = ModeKind(d.Mode)
		if err := cfg.Mode.Kind.Validate(); err != nil {
			return nil, err
		}
	}
	if d.ModeOpts != nil {
		if cfg.Mode.Kind != ModePassthrough {
			return nil, fmt.Errorf("mode-opts is not allowed with mode %q", cfg.Mode.Kind)
		}
		cfg.Mode.Passthrough = &Passthrough{
			Cmd:         string(d.ModeOpts.Cmd),
			Cwd:         string(d.ModeOpts.Cwd),
			PrependArgs: yamlStrings(d.ModeOpts.PrependArgs),
			AppendArgs:  yamlStrings(d.ModeOpts.AppendArgs),
		}
	} else if cfg.Mode.Kind == ModePassthrough {
		return nil, errors.New("mode passthrough requires mode-opts with a cmd")
	}

	for i, h := range d.Hoist {
		switch {
		case h.Directory != nil && h.Dir != nil:
			return nil, fmt.Errorf("hoist[%d]: use either directory or dir, not both", i)
		case h.Directory != nil:
			cfg.Hoist = append(cfg.Hoist, HoistDeclaration{Kind: HoistDirectory, Path: string(*h.Directory)})
		case h.Dir != nil:
			cfg.Hoist = append(cfg.Hoist, HoistDeclaration{Kind: HoistDirectory, Path: string(*h.Dir)})
		default:
			return nil, fmt.Errorf("hoist[%d]: expected a directory", i)
		}
	}

	if len(d.Scripts) > 0 {
		cfg.Scripts = make(map[string]ScriptDeclaration, len(d.Scripts))
	}
	for _, name := range slices.Sorted(maps.Keys(d.Scripts)) {
		steps := d.Scripts[name]
		decl := make(ScriptDeclaration, 0, len(steps))
		for i, s := range steps {
			if s.Cmd == nil {
				return nil, fmt.Errorf("scripts.%s[%d]: missing cmd", name, i)
			}
			step := ScriptCmd{Cmd: string(*s.Cmd), Cwd: string(s.Cwd)}
			positions, err := yamlPositions(s.ProcessArgs)
			if err != nil {
				return nil, fmt.Errorf("scripts.%s[%d].process-args: %w", name, i, err)
			}
			for _, idx := range slices.Sorted(maps.Keys(positions)) {
				pa := positions[idx]
				if pa.Transform == nil {
					return nil, fmt.Errorf("scripts.%s[%d].process-args.%d: missing transform", name, i, idx)
				}
				if step.ProcessArgs == nil {
					step.ProcessArgs = make(map[int]ProcessArgument, len(positions))
				}
				step.ProcessArgs[idx] = ProcessArgument{Kind: ProcessTransform, Transform: TransformKind(*pa.Transform)}
			}
			decl = append(decl, step)
		}
		cfg.Scripts[name] = decl
	}

	cfg.normalize()
	return cfg, nil
}

// yamlPositions converts process-args keys to integers. Keys are read as
// strings so that both 1: and "1": are accepted.
func yamlPositions(raw map[string]yamlProcessArg) (map[int]yamlProcessArg, error) {
	out := make(map[int]yamlProcessArg, len(raw))
	for key, pa := range raw {
		idx, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("position %q is not an integer", key)
		}
		if idx < 1 {
			return nil, fmt.Errorf("position %d is below 1", idx)
		}
		if _, dup := out[idx]; dup {
			return nil, fmt.Errorf("position %d is declared more than once", idx)
		}
		out[idx] = pa
	}
	return out, nil
}
