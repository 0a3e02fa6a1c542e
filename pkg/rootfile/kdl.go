// SPDX-License-Identifier: MPL-2.0

package rootfile

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"math/big"
	"slices"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

const (
	kdlNodeMode        = "mode"
	kdlNodeHoist       = "hoist"
	kdlNodeScripts     = "scripts"
	kdlNodeScript      = "script"
	kdlNodeStep        = "step"
	kdlNodeProcessArg  = "process-arg"
	kdlNodePrependArgs = "prepend-args"
	kdlNodeAppendArgs  = "append-args"
)

func decodeKDL(data []byte) (*RootConfiguration, error) {
	doc, err := kdl.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	cfg := newConfiguration()
	seenMode := false
	for _, n := range doc.Nodes {
		switch name := nodeName(n); name {
		case kdlNodeMode:
			if seenMode {
				return nil, errors.New("mode: declared more than once")
			}
			seenMode = true
			mode, err := kdlMode(n)
			if err != nil {
				return nil, err
			}
			cfg.Mode = mode
		case kdlNodeHoist:
			decls, err := kdlHoist(n)
			if err != nil {
				return nil, err
			}
			cfg.Hoist = append(cfg.Hoist, decls...)
		case kdlNodeScripts:
			if cfg.Scripts == nil {
				cfg.Scripts = make(map[string]ScriptDeclaration)
			}
			if err := kdlScripts(n, cfg.Scripts); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unknown node %q (expected mode, hoist or scripts)", name)
		}
	}

	cfg.normalize()
	return cfg, nil
}

func kdlMode(n *document.Node) (RunMode, error) {
	arg, err := singleStringArg(n)
	if err != nil {
		return RunMode{}, err
	}
	kind := ModeKind(arg)
	if err := kind.Validate(); err != nil {
		return RunMode{}, err
	}

	if kind == ModeStandalone {
		if len(n.Properties) > 0 || len(n.Children) > 0 {
			return RunMode{}, fmt.Errorf("mode: options are not allowed with mode %q", ModeStandalone)
		}
		return Standalone(), nil
	}

	if err := allowProperties(n, "cmd", "cwd"); err != nil {
		return RunMode{}, err
	}
	p := &Passthrough{}
	cmd, ok, err := stringProperty(n, "cmd")
	if err != nil {
		return RunMode{}, err
	}
	if !ok {
		return RunMode{}, errors.New("mode: passthrough requires a cmd property")
	}
	p.Cmd = cmd
	if p.Cwd, _, err = stringProperty(n, "cwd"); err != nil {
		return RunMode{}, err
	}

	for _, child := range n.Children {
		args, err := stringArgs(child)
		if err != nil {
			return RunMode{}, err
		}
		switch nodeName(child) {
		case kdlNodePrependArgs:
			p.PrependArgs = append(p.PrependArgs, args...)
		case kdlNodeAppendArgs:
			p.AppendArgs = append(p.AppendArgs, args...)
		default:
			return RunMode{}, fmt.Errorf("mode: unknown node %q (expected prepend-args or append-args)", nodeName(child))
		}
	}
	return RunMode{Kind: ModePassthrough, Passthrough: p}, nil
}

func kdlHoist(n *document.Node) ([]HoistDeclaration, error) {
	if err := noArguments(n); err != nil {
		return nil, err
	}
	decls := make([]HoistDeclaration, 0, len(n.Children))
	for _, child := range n.Children {
		switch name := nodeName(child); name {
		case "directory", "dir":
			if err := allowProperties(child); err != nil {
				return nil, err
			}
			path, err := singleStringArg(child)
			if err != nil {
				return nil, err
			}
			decls = append(decls, HoistDeclaration{Kind: HoistDirectory, Path: path})
		default:
			return nil, fmt.Errorf("hoist: unknown node %q (expected directory or dir)", name)
		}
	}
	return decls, nil
}

func kdlScripts(n *document.Node, into map[string]ScriptDeclaration) error {
	if err := noArguments(n); err != nil {
		return err
	}
	for _, scriptNode := range n.Children {
		if name := nodeName(scriptNode); name != kdlNodeScript {
			return fmt.Errorf("scripts: unknown node %q (expected script)", name)
		}
		if err := allowProperties(scriptNode); err != nil {
			return err
		}
		name, err := singleStringArg(scriptNode)
		if err != nil {
			return err
		}
		decl := make(ScriptDeclaration, 0, len(scriptNode.Children))
		for i, stepNode := range scriptNode.Children {
			step, err := kdlStep(stepNode)
			if err != nil {
				return fmt.Errorf("scripts.%s[%d]: %w", name, i, err)
			}
			decl = append(decl, step)
		}
		into[name] = decl
	}
	return nil
}

func kdlStep(n *document.Node) (ScriptCmd, error) {
	if name := nodeName(n); name != kdlNodeStep {
		return ScriptCmd{}, fmt.Errorf("unknown node %q (expected step)", name)
	}
	if err := allowProperties(n, "cwd"); err != nil {
		return ScriptCmd{}, err
	}
	cmd, err := singleStringArg(n)
	if err != nil {
		return ScriptCmd{}, err
	}
	step := ScriptCmd{Cmd: cmd}
	if step.Cwd, _, err = stringProperty(n, "cwd"); err != nil {
		return ScriptCmd{}, err
	}

	for _, child := range n.Children {
		if name := nodeName(child); name != kdlNodeProcessArg {
			return ScriptCmd{}, fmt.Errorf("unknown node %q (expected process-arg)", name)
		}
		if err := allowProperties(child, "transform"); err != nil {
			return ScriptCmd{}, err
		}
		if len(child.Arguments) != 1 {
			return ScriptCmd{}, errors.New("process-arg: expected exactly one position")
		}
		idx, ok := intValue(child.Arguments[0])
		if !ok {
			return ScriptCmd{}, errors.New("process-arg: position must be an integer")
		}
		if idx < 1 {
			return ScriptCmd{}, fmt.Errorf("process-arg: position %d is below 1", idx)
		}
		if _, dup := step.ProcessArgs[idx]; dup {
			return ScriptCmd{}, fmt.Errorf("process-arg: position %d is declared more than once", idx)
		}
		transform, ok, err := stringProperty(child, "transform")
		if err != nil {
			return ScriptCmd{}, err
		}
		if !ok {
			return ScriptCmd{}, fmt.Errorf("process-arg %d: missing transform", idx)
		}
		if step.ProcessArgs == nil {
			step.ProcessArgs = make(map[int]ProcessArgument)
		}
		step.ProcessArgs[idx] = ProcessArgument{Kind: ProcessTransform, Transform: TransformKind(transform)}
	}
	return step, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	s, _ := n.Name.Value.(string)
	return s
}

func noArguments(n *document.Node) error {
	if len(n.Arguments) > 0 {
		return fmt.Errorf("%s: takes no arguments", nodeName(n))
	}
	return allowProperties(n)
}

func allowProperties(n *document.Node, allowed ...string) error {
	for key := range n.Properties {
		if !slices.Contains(allowed, key) {
			return fmt.Errorf("%s: unknown property %q", nodeName(n), key)
		}
	}
	return nil
}

func singleStringArg(n *document.Node) (string, error) {
	if len(n.Arguments) != 1 {
		return "", fmt.Errorf("%s: expected exactly one argument, got %d", nodeName(n), len(n.Arguments))
	}
	s, ok := stringValue(n.Arguments[0])
	if !ok {
		return "", fmt.Errorf("%s: argument must be a string", nodeName(n))
	}
	return s, nil
}

func stringArgs(n *document.Node) ([]string, error) {
	if err := allowProperties(n); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(n.Arguments))
	for _, v := range n.Arguments {
		s, ok := stringValue(v)
		if !ok {
			return nil, fmt.Errorf("%s: arguments must be strings", nodeName(n))
		}
		out = append(out, s)
	}
	return out, nil
}

func stringProperty(n *document.Node, key string) (string, bool, error) {
	v, ok := n.Properties[key]
	if !ok || v == nil {
		return "", false, nil
	}
	s, ok := stringValue(v)
	if !ok {
		return "", false, fmt.Errorf("%s: property %s must be a string", nodeName(n), key)
	}
	return s, true, nil
}

func stringValue(v *document.Value) (string, bool) {
	if v == nil {
		return "", false
	}
	s, ok := v.Value.(string)
	return s, ok
}

func intValue(v *document.Value) (int, bool) {
	if v == nil {
		return 0, false
	}
	switch n := v.Value.(type) {
	case int:
		return n, true
	case int64:
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case uint64:
		if n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case *big.Int:
		if !n.IsInt64() || n.Int64() > math.MaxInt32 || n.Int64() < math.MinInt32 {
			return 0, false
		}
		return int(n.Int64()), true
	default:
		return 0, false
	}
}
