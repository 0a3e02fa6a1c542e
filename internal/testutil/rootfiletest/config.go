// SPDX-License-Identifier: MPL-2.0

package rootfiletest

import "github.com/xroot/x/pkg/rootfile"

type (
	// ConfigOption configures a test configuration.
	ConfigOption func(*rootfile.RootConfiguration)

	// StepOption configures a test script step.
	StepOption func(*rootfile.ScriptCmd)
)

// NewConfig creates a standalone configuration with no hoists or scripts,
// then applies opts.
//
// Usage:
//
//	cfg := rootfiletest.NewConfig(
//	    rootfiletest.WithHoist("bin"),
//	    rootfiletest.WithScript("build", rootfiletest.Step("make")),
//	)
func NewConfig(opts ...ConfigOption) *rootfile.RootConfiguration {
	cfg := &rootfile.RootConfiguration{Mode: rootfile.Standalone()}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithHoist appends directory hoist declarations.
func WithHoist(dirs ...string) ConfigOption {
	return func(c *rootfile.RootConfiguration) {
		for _, d := range dirs {
			c.Hoist = append(c.Hoist, rootfile.HoistDeclaration{Kind: rootfile.HoistDirectory, Path: d})
		}
	}
}

// WithScript declares a script made of steps.
func WithScript(name string, steps ...rootfile.ScriptCmd) ConfigOption {
	return func(c *rootfile.RootConfiguration) {
		if c.Scripts == nil {
			c.Scripts = make(map[string]rootfile.ScriptDeclaration)
		}
		c.Scripts[name] = steps
	}
}

// WithPassthrough switches the configuration to passthrough mode.
func WithPassthrough(cmd, cwd string, prepend, appendArgs []string) ConfigOption {
	return func(c *rootfile.RootConfiguration) {
		c.Mode = rootfile.RunMode{
			Kind: rootfile.ModePassthrough,
			Passthrough: &rootfile.Passthrough{
				Cmd:         cmd,
				Cwd:         cwd,
				PrependArgs: prepend,
				AppendArgs:  appendArgs,
			},
		}
	}
}

// Step creates a script step running cmd.
func Step(cmd string, opts ...StepOption) rootfile.ScriptCmd {
	step := rootfile.ScriptCmd{Cmd: cmd}
	for _, opt := range opts {
		opt(&step)
	}
	return step
}

// InDir sets the step's working directory.
func InDir(cwd string) StepOption {
	return func(s *rootfile.ScriptCmd) { s.Cwd = cwd }
}

// WithTransform registers a transform for the 1-based argument position.
func WithTransform(position int, kind rootfile.TransformKind) StepOption {
	return func(s *rootfile.ScriptCmd) {
		if s.ProcessArgs == nil {
			s.ProcessArgs = make(map[int]rootfile.ProcessArgument)
		}
		s.ProcessArgs[position] = rootfile.ProcessArgument{Kind: rootfile.ProcessTransform, Transform: kind}
	}
}
