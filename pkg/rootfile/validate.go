// SPDX-License-Identifier: MPL-2.0

package rootfile

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/xroot/x/pkg/types"
)

type (
	// ValidationError is a single invariant violation found by Validate.
	ValidationError struct {
		// Field locates the problem, e.g. "scripts.build[1].process-args".
		Field string
		// Message is the human-readable problem description.
		Message string
	}

	// ValidationErrors collects every violation found in one pass.
	// It wraps ErrInvalidConfiguration for errors.Is() compatibility.
	ValidationErrors []ValidationError
)

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// Error joins all messages on a single line.
func (errs ValidationErrors) Error() string {
	switch len(errs) {
	case 0:
		return ""
	case 1:
		return errs[0].Error()
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strconv.Itoa(len(errs)) + " problems: " + strings.Join(msgs, "; ")
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (errs ValidationErrors) Unwrap() error { return ErrInvalidConfiguration }

// Validate checks every structural invariant of the configuration and returns
// all violations at once. Transform names are not checked here; an
// unsupported transform fails when the step that uses it runs.
func (c *RootConfiguration) Validate() error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	switch err := c.Mode.Kind.Validate(); {
	case err != nil:
		add("mode", "%v", err)
	case c.Mode.Kind == ModeStandalone && c.Mode.Passthrough != nil:
		add("mode-opts", "not allowed with mode %q", ModeStandalone)
	case c.Mode.Kind == ModePassthrough && c.Mode.Passthrough == nil:
		add("mode-opts", "required with mode %q", ModePassthrough)
	case c.Mode.Kind == ModePassthrough && strings.TrimSpace(c.Mode.Passthrough.Cmd) == "":
		add("mode-opts.cmd", "must not be empty")
	}
	if p := c.Mode.Passthrough; p != nil && p.Cwd != "" {
		if err := types.FilesystemPath(p.Cwd).Validate(); err != nil {
			add("mode-opts.cwd", "%v", err)
		}
	}

	for i, h := range c.Hoist {
		field := fmt.Sprintf("hoist[%d]", i)
		if err := h.Kind.Validate(); err != nil {
			add(field, "%v", err)
		}
		if err := types.FilesystemPath(h.Path).Validate(); err != nil {
			add(field, "directory: %v", err)
		}
	}

	for _, name := range c.ScriptNames() {
		decl := c.Scripts[name]
		field := "scripts." + name
		if strings.TrimSpace(name) == "" {
			add("scripts", "script name must not be empty")
			continue
		}
		if len(decl) == 0 {
			add(field, "must have at least one step")
			continue
		}
		for i, step := range decl {
			stepField := fmt.Sprintf("%s[%d]", field, i)
			if strings.TrimSpace(step.Cmd) == "" {
				add(stepField+".cmd", "must not be empty")
			}
			if step.Cwd != "" {
				if err := types.FilesystemPath(step.Cwd).Validate(); err != nil {
					add(stepField+".cwd", "%v", err)
				}
			}
			for _, idx := range slices.Sorted(maps.Keys(step.ProcessArgs)) {
				argField := fmt.Sprintf("%s.process-args.%d", stepField, idx)
				if idx < 1 {
					add(argField, "argument positions start at 1")
				}
				if err := step.ProcessArgs[idx].Kind.Validate(); err != nil {
					add(argField, "%v", err)
				}
				if step.ProcessArgs[idx].Transform == "" {
					add(argField, "transform must not be empty")
				}
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
