// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/xroot/x/pkg/fspath"
	"github.com/xroot/x/pkg/types"
)

// runBasename implements "basename PATH [SUFFIX]".
func runBasename(_ context.Context, hc *HandlerContext, args []string) error {
	ops, err := operands(args)
	if err != nil {
		return wrapError("basename", err)
	}

	base := path.Base(filepath.ToSlash(ops[0]))
	if len(ops) > 1 {
		suffix := ops[1]
		if suffix != "" && base != suffix && strings.HasSuffix(base, suffix) {
			base = strings.TrimSuffix(base, suffix)
		}
	}
	writeLine(hc.Stdout, base)
	return nil
}

// runDirname implements "dirname PATH...".
func runDirname(_ context.Context, hc *HandlerContext, args []string) error {
	ops, err := operands(args)
	if err != nil {
		return wrapError("dirname", err)
	}
	for _, p := range ops {
		p = filepath.ToSlash(p)
		if trimmed := strings.TrimRight(p, "/"); trimmed != "" {
			p = trimmed
		}
		writeLine(hc.Stdout, path.Dir(p))
	}
	return nil
}

// runRealpath implements "realpath PATH...". Paths resolve against the
// shell's current directory with the same rules as the realpath transform.
func runRealpath(_ context.Context, hc *HandlerContext, args []string) error {
	ops, err := operands(args)
	if err != nil {
		return wrapError("realpath", err)
	}
	for _, p := range ops {
		resolved, err := fspath.Canonical(types.FilesystemPath(hc.Dir), types.FilesystemPath(p))
		if err != nil {
			return wrapError("realpath", err)
		}
		writeLine(hc.Stdout, filepath.ToSlash(string(resolved)))
	}
	return nil
}
