// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/xroot/x/internal/testutil"
	"github.com/xroot/x/pkg/rootfile"
)

func realpathAt(positions ...int) map[int]rootfile.ProcessArgument {
	m := make(map[int]rootfile.ProcessArgument, len(positions))
	for _, p := range positions {
		m[p] = rootfile.ProcessArgument{Kind: rootfile.ProcessTransform, Transform: rootfile.TransformRealpath}
	}
	return m
}

func TestApplyTransforms(t *testing.T) {
	t.Parallel()

	base := testutil.MustEvalSymlinks(t, t.TempDir())
	testutil.MustWriteFile(t, filepath.Join(base, "src", "main.go"), "package main\n")
	testutil.MustSymlink(t, filepath.Join(base, "src"), filepath.Join(base, "link"))
	mainGo := filepath.Join(base, "src", "main.go")

	tests := []struct {
		name        string
		args        []string
		processArgs map[int]rootfile.ProcessArgument
		want        []string
	}{
		{
			name: "no transforms",
			args: []string{"a", "b"},
			want: []string{"a", "b"},
		},
		{
			name:        "relative path resolved against base",
			args:        []string{"-v", "src/main.go"},
			processArgs: realpathAt(2),
			want:        []string{"-v", mainGo},
		},
		{
			name:        "symlinks and dot segments resolved",
			args:        []string{"link/../src/./main.go"},
			processArgs: realpathAt(1),
			want:        []string{mainGo},
		},
		{
			name:        "through symlinked directory",
			args:        []string{"link/main.go"},
			processArgs: realpathAt(1),
			want:        []string{mainGo},
		},
		{
			name:        "absolute path",
			args:        []string{mainGo},
			processArgs: realpathAt(1),
			want:        []string{mainGo},
		},
		{
			name:        "positions past the end are ignored",
			args:        []string{"src"},
			processArgs: realpathAt(1, 5),
			want:        []string{filepath.Join(base, "src")},
		},
		{
			name:        "nil args",
			processArgs: realpathAt(1),
			want:        nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ApplyTransforms(tt.args, tt.processArgs, base)
			if err != nil {
				t.Fatalf("ApplyTransforms() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ApplyTransforms() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyTransforms_DoesNotModifyInput(t *testing.T) {
	t.Parallel()

	base := testutil.MustEvalSymlinks(t, t.TempDir())
	args := []string{"."}
	if _, err := ApplyTransforms(args, realpathAt(1), base); err != nil {
		t.Fatalf("ApplyTransforms() error: %v", err)
	}
	if args[0] != "." {
		t.Errorf("input modified: %q", args[0])
	}
}

func TestApplyTransforms_Errors(t *testing.T) {
	t.Parallel()

	base := t.TempDir()

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()
		_, err := ApplyTransforms([]string{"ok", "missing.txt"}, realpathAt(2), base)
		var terr *TransformError
		if !errors.As(err, &terr) {
			t.Fatalf("error = %v, want *TransformError", err)
		}
		if terr.Position != 2 || terr.Arg != "missing.txt" {
			t.Errorf("TransformError = %+v", terr)
		}
		if !errors.Is(err, ErrTransform) {
			t.Error("errors.Is(err, ErrTransform) = false")
		}
	})

	t.Run("empty argument", func(t *testing.T) {
		t.Parallel()
		_, err := ApplyTransforms([]string{""}, realpathAt(1), base)
		if !errors.Is(err, ErrTransform) {
			t.Errorf("error = %v, want ErrTransform", err)
		}
	})

	t.Run("unsupported transform", func(t *testing.T) {
		t.Parallel()
		pa := map[int]rootfile.ProcessArgument{
			1: {Kind: rootfile.ProcessTransform, Transform: "uppercase"},
		}
		_, err := ApplyTransforms([]string{"a"}, pa, base)
		var unsupported *rootfile.UnsupportedTransformError
		if !errors.As(err, &unsupported) {
			t.Fatalf("error = %v, want *rootfile.UnsupportedTransformError", err)
		}
		if unsupported.Value != "uppercase" {
			t.Errorf("Value = %q, want uppercase", unsupported.Value)
		}
		if errors.Is(err, ErrTransform) {
			t.Error("unsupported transform should not wrap ErrTransform")
		}
	})

	t.Run("unsupported transform past the end is ignored", func(t *testing.T) {
		t.Parallel()
		pa := map[int]rootfile.ProcessArgument{
			3: {Kind: rootfile.ProcessTransform, Transform: "uppercase"},
		}
		got, err := ApplyTransforms([]string{"a"}, pa, base)
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		if diff := cmp.Diff([]string{"a"}, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})
}
