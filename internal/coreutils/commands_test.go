// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xroot/x/internal/testutil"
)

func run(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd, ok := Default().Lookup(args[0])
	if !ok {
		t.Fatalf("command %q not registered", args[0])
	}
	var stdout bytes.Buffer
	hc := &HandlerContext{
		Stdin:  strings.NewReader(stdin),
		Stdout: &stdout,
		Stderr: &bytes.Buffer{},
		Dir:    dir,
	}
	err := cmd.Run(context.Background(), hc, args)
	return stdout.String(), err
}

func TestPathCommands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"basename", "/usr/lib/libc.so"}, "libc.so\n"},
		{[]string{"basename", "/usr/lib/libc.so", ".so"}, "libc\n"},
		{[]string{"basename", "archive.tar", "archive.tar"}, "archive.tar\n"},
		{[]string{"basename", "/"}, "/\n"},
		{[]string{"dirname", "/usr/lib/libc.so", "file", "a/b/"}, "/usr/lib\n.\na\n"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			t.Parallel()
			got, err := run(t, "", "", tt.args...)
			if err != nil {
				t.Fatalf("Run() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Run() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMissingOperand(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"basename", "dirname", "realpath"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := run(t, "", "", name)
			var cmdErr *CommandError
			if !errors.As(err, &cmdErr) || cmdErr.Command != name || !errors.Is(err, ErrMissingOperand) {
				t.Errorf("Run() error = %v, want %s: missing operand", err, name)
			}
		})
	}
}

func TestRealpath(t *testing.T) {
	t.Parallel()

	dir := testutil.MustEvalSymlinks(t, t.TempDir())
	testutil.MustWriteFile(t, filepath.Join(dir, "real", "file.txt"), "x")
	testutil.MustSymlink(t, filepath.Join(dir, "real"), filepath.Join(dir, "link"))

	got, err := run(t, dir, "", "realpath", "link/file.txt", "./real/../real")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	want := filepath.ToSlash(filepath.Join(dir, "real", "file.txt")) + "\n" +
		filepath.ToSlash(filepath.Join(dir, "real")) + "\n"
	if got != want {
		t.Errorf("Run() = %q, want %q", got, want)
	}

	if _, err := run(t, dir, "", "realpath", "missing"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Run(missing) error = %v, want fs.ErrNotExist", err)
	}
}

func TestCat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "a.txt"), "alpha\n")
	testutil.MustWriteFile(t, filepath.Join(dir, "b.txt"), "beta\n")

	got, err := run(t, dir, "", "cat", "a.txt", filepath.Join(dir, "b.txt"))
	if err != nil || got != "alpha\nbeta\n" {
		t.Errorf("cat files = %q, %v", got, err)
	}

	got, err = run(t, dir, "from stdin", "cat")
	if err != nil || got != "from stdin" {
		t.Errorf("cat stdin = %q, %v", got, err)
	}

	if _, err := run(t, dir, "", "cat", "nope.txt"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("cat missing error = %v", err)
	}
}

func TestHead(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var lines strings.Builder
	for i := range 12 {
		lines.WriteString(strings.Repeat("x", i+1) + "\n")
	}
	testutil.MustWriteFile(t, filepath.Join(dir, "long.txt"), lines.String())
	testutil.MustWriteFile(t, filepath.Join(dir, "short.txt"), "only\n")

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"default ten lines", "", []string{"head", "long.txt"}, strings.Join(strings.Split(lines.String(), "\n")[:10], "\n") + "\n"},
		{"explicit count", "", []string{"head", "-n", "2", "long.txt"}, "x\nxx\n"},
		{"stdin", "1\n2\n3\n", []string{"head", "-n", "1"}, "1\n"},
		{"several files", "", []string{"head", "-n", "1", "short.txt", "long.txt"}, "==> short.txt <==\nonly\n\n==> long.txt <==\nx\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := run(t, dir, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("Run() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Run() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := run(t, dir, "", "head", "-n", "-1"); err == nil {
		t.Error("head -n -1 succeeded, want an error")
	}
}
