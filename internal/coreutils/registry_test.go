// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

func TestDefault_Names(t *testing.T) {
	t.Parallel()

	want := []string{"basename", "cat", "dirname", "head", "realpath"}
	if diff := cmp.Diff(want, Default().Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(commandFunc{name: "true", run: func(context.Context, *HandlerContext, []string) error { return nil }})
	if _, ok := r.Lookup("true"); !ok {
		t.Fatal("Lookup() did not find a registered command")
	}
	if _, ok := r.Lookup("false"); ok {
		t.Error("Lookup() found an unregistered command")
	}

	for name, cmd := range map[string]Command{
		"duplicate":  commandFunc{name: "true"},
		"empty name": commandFunc{},
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Register() did not panic")
				}
			}()
			r.Register(cmd)
		})
	}
}

func runScript(t *testing.T, r *Registry, src string) (stdout, stderr string, err error) {
	t.Helper()

	prog, perr := syntax.NewParser().Parse(strings.NewReader(src), "test")
	if perr != nil {
		t.Fatalf("Parse() error: %v", perr)
	}
	var out, errOut bytes.Buffer
	runner, nerr := interp.New(
		interp.StdIO(nil, &out, &errOut),
		interp.ExecHandlers(r.ExecHandler()),
	)
	if nerr != nil {
		t.Fatalf("interp.New() error: %v", nerr)
	}
	err = runner.Run(context.Background(), prog)
	return out.String(), errOut.String(), err
}

func TestRegistry_ExecHandler(t *testing.T) {
	t.Parallel()

	t.Run("registered command runs in-process", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		r.Register(commandFunc{name: "greet", run: func(_ context.Context, hc *HandlerContext, args []string) error {
			writeLine(hc.Stdout, "hello "+strings.Join(args[1:], " "))
			return nil
		}})

		stdout, _, err := runScript(t, r, "greet big world")
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
		if stdout != "hello big world\n" {
			t.Errorf("stdout = %q", stdout)
		}
	})

	t.Run("failure becomes exit status 1", func(t *testing.T) {
		t.Parallel()
		stdout, stderr, err := runScript(t, Default(), `dirname; echo "status $?"`)
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
		if stdout != "status 1\n" {
			t.Errorf("stdout = %q", stdout)
		}
		if stderr != "dirname: missing operand\n" {
			t.Errorf("stderr = %q", stderr)
		}
	})

	t.Run("unregistered command falls through", func(t *testing.T) {
		t.Parallel()
		_, stderr, err := runScript(t, NewRegistry(), "PATH=/nonexistent; no-such-utility-anywhere")
		if err == nil {
			t.Error("Run() succeeded, want a command-not-found status")
		}
		if !strings.Contains(stderr, "no-such-utility-anywhere") {
			t.Errorf("stderr = %q, want the host's not-found diagnostic", stderr)
		}
	})
}
