// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xroot/x/internal/app/execute"
	"github.com/xroot/x/internal/config"
	"github.com/xroot/x/internal/issue"
	"github.com/xroot/x/internal/testutil"
)

func openSession(t *testing.T) (*execute.Session, string) {
	t.Helper()

	root := testutil.MustEvalSymlinks(t, t.TempDir())
	testutil.MustWriteFile(t, filepath.Join(root, "x-root.yml"), `
scripts:
  build:
    - cmd: make
`)
	sess, err := execute.Open(execute.Options{WorkDir: root, Settings: config.DefaultConfig()})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	return sess, root
}

func runBuiltinForTest(t *testing.T, sess *execute.Session, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	err := runBuiltin(context.Background(), sess, config.DefaultConfig(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestRunBuiltin(t *testing.T) {
	t.Parallel()

	sess, root := openSession(t)

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr string
		usage   bool
	}{
		{name: "no command", args: nil, wantErr: builtinUsage, usage: true},
		{name: "unknown command", args: []string{"frobnicate"}, wantErr: "Unknown builtin command frobnicate", usage: true},
		{name: "which script", args: []string{"which", "build"}, want: "build: project scoped script\n"},
		{name: "which without name", args: []string{"which"}, wantErr: whichUsage, usage: true},
		{name: "which unknown", args: []string{"which", "deploy"}, wantErr: "deploy: not found"},
		{name: "root", args: []string{"root"}, want: "Project root found at " + filepath.Join(root, "x-root.yml") + "\n"},
		{name: "bad dump format", args: []string{"print-config", "--format", "xml"}, wantErr: "xml", usage: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := runBuiltinForTest(t, sess, tt.args...)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("runBuiltin(%q) error = %v, want %q", tt.args, err, tt.wantErr)
				}
				if got := errors.Is(err, issue.ErrUsage); got != tt.usage {
					t.Errorf("usage error = %v, want %v", got, tt.usage)
				}
				return
			}
			if err != nil {
				t.Fatalf("runBuiltin(%q) error: %v", tt.args, err)
			}
			if out != tt.want {
				t.Errorf("runBuiltin(%q) = %q, want %q", tt.args, out, tt.want)
			}
		})
	}
}

func TestRunBuiltin_PrintConfigFormats(t *testing.T) {
	t.Parallel()

	sess, _ := openSession(t)
	for format, want := range map[string]string{
		"yaml": "cmd: make",
		"json": `"cmd": "make"`,
		"toml": "cmd = ",
	} {
		t.Run(format, func(t *testing.T) {
			t.Parallel()

			out, err := runBuiltinForTest(t, sess, "print-config", "--format", format)
			if err != nil {
				t.Fatalf("print-config error: %v", err)
			}
			if !strings.Contains(out, want) {
				t.Errorf("print-config --format %s missing %q:\n%s", format, want, out)
			}
		})
	}
}

func TestRunBuiltin_Settings(t *testing.T) {
	t.Parallel()

	sess, _ := openSession(t)
	out, err := runBuiltinForTest(t, sess, "settings")
	if err != nil {
		t.Fatalf("settings error: %v", err)
	}
	if out != config.GenerateCUE(config.DefaultConfig()) {
		t.Errorf("settings output = %q", out)
	}
}
