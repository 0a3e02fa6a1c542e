// SPDX-License-Identifier: MPL-2.0

package execute

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/xroot/x/internal/config"
	"github.com/xroot/x/internal/discovery"
	"github.com/xroot/x/internal/issue"
	"github.com/xroot/x/internal/runtime"
	"github.com/xroot/x/internal/testutil"
	"github.com/xroot/x/pkg/rootfile"
	"github.com/xroot/x/pkg/types"
)

type recordingLauncher struct {
	shells  []runtime.ShellInvocation
	directs []runtime.DirectInvocation
}

func (r *recordingLauncher) Shell(_ context.Context, inv runtime.ShellInvocation) (types.ExitCode, error) {
	r.shells = append(r.shells, inv)
	return types.ExitSuccess, nil
}

func (r *recordingLauncher) Direct(_ context.Context, inv runtime.DirectInvocation) (types.ExitCode, error) {
	r.directs = append(r.directs, inv)
	return types.ExitSuccess, nil
}

const standaloneYAML = `
hoist:
  - directory: ./bin
scripts:
  build:
    - cmd: make "$@"
`

// newProject writes a root file into a fresh directory and returns the
// canonical root and a subdirectory to invoke from.
func newProject(t *testing.T, filename, content string) (root, sub string) {
	t.Helper()
	root = testutil.MustEvalSymlinks(t, t.TempDir())
	testutil.MustWriteFile(t, filepath.Join(root, filename), content)
	sub = filepath.Join(root, "pkg", "deep")
	testutil.MustMkdirAll(t, sub, 0o755)
	return root, sub
}

func exeName(name string) string {
	if goruntime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

func TestOpen(t *testing.T) {
	t.Parallel()

	root, sub := newProject(t, "x-root.yml", standaloneYAML)
	rec := &recordingLauncher{}
	sess, err := Open(Options{
		WorkDir:  sub,
		Settings: &config.Config{LogLevel: config.LogLevelWarn, OnStepFailure: config.StepFailureContinue},
		Argv0:    "x",
		Launcher: rec,
	})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	if string(sess.Root.Dir) != root {
		t.Errorf("Root.Dir = %q, want %q", sess.Root.Dir, root)
	}
	if sess.Engine.RootDir != root || sess.Engine.InvocationDir != sub {
		t.Errorf("Engine dirs = %q, %q", sess.Engine.RootDir, sess.Engine.InvocationDir)
	}
	if sess.Engine.Policy != runtime.PolicyContinue {
		t.Errorf("Engine.Policy = %q, want continue", sess.Engine.Policy)
	}
	if diff := cmp.Diff([]string{"build"}, sess.Config.ScriptNames()); diff != "" {
		t.Errorf("ScriptNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestOpen_DefaultLauncherFollowsShellSetting(t *testing.T) {
	t.Parallel()

	_, sub := newProject(t, "x-root.yml", standaloneYAML)
	sess, err := Open(Options{WorkDir: sub, Settings: &config.Config{Shell: runtime.VirtualShell}})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if _, ok := sess.Engine.Launcher.(*runtime.VirtualLauncher); !ok {
		t.Errorf("Launcher = %T, want *runtime.VirtualLauncher", sess.Engine.Launcher)
	}
}

func TestOpen_Errors(t *testing.T) {
	t.Parallel()

	t.Run("no root", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		if _, err := discovery.FindRoot(types.FilesystemPath(dir)); err == nil {
			t.Skip("a root configuration exists above the temp directory")
		}

		_, err := Open(Options{WorkDir: dir})
		if !errors.Is(err, discovery.ErrRootNotFound) {
			t.Fatalf("Open() error = %v, want ErrRootNotFound", err)
		}
		var ae *issue.ActionableError
		if !errors.As(err, &ae) || len(ae.Hints) == 0 {
			t.Errorf("Open() error = %v, want an ActionableError with hints", err)
		}
	})

	t.Run("invalid configuration", func(t *testing.T) {
		t.Parallel()
		_, sub := newProject(t, "x-root.yml", "mode: daemon\n")

		_, err := Open(Options{WorkDir: sub})
		if issue.Classify(err) != issue.KindParse {
			t.Fatalf("Open() error = %v, want a parse error", err)
		}
	})
}

func TestSession_Dispatch(t *testing.T) {
	t.Parallel()

	t.Run("standalone script", func(t *testing.T) {
		t.Parallel()
		_, sub := newProject(t, "x-root.yml", standaloneYAML)
		rec := &recordingLauncher{}
		sess, err := Open(Options{WorkDir: sub, Argv0: "x", Launcher: rec})
		if err != nil {
			t.Fatalf("Open() error: %v", err)
		}

		if err := sess.Dispatch(context.Background(), []string{"Build", "-j4"}); err != nil {
			t.Fatalf("Dispatch() error: %v", err)
		}
		if len(rec.shells) != 1 {
			t.Fatalf("shell invocations = %d, want 1", len(rec.shells))
		}
		got := rec.shells[0]
		if got.Script != `make "$@"` || got.Dir != sub || got.Argv0 != "x" {
			t.Errorf("invocation = %+v", got)
		}
		if diff := cmp.Diff([]string{"-j4"}, got.Args); diff != "" {
			t.Errorf("Args mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("standalone without script name", func(t *testing.T) {
		t.Parallel()
		_, sub := newProject(t, "x-root.yml", standaloneYAML)
		sess, err := Open(Options{WorkDir: sub, Launcher: &recordingLauncher{}})
		if err != nil {
			t.Fatalf("Open() error: %v", err)
		}

		err = sess.Dispatch(context.Background(), nil)
		if !errors.Is(err, issue.ErrUsage) || err.Error() != StandaloneUsage {
			t.Errorf("Dispatch() error = %v, want usage", err)
		}
	})

	t.Run("passthrough forwards everything", func(t *testing.T) {
		t.Parallel()
		root, sub := newProject(t, "x-root.kdl", `
mode "passthrough" cmd="cargo" cwd="crates" {
    prepend-args "--color" "always"
}
`)
		testutil.MustMkdirAll(t, filepath.Join(root, "crates"), 0o755)
		rec := &recordingLauncher{}
		sess, err := Open(Options{WorkDir: sub, Launcher: rec})
		if err != nil {
			t.Fatalf("Open() error: %v", err)
		}

		if err := sess.Dispatch(context.Background(), []string{"-", "build"}); err != nil {
			t.Fatalf("Dispatch() error: %v", err)
		}
		want := runtime.DirectInvocation{
			Executable: "cargo",
			Args:       []string{"--color", "always", "-", "build"},
			Dir:        filepath.Join(root, "crates"),
		}
		if len(rec.directs) != 1 {
			t.Fatalf("direct invocations = %d, want 1", len(rec.directs))
		}
		if diff := cmp.Diff(want, rec.directs[0]); diff != "" {
			t.Errorf("invocation mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestSession_Which(t *testing.T) {
	t.Parallel()

	root, sub := newProject(t, "x-root.yml", standaloneYAML)
	bin := filepath.Join(root, "bin", exeName("lint"))
	testutil.MustWriteExecutable(t, bin, "#!/bin/sh\n")
	sess, err := Open(Options{WorkDir: sub, Launcher: &recordingLauncher{}})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	res, err := sess.Which("build")
	if err != nil || res.String() != "build: project scoped script" {
		t.Errorf("Which(build) = %v, %v", res, err)
	}

	res, err = sess.Which("lint")
	if err != nil {
		t.Fatalf("Which(lint) error: %v", err)
	}
	if res.Source != SourceHoisted || res.Path != bin {
		t.Errorf("Which(lint) = %+v", res)
	}
	if want := "lint: hoisted from " + bin; res.String() != want {
		t.Errorf("String() = %q, want %q", res.String(), want)
	}

	// which matches exactly, unlike dispatch.
	_, err = sess.Which("BUILD")
	var nf *NameNotFoundError
	if !errors.As(err, &nf) || err.Error() != "BUILD: not found" {
		t.Errorf("Which(BUILD) error = %v", err)
	}
	if issue.Classify(err) != issue.KindUnknownScriptOrBinary {
		t.Errorf("Classify() = %q", issue.Classify(err))
	}
}

func TestSession_ConfigPathAndPrint(t *testing.T) {
	t.Parallel()

	root, sub := newProject(t, "x-root.yml", standaloneYAML)
	sess, err := Open(Options{WorkDir: sub, Launcher: &recordingLauncher{}})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	path, err := sess.ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath() error: %v", err)
	}
	if want := filepath.Join(root, "x-root.yml"); path != want {
		t.Errorf("ConfigPath() = %q, want %q", path, want)
	}

	var buf bytes.Buffer
	if err := sess.PrintConfig(&buf, rootfile.DumpYAML); err != nil {
		t.Fatalf("PrintConfig() error: %v", err)
	}
	if !strings.Contains(buf.String(), "build:") {
		t.Errorf("PrintConfig() output missing script:\n%s", buf.String())
	}
}
