// SPDX-License-Identifier: MPL-2.0

package execute

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/xroot/x/internal/config"
	"github.com/xroot/x/internal/discovery"
	"github.com/xroot/x/internal/issue"
	"github.com/xroot/x/internal/runtime"
	"github.com/xroot/x/pkg/rootfile"
	"github.com/xroot/x/pkg/types"
)

// StandaloneUsage is printed when standalone mode gets no script name.
const StandaloneUsage = "Usage: x <script> [arguments...]"

type (
	// Options configures Open. Only Settings-derived behavior has defaults;
	// zero values elsewhere mean "use the process's own".
	Options struct {
		// WorkDir is the invocation directory. Empty means os.Getwd.
		WorkDir string
		// Settings are the runner settings. Nil means config.DefaultConfig.
		Settings *config.Config
		// Argv0 is handed to POSIX shells as $0.
		Argv0 string
		// IO overrides the streams given to children.
		IO runtime.IO
		// Launcher overrides the launcher chosen from Settings.Shell.
		Launcher runtime.Launcher
	}

	// Session is one invocation bound to a project root.
	Session struct {
		Root   *discovery.Root
		Config *rootfile.RootConfiguration
		Engine *runtime.Engine
	}
)

// Open locates the project root above opts.WorkDir, loads its configuration
// and prepares the engine. Discovery diagnostics are logged as warnings.
func Open(opts Options) (*Session, error) {
	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		workDir = wd
	}
	settings := opts.Settings
	if settings == nil {
		settings = config.DefaultConfig()
	}

	root, err := discovery.FindRoot(types.FilesystemPath(workDir))
	if err != nil {
		return nil, issue.RootNotFound(err)
	}
	for _, d := range root.Diagnostics {
		slog.Warn(d.Message, "code", d.Code, "path", d.Path)
	}

	cfg, err := root.Load()
	if err != nil {
		return nil, issue.LoadFailed(err)
	}

	launcher := opts.Launcher
	if launcher == nil {
		launcher = runtime.NewLauncher(settings.Shell)
	}

	return &Session{
		Root:   root,
		Config: cfg,
		Engine: &runtime.Engine{
			Launcher:      launcher,
			RootDir:       string(root.Dir),
			InvocationDir: workDir,
			Argv0:         opts.Argv0,
			Policy:        runtime.FailurePolicy(settings.OnStepFailure),
			Stdio:         opts.IO,
		},
	}, nil
}

// Dispatch runs args in the configured mode. In passthrough mode every
// argument goes to the wrapped command; in standalone mode the first
// argument names a script or hoisted binary.
func (s *Session) Dispatch(ctx context.Context, args []string) error {
	if s.Config.Mode.IsPassthrough() {
		slog.Debug("passthrough", "cmd", s.Config.Mode.Passthrough.Cmd, "args", len(args))
		return s.Engine.RunPassthrough(ctx, s.Config.Mode.Passthrough, args)
	}

	if len(args) == 0 {
		return &issue.UsageError{Message: StandaloneUsage}
	}
	return s.Engine.Run(ctx, s.Config, args[0], args[1:])
}
