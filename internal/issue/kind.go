// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/xroot/x/internal/config"
	"github.com/xroot/x/internal/discovery"
	"github.com/xroot/x/internal/hoist"
	"github.com/xroot/x/internal/runtime"
	"github.com/xroot/x/pkg/rootfile"
	"github.com/xroot/x/pkg/types"
)

const (
	// KindRootNotFound means no root configuration file exists above the
	// working directory.
	KindRootNotFound Kind = "root_not_found"
	// KindParse means the root configuration could not be read or is invalid.
	KindParse Kind = "parse"
	// KindUnknownScriptOrBinary means a name matched no script and no hoisted binary.
	KindUnknownScriptOrBinary Kind = "unknown_script_or_binary"
	// KindUnsupportedTransform means a step registered a transform the runner
	// does not implement.
	KindUnsupportedTransform Kind = "unsupported_transform"
	// KindFilesystem covers hoist scans, transforms and working directories.
	KindFilesystem Kind = "filesystem"
	// KindSubprocessFailure means a child could not be started or exited non-zero.
	KindSubprocessFailure Kind = "subprocess_failure"
	// KindSettings means the runner settings file or environment is invalid.
	KindSettings Kind = "settings"
	// KindUsage means the command line itself was wrong.
	KindUsage Kind = "usage"
	// KindInterrupted means the run was cancelled, usually by SIGINT.
	KindInterrupted Kind = "interrupted"
	// KindInternal is everything else.
	KindInternal Kind = "internal"
)

var (
	// ErrInvalidKind is returned when a Kind value is not recognized.
	ErrInvalidKind = errors.New("invalid issue kind")
	// ErrUsage marks command-line usage errors.
	ErrUsage = errors.New("usage error")
)

type (
	// Kind classifies a fatal error.
	Kind string

	// InvalidKindError is returned when a Kind value is not recognized.
	InvalidKindError struct {
		Value Kind
	}

	// UsageError reports a malformed command line. Message is printed as is.
	UsageError struct {
		Message string
	}

	// exitStatuser is implemented by errors that carry a child's exit code.
	exitStatuser interface {
		ExitStatus() types.ExitCode
	}
)

// Error implements the error interface for InvalidKindError.
func (e *InvalidKindError) Error() string {
	return fmt.Sprintf("invalid issue kind %q", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidKindError) Unwrap() error { return ErrInvalidKind }

// Error implements the error interface for UsageError.
func (e *UsageError) Error() string { return e.Message }

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *UsageError) Unwrap() error { return ErrUsage }

// Kinds returns every Kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindRootNotFound,
		KindParse,
		KindUnknownScriptOrBinary,
		KindUnsupportedTransform,
		KindFilesystem,
		KindSubprocessFailure,
		KindSettings,
		KindUsage,
		KindInterrupted,
		KindInternal,
	}
}

// String returns the string representation of the Kind.
func (k Kind) String() string { return string(k) }

// Validate returns nil if the Kind is one of the defined kinds.
func (k Kind) Validate() error {
	for _, known := range Kinds() {
		if k == known {
			return nil
		}
	}
	return &InvalidKindError{Value: k}
}

// Classify returns the Kind of err. A nil error has no kind.
//
// The checks are ordered: a cancelled context wins over the failure it
// caused, and a transform that cannot be applied because it is unsupported
// is not reported as a filesystem problem.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return KindInterrupted
	case errors.Is(err, ErrUsage):
		return KindUsage
	case errors.Is(err, discovery.ErrRootNotFound):
		return KindRootNotFound
	case errors.Is(err, rootfile.ErrParse), errors.Is(err, rootfile.ErrInvalidConfiguration):
		return KindParse
	case errors.Is(err, config.ErrInvalidSettings):
		return KindSettings
	case errors.Is(err, runtime.ErrUnknownScriptOrBinary):
		return KindUnknownScriptOrBinary
	case errors.Is(err, rootfile.ErrUnsupportedTransform):
		return KindUnsupportedTransform
	case errors.Is(err, runtime.ErrProcessFailed), errors.Is(err, runtime.ErrLaunch):
		return KindSubprocessFailure
	case errors.Is(err, hoist.ErrScan),
		errors.Is(err, runtime.ErrTransform),
		errors.Is(err, runtime.ErrWorkDir),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission):
		return KindFilesystem
	default:
		return KindInternal
	}
}

// ExitCodeOf returns the process exit status for err. A child's own exit
// status is propagated; otherwise the status depends on the error's Kind.
func ExitCodeOf(err error) types.ExitCode {
	if err == nil {
		return types.ExitSuccess
	}
	var status exitStatuser
	if errors.As(err, &status) {
		return status.ExitStatus()
	}
	switch Classify(err) {
	case KindUsage:
		return types.ExitUsage
	case KindInterrupted:
		return types.ExitInterrupted
	default:
		return types.ExitFailure
	}
}

// IsSilent reports whether err needs no diagnostic line. A child that exited
// non-zero has already said what went wrong.
func IsSilent(err error) bool {
	return errors.Is(err, runtime.ErrProcessFailed)
}
