// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// LogLevelDebug logs discovery, hoist scans and every launched step.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs informational messages.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs warnings only. It is the default.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs errors only.
	LogLevelError LogLevel = "error"

	// StepFailureAbort stops a script at the first failing step.
	// Defined locally to avoid coupling config to internal/runtime.
	StepFailureAbort StepFailure = "abort"
	// StepFailureContinue runs the remaining steps after a failure.
	StepFailureContinue StepFailure = "continue"
)

var (
	// ErrInvalidSettings is the sentinel wrapped by every settings error.
	ErrInvalidSettings = errors.New("invalid settings")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidStepFailure is returned when a StepFailure value is not recognized.
	ErrInvalidStepFailure = errors.New("invalid step failure policy")
)

type (
	// LogLevel is the minimum level of log lines written to stderr.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// StepFailure selects what happens after a script step exits non-zero.
	StepFailure string

	// InvalidStepFailureError is returned when a StepFailure value is not recognized.
	// It wraps ErrInvalidStepFailure for errors.Is() compatibility.
	InvalidStepFailureError struct {
		Value StepFailure
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidSettings and collects field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// LoadError is returned when the settings file cannot be read or does not
	// match the schema.
	LoadError struct {
		Path  string
		Cause error
	}

	// Config holds the runner settings.
	Config struct {
		// Shell overrides the shell used for script steps. Empty means detect.
		Shell string `json:"shell" mapstructure:"shell"`
		// LogLevel sets the minimum log level.
		LogLevel LogLevel `json:"log_level" mapstructure:"log_level"`
		// OnStepFailure decides whether a failing step aborts its script.
		OnStepFailure StepFailure `json:"on_step_failure" mapstructure:"on_step_failure"`
		// Verbose forces debug logging and detailed error output.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:      LogLevelWarn,
		OnStepFailure: StepFailureAbort,
	}
}

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// Validate returns nil if the LogLevel is one of the defined levels.
func (l LogLevel) Validate() error {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return &InvalidLogLevelError{Value: l}
	}
}

// Error implements the error interface for InvalidStepFailureError.
func (e *InvalidStepFailureError) Error() string {
	return fmt.Sprintf("invalid on_step_failure %q (valid: abort, continue)", e.Value)
}

// Unwrap returns ErrInvalidStepFailure for errors.Is() compatibility.
func (e *InvalidStepFailureError) Unwrap() error { return ErrInvalidStepFailure }

// String returns the string representation of the StepFailure.
func (s StepFailure) String() string { return string(s) }

// Validate returns nil if the StepFailure is one of the defined policies.
func (s StepFailure) Validate() error {
	switch s {
	case StepFailureAbort, StepFailureContinue:
		return nil
	default:
		return &InvalidStepFailureError{Value: s}
	}
}

// Validate checks every field of the Config. Values coming from environment
// variables never went through the CUE schema, so this is the only check
// they get.
func (c *Config) Validate() error {
	var errs []error
	if err := c.LogLevel.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.OnStepFailure.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Shell != "" && strings.TrimSpace(c.Shell) == "" {
		errs = append(errs, errors.New("shell must not be whitespace-only"))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid settings: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidSettings for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidSettings }

// Error implements the error interface for LoadError.
func (e *LoadError) Error() string {
	return fmt.Sprintf("settings file %s: %v", e.Path, e.Cause)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *LoadError) Unwrap() []error { return []error{ErrInvalidSettings, e.Cause} }
