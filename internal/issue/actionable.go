// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xroot/x/internal/discovery"
	"github.com/xroot/x/pkg/rootfile"
)

// ActionableError is a fatal error that occurred before any script ran,
// annotated with what the runner was doing and what the user can change.
//
// Error gives the one-line diagnostic; Details gives the hints and the
// error chain shown in verbose mode.
type ActionableError struct {
	// Operation is a verb phrase such as "find project root".
	Operation string
	// Resource is the file involved, if the cause does not already name it.
	Resource string
	// Hints are remediation steps, most specific first.
	Hints []string
	Cause error
}

// RootNotFound wraps a failed search for x-root.kdl or x-root.yml.
func RootNotFound(err error) *ActionableError {
	ae := &ActionableError{
		Operation: "find project root",
		Cause:     err,
	}
	names := discovery.ConfigFilenames()
	ae.Hints = append(ae.Hints, fmt.Sprintf("Create %s or %s at the top of your project", names[0], names[1]))
	var nf *discovery.RootNotFoundError
	if errors.As(err, &nf) {
		ae.Hints = append(ae.Hints, fmt.Sprintf("Or run x from inside a project; the search started at %s", nf.Start))
	}
	return ae
}

// LoadFailed wraps an error from reading or validating the root configuration.
func LoadFailed(err error) *ActionableError {
	ae := &ActionableError{
		Operation: "load root configuration",
		Cause:     err,
	}
	var pe *rootfile.ParseError
	switch {
	case errors.Is(err, rootfile.ErrInvalidConfiguration):
		ae.Hints = append(ae.Hints, "Every script needs at least one step and every position starts at 1")
	case errors.As(err, &pe):
		ae.Hints = append(ae.Hints, fmt.Sprintf("Keys and node names in %s files are strict; check for typos", pe.Format))
	}
	ae.Hints = append(ae.Hints, "Run 'x - print-config' to see how a valid file is read")
	return ae
}

// SettingsFailed wraps an error from loading the runner's own settings.
func SettingsFailed(err error) *ActionableError {
	return &ActionableError{
		Operation: "load settings",
		Hints: []string{
			"Check the X_* environment variables",
			"Run 'x - settings' with a valid environment to see the expected format",
		},
		Cause: err,
	}
}

// Error implements the error interface.
func (e *ActionableError) Error() string {
	var msg strings.Builder
	msg.WriteString("failed to ")
	msg.WriteString(e.Operation)
	if e.Resource != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Resource)
	}
	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}
	return msg.String()
}

// Unwrap returns the cause for errors.Is and errors.As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Details lists the hints followed by the numbered error chain. It is empty
// when there is neither.
func (e *ActionableError) Details() string {
	var msg strings.Builder
	for _, hint := range e.Hints {
		msg.WriteString("  • ")
		msg.WriteString(hint)
		msg.WriteString("\n")
	}
	if e.Cause != nil {
		if msg.Len() > 0 {
			msg.WriteString("\n")
		}
		msg.WriteString("Error chain:")
		depth := 1
		for err := e.Cause; err != nil; err = errors.Unwrap(err) {
			fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
			depth++
		}
	}
	return strings.TrimRight(msg.String(), "\n")
}

// Kind classifies the underlying cause.
func (e *ActionableError) Kind() Kind {
	return Classify(e.Cause)
}
