// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"

	"github.com/xroot/x/internal/config"
)

// newLogger returns the slog logger the CLI installs as default. Verbose
// settings force debug output regardless of the configured level.
func newLogger(w io.Writer, settings *config.Config) *slog.Logger {
	level := log.WarnLevel
	if parsed, err := log.ParseLevel(settings.LogLevel.String()); err == nil {
		level = parsed
	}
	if settings.Verbose {
		level = log.DebugLevel
	}

	handler := log.NewWithOptions(w, log.Options{
		Prefix: "x",
		Level:  level,
	})
	return slog.New(handler)
}
