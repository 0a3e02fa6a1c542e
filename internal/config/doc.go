// SPDX-License-Identifier: MPL-2.0

// Package config loads the runner's own settings using Viper with CUE as the
// file format.
//
// Settings come from, lowest precedence first: built-in defaults, the user
// settings file, and X_* environment variables. The settings file lives at
// config.cue in the platform config directory ($XDG_CONFIG_HOME/x on Linux,
// ~/Library/Application Support/x on macOS, %APPDATA%\x on Windows) unless
// X_CONFIG names another file. It is validated against an embedded CUE
// schema (config_schema.cue) before it is merged.
//
// These settings are per user. The project-scoped root configuration is
// handled by pkg/rootfile.
package config
