// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/xroot/x/pkg/platform"
)

const (
	// AppName is the application name.
	AppName = "x"
	// ConfigFileName is the name of the settings file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the settings file extension.
	ConfigFileExt = "cue"

	// EnvPrefix prefixes every environment variable read by the runner.
	EnvPrefix = "X"
	// EnvConfigFile names an explicit settings file.
	EnvConfigFile = "X_CONFIG"
)

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns the x configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// loadWithOptions performs option-driven settings loading. It returns the
// settings and the path of the file they came from, empty when no file was
// used.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load settings canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("shell", defaults.Shell)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("on_step_failure", defaults.OnStepFailure)
	v.SetDefault("verbose", defaults.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// The shell follows the login shell unless X_SHELL says otherwise.
	if err := v.BindEnv("shell", EnvPrefix+"_SHELL", "SHELL"); err != nil {
		return nil, "", fmt.Errorf("failed to bind shell env: %w", err)
	}

	path := opts.ConfigFilePath
	explicit := path != ""
	if !explicit {
		if env := os.Getenv(EnvConfigFile); env != "" {
			path, explicit = env, true
		}
	}
	if !explicit {
		cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
		if err != nil {
			return nil, "", err
		}
		path = filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	}

	resolvedPath := ""
	switch {
	case fileExists(path):
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", &LoadError{Path: path, Cause: err}
		}
		resolvedPath = path
	case explicit:
		// A named file that is missing is an error; a missing default file is not.
		return nil, "", &LoadError{Path: path, Cause: os.ErrNotExist}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", &LoadError{Path: resolvedPath, Cause: err}
	}
	cfg.LogLevel = LogLevel(strings.ToLower(string(cfg.LogLevel)))

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return &cfg, resolvedPath, nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper validates a CUE settings file against #Config and merges
// its contents into Viper. The file decodes to a map so unset fields keep
// their defaults and stay overridable from the environment.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	settings, err := decodeSettingsCUE(path, data)
	if err != nil {
		return err
	}

	// Merge into Viper (preserves defaults, allows env overrides)
	if err := v.MergeConfigMap(settings); err != nil {
		return fmt.Errorf("failed to merge settings: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// GenerateCUE generates a CUE representation of the settings.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// x settings\n\n")
	fmt.Fprintf(&sb, "shell:           %q\n", cfg.Shell)
	fmt.Fprintf(&sb, "log_level:       %q\n", cfg.LogLevel)
	fmt.Fprintf(&sb, "on_step_failure: %q\n", cfg.OnStepFailure)
	fmt.Fprintf(&sb, "verbose:         %v\n", cfg.Verbose)

	return sb.String()
}
