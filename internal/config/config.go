// SPDX-License-Identifier: MPL-2.0

// Package config loads sciforge's own settings: the default playbook path
// and credentials sourced from the environment or an optional config file.
// Playbooks themselves are a separate format (pkg/playbook).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name, also the config directory name.
	AppName = "sciforge"

	// EnvPrefix namespaces environment overrides (SCIFORGE_*).
	EnvPrefix = "SCIFORGE"
)

// Config holds the tool-level settings.
type Config struct {
	// GitHubToken, when set, suppresses the interactive token prompt.
	// Sourced from SCIFORGE_GITHUB_TOKEN, GITHUB_TOKEN, or the config file.
	GitHubToken string
	// Playbook is the default playbook path used when none is given.
	Playbook string
	// Verbose enables debug-level logging.
	Verbose bool
}

// Dir returns the sciforge configuration directory, following XDG
// conventions: $XDG_CONFIG_HOME/sciforge, defaulting to ~/.config/sciforge.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, AppName), nil
}

// Load reads the config file (if any) and applies environment overrides.
// A missing config file is not an error; a malformed one is.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if dir, err := Dir(); err == nil {
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// GITHUB_TOKEN is honored as a fallback since every CI and developer
	// shell already carries it.
	if err := v.BindEnv("github_token", "SCIFORGE_GITHUB_TOKEN", "GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("binding environment: %w", err)
	}

	v.SetDefault("playbook", "playbook.cue")
	v.SetDefault("verbose", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	return &Config{
		GitHubToken: v.GetString("github_token"),
		Playbook:    v.GetString("playbook"),
		Verbose:     v.GetBool("verbose"),
	}, nil
}
