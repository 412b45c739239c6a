// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for sciforge.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"sciforge-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug-level step logging
	verbose bool

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "sciforge",
		Short: "Bootstrap a scientific Linux workstation",
		Long: TitleStyle.Render("sciforge") + SubtitleStyle.Render(" - Bootstrap a scientific Linux workstation") + `

sciforge turns a fresh Linux install into a configured research
machine: apt and snap packages, git identity with GPG and SSH keys,
shell profile and desktop settings, and scientific toolkits compiled
from their latest GitHub release tag.

The whole plan lives in a single CUE playbook. Values the playbook
leaves open (git identity, build parallelism, GitHub token) are asked
for interactively, and only when a step actually needs them.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Write a playbook.cue describing your machine
  2. Preview it with: sciforge show playbook.cue
  3. Apply it with:   sciforge run playbook.cue`,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(tokenCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// formatErrorForDisplay renders an error for user display, preferring the
// suggestion-carrying form when available.
func formatErrorForDisplay(err error) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Error()
	}
	return err.Error()
}
