// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"sciforge-cli/internal/config"
	"sciforge-cli/internal/ghrelease"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "GitHub token utilities",
}

var tokenValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a GitHub token against the GraphQL API",
	Long: `Validate the configured GitHub token by running a minimal GraphQL
query. When no token is configured (SCIFORGE_GITHUB_TOKEN, GITHUB_TOKEN,
or the config file), the token is asked for interactively.`,
	Args: cobra.NoArgs,
	RunE: runTokenValidate,
}

func init() {
	tokenCmd.AddCommand(tokenValidateCmd)
}

func runTokenValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	token := cfg.GitHubToken
	if token == "" {
		input := huh.NewInput().
			Title("GitHub personal access token").
			EchoMode(huh.EchoModePassword).
			Value(&token)
		if err := input.Run(); err != nil {
			return fmt.Errorf("token prompt failed: %w", err)
		}
	}

	releases := ghrelease.NewClient(ghrelease.WithUserAgent("sciforge/" + Version))
	if _, err := releases.ValidateToken(cmd.Context(), token); err != nil {
		var authErr *ghrelease.AuthError
		if errors.As(err, &authErr) {
			fmt.Fprintln(cmd.OutOrStdout(), ErrorStyle.Render("Token rejected by GitHub."))
			return &ExitError{Code: 1, Err: err}
		}
		return fmt.Errorf("validating token: %s", formatErrorForDisplay(err))
	}

	fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Token accepted."))
	return nil
}
