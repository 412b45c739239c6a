// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"sciforge-cli/internal/bootstrap"
	"sciforge-cli/internal/config"
	"sciforge-cli/internal/execx"
	"sciforge-cli/internal/ghrelease"
	"sciforge-cli/internal/issue"
	"sciforge-cli/internal/lazyconf"
	"sciforge-cli/internal/prompt"
	"sciforge-cli/internal/steplog"
	"sciforge-cli/pkg/playbook"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// runDryRun prints commands instead of executing them.
	runDryRun bool
	// runYes skips the confirmation prompt.
	runYes bool
	// runOnly restricts the run to the listed step IDs.
	runOnly []string
)

var runCmd = &cobra.Command{
	Use:   "run [playbook]",
	Short: "Execute a playbook's bootstrap steps",
	Long: `Execute every step of a playbook in order: package installs, git
identity and key setup, shell profile, desktop settings, inline scripts,
and source builds. The run halts at the first failing step.

When no playbook argument is given the path from the sciforge config
file is used (default: playbook.cue in the current directory).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "print commands without executing them")
	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "skip the confirmation prompt")
	runCmd.Flags().StringSliceVar(&runOnly, "only", nil, "run only the listed step IDs (comma-separated)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pb, err := loadPlaybook(cfg, args)
	if err != nil {
		return err
	}

	steps := bootstrap.Filter(bootstrap.FromPlaybook(pb), runOnly)
	if len(steps) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), WarningStyle.Render("Nothing to do."))
		return nil
	}

	if !runYes && !runDryRun {
		proceed, err := confirmRun(pb.Name, len(steps))
		if err != nil {
			return err
		}
		if !proceed {
			fmt.Fprintln(cmd.OutOrStdout(), WarningStyle.Render("Aborted."))
			return nil
		}
	}

	logger := steplog.New(cmd.ErrOrStderr())
	if verbose || cfg.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	var runner execx.Runner = execx.NativeRunner{}
	if runDryRun {
		runner = execx.DryRunner{Out: cmd.OutOrStdout()}
	}

	releases := ghrelease.NewClient(ghrelease.WithUserAgent("sciforge/" + Version))
	store := lazyconf.New()
	asker := prompt.New()
	bootstrap.DeclareFields(cmd.Context(), store, asker, releases, pb, cfg.GitHubToken)

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolving home directory: %w", err)
	}
	workDir, err := os.MkdirTemp("", "sciforge-*")
	if err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	runCtx := bootstrap.NewContext(cmd.Context(), store, runner, releases, logger)
	runCtx.HomeDir = home
	runCtx.WorkDir = workDir
	runCtx.DryRun = runDryRun
	runCtx.Stdout = cmd.OutOrStdout()
	runCtx.Stderr = cmd.ErrOrStderr()

	if err := bootstrap.RunAll(runCtx, steps); err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render(fmt.Sprintf("Playbook %q applied.", pb.Name)))
	return nil
}

// loadPlaybook resolves the playbook path (argument beats config default)
// and parses it.
func loadPlaybook(cfg *config.Config, args []string) (*playbook.Playbook, error) {
	path := cfg.Playbook
	if len(args) == 1 {
		path = args[0]
	}

	pb, err := playbook.Parse(path)
	if err != nil {
		return nil, issue.New("load playbook").
			WithResource(path).
			WithSuggestion("pass a playbook path: sciforge run <playbook.cue>").
			WithSuggestion("or set 'playbook:' in the sciforge config file").
			Wrap(err)
	}
	return pb, nil
}

// confirmRun asks for an interactive go-ahead before mutating the system.
func confirmRun(name string, count int) (bool, error) {
	var proceed bool
	confirm := huh.NewConfirm().
		Title(fmt.Sprintf("Apply %d steps from %q?", count, name)).
		Description("Package installs and key generation modify this machine.").
		Affirmative("Run").
		Negative("Abort").
		Value(&proceed)
	if err := confirm.Run(); err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return proceed, nil
}
