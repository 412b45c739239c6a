// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"sciforge-cli/internal/bootstrap"
	"sciforge-cli/internal/config"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [playbook]",
	Short: "Preview a playbook without running it",
	Long: `Parse and validate a playbook, render its description, and list the
steps it would run in order. Nothing is executed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pb, err := loadPlaybook(cfg, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, TitleStyle.Render(pb.Name))

	if pb.Description != "" {
		fmt.Fprint(out, renderMarkdown(pb.Description))
	}

	steps := bootstrap.FromPlaybook(pb)
	fmt.Fprintln(out, SubtitleStyle.Render(fmt.Sprintf("%d steps:", len(steps))))
	for _, s := range steps {
		fmt.Fprintf(out, "  %s  %s\n", StepStyle.Render(s.ID), s.Title)
	}
	return nil
}

// renderMarkdown renders the playbook description for the terminal, falling
// back to the raw text when glamour cannot.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md + "\n"
	}
	rendered, err := r.Render(md)
	if err != nil {
		return md + "\n"
	}
	return strings.TrimLeft(rendered, "\n")
}
