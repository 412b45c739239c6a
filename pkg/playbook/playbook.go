// SPDX-License-Identifier: MPL-2.0

// Package playbook defines the CUE-based file format describing a machine
// bootstrap: packages to install, desktop settings, git identity, and
// source builds of tagged GitHub projects.
package playbook

import (
	"fmt"

	"sciforge-cli/internal/execx"
)

type (
	// Playbook is a fully decoded, schema-validated bootstrap plan.
	Playbook struct {
		// Name identifies the playbook in logs and prompts.
		Name string `json:"name"`
		// Description is Markdown shown by `sciforge show`.
		Description string `json:"description,omitempty"`

		// Apt lists apt package names installed in a single transaction.
		Apt []string `json:"apt,omitempty"`
		// Snaps lists snap packages, each installed individually.
		Snaps []Snap `json:"snaps,omitempty"`
		// ProfileLines are appended once to the user's shell profile.
		ProfileLines []string `json:"profileLines,omitempty"`
		// GSettings are GNOME desktop settings applied via gsettings.
		GSettings []GSetting `json:"gsettings,omitempty"`
		// Git, when present, enables git identity setup plus GPG and SSH
		// key generation.
		Git *GitIdentity `json:"git,omitempty"`
		// Scripts are inline shell steps run in declaration order.
		Scripts []Script `json:"scripts,omitempty"`
		// Builds are projects compiled from their latest GitHub tag.
		Builds []SourceBuild `json:"builds,omitempty"`

		// FilePath is where the playbook was loaded from.
		FilePath string `json:"-"`
	}

	// Snap is one snap package.
	Snap struct {
		Name    string `json:"name"`
		Classic bool   `json:"classic"`
	}

	// GSetting is one GNOME setting triple.
	GSetting struct {
		Schema string `json:"schema"`
		Key    string `json:"key"`
		Value  string `json:"value"`
	}

	// GitIdentity carries the defaults offered by the interactive git
	// configuration prompts.
	GitIdentity struct {
		UserName  string `json:"userName"`
		Email     string `json:"email"`
		KeyLength int    `json:"keyLength"`
	}

	// Script is an inline shell step.
	Script struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Script string `json:"script"`
	}

	// SourceBuild describes a cmake project built from the source archive
	// of its most recent tag.
	SourceBuild struct {
		Owner        string   `json:"owner"`
		Repo         string   `json:"repo"`
		CMakeFlags   []string `json:"cmakeFlags,omitempty"`
		Checkinstall bool     `json:"checkinstall"`
	}
)

// validate applies the Go-level checks the CUE schema cannot express.
func (p *Playbook) validate() error {
	seen := make(map[string]struct{}, len(p.Scripts))
	for _, s := range p.Scripts {
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("duplicate script id %q", s.ID)
		}
		seen[s.ID] = struct{}{}

		if err := execx.CheckScript(s.Script); err != nil {
			return fmt.Errorf("script %q: %w", s.ID, err)
		}
	}
	return nil
}

// DisplayTitle returns the script's display title, falling back to its id.
func (s Script) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return s.ID
}
