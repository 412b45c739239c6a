// SPDX-License-Identifier: MPL-2.0

package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"sciforge-cli/internal/execx"
	"sciforge-cli/pkg/playbook"
)

// FromPlaybook realizes a playbook as an ordered step list. Declaration order
// in the playbook is execution order.
func FromPlaybook(pb *playbook.Playbook) []Step {
	var steps []Step

	if len(pb.Apt) > 0 {
		steps = append(steps, aptStep(pb.Apt))
	}
	for _, s := range pb.Snaps {
		steps = append(steps, snapStep(s))
	}
	if pb.Git != nil {
		steps = append(steps, gitConfigStep(), gpgKeyStep(), sshKeyStep())
	}
	if len(pb.ProfileLines) > 0 {
		steps = append(steps, profileStep(pb.Name, pb.ProfileLines))
	}
	if len(pb.GSettings) > 0 {
		steps = append(steps, gsettingsStep(pb.GSettings))
	}
	for _, s := range pb.Scripts {
		steps = append(steps, scriptStep(s))
	}
	for _, b := range pb.Builds {
		steps = append(steps, sourceBuildStep(b))
	}

	return steps
}

func aptStep(packages []string) Step {
	return Step{
		ID:    "apt",
		Title: "Install apt packages",
		Run: func(c *Context) error {
			args := append([]string{"apt-get", "install", "--yes"}, packages...)
			_, err := c.Runner.Run(c.Ctx, "sudo", args, execx.Options{
				Env: map[string]string{"DEBIAN_FRONTEND": "noninteractive"},
			})
			return err
		},
	}
}

func snapStep(s playbook.Snap) Step {
	return Step{
		ID:    "snap-" + s.Name,
		Title: "Install snap " + s.Name,
		Run: func(c *Context) error {
			args := []string{"snap", "install", s.Name}
			if s.Classic {
				args = append(args, "--classic")
			}
			_, err := c.Runner.Run(c.Ctx, "sudo", args, execx.Options{})
			return err
		},
	}
}

func gitConfigStep() Step {
	return Step{
		ID:    "git-config",
		Title: "Configure git identity",
		Run: func(c *Context) error {
			name, err := c.Config.GetString(FieldGitUserName)
			if err != nil {
				return err
			}
			email, err := c.Config.GetString(FieldGitEmail)
			if err != nil {
				return err
			}

			for _, kv := range [][2]string{
				{"user.name", name},
				{"user.email", email},
			} {
				if _, err := c.Runner.Run(c.Ctx, "git", []string{"config", "--global", kv[0], kv[1]}, execx.Options{}); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func gpgKeyStep() Step {
	return Step{
		ID:    "gpg-key",
		Title: "Generate GPG signing key",
		Run: func(c *Context) error {
			email, err := c.Config.GetString(FieldGitEmail)
			if err != nil {
				return err
			}

			// An existing secret key for this address wins.
			if _, err := c.Runner.Run(c.Ctx, "gpg", []string{"--list-secret-keys", email}, execx.Options{}); err == nil {
				c.Log.Infof("GPG key for %s already exists, skipping", email)
				return nil
			}

			name, err := c.Config.GetString(FieldGitUserName)
			if err != nil {
				return err
			}
			keyLength, err := c.Config.GetInt(FieldGitKeyLength)
			if err != nil {
				return err
			}

			batch := fmt.Sprintf(`%%no-protection
Key-Type: RSA
Key-Length: %d
Name-Real: %s
Name-Email: %s
Expire-Date: 0
%%commit
`, keyLength, name, email)

			_, err = c.Runner.Run(c.Ctx, "gpg", []string{"--batch", "--generate-key"}, execx.Options{
				Stdin: strings.NewReader(batch),
			})
			return err
		},
	}
}

func sshKeyStep() Step {
	return Step{
		ID:    "ssh-key",
		Title: "Generate SSH keypair",
		Run: func(c *Context) error {
			keyPath := filepath.Join(c.HomeDir, ".ssh", "id_rsa")
			if _, err := os.Stat(keyPath); err == nil {
				c.Log.Infof("SSH key at %s already exists, skipping", keyPath)
				return nil
			}

			email, err := c.Config.GetString(FieldGitEmail)
			if err != nil {
				return err
			}
			keyLength, err := c.Config.GetInt(FieldGitKeyLength)
			if err != nil {
				return err
			}

			if c.DryRun {
				c.Log.Infof("would generate %d-bit RSA key at %s", keyLength, keyPath)
				return nil
			}
			if err := os.MkdirAll(filepath.Dir(keyPath), 0o700); err != nil {
				return fmt.Errorf("creating %s: %w", filepath.Dir(keyPath), err)
			}

			_, err = c.Runner.Run(c.Ctx, "ssh-keygen", []string{
				"-t", "rsa",
				"-b", strconv.Itoa(keyLength),
				"-f", keyPath,
				"-N", "",
				"-C", email,
			}, execx.Options{})
			return err
		},
	}
}

func profileStep(name string, lines []string) Step {
	return Step{
		ID:    "shell-profile",
		Title: "Update shell profile",
		Run: func(c *Context) error {
			path := filepath.Join(c.HomeDir, ".zshrc")
			marker := "# sciforge: " + name

			existing, err := os.ReadFile(path)
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			if strings.Contains(string(existing), marker) {
				c.Log.Infof("%s already configured, skipping", path)
				return nil
			}

			if c.DryRun {
				c.Log.Infof("would append %d lines to %s", len(lines), path)
				return nil
			}

			f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("opening %s: %w", path, err)
			}
			defer f.Close()

			block := "\n" + marker + "\n" + strings.Join(lines, "\n") + "\n"
			if _, err := f.WriteString(block); err != nil {
				return fmt.Errorf("appending to %s: %w", path, err)
			}
			return nil
		},
	}
}

func gsettingsStep(settings []playbook.GSetting) Step {
	return Step{
		ID:    "gsettings",
		Title: "Apply GNOME settings",
		Run: func(c *Context) error {
			for _, s := range settings {
				if _, err := c.Runner.Run(c.Ctx, "gsettings", []string{"set", s.Schema, s.Key, s.Value}, execx.Options{}); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func scriptStep(s playbook.Script) Step {
	return Step{
		ID:    "script-" + s.ID,
		Title: s.DisplayTitle(),
		Run: func(c *Context) error {
			if c.DryRun {
				c.Log.Infof("would run script %s", s.ID)
				return nil
			}
			return execx.RunScript(c.Ctx, s.Script, execx.Options{Dir: c.HomeDir}, c.Stdout, c.Stderr)
		},
	}
}
