// SPDX-License-Identifier: MPL-2.0

package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"sciforge-cli/internal/execx"
	"sciforge-cli/pkg/playbook"
)

// sourceBuildStep compiles the latest tagged release of a GitHub project:
// resolve the tag, download and unpack its source archive, then run an
// out-of-tree cmake build. Installation goes through checkinstall when asked
// for, so the result is removable via the package manager.
func sourceBuildStep(b playbook.SourceBuild) Step {
	return Step{
		ID:    "build-" + b.Repo,
		Title: fmt.Sprintf("Build %s/%s from source", b.Owner, b.Repo),
		Run: func(c *Context) error {
			token, err := c.Config.GetString(FieldGitHubToken)
			if err != nil {
				return err
			}

			tag, err := c.Releases.ResolveLatestTag(c.Ctx, token, b.Owner, b.Repo)
			if err != nil {
				return fmt.Errorf("resolving latest %s/%s tag: %w", b.Owner, b.Repo, err)
			}
			c.Log.Infof("Latest %s/%s tag is %s", b.Owner, b.Repo, tag.Name)

			threads, err := c.Config.GetInt(FieldBuildThreads)
			if err != nil {
				return err
			}

			archive := filepath.Join(c.WorkDir, b.Repo+"-"+tag.Name+".tar.gz")
			srcDir := filepath.Join(c.WorkDir, b.Repo+"-"+tag.Name)
			buildDir := filepath.Join(srcDir, "build")

			if !c.DryRun {
				if err := os.MkdirAll(srcDir, 0o755); err != nil {
					return fmt.Errorf("creating %s: %w", srcDir, err)
				}
			}

			if _, err := c.Runner.Run(c.Ctx, "wget", []string{"--quiet", "-O", archive, tag.ArchiveURL}, execx.Options{}); err != nil {
				return fmt.Errorf("downloading %s: %w", tag.ArchiveURL, err)
			}

			// GitHub archives nest everything under a single
			// <owner>-<repo>-<sha> directory; strip it on extraction.
			if _, err := c.Runner.Run(c.Ctx, "tar", []string{"-xzf", archive, "-C", srcDir, "--strip-components=1"}, execx.Options{}); err != nil {
				return fmt.Errorf("extracting %s: %w", archive, err)
			}

			configure := []string{"-S", srcDir, "-B", buildDir}
			configure = append(configure, b.CMakeFlags...)
			if _, err := c.Runner.Run(c.Ctx, "cmake", configure, execx.Options{}); err != nil {
				return fmt.Errorf("configuring %s: %w", b.Repo, err)
			}

			if _, err := c.Runner.Run(c.Ctx, "cmake", []string{"--build", buildDir, "-j", strconv.Itoa(threads)}, execx.Options{}); err != nil {
				return fmt.Errorf("building %s: %w", b.Repo, err)
			}

			if b.Checkinstall {
				_, err = c.Runner.Run(c.Ctx, "sudo", []string{
					"checkinstall",
					"--default",
					"--pkgname", b.Repo,
					"--pkgversion", versionFromTag(tag.Name),
					"make", "install",
				}, execx.Options{Dir: buildDir})
			} else {
				_, err = c.Runner.Run(c.Ctx, "sudo", []string{"cmake", "--install", buildDir}, execx.Options{})
			}
			if err != nil {
				return fmt.Errorf("installing %s: %w", b.Repo, err)
			}
			return nil
		},
	}
}

// versionFromTag strips a leading "v" so checkinstall accepts the version.
func versionFromTag(tag string) string {
	if len(tag) > 1 && (tag[0] == 'v' || tag[0] == 'V') && tag[1] >= '0' && tag[1] <= '9' {
		return tag[1:]
	}
	return tag
}
