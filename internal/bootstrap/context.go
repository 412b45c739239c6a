// SPDX-License-Identifier: MPL-2.0

// Package bootstrap turns a playbook into an ordered list of installation
// steps and runs them. Interactive configuration is declared up front as
// deferred fields, so a step that never runs never prompts.
package bootstrap

import (
	"context"
	"io"
	"os"

	"sciforge-cli/internal/execx"
	"sciforge-cli/internal/ghrelease"
	"sciforge-cli/internal/lazyconf"
	"sciforge-cli/internal/steplog"
)

// Context carries the shared collaborators every step receives. It is built
// once per run and passed by pointer; steps must not retain it.
type Context struct {
	Ctx      context.Context
	Config   *lazyconf.Store
	Runner   execx.Runner
	Releases *ghrelease.Client
	Log      *steplog.Logger

	// HomeDir is the target user's home directory.
	HomeDir string
	// WorkDir is a scratch directory for downloads and out-of-tree builds.
	WorkDir string

	// DryRun suppresses direct filesystem mutations made by steps
	// themselves. Command execution is already covered by swapping Runner
	// for an execx.DryRunner.
	DryRun bool

	Stdout io.Writer
	Stderr io.Writer
}

// NewContext assembles a run context with stdio defaults.
func NewContext(ctx context.Context, cfg *lazyconf.Store, runner execx.Runner, releases *ghrelease.Client, logger *steplog.Logger) *Context {
	return &Context{
		Ctx:      ctx,
		Config:   cfg,
		Runner:   runner,
		Releases: releases,
		Log:      logger,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}
}
