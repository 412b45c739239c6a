// SPDX-License-Identifier: MPL-2.0

// Package execx runs external programs for bootstrap steps: argv execution
// with captured output via os/exec, and inline shell scripts via mvdan/sh.
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

type (
	// Options carries the optional knobs for a single invocation.
	Options struct {
		// Dir is the working directory; empty means the current directory.
		Dir string
		// Env holds environment overrides applied on top of the process
		// environment. A nil map inherits the environment unchanged.
		Env map[string]string
		// Stdin feeds the program's standard input when set.
		Stdin io.Reader
	}

	// Result captures the output of a completed invocation.
	Result struct {
		Stdout   string
		Stderr   string
		ExitCode int
	}

	// Runner executes a program with an argument list and captures its output.
	// A non-zero exit is reported as an *ExitError alongside the Result.
	Runner interface {
		Run(ctx context.Context, name string, args []string, opts Options) (*Result, error)
	}

	// ExitError reports a program that ran to completion with a non-zero
	// exit code. Stderr is included so callers can surface the cause
	// without re-running the command.
	ExitError struct {
		Name   string
		Code   int
		Stderr string
	}

	// NativeRunner executes programs on the host via os/exec.
	NativeRunner struct{}

	// DryRunner prints each invocation instead of executing it. Used by
	// the CLI's --dry-run mode.
	DryRunner struct {
		Out io.Writer
	}
)

// Error formats the failing command and its exit code, with trailing stderr
// context when present.
func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Name, e.Code)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// Run executes name with args and waits for completion.
func (NativeRunner) Run(ctx context.Context, name string, args []string, opts Options) (*Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = opts.Dir
	cmd.Stdin = opts.Stdin
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), envToSlice(opts.Env)...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, &ExitError{Name: name, Code: result.ExitCode, Stderr: result.Stderr}
		}
		return nil, fmt.Errorf("running %s: %w", name, err)
	}

	return result, nil
}

// Run prints the command line without executing anything.
func (d DryRunner) Run(_ context.Context, name string, args []string, opts Options) (*Result, error) {
	out := d.Out
	if out == nil {
		out = os.Stdout
	}
	line := name
	if len(args) > 0 {
		line += " " + strings.Join(args, " ")
	}
	if opts.Dir != "" {
		line += " (in " + opts.Dir + ")"
	}
	fmt.Fprintln(out, "would run:", line)
	return &Result{}, nil
}

func envToSlice(env map[string]string) []string {
	pairs := make([]string, 0, len(env))
	for k, v := range env {
		pairs = append(pairs, k+"="+v)
	}
	return pairs
}
