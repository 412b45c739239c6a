// SPDX-License-Identifier: MPL-2.0

package execx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// RunScript parses and executes an inline shell script with mvdan/sh,
// streaming output to stdout and stderr. Environment overrides from opts are
// layered on top of the process environment. A non-zero exit surfaces as an
// *ExitError with Name "script".
func RunScript(ctx context.Context, script string, opts Options, stdout, stderr io.Writer) error {
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), "script")
	if err != nil {
		return fmt.Errorf("parsing script: %w", err)
	}

	environ := os.Environ()
	environ = append(environ, envToSlice(opts.Env)...)

	runner, err := interp.New(
		interp.Dir(opts.Dir),
		interp.Env(expand.ListEnviron(environ...)),
		interp.StdIO(opts.Stdin, stdout, stderr),
	)
	if err != nil {
		return fmt.Errorf("creating interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return &ExitError{Name: "script", Code: int(status)}
		}
		return fmt.Errorf("script execution failed: %w", err)
	}

	return nil
}

// CheckScript parses a script without running it, so playbook validation can
// reject malformed shell before any step executes.
func CheckScript(script string) error {
	if _, err := syntax.NewParser().Parse(strings.NewReader(script), "script"); err != nil {
		return fmt.Errorf("script syntax error: %w", err)
	}
	return nil
}
