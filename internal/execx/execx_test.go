// SPDX-License-Identifier: MPL-2.0

package execx

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNativeRunnerCapturesStdout(t *testing.T) {
	t.Parallel()

	result, err := NativeRunner{}.Run(context.Background(), "sh", []string{"-c", "echo hello"}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.TrimSpace(result.Stdout); got != "hello" {
		t.Errorf("expected stdout %q, got %q", "hello", got)
	}
	if result.ExitCode != 0 {
		t.Errorf("expected exit code 0, got %d", result.ExitCode)
	}
}

func TestNativeRunnerNonZeroExit(t *testing.T) {
	t.Parallel()

	result, err := NativeRunner{}.Run(context.Background(), "sh", []string{"-c", "echo oops >&2; exit 3"}, Options{})
	if err == nil {
		t.Fatal("expected an error for non-zero exit")
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %T: %v", err, err)
	}
	if exitErr.Code != 3 {
		t.Errorf("expected exit code 3, got %d", exitErr.Code)
	}
	if !strings.Contains(exitErr.Error(), "oops") {
		t.Errorf("expected stderr in message, got %q", exitErr.Error())
	}
	if result == nil || result.ExitCode != 3 {
		t.Errorf("expected result with exit code 3, got %+v", result)
	}
}

func TestNativeRunnerEnvOverride(t *testing.T) {
	t.Parallel()

	result, err := NativeRunner{}.Run(context.Background(), "sh",
		[]string{"-c", `printf %s "$SCIFORGE_TEST_VALUE"`},
		Options{Env: map[string]string{"SCIFORGE_TEST_VALUE": "from-override"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Stdout != "from-override" {
		t.Errorf("expected env override in stdout, got %q", result.Stdout)
	}
}

func TestNativeRunnerWorkingDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	result, err := NativeRunner{}.Run(context.Background(), "pwd", nil, Options{Dir: dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.TrimSpace(result.Stdout); got != dir {
		t.Errorf("expected pwd %q, got %q", dir, got)
	}
}

func TestNativeRunnerMissingProgram(t *testing.T) {
	t.Parallel()

	_, err := NativeRunner{}.Run(context.Background(), "sciforge-no-such-program", nil, Options{})
	if err == nil {
		t.Fatal("expected an error for a missing program")
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		t.Fatalf("missing program must not be an ExitError, got %v", err)
	}
}

func TestDryRunnerPrintsWithoutExecuting(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	result, err := DryRunner{Out: &buf}.Run(context.Background(), "apt-get",
		[]string{"install", "--yes", "cmake"}, Options{Dir: "/tmp"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ExitCode != 0 {
		t.Errorf("expected exit code 0, got %d", result.ExitCode)
	}

	out := buf.String()
	for _, want := range []string{"would run:", "apt-get install --yes cmake", "/tmp"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got %q", want, out)
		}
	}
}
