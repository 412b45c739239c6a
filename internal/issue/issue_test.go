// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	t.Parallel()

	cause := errors.New("file does not exist")
	err := New("load playbook").
		WithResource("physics.cue").
		WithSuggestion("check the path passed to `sciforge run`").
		WithSuggestion("set a default playbook in the config file").
		Wrap(cause)

	msg := err.Error()
	for _, want := range []string{
		"failed to load playbook",
		"(physics.cue)",
		"file does not exist",
		"hint: check the path",
		"hint: set a default playbook",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
}

func TestErrorWithoutOptionalParts(t *testing.T) {
	t.Parallel()

	msg := New("validate token").Error()
	if msg != "failed to validate token" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("root cause")
	err := New("op").Wrap(cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to see the cause")
	}
}
