// SPDX-License-Identifier: MPL-2.0

package playbook

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed playbook_schema.cue
var playbookSchema string

// maxPlaybookBytes bounds playbook size (1 MB); anything larger is a mistake,
// not a plan.
const maxPlaybookBytes = 1 << 20

// Parse reads and parses a playbook from the given path.
func Parse(path string) (*Playbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading playbook at %s: %w", path, err)
	}
	return ParseBytes(data, path)
}

// ParseBytes parses playbook content, following the 3-step CUE flow:
// compile the embedded schema, compile the user data, then unify, validate,
// and decode into a Playbook.
func ParseBytes(data []byte, path string) (*Playbook, error) {
	if len(data) > maxPlaybookBytes {
		return nil, fmt.Errorf("%s: playbook exceeds %d bytes", path, maxPlaybookBytes)
	}

	ctx := cuecontext.New()

	schema := ctx.CompileString(playbookSchema)
	if schema.Err() != nil {
		return nil, fmt.Errorf("internal error: compiling playbook schema: %w", schema.Err())
	}

	root := schema.LookupPath(cue.ParsePath("#Playbook"))
	if root.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition #Playbook not found: %w", root.Err())
	}

	value := ctx.CompileBytes(data, cue.Filename(path))
	if value.Err() != nil {
		return nil, formatCUEError(value.Err(), path)
	}

	unified := root.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err, path)
	}

	var pb Playbook
	if err := unified.Decode(&pb); err != nil {
		return nil, formatCUEError(err, path)
	}
	pb.FilePath = path

	if err := pb.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &pb, nil
}

// formatCUEError flattens a CUE error list into one message prefixed with the
// file path and, where available, the dotted path of each offending field.
func formatCUEError(err error, path string) error {
	cueErrs := cueerrors.Errors(err)
	if len(cueErrs) == 0 {
		return fmt.Errorf("%s: %w", path, err)
	}

	lines := make([]string, 0, len(cueErrs))
	for _, e := range cueErrs {
		msg := e.Error()
		if fieldPath := strings.Join(cueerrors.Path(e), "."); fieldPath != "" && !strings.HasPrefix(msg, fieldPath) {
			msg = fieldPath + ": " + msg
		}
		lines = append(lines, msg)
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", path, lines[0])
	}
	return fmt.Errorf("%s: invalid playbook:\n  %s", path, strings.Join(lines, "\n  "))
}
