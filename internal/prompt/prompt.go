// SPDX-License-Identifier: MPL-2.0

// Package prompt reads interactive configuration values from the terminal
// with a re-prompt loop: empty input falls back to a default when one exists,
// and converter failures re-ask instead of propagating. Input and output are
// injectable so the loop is unit-testable.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sciforge-cli/internal/lazyconf"
)

var (
	messageStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6"))
	defaultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
)

type (
	// Converter turns raw input into a typed value, failing when the input
	// cannot be interpreted. A failing conversion causes a re-prompt.
	Converter func(raw string) (any, error)

	// Question describes one interactive value.
	Question struct {
		// Message is displayed verbatim before the input cursor.
		Message string
		// Default is accepted when the user submits an empty line, but
		// only if HasDefault is set.
		Default    string
		HasDefault bool
		// Convert, when set, transforms the raw input. On failure the
		// question is asked again with a warning.
		Convert Converter
	}

	// Option configures an Asker during construction.
	Option func(*Asker)

	// Asker displays questions and reads answers line by line.
	Asker struct {
		in  *bufio.Reader
		out io.Writer
	}
)

// WithInput overrides the input source (default os.Stdin).
func WithInput(r io.Reader) Option {
	return func(a *Asker) {
		a.in = bufio.NewReader(r)
	}
}

// WithOutput overrides the output destination (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(a *Asker) {
		a.out = w
	}
}

// New creates an Asker bound to the terminal unless overridden.
func New(opts ...Option) *Asker {
	a := &Asker{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ask displays the question until it yields a usable answer. Empty input is
// accepted only when a default exists; conversion failures print a warning
// and re-ask. The only terminal error is input exhaustion (EOF) or an I/O
// failure on the underlying reader.
func (a *Asker) Ask(q Question) (any, error) {
	for {
		label := messageStyle.Render(q.Message)
		if q.HasDefault {
			label += " " + defaultStyle.Render("["+q.Default+"]")
		}
		fmt.Fprintf(a.out, "%s: ", label)

		raw, err := a.readLine()
		if err != nil {
			return nil, fmt.Errorf("reading input for %q: %w", q.Message, err)
		}

		raw = strings.TrimSpace(raw)
		if raw == "" {
			if !q.HasDefault {
				fmt.Fprintln(a.out, warnStyle.Render("A value is required."))
				continue
			}
			raw = q.Default
		}

		if q.Convert == nil {
			return raw, nil
		}

		value, err := q.Convert(raw)
		if err != nil {
			fmt.Fprintln(a.out, warnStyle.Render(fmt.Sprintf("Invalid value: %v", err)))
			continue
		}
		return value, nil
	}
}

// readLine returns one line without its trailing newline. A final unterminated
// line before EOF is still returned.
func (a *Asker) readLine() (string, error) {
	line, err := a.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimSuffix(line, "\n"), nil
		}
		return "", err
	}
	return strings.TrimSuffix(line, "\n"), nil
}

// Deferred adapts a question into a lazyconf producer, so the prompt fires
// only when the field is first read.
func Deferred(a *Asker, q Question) lazyconf.Producer {
	return func() (any, error) {
		return a.Ask(q)
	}
}

// Int converts input to an int.
func Int(raw string) (any, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", raw)
	}
	return n, nil
}

// YesNo converts a yes/no answer to a bool. Unrecognized answers fail, which
// re-prompts rather than silently defaulting to no.
func YesNo(raw string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "y", "yes", "1", "true":
		return true, nil
	case "n", "no", "0", "false":
		return false, nil
	default:
		return nil, fmt.Errorf("answer yes or no, not %q", raw)
	}
}
