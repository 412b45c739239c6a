// SPDX-License-Identifier: MPL-2.0

// Package issue builds user-facing error messages with enough context to act
// on: what operation failed, on which resource, and what to try next.
package issue

import (
	"fmt"
	"strings"
)

// ActionableError is an error carrying remediation context for CLI display.
type ActionableError struct {
	// Operation describes what was being attempted (e.g. "load playbook").
	Operation string
	// Resource identifies the file or entity involved (optional).
	Resource string
	// Suggestions are hints on how to fix the problem (optional).
	Suggestions []string
	// Cause is the underlying error (optional).
	Cause error
}

// New creates an ActionableError for the given operation.
func New(operation string) *ActionableError {
	return &ActionableError{Operation: operation}
}

// WithResource records the file or entity involved.
func (e *ActionableError) WithResource(resource string) *ActionableError {
	e.Resource = resource
	return e
}

// WithSuggestion appends a remediation hint.
func (e *ActionableError) WithSuggestion(suggestion string) *ActionableError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// Wrap records the underlying error.
func (e *ActionableError) Wrap(cause error) *ActionableError {
	e.Cause = cause
	return e
}

// Error formats the failure on one line; suggestions follow, one per line.
func (e *ActionableError) Error() string {
	var b strings.Builder

	b.WriteString("failed to ")
	b.WriteString(e.Operation)
	if e.Resource != "" {
		fmt.Fprintf(&b, " (%s)", e.Resource)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	for _, s := range e.Suggestions {
		b.WriteString("\n  hint: ")
		b.WriteString(s)
	}

	return b.String()
}

// Unwrap exposes the cause for errors.Is and errors.As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}
