// SPDX-License-Identifier: MPL-2.0

// Package steplog wraps charmbracelet/log with an explicit nesting depth so
// output produced while a bootstrap step runs is visually indented under the
// step that triggered it. The depth lives on the Logger instance rather than
// in package state, which keeps nested loggers independent and testable.
package steplog

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// indentUnit is the string prepended to messages once per nesting level.
const indentUnit = "   "

// Logger is a leveled logger with an explicit indentation depth.
// It is not safe for concurrent use; the bootstrap run is single-threaded.
type Logger struct {
	base  *log.Logger
	depth int
}

// New creates a Logger writing human-readable output to w.
func New(w io.Writer) *Logger {
	base := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
	})
	return &Logger{base: base}
}

// NewWithBase wraps an existing charmbracelet logger, preserving its
// formatting and level configuration.
func NewWithBase(base *log.Logger) *Logger {
	return &Logger{base: base}
}

// SetLevel adjusts the minimum level of the underlying logger.
func (l *Logger) SetLevel(level log.Level) {
	l.base.SetLevel(level)
}

// Indent increases the nesting depth and returns a release function that
// restores it. Call the release function exactly once, typically via defer;
// extra calls are ignored.
func (l *Logger) Indent() func() {
	l.depth++
	released := false
	return func() {
		if released {
			return
		}
		released = true
		l.depth--
	}
}

func (l *Logger) prefix() string {
	return strings.Repeat(indentUnit, l.depth)
}

// Debugf logs a formatted message at debug level.
func (l *Logger) Debugf(format string, args ...any) {
	l.base.Debug(l.prefix() + fmt.Sprintf(format, args...))
}

// Infof logs a formatted message at info level.
func (l *Logger) Infof(format string, args ...any) {
	l.base.Info(l.prefix() + fmt.Sprintf(format, args...))
}

// Warnf logs a formatted message at warn level.
func (l *Logger) Warnf(format string, args ...any) {
	l.base.Warn(l.prefix() + fmt.Sprintf(format, args...))
}

// Errorf logs a formatted message at error level.
func (l *Logger) Errorf(format string, args ...any) {
	l.base.Error(l.prefix() + fmt.Sprintf(format, args...))
}
