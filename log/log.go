// Package log is the logging surface used by go-sel.
//
// The selector only ever talks to the Logger interface, so callers may plug
// in whatever they already use.  The default implementation is backed by
// logrus; Discard drops everything.
package log

import (
	"io"
	"strings"
)

type Level string

const (
	TraceLevel Level = "trace"
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// ParseLevel maps a level name (case-insensitive) to a Level.
// Unknown names map to InfoLevel.
func ParseLevel(s string) Level {
	switch Level(strings.ToLower(s)) {
	case TraceLevel:
		return TraceLevel
	case DebugLevel:
		return DebugLevel
	case WarnLevel, "warning":
		return WarnLevel
	case ErrorLevel:
		return ErrorLevel
	default:
		return InfoLevel
	}
}

type Logger interface {
	Trace(format string, v ...interface{})

	Debug(format string, v ...interface{})

	Info(format string, v ...interface{})

	Warn(format string, v ...interface{})

	Error(format string, v ...interface{})

	// WithField returns a Logger that attaches key=value to every entry.
	// The receiver is not modified.
	WithField(key string, value interface{}) Logger

	SetLevel(level Level)

	GetLevel() Level

	SetOutput(out io.Writer)
}

// Discard is a Logger that does nothing.
var Discard Logger = discard{}

type discard struct{}

func (discard) Trace(string, ...interface{})           {}
func (discard) Debug(string, ...interface{})           {}
func (discard) Info(string, ...interface{})            {}
func (discard) Warn(string, ...interface{})            {}
func (discard) Error(string, ...interface{})           {}
func (d discard) WithField(string, interface{}) Logger { return d }
func (discard) SetLevel(Level)                         {}
func (discard) GetLevel() Level                        { return ErrorLevel }
func (discard) SetOutput(io.Writer)                    {}
