// Package logging provides the Logger used across the relay so the same sink
// is shared rather than the default logger of the log package.
package logging

import (
	"io"
	"log"
	"os"
)

// Logger writes formatted diagnostic lines.
// Arguments are handled in the manner of fmt.Printf.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Discard is a Logger that logs nothing.
var Discard Logger = discardLogger{}

type discardLogger struct{}

func (discardLogger) Printf(format string, v ...interface{}) {}

// New returns a Logger writing to stderr.
func New() Logger {
	return NewWriter(os.Stderr)
}

// NewWriter returns a Logger writing to w with the standard flags.
func NewWriter(w io.Writer) Logger {
	return log.New(w, "", log.LstdFlags)
}

// Debug wraps a Logger so that Printf only writes when enabled is true.
// Debug lines may contain secrets and must stay off in production.
func Debug(l Logger, enabled bool) Logger {
	if !enabled || l == nil {
		return Discard
	}
	return l
}
