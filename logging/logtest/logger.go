// Package logtest implements support for testing Loggers.
package logtest

import (
	"bytes"
	"fmt"
	"sync"

	"goTweetRelay/logging"
)

// Logger is a logger that writes to a buffer to be read later.
type Logger struct {
	buf bytes.Buffer
	mu  sync.RWMutex
}

var _ logging.Logger = NewLogger()

// NewLogger creates a Logger.
func NewLogger() *Logger {
	return new(Logger)
}

// Printf implements the logging.Logger interface.
func (l *Logger) Printf(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(&l.buf, format, v...)
	l.buf.WriteByte('\n')
}

// String returns the recorded string.
func (l *Logger) String() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.buf.String()
}

// Empty returns if nothing has been logged.
func (l *Logger) Empty() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.buf.Len() == 0
}
