package logging

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
)

// Logger provides key/value logging for a single adapter run.
// Stdout and stderr carry the result line, so output goes to a file or nowhere.
type Logger struct {
	prefix string
	runID  string
	debug  bool
	logger *log.Logger
}

// NewLogger creates a logger writing to w with a fresh run id.
func NewLogger(prefix string, w io.Writer, debug bool) *Logger {
	if w == nil {
		w = io.Discard
	}
	runID := uuid.NewString()
	return &Logger{
		prefix: prefix,
		runID:  runID,
		debug:  debug,
		logger: log.New(w, fmt.Sprintf("[%s %s] ", prefix, runID[:8]), log.LstdFlags|log.Lmicroseconds),
	}
}

// Open returns a logger appending to path, or a discarding logger when path is empty.
// The returned close func is always non-nil.
func Open(prefix, path string, debug bool) (*Logger, func() error, error) {
	if path == "" {
		return NewLogger(prefix, io.Discard, debug), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return NewLogger(prefix, io.Discard, debug), func() error { return nil }, fmt.Errorf("opening log file %s: %w", path, err)
	}
	return NewLogger(prefix, f, debug), f.Close, nil
}

// Nop returns a logger that drops everything.
func Nop() *Logger {
	return NewLogger("nop", io.Discard, false)
}

// RunID returns the id stamped on every line of this logger.
func (l *Logger) RunID() string {
	return l.runID
}

// Info logs an informational message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.logWithKV("INFO", msg, keysAndValues...)
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.logWithKV("WARN", msg, keysAndValues...)
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.logWithKV("ERROR", msg, keysAndValues...)
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	if !l.debug {
		return
	}
	l.logWithKV("DEBUG", msg, keysAndValues...)
}

func (l *Logger) logWithKV(level, msg string, keysAndValues ...interface{}) {
	kvStr := ""
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			kvStr += fmt.Sprintf(" %v=%v", keysAndValues[i], keysAndValues[i+1])
		}
	}
	l.logger.Printf("[%s] %s%s", level, msg, kvStr)
}
