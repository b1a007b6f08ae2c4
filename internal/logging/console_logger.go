package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/vvka-141/dbseed/pkg/dbseed"
)

// ConsoleLogger writes log lines to stderr or a custom writer.
// Safe for concurrent use by multiple goroutines.
type ConsoleLogger struct {
	out     io.Writer
	verbose bool
	runID   string
	mu      *sync.Mutex
}

// NewConsoleLogger creates a ConsoleLogger writing to stderr.
// If verbose is false, Verbose() calls are no-ops.
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return NewWriterLogger(os.Stderr, verbose)
}

// NewWriterLogger creates a ConsoleLogger writing to w.
func NewWriterLogger(w io.Writer, verbose bool) *ConsoleLogger {
	return &ConsoleLogger{out: w, verbose: verbose, mu: &sync.Mutex{}}
}

// WithRunID returns a logger that tags verbose and error lines with runID.
// Both loggers share the writer and its lock.
func (l *ConsoleLogger) WithRunID(runID string) *ConsoleLogger {
	clone := *l
	clone.runID = runID
	return &clone
}

// Verbose logs detailed diagnostic information if verbose mode is enabled.
func (l *ConsoleLogger) Verbose(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.write("[VERBOSE] ", format, args)
}

// Info logs informational messages about normal operations.
func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	l.write("", format, args)
}

// Error logs error messages.
func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	l.write("[ERROR] ", format, args)
}

func (l *ConsoleLogger) write(level, format string, args []interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	if l.runID != "" && level != "" {
		level += "[" + l.runID + "] "
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.out, level+msg+"\n")
}

var _ dbseed.Logger = (*ConsoleLogger)(nil)
