// Package logger provides leveled logging for formflow.
// Debug, Info and Section output is only printed in verbose mode, which
// the --verbose flag enables. Warnings and errors are always printed so
// that recovered failures (index fallbacks, verification outages, failed
// post-submit hooks) stay visible to operators.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for all log levels.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// emit takes the write lock so concurrent callers never interleave output.
func emit(always bool, prefix, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if !always && !verbose {
		return
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	emit(false, "[DEBUG] ", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	emit(false, "\n=== ", "%s ===", name)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	emit(false, "[INFO] ", format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	emit(true, "[WARN] ", format, args...)
}

// Error prints an error message.
func Error(format string, args ...any) {
	emit(true, "[ERROR] ", format, args...)
}
