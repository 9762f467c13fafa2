package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Build flag for debug mode - can be overridden at build time
// go build -ldflags "-X github.com/standardbeagle/lgrep/internal/debug.EnableDebug=true"
var EnableDebug = "false"

// forced is set by the CLI --debug flag
var forced bool

// debugOutput is the writer for debug output (defaults to nil, meaning no output)
var debugOutput io.Writer

// debugMutex protects access to debug output
var debugMutex sync.Mutex

// SetDebugOutput sets a custom writer for debug output.
// Pass nil to disable debug output entirely.
func SetDebugOutput(w io.Writer) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	debugOutput = w
}

// Enable turns debug output on regardless of build flag and environment
func Enable(enabled bool) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	forced = enabled
}

// IsDebugEnabled returns true if debug mode is enabled
func IsDebugEnabled() bool {
	debugMutex.Lock()
	on := forced
	debugMutex.Unlock()
	if on {
		return true
	}

	// Check build flag first
	if EnableDebug == "true" {
		return true
	}

	// Allow runtime override via environment variable
	if os.Getenv("DEBUG") == "1" || os.Getenv("DEBUG") == "true" {
		return true
	}

	return false
}

// getDebugWriter returns the writer for debug output, or nil if none is configured
func getDebugWriter() io.Writer {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	return debugOutput
}

// Printf prints debug information only when debug mode is enabled and output is configured
func Printf(format string, args ...interface{}) {
	if !IsDebugEnabled() {
		return
	}
	w := getDebugWriter()
	if w == nil {
		return
	}
	write(w, fmt.Sprintf("[DEBUG] "+format, args...))
}

// Log provides structured debug logging with component names
func Log(component, format string, args ...interface{}) {
	if !IsDebugEnabled() {
		return
	}
	w := getDebugWriter()
	if w == nil {
		return
	}
	write(w, fmt.Sprintf("[DEBUG:%s] "+format, append([]interface{}{component}, args...)...))
}

// write emits one complete line; workers log concurrently
func write(w io.Writer, msg string) {
	if len(msg) == 0 || msg[len(msg)-1] != '\n' {
		msg += "\n"
	}
	debugMutex.Lock()
	defer debugMutex.Unlock()
	io.WriteString(w, msg)
}

// LogWalk provides debug logging for directory traversal
func LogWalk(format string, args ...interface{}) {
	Log("WALK", format, args...)
}

// LogScan provides debug logging for per-file scanning
func LogScan(format string, args ...interface{}) {
	Log("SCAN", format, args...)
}

// LogSchedule provides debug logging for the worker pool
func LogSchedule(format string, args ...interface{}) {
	Log("SCHED", format, args...)
}

// LogConfig provides debug logging for configuration loading
func LogConfig(format string, args ...interface{}) {
	Log("CONFIG", format, args...)
}

// LogWatch provides debug logging for watch mode
func LogWatch(format string, args ...interface{}) {
	Log("WATCH", format, args...)
}
