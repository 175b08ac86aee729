// Package debug provides opt-in diagnostic logging for mtsearch.
//
// Debug output is off by default and never interleaves with the
// dispatcher's command output: callers that need both must write to
// distinct streams (the debug writer is configured separately from the
// dispatcher's stdout).
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EnableDebug is a build flag than can be overridden at build time:
// go build -ldflags "-X github.com/standardbeagle/mtsearch/internal/debug.EnableDebug=true"
var EnableDebug = "false"

// QuietMode suppresses all debug output, regardless of EnableDebug or the
// environment variable. The HTTP adapter enables this so debug lines never
// land on a response writer.
var QuietMode = false

var (
	debugOutput io.Writer
	debugFile   *os.File
	debugMutex  sync.Mutex
)

// SetQuietMode toggles QuietMode.
func SetQuietMode(enabled bool) {
	QuietMode = enabled
}

// SetOutput sets a custom writer for debug output. Pass nil to disable.
func SetOutput(w io.Writer) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	debugOutput = w
}

// InitLogFile initializes debug logging to a timestamped file under the
// OS temp directory and returns its path.
func InitLogFile() (string, error) {
	debugMutex.Lock()
	defer debugMutex.Unlock()

	logDir := filepath.Join(os.TempDir(), "mtsearch-debug-logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return "", fmt.Errorf("create debug log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02T150405")
	logPath := filepath.Join(logDir, fmt.Sprintf("debug-%s.log", timestamp))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("create debug log file: %w", err)
	}

	debugFile = file
	debugOutput = file
	return logPath, nil
}

// CloseLogFile closes the debug log file if one is open.
func CloseLogFile() error {
	debugMutex.Lock()
	defer debugMutex.Unlock()

	if debugFile != nil {
		err := debugFile.Close()
		debugFile = nil
		debugOutput = nil
		return err
	}
	return nil
}

// Enabled reports whether debug output is active.
func Enabled() bool {
	if QuietMode {
		return false
	}
	if EnableDebug == "true" {
		return true
	}
	v := os.Getenv("MTSEARCH_DEBUG")
	return v == "1" || v == "true"
}

func writer() io.Writer {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	return debugOutput
}

// Printf writes a debug line when debugging is enabled and a writer is configured.
func Printf(format string, args ...interface{}) {
	if !Enabled() {
		return
	}
	if w := writer(); w != nil {
		fmt.Fprintf(w, "[DEBUG] "+format, args...)
	}
}

// Log writes a component-tagged debug line.
func Log(component, format string, args ...interface{}) {
	if !Enabled() {
		return
	}
	if w := writer(); w != nil {
		fmt.Fprintf(w, "[DEBUG:%s] "+format, append([]interface{}{component}, args...)...)
	}
}

// LogIndex logs an inverted-index mutation or lookup.
func LogIndex(format string, args ...interface{}) { Log("INDEX", format, args...) }

// LogPool logs worker-pool scheduling events.
func LogPool(format string, args ...interface{}) { Log("POOL", format, args...) }

// LogDispatch logs dispatcher command handling.
func LogDispatch(format string, args ...interface{}) { Log("DISPATCH", format, args...) }

// CatastrophicError records a condition that should never occur but must
// not abort the command loop.
func CatastrophicError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if QuietMode {
		return
	}
	if w := writer(); w != nil {
		fmt.Fprintf(w, "[CATASTROPHIC] %s", msg)
	}
}
