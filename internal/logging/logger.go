// Package logging provides structured logging with file output support.
// It uses environment variables for configuration.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// LoggerCloser wraps a logger and provides a Close method for cleanup
type LoggerCloser struct {
	*log.Logger
	closer io.Closer
}

// Close closes the underlying writer if it's closeable
func (lc *LoggerCloser) Close() error {
	if lc.closer != nil {
		return lc.closer.Close()
	}
	return nil
}

// NewLoggerWithWriter creates a new logger with the provided writer
func NewLoggerWithWriter(w io.Writer) *LoggerCloser {
	lg := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
	lg.SetLevel(levelFromEnv())

	prefix := os.Getenv("LFTRACE_LOG_PREFIX")
	if prefix == "" {
		prefix = "lftrace "
	}

	var closer io.Closer
	if c, ok := w.(io.Closer); ok && w != os.Stderr && w != os.Stdout {
		closer = c
	}

	return &LoggerCloser{
		Logger: lg.WithPrefix(prefix),
		closer: closer,
	}
}

// NewLogger creates a new logger based on environment variables
// LFTRACE_LOG_LEVEL: debug, info, warn, error (default: info)
// LFTRACE_LOG_PREFIX: prefix for log messages (default: "lftrace ")
// LFTRACE_LOG_TO_FILE: when set to "1", logs to a timestamped file instead of stderr
// When debug is true the level is forced to debug.
func NewLogger(debug bool) *LoggerCloser {
	output := io.Writer(os.Stderr)

	if os.Getenv("LFTRACE_LOG_TO_FILE") == "1" {
		timestamp := time.Now().Format("20060102-150405")
		logFile := fmt.Sprintf("lftrace-%s-debug.log", timestamp)

		f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err == nil {
			output = f
		}
		// If file creation fails, fall back to stderr
	}

	lc := NewLoggerWithWriter(output)
	if debug {
		lc.SetLevel(log.DebugLevel)
	}
	return lc
}

func levelFromEnv() log.Level {
	level, err := log.ParseLevel(os.Getenv("LFTRACE_LOG_LEVEL"))
	if err != nil || level == log.FatalLevel {
		return log.InfoLevel
	}
	return level
}

// IsDebug returns true if debug logging is enabled
func IsDebug() bool {
	return os.Getenv("LFTRACE_LOG_LEVEL") == "debug"
}
