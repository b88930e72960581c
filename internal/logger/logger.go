// Package logger is the process-wide console log for ragindex.
//
// Warnings and errors always reach the output. Debug and info lines, section
// headers and stage timings only appear with --verbose, where they trace
// ingestion, queries and answers step by step.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/phuslu/log"
)

var (
	mu      sync.Mutex
	verbose bool
	output  io.Writer = os.Stderr
	backend           = build(os.Stderr, false)
)

func build(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return &log.Logger{
		Level: level,
		Writer: &log.ConsoleWriter{
			Writer: w,
			Formatter: func(w io.Writer, a *log.FormatterArgs) (int, error) {
				return fmt.Fprintf(w, "[%s] %s\n", strings.ToUpper(a.Level), a.Message)
			},
		},
	}
}

// SetVerbose switches debug and info output on or off.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	backend = build(output, v)
}

// IsVerbose reports whether debug output is enabled.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// SetOutput redirects the log. The default is stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	backend = build(w, verbose)
}

func entry(level log.Level) *log.Entry {
	switch level {
	case log.DebugLevel:
		return backend.Debug()
	case log.InfoLevel:
		return backend.Info()
	case log.WarnLevel:
		return backend.Warn()
	default:
		return backend.Error()
	}
}

func logf(level log.Level, format string, args []any) {
	mu.Lock()
	defer mu.Unlock()
	entry(level).Msgf(format, args...)
}

// Debug logs a formatted message at debug level. It is dropped unless
// verbose mode is on.
func Debug(format string, args ...any) { logf(log.DebugLevel, format, args) }

// Info logs a formatted message at info level.
func Info(format string, args ...any) { logf(log.InfoLevel, format, args) }

// Warn logs a formatted message at warn level.
func Warn(format string, args ...any) { logf(log.WarnLevel, format, args) }

// Error logs a formatted message at error level.
func Error(format string, args ...any) { logf(log.ErrorLevel, format, args) }

// Section prints a "=== name ===" header in verbose mode.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Timer starts timing stage; calling the returned func logs the elapsed
// time at debug level.
//
//	defer logger.Timer("query")()
func Timer(stage string) func() {
	start := time.Now()
	return func() {
		Debug("%s took %s", stage, time.Since(start).Round(time.Microsecond))
	}
}
