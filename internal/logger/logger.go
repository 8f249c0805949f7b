// Package logger provides a simple leveled logger for the handler.
// It supports three levels: off (no output), normal (info/warn/error),
// and verbose (includes debug). The logger is safe for concurrent use.
//
// Hook invocations must never write diagnostics to stdout or stderr —
// the host tool owns those streams — so the logger normally appends to
// a debug log file shared by all invocations. Each invocation tags its
// lines with a short id so interleaved processes can be told apart.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Level controls the verbosity of the logger.
type Level int

const (
	// LevelOff disables all log output.
	LevelOff Level = iota
	// LevelNormal enables info, warn, and error output.
	LevelNormal
	// LevelVerbose enables all output including debug.
	LevelVerbose
)

// Logger is a leveled logger. All methods are safe for concurrent use.
type Logger struct {
	mu     sync.RWMutex
	level  Level
	debug  *log.Logger
	info   *log.Logger
	warn   *log.Logger
	errLog *log.Logger
}

// Option configures a Logger at construction time.
type Option func(*options)

type options struct {
	tag string
}

// WithTag prefixes every line with the given tag. Use a short
// per-invocation id so concurrent hook processes writing to the same
// file remain distinguishable.
func WithTag(tag string) Option {
	return func(o *options) { o.tag = tag }
}

// New creates a logger with the given level, writing to the given output.
// If out is nil, os.Stderr is used.
func New(level Level, out io.Writer, opts ...Option) *Logger {
	if out == nil {
		out = os.Stderr
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	prefix := func(lvl string) string {
		if o.tag == "" {
			return "[" + lvl + "] "
		}
		return "[" + lvl + "] " + o.tag + " "
	}

	flags := log.Ldate | log.Ltime | log.Lmicroseconds

	return &Logger{
		level:  level,
		debug:  log.New(out, prefix("DBG"), flags),
		info:   log.New(out, prefix("INF"), flags),
		warn:   log.New(out, prefix("WRN"), flags),
		errLog: log.New(out, prefix("ERR"), flags),
	}
}

// OpenFile opens (creating if necessary) an append-only log file and
// returns it as a writer. The parent directory is created as needed.
func OpenFile(path string) (io.WriteCloser, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// SetLevel changes the log level at runtime.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current log level.
func (l *Logger) GetLevel() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// Debug logs a message at debug level (only visible in verbose mode).
func (l *Logger) Debug(format string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.level >= LevelVerbose {
		l.debug.Output(2, fmt.Sprintf(format, args...))
	}
}

// Info logs a message at info level.
func (l *Logger) Info(format string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.level >= LevelNormal {
		l.info.Output(2, fmt.Sprintf(format, args...))
	}
}

// Warn logs a message at warn level.
func (l *Logger) Warn(format string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.level >= LevelNormal {
		l.warn.Output(2, fmt.Sprintf(format, args...))
	}
}

// Error logs a message at error level.
func (l *Logger) Error(format string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.level >= LevelNormal {
		l.errLog.Output(2, fmt.Sprintf(format, args...))
	}
}
