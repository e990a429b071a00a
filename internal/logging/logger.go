// Package logging is the levelled stderr logger of bugz.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// LogLevel represents logging severity.
type LogLevel int

const (
	// LogLevelDebug includes detailed debugging information.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo includes progress such as the server in use.
	LogLevelInfo
	// LogLevelWarn includes warnings about potential issues.
	LogLevelWarn
	// LogLevelError includes only error messages.
	LogLevelError
)

// String returns the label printed after " * ".
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "Debug"
	case LogLevelInfo:
		return "Info"
	case LogLevelWarn:
		return "Warning"
	case LogLevelError:
		return "Error"
	default:
		return "Unknown"
	}
}

// LevelFor maps the debug setting and quiet flag to a threshold. Quiet
// wins over debug.
func LevelFor(debug int, quiet bool) LogLevel {
	switch {
	case quiet:
		return LogLevelWarn
	case debug > 0:
		return LogLevelDebug
	default:
		return LogLevelInfo
	}
}

// Logger writes " * Level: message" lines, or JSON lines in JSON mode.
type Logger struct {
	mu       sync.Mutex
	writer   io.Writer
	level    LogLevel
	debug    int
	jsonMode bool
}

// LoggerConfig configures the logger.
type LoggerConfig struct {
	// Debug is the 0..3 debug setting; levels 2 and 3 also enable HTTP
	// tracing.
	Debug    int
	Quiet    bool
	JSONMode bool
	// Writer defaults to os.Stderr.
	Writer io.Writer
}

// NewLogger creates a Logger.
func NewLogger(cfg LoggerConfig) *Logger {
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	return &Logger{
		writer:   w,
		level:    LevelFor(cfg.Debug, cfg.Quiet),
		debug:    cfg.Debug,
		jsonMode: cfg.JSONMode,
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{writer: io.Discard, level: LogLevelError + 1}
}

type logEntry struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if l == nil || level < l.level {
		return
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var line string
	if l.jsonMode {
		b, err := json.Marshal(logEntry{
			Time:    time.Now().Format(time.RFC3339),
			Level:   level.String(),
			Message: msg,
		})
		if err == nil {
			line = string(b) + "\n"
		}
	}
	if line == "" {
		line = fmt.Sprintf(" * %s: %s\n", level, msg)
	}
	// Write errors on stderr are not actionable.
	_, _ = io.WriteString(l.writer, line)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LogLevelDebug, format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LogLevelInfo, format, args...)
}

// Warn logs a warning.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LogLevelWarn, format, args...)
}

// Error logs an error.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LogLevelError, format, args...)
}

// GetLevel returns the current threshold.
func (l *Logger) GetLevel() LogLevel {
	return l.level
}

// TraceHTTP reports whether HTTP exchanges should be dumped, and whether
// bodies should be included.
func (l *Logger) TraceHTTP() (headers, bodies bool) {
	if l == nil || l.level > LogLevelDebug {
		return false, false
	}
	return l.debug >= 2, l.debug >= 3
}

// Writer returns the underlying writer, for raw dumps.
func (l *Logger) Writer() io.Writer {
	if l == nil {
		return io.Discard
	}
	return l.writer
}
