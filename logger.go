package stringpool

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger is the logging interface used throughout the package. Pools log
// collection activity at debug level and lifecycle events at info level,
// so a level of "error" keeps them effectively silent.
type Logger interface {
	Debug(msg string)
	Debugf(format string, args ...interface{})
	Info(msg string)
	Infof(format string, args ...interface{})
	Error(msg string)
	Errorf(format string, args ...interface{})
}

// LogLevel represents the logging level.
type LogLevel int

const (
	// LogLevelDebug enables all log messages
	LogLevelDebug LogLevel = iota
	// LogLevelInfo enables info and error messages
	LogLevelInfo
	// LogLevelError enables only error messages
	LogLevelError
	// LogLevelNone disables all logging
	LogLevelNone
)

// ParseLogLevel converts a string log level to LogLevel. Unknown values
// fall back to info.
func ParseLogLevel(level string) LogLevel {
	switch level {
	case "debug", "DEBUG":
		return LogLevelDebug
	case "info", "INFO":
		return LogLevelInfo
	case "error", "ERROR":
		return LogLevelError
	case "none", "NONE":
		return LogLevelNone
	default:
		return LogLevelInfo
	}
}

// StandardLogger implements Logger on top of the standard log package,
// with separate output streams per level.
type StandardLogger struct {
	logError *log.Logger
	logInfo  *log.Logger
	logDebug *log.Logger
	level    LogLevel
}

// NewLogger creates a logger writing errors to stderr and everything else
// to stdout, filtered to the given level.
func NewLogger(level string) Logger {
	return NewStandardLogger(level, os.Stderr, os.Stdout, os.Stdout)
}

// NewStandardLogger creates a StandardLogger with explicit output streams.
// Nil writers discard their level's output.
func NewStandardLogger(level string, errorOutput, infoOutput, debugOutput io.Writer) *StandardLogger {
	if errorOutput == nil {
		errorOutput = io.Discard
	}
	if infoOutput == nil {
		infoOutput = io.Discard
	}
	if debugOutput == nil {
		debugOutput = io.Discard
	}

	return &StandardLogger{
		logError: log.New(errorOutput, "ERROR: ", log.Ldate|log.Ltime),
		logInfo:  log.New(infoOutput, "INFO: ", log.Ldate|log.Ltime),
		logDebug: log.New(debugOutput, "DEBUG: ", log.Ldate|log.Ltime),
		level:    ParseLogLevel(level),
	}
}

// Debug logs a debug message
func (l *StandardLogger) Debug(msg string) {
	if l.level <= LogLevelDebug {
		l.logDebug.Print(msg)
	}
}

// Debugf logs a formatted debug message
func (l *StandardLogger) Debugf(format string, args ...interface{}) {
	if l.level <= LogLevelDebug {
		l.logDebug.Print(fmt.Sprintf(format, args...))
	}
}

// Info logs an info message
func (l *StandardLogger) Info(msg string) {
	if l.level <= LogLevelInfo {
		l.logInfo.Print(msg)
	}
}

// Infof logs a formatted info message
func (l *StandardLogger) Infof(format string, args ...interface{}) {
	if l.level <= LogLevelInfo {
		l.logInfo.Print(fmt.Sprintf(format, args...))
	}
}

// Error logs an error message
func (l *StandardLogger) Error(msg string) {
	if l.level <= LogLevelError {
		l.logError.Print(msg)
	}
}

// Errorf logs a formatted error message
func (l *StandardLogger) Errorf(format string, args ...interface{}) {
	if l.level <= LogLevelError {
		l.logError.Print(fmt.Sprintf(format, args...))
	}
}
