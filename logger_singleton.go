package stringpool

import (
	"sync"
)

// NoOpLogger is a Logger that discards all output. Useful for tests and
// for embedding pools where logging is handled elsewhere.
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(msg string)                          {}
func (n *NoOpLogger) Debugf(format string, args ...interface{}) {}
func (n *NoOpLogger) Info(msg string)                           {}
func (n *NoOpLogger) Infof(format string, args ...interface{})  {}
func (n *NoOpLogger) Error(msg string)                          {}
func (n *NoOpLogger) Errorf(format string, args ...interface{}) {}

var (
	// singletonNoOpLogger is the global instance of the no-op logger
	singletonNoOpLogger *NoOpLogger
	// noOpLoggerOnce ensures the singleton is created only once
	noOpLoggerOnce sync.Once
)

// GetSingletonNoOpLogger returns the shared no-op logger instance, so
// callers silencing many pools reuse a single allocation.
func GetSingletonNoOpLogger() Logger {
	noOpLoggerOnce.Do(func() {
		singletonNoOpLogger = &NoOpLogger{}
	})
	return singletonNoOpLogger
}

// ResetSingletonNoOpLogger resets the singleton instance (mainly for testing)
func ResetSingletonNoOpLogger() {
	noOpLoggerOnce = sync.Once{}
	singletonNoOpLogger = nil
}
