package core

import (
	"log"
	"os"
)

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// DefaultLogger implements Logger by writing to stderr through the log package
type DefaultLogger struct {
	l *log.Logger
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{l: log.New(os.Stderr, "", log.LstdFlags)}
}

// Printf writes a formatted log line
func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	dl.l.Printf(format, args...)
}

// NopLogger discards everything; used by tests and quiet runs
type NopLogger struct{}

// Printf does nothing
func (NopLogger) Printf(format string, args ...interface{}) {}
