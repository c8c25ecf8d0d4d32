// Package log provides a structured logging interface for the numeric core.
//
// The interface is slog-compatible so that backends can be swapped without
// touching call sites. Two backends ship with the package: a log/slog JSON
// handler wrapped by ErrFmtHandler (which surfaces cockroachdb/errors stack
// traces) and a zerolog-backed logger. Library code obtains its logger from
// the package-level provider, which is silent until an application installs
// one with SetupLogger, SetupZerologLogger or SetLogger.
//
// Example usage:
//
//	log.SetupZerologLogger(os.Stderr, log.LevelDebug)
//	logger := log.GetLoggerWithName("linear.ridge")
//	logger.Debug("fit started",
//	    log.OperationKey, log.OperationFit,
//	    log.SamplesKey, 1000,
//	    log.FeaturesKey, 5,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are alternating key/value pairs. With returns a child logger whose
// fields are attached to every subsequent record.
type Logger interface {
	// Debug logs detailed diagnostic information.
	Debug(msg string, fields ...any)

	// Info logs general operational information.
	Info(msg string, fields ...any)

	// Warn logs a condition that does not stop the computation.
	Warn(msg string, fields ...any)

	// Error logs an error condition. Pass the error under ErrAttrKey to get
	// a stack trace from ErrFmtHandler.
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
	// Use it to skip building expensive fields.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider creates and configures loggers. It allows dependency
// injection of a logger implementation in tests.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for loggers created by this provider.
	SetLevel(level Level)
}
