package ezstorage

import "context"

// Logger receives diagnostic messages from a Storage.
// Implementations should be safe for concurrent use.
type Logger interface {
	// Info logs informational messages
	Info(ctx context.Context, format string, args ...interface{})

	// Warn logs warning messages
	Warn(ctx context.Context, format string, args ...interface{})

	// Error logs backend failures
	Error(ctx context.Context, format string, args ...interface{})

	// Debug logs recovered conditions such as undecodable entries
	Debug(ctx context.Context, format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Info(ctx context.Context, format string, args ...interface{})  {}
func (noopLogger) Warn(ctx context.Context, format string, args ...interface{})  {}
func (noopLogger) Error(ctx context.Context, format string, args ...interface{}) {}
func (noopLogger) Debug(ctx context.Context, format string, args ...interface{}) {}

var defaultLogger Logger = noopLogger{}
