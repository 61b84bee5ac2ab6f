// Package logging defines the structured-logging interface the rest of the
// project depends on, keeping the concrete backend swappable.
package logging

import "context"

// Logger is a context-aware structured logger. The variadic args are
// alternating key-value pairs:
//
//	log.Info(ctx, "server starting", "addr", addr)
type Logger interface {
	// Debug logs a message useful only when tracing behavior.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs an unusual but non-fatal condition.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs a failure.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always carries the given key-value pairs.
	With(args ...any) Logger
}
