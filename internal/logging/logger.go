// Package logging is the structured logger handed to every server component.
package logging

import "context"

// Logger is a context-aware, structured logger. Args are key/value pairs:
//
//	log.Info(ctx, "request", "method", "GET", "path", "/post/all", "status", 200)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)

	// Warn is for degraded but working setups, e.g. a missing model key.
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always carries args,
	// typically "module", "<name>".
	With(args ...any) Logger
}
