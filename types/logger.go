package types

// Logger is the structured logging sink a Balancer emits its advisory
// diagnostics through: the fair-share figures when an instance is not
// eligible or finds no claim target, renewal and claim start/complete/error,
// list failures, and relinquish progress. These events are advisory, not
// part of the correctness contract.
//
// The interface is deliberately narrow enough that a *slog.Logger satisfies
// it directly; other structured loggers need a thin adapter.
type Logger interface {
	// Debug logs at debug level with structured key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs at info level with structured key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Warn logs at warn level with structured key-value pairs.
	Warn(msg string, keysAndValues ...any)

	// Error logs at error level with structured key-value pairs.
	Error(msg string, keysAndValues ...any)
}
