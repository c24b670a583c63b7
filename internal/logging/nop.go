package logging

import "github.com/streamforge/quorumpart/types"

// NopLogger implements a no-op Logger. All calls are discarded. This is the
// default a Balancer uses when its driver doesn't supply one.
type NopLogger struct{}

// Compile-time assertion that NopLogger implements Logger.
var _ types.Logger = (*NopLogger)(nil)

// NewNop creates a new no-op logger.
func NewNop() *NopLogger {
	return &NopLogger{}
}

func (l *NopLogger) Debug(_ string, _ ...any) {}
func (l *NopLogger) Info(_ string, _ ...any)  {}
func (l *NopLogger) Warn(_ string, _ ...any)  {}
func (l *NopLogger) Error(_ string, _ ...any) {}
