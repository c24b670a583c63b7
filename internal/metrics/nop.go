package metrics

import "github.com/streamforge/quorumpart/types"

// NopMetrics implements a no-op MetricsCollector. All observations are
// discarded. Useful for testing or when no external metrics collection is
// wired up.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

func (n *NopMetrics) RecordFairShare(_, _, _ int)               {}
func (n *NopMetrics) RecordUnclaimed(_ int)                      {}
func (n *NopMetrics) RecordStealDecision(_ string)               {}
func (n *NopMetrics) RecordRenewal(_ string, _ int, _ float64)   {}
func (n *NopMetrics) RecordClaimAttempt(_ string, _ float64)     {}
func (n *NopMetrics) RecordHoldings(_ int)                       {}
