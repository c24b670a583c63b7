package types

// MetricsCollector records advisory telemetry events: fair share computed,
// current-holdings count, unclaimed set size, steal-decision, renewal
// outcome, and claim-attempt outcome. None of this is part of
// the correctness contract — a Balancer must behave identically whether or
// not a collector is attached.
//
// Implementations must be non-blocking and safe for concurrent use; a
// Balancer never calls these from more than one goroutine at a time within
// a single tick, but a shared collector may be attached to several Balancer
// instances in the same process.
type MetricsCollector interface {
	// RecordFairShare records the min/max share and this instance's own
	// holdings count computed at the start of planning for a tick.
	RecordFairShare(minShare, maxShare, own int)

	// RecordUnclaimed records the size of the unclaimed set found during
	// distribution analysis.
	RecordUnclaimed(count int)

	// RecordStealDecision records the outcome of claim target selection:
	// kind is one of "orphan", "steal_over", "steal_at_max", or "none".
	RecordStealDecision(kind string)

	// RecordRenewal records the outcome of a renewal batch: outcome is one
	// of "success", "error". accepted is the number of holdings that
	// survived renewal (ignored when outcome is "error").
	RecordRenewal(outcome string, accepted int, duration float64)

	// RecordClaimAttempt records the outcome of a single claim attempt:
	// outcome is one of "accepted", "rejected", "error".
	RecordClaimAttempt(outcome string, duration float64)

	// RecordHoldings records this instance's current holdings count,
	// sampled once per completed tick.
	RecordHoldings(count int)
}
