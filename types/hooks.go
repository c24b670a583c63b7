package types

import "context"

// Hooks are optional callbacks a driver can attach to a Balancer to observe
// lifecycle events without polling OwnedPartitionIDs after every tick.
//
// These run synchronously on the calling goroutine: a tick's only suspension
// points are its Store calls, and hook execution happens after those have
// already completed, so there is nothing to protect by deferring it to a
// background goroutine. A hook that panics or blocks will delay RunTick's
// return; keep them fast.
//
// All hooks are optional; a nil field is simply not called.
type Hooks struct {
	// OnClaimed is called when RunTick successfully claims a new
	// partition, with the accepted record.
	OnClaimed func(ctx context.Context, record OwnershipRecord)

	// OnLost is called when the Renewer discovers, at the start of a tick,
	// that a previously-held partition was silently reclaimed by a peer
	// (its renewal was rejected).
	OnLost func(ctx context.Context, partitionID string)

	// OnRelinquished is called once per record after Relinquish submits
	// its batch, regardless of whether that individual write was accepted.
	OnRelinquished func(ctx context.Context, partitionID string)

	// OnTickError is called whenever RunTick returns a non-nil error,
	// after the error has already been constructed. Useful for routing
	// tick failures to a driver's own logging/alerting without inspecting
	// RunTick's return value at every call site.
	OnTickError func(ctx context.Context, err error)
}
