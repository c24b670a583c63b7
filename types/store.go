package types

import "context"

// Store is the abstract ownership-store contract every Balancer instance
// depends on. It is the sole synchronization point between instances: two
// balancers never talk to each other directly, only to a shared Store.
//
// Implementations MUST honor the optimistic-concurrency rule: a write in a
// Claim batch is accepted only if its submitted VersionToken equals the
// store's current token for that key, or, for a record with no prior
// version, only if no record yet exists for that key.
//
// Store must be safe for concurrent use: multiple Balancer instances in
// different processes (and, in tests, multiple goroutines in one process)
// call List and Claim concurrently against the same backing store.
type Store interface {
	// List returns every record known for the given scope, including
	// expired and empty-owner ones. Implementations make no promises about
	// ordering; callers must not depend on it.
	//
	// A transport-level failure should be reported as a *StoreError with
	// Transient set to true when the caller can usefully retry on the next
	// tick, or false for a failure that will not resolve on retry.
	List(ctx context.Context, namespace, hub, consumerGroup string) ([]OwnershipRecord, error)

	// Claim submits a batch of proposed writes. Each record is evaluated
	// against the optimistic-concurrency rule independently of the others
	// in the batch. The returned slice contains exactly the records whose
	// write was accepted, each carrying the version token the store just
	// assigned it. A record whose write was rejected is silently omitted —
	// that is not an error, it is how an instance discovers a partition
	// changed hands.
	//
	// A transport-level failure fails the whole call and must be returned
	// as an error, not signaled by omitting every record from the result.
	Claim(ctx context.Context, batch []OwnershipRecord) ([]OwnershipRecord, error)
}
