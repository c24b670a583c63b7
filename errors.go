package quorumpart

import "github.com/streamforge/quorumpart/types"

// Sentinel errors re-exported from the types package so callers only ever
// need to import the root package for errors.Is checks against a Balancer's
// return values.
var (
	// ErrEmptyOwnerID is returned by NewBalancer when Config.OwnerID is
	// empty. Precondition error, fatal at construction.
	ErrEmptyOwnerID = types.ErrEmptyOwnerID

	// ErrEmptyScope is returned by NewBalancer when Config.Namespace,
	// Config.Hub, or Config.ConsumerGroup is empty.
	ErrEmptyScope = types.ErrEmptyScope

	// ErrInvalidExpirationWindow is returned by NewBalancer when
	// Config.ExpirationWindow is not positive.
	ErrInvalidExpirationWindow = types.ErrInvalidExpirationWindow

	// ErrNoPartitions is returned by RunTick when called with an empty
	// partition id set.
	ErrNoPartitions = types.ErrNoPartitions

	// ErrNilStore is returned by NewBalancer when store is nil.
	ErrNilStore = types.ErrNilStore

	// ErrCanceled is returned by RunTick or Relinquish when their context
	// is canceled mid-operation.
	ErrCanceled = types.ErrCanceled
)

// IsTransient reports whether err wraps a *types.StoreError marked
// transient — a network blip, throttling, or a 5xx-equivalent the driver
// should expect to resolve on a later tick without intervention.
func IsTransient(err error) bool {
	return types.IsTransient(err)
}
