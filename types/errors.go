package types

import (
	"errors"
	"strings"
)

// Sentinel errors shared by internal components.
//
// Components use these instead of ad-hoc strings so callers can check
// outcomes with errors.Is, and wrap external causes with
// fmt.Errorf("%s: %w", msg, err) to keep the underlying cause inspectable.

// Precondition errors - construction-time, fatal.
var (
	// ErrEmptyOwnerID is returned when a Balancer is built without a
	// non-empty, fleet-unique owner identity.
	ErrEmptyOwnerID = errors.New("owner id must not be empty")

	// ErrEmptyScope is returned when namespace, hub, or consumer group is
	// empty; all three must be set for the lifetime of the instance.
	ErrEmptyScope = errors.New("namespace, hub, and consumer group must not be empty")

	// ErrInvalidExpirationWindow is returned when the expiration window is
	// not a positive duration.
	ErrInvalidExpirationWindow = errors.New("expiration window must be positive")

	// ErrNoPartitions is returned when RunTick is called with an empty
	// partition set; there is nothing to balance.
	ErrNoPartitions = errors.New("no partition ids supplied")

	// ErrNilStore is returned when a Balancer is constructed without a
	// Store implementation.
	ErrNilStore = errors.New("store must not be nil")
)

// Common errors - shared across multiple components.
var (
	// ErrCanceled is returned when a tick, renewal, list, or claim call is
	// aborted by context cancellation. Distinct from a transient store
	// failure: retrying immediately will not help.
	ErrCanceled = errors.New("operation canceled")

	// ErrNoKeysFound represents the "list returned nothing for this scope"
	// condition some store backends signal out-of-band rather than with an
	// empty slice.
	ErrNoKeysFound = errors.New("no keys found")
)

// IsNoKeysFoundError reports whether err indicates a Store found no records
// for the requested scope. Some backends (NATS KV among them) surface this
// as an error rather than an empty slice, either directly or wrapped.
func IsNoKeysFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNoKeysFound) {
		return true
	}

	return strings.Contains(err.Error(), "no keys found")
}

// StoreError wraps a failure raised by a Store implementation, distinguishing
// transient failures — network blips, throttling, 5xx-equivalents, worth
// retrying on the next tick — from failures that will not resolve on their
// own.
type StoreError struct {
	// Op names the Store operation that failed: "list" or "claim", or
	// "open" for store/nats.Open's bucket setup.
	Op string

	// Transient is true when a retry on the next tick is expected to help.
	Transient bool

	// Err is the underlying cause.
	Err error
}

func (e *StoreError) Error() string {
	kind := "store error"
	if e.Transient {
		kind = "transient store error"
	}

	return kind + " during " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a *StoreError marked transient.
func IsTransient(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Transient
	}

	return false
}
