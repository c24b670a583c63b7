package types

import "time"

// OwnershipRecord is the unit of coordination exchanged with the ownership
// store. It carries the identity of a partition, who currently claims it,
// and enough optimistic-concurrency metadata for peers to agree on writes
// without talking to each other directly.
//
// OwnershipRecord is immutable once constructed: every apparent mutation
// below (WithOwner, WithLastModified, ...) returns a new value. VersionToken is
// the only field a caller never invents — it is always either copied from a
// prior observation of the store or left at its zero value for a record
// that has never been written.
type OwnershipRecord struct {
	Namespace      string
	Hub            string
	ConsumerGroup  string
	PartitionID    string
	OwnerID        string
	LastModified   time.Time
	VersionToken   string
	hasVersion     bool
}

// NewOwnershipRecord constructs a record with no version token, suitable for
// a first-ever claim of a partition that has no prior record in the store.
func NewOwnershipRecord(namespace, hub, consumerGroup, partitionID string) OwnershipRecord {
	return OwnershipRecord{
		Namespace:     namespace,
		Hub:           hub,
		ConsumerGroup: consumerGroup,
		PartitionID:   partitionID,
	}
}

// WithVersionToken returns a copy carrying the given store-assigned version
// token. Pass an empty token with ok=false to represent "no prior version".
func (r OwnershipRecord) WithVersionToken(token string, ok bool) OwnershipRecord {
	r.VersionToken = token
	r.hasVersion = ok

	return r
}

// HasVersion reports whether VersionToken reflects an observed store write,
// as opposed to a record that has never successfully been written.
func (r OwnershipRecord) HasVersion() bool {
	return r.hasVersion
}

// WithOwner returns a copy with OwnerID replaced. Passing "" marks the
// record as unowned, the representation used by Relinquish (§4.F): the
// record still exists, but nobody currently holds it.
func (r OwnershipRecord) WithOwner(ownerID string) OwnershipRecord {
	r.OwnerID = ownerID

	return r
}

// WithLastModified returns a copy with LastModified replaced.
func (r OwnershipRecord) WithLastModified(t time.Time) OwnershipRecord {
	r.LastModified = t

	return r
}

// IsActive reports whether the record represents a live, owned partition as
// of now: it has a non-empty owner and was last modified within window.
// Everything else — an empty owner, or a stale timestamp — is an orphan,
// available to any instance that wants to claim it.
func (r OwnershipRecord) IsActive(now time.Time, window time.Duration) bool {
	if r.OwnerID == "" {
		return false
	}

	return now.Sub(r.LastModified) < window
}

// Key returns the scoping tuple plus partition ID that uniquely identifies
// this record in the store, dot-separated the way NATS subjects join their
// own segments.
func (r OwnershipRecord) Key() string {
	return r.Namespace + "." + r.Hub + "." + r.ConsumerGroup + "." + r.PartitionID
}
