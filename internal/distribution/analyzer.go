// Package distribution turns a fresh store snapshot into active/expired
// records, an owner→holdings map, and the unclaimed set.
package distribution

import (
	"time"

	"github.com/streamforge/quorumpart/types"
)

// Snapshot is the per-tick result of analyzing a fresh store listing. It
// carries no state beyond the tick that produced it.
type Snapshot struct {
	// Active maps owner id to that owner's currently active (non-expired,
	// non-empty-owner) records. Always contains the self key, possibly
	// with an empty slice.
	Active map[string][]types.OwnershipRecord

	// Unclaimed holds the partition ids from allPartitionIDs that have no
	// active owner: never recorded, or recorded but expired/unowned.
	Unclaimed []string

	// Raw is the untouched snapshot from Store.List, indexed by partition
	// id, kept so the Planner can recover version tokens for expired or
	// unowned records when it tries to claim them.
	Raw map[string]types.OwnershipRecord
}

// Analyze partitions a fresh store snapshot into the Snapshot shape planning
// needs. self is this instance's owner id, always present in the returned
// Active map even if it currently holds nothing.
func Analyze(records []types.OwnershipRecord, allPartitionIDs []string, self string, now time.Time, window time.Duration) Snapshot {
	unclaimed := make(map[string]struct{}, len(allPartitionIDs))
	for _, id := range allPartitionIDs {
		unclaimed[id] = struct{}{}
	}

	active := map[string][]types.OwnershipRecord{self: {}}
	raw := make(map[string]types.OwnershipRecord, len(records))

	for _, rec := range records {
		raw[rec.PartitionID] = rec

		if !rec.IsActive(now, window) {
			continue
		}

		active[rec.OwnerID] = append(active[rec.OwnerID], rec)
		delete(unclaimed, rec.PartitionID)
	}

	unclaimedList := make([]string, 0, len(unclaimed))
	for id := range unclaimed {
		unclaimedList = append(unclaimedList, id)
	}

	return Snapshot{
		Active:    active,
		Unclaimed: unclaimedList,
		Raw:       raw,
	}
}
